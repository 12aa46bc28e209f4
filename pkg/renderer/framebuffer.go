package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// Framebuffer holds the summed, unnormalized radiance of every pixel.
// Rows are stored top-down: pixel (i, j) with j counted from the bottom
// lives at index (Height-1-j)*Width + i.
type Framebuffer struct {
	Width           int
	Height          int
	SamplesPerPixel int
	Pixels          []core.Vec3
}

// NewFramebuffer allocates a black framebuffer
func NewFramebuffer(width, height, samplesPerPixel int) *Framebuffer {
	return &Framebuffer{
		Width:           width,
		Height:          height,
		SamplesPerPixel: samplesPerPixel,
		Pixels:          make([]core.Vec3, width*height),
	}
}

// Index returns the slot of pixel (i, j), with j counted from the bottom row
func (fb *Framebuffer) Index(i, j int) int {
	return (fb.Height-1-j)*fb.Width + i
}

// ToneMapChannel averages a summed channel over samples, applies gamma 2,
// and quantizes to 8 bits. NaN becomes 0.
func ToneMapChannel(sum float64, samples int) uint8 {
	if math.IsNaN(sum) {
		sum = 0
	}
	c := math.Sqrt(sum / float64(samples))
	if math.IsNaN(c) || c < 0 {
		c = 0
	}
	if c > 0.999 {
		c = 0.999
	}
	return uint8(256 * c)
}

// ToneMap converts the accumulated radiance into an 8-bit image
func (fb *Framebuffer) ToneMap() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	samples := fb.SamplesPerPixel
	if samples < 1 {
		samples = 1
	}

	for index, pixel := range fb.Pixels {
		img.SetRGBA(index%fb.Width, index/fb.Width, color.RGBA{
			R: ToneMapChannel(pixel.X, samples),
			G: ToneMapChannel(pixel.Y, samples),
			B: ToneMapChannel(pixel.Z, samples),
			A: 255,
		})
	}
	return img
}

// AverageLuminance returns the mean luminance of an 8-bit image in [0, 1]
func AverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			total += core.NewVec3(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255).Luminance()
		}
	}
	return total / float64(pixels)
}
