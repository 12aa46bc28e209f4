package loaders

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// testImage is a 2x2 image: white, red on top; green, blue below
func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	img.Set(0, 1, color.RGBA{R: 0, G: 255, B: 0, A: 255})
	img.Set(1, 1, color.RGBA{R: 0, G: 0, B: 255, A: 255})
	return img
}

func checkColor(t *testing.T, name string, got, expected core.Vec3, tolerance float64) {
	t.Helper()
	if abs(got.X-expected.X) > tolerance ||
		abs(got.Y-expected.Y) > tolerance ||
		abs(got.Z-expected.Z) > tolerance {
		t.Errorf("%s: expected %v, got %v", name, expected, got)
	}
}

func TestSaveAndLoadImage(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		tolerance float64
	}{
		{"PNG", "test.png", 0.01},
		{"BMP", "test.bmp", 0.01},
		{"TIFF", "test.tiff", 0.01},
		{"TIF in a new directory", filepath.Join("nested", "dir", "test.tif"), 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := SaveImage(path, testImage()); err != nil {
				t.Fatalf("SaveImage failed: %v", err)
			}

			imageData, err := LoadImage(path)
			if err != nil {
				t.Fatalf("LoadImage failed: %v", err)
			}
			if imageData.Width != 2 || imageData.Height != 2 || len(imageData.Pixels) != 4 {
				t.Fatalf("Expected 2x2 image, got %dx%d with %d pixels", imageData.Width, imageData.Height, len(imageData.Pixels))
			}

			// Row-major from the top row
			checkColor(t, "Top-left (white)", imageData.Pixels[0], core.NewVec3(1, 1, 1), tt.tolerance)
			checkColor(t, "Top-right (red)", imageData.Pixels[1], core.NewVec3(1, 0, 0), tt.tolerance)
			checkColor(t, "Bottom-left (green)", imageData.Pixels[2], core.NewVec3(0, 1, 0), tt.tolerance)
			checkColor(t, "Bottom-right (blue)", imageData.Pixels[3], core.NewVec3(0, 0, 1), tt.tolerance)
		})
	}
}

func TestSaveImage_JPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}

	path := filepath.Join(t.TempDir(), "flat.jpg")
	if err := SaveImage(path, img); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	imageData, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	checkColor(t, "Flat color", imageData.Pixels[0], core.NewVec3(200.0/255, 100.0/255, 50.0/255), 0.05)
}

func TestSaveImage_UnknownExtension(t *testing.T) {
	if err := SaveImage(filepath.Join(t.TempDir(), "out.gif"), testImage()); err == nil {
		t.Error("Expected an error for an unsupported extension")
	}
}

func TestLoadImageNotFound(t *testing.T) {
	if _, err := LoadImage("nonexistent.png"); err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}

func TestLoadImageNotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "text.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	if _, err := LoadImage(path); err == nil {
		t.Error("Expected a decode error")
	}
}

func TestImageData_Texture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.png")
	if err := SaveImage(path, testImage()); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	imageData, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}

	// v=0 is the bottom row of the image
	texture := imageData.Texture()
	checkColor(t, "Bottom-left", texture.Evaluate(core.NewVec2(0, 0), core.Vec3{}), core.NewVec3(0, 1, 0), 0.01)
	checkColor(t, "Top-right", texture.Evaluate(core.NewVec2(1, 1), core.Vec3{}), core.NewVec3(1, 0, 0), 0.01)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
