package renderer

import (
	"runtime"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
	"github.com/df07/go-weekend-raytracer/pkg/log"
)

// Config contains rendering configuration
type Config struct {
	Width           int   // Image width in pixels
	Height          int   // Image height in pixels
	SamplesPerPixel int   // Number of rays per pixel
	MaxDepth        int   // Maximum ray bounce depth
	NumWorkers      int   // Worker goroutines; 0 means runtime.NumCPU()
	ChunkSize       int   // Pixels per work item
	Seed            int64 // Base seed; chunk k samples with Seed+k
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		NumWorkers:      0,
		ChunkSize:       8,
		Seed:            42,
	}
}

// Raytracer renders a camera view of a scene through an integrator
type Raytracer struct {
	integrator integrator.Integrator
	camera     *Camera
	config     Config
	logger     log.Logger
}

// NewRaytracer creates a new raytracer. Zero worker and chunk counts fall back to defaults.
func NewRaytracer(integratorInst integrator.Integrator, camera *Camera, config Config, logger log.Logger) *Raytracer {
	if config.NumWorkers <= 0 {
		config.NumWorkers = runtime.NumCPU()
	}
	if config.ChunkSize <= 0 {
		config.ChunkSize = DefaultConfig().ChunkSize
	}
	if logger == nil {
		logger = log.New("renderer")
	}
	return &Raytracer{
		integrator: integratorInst,
		camera:     camera,
		config:     config,
		logger:     logger,
	}
}

// Config returns the effective configuration
func (rt *Raytracer) Config() Config {
	return rt.config
}

// Render samples every pixel and returns the accumulated framebuffer.
// Work is split into chunks of consecutive pixels handed out dynamically to the
// worker pool; each chunk owns its framebuffer slots and its own seeded sampler,
// so the result does not depend on the number of workers.
func (rt *Raytracer) Render() (*Framebuffer, RenderStats) {
	start := time.Now()
	fb := NewFramebuffer(rt.config.Width, rt.config.Height, rt.config.SamplesPerPixel)

	totalPixels := rt.config.Width * rt.config.Height
	numChunks := (totalPixels + rt.config.ChunkSize - 1) / rt.config.ChunkSize
	rt.logger.Infof("rendering %dx%d at %d spp, depth %d: %d chunks on %d workers",
		rt.config.Width, rt.config.Height, rt.config.SamplesPerPixel, rt.config.MaxDepth, numChunks, rt.config.NumWorkers)

	pool := NewWorkerPool(rt, fb, rt.config.NumWorkers, numChunks)
	pool.Start()
	for k := 0; k < numChunks; k++ {
		begin := k * rt.config.ChunkSize
		pool.SubmitTask(ChunkTask{
			TaskID: k,
			Start:  begin,
			End:    min(begin+rt.config.ChunkSize, totalPixels),
		})
	}
	pool.Stop()

	stats := newRenderStats(rt.config, pool.GetNumWorkers())
	for {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		stats.addChunk(result)
	}
	stats.Duration = time.Since(start)

	rt.logger.Debugf("render finished in %s (%.0f samples/s)", stats.Duration, stats.SamplesPerSecond())
	return fb, stats
}

// renderChunk fills framebuffer slots [task.Start, task.End).
// Slot k is pixel i = k % Width of row j = Height-1-k/Width, counted from the bottom.
func (rt *Raytracer) renderChunk(task ChunkTask, fb *Framebuffer) {
	sampler := core.NewSeededSampler(rt.config.Seed + int64(task.TaskID))
	for index := task.Start; index < task.End; index++ {
		i := index % fb.Width
		j := fb.Height - 1 - index/fb.Width
		fb.Pixels[fb.Index(i, j)] = rt.samplePixel(i, j, sampler)
	}
}

// samplePixel sums SamplesPerPixel jittered traces through pixel (i, j)
func (rt *Raytracer) samplePixel(i, j int, sampler core.Sampler) core.Vec3 {
	uScale := float64(max(rt.config.Width-1, 1))
	vScale := float64(max(rt.config.Height-1, 1))

	var colorAccum core.Vec3
	for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
		s := (float64(i) + sampler.Get1D()) / uScale
		t := (float64(j) + sampler.Get1D()) / vScale
		ray := rt.camera.GetRay(s, t, sampler)
		colorAccum = colorAccum.Add(rt.integrator.RayColor(ray, sampler))
	}
	return colorAccum
}
