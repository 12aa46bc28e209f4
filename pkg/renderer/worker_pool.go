package renderer

import (
	"sync"
	"time"
)

// ChunkTask is a run of consecutive framebuffer slots rendered by one worker
type ChunkTask struct {
	TaskID int // Chunk index; also offsets the sampler seed
	Start  int // First framebuffer slot
	End    int // One past the last slot
}

// ChunkResult reports a finished chunk
type ChunkResult struct {
	TaskID   int
	WorkerID int
	Pixels   int
	Duration time.Duration
}

// WorkerPool manages parallel chunk rendering
type WorkerPool struct {
	taskQueue   chan ChunkTask
	resultQueue chan ChunkResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker pulls chunks off the shared queue until it is closed
type Worker struct {
	ID          int
	raytracer   *Raytracer
	framebuffer *Framebuffer
	taskQueue   chan ChunkTask
	resultQueue chan ChunkResult
}

// NewWorkerPool creates a pool whose queues can hold queueSize chunks without blocking
func NewWorkerPool(raytracer *Raytracer, framebuffer *Framebuffer, numWorkers, queueSize int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = 1
	}

	wp := &WorkerPool{
		taskQueue:   make(chan ChunkTask, queueSize),
		resultQueue: make(chan ChunkResult, queueSize),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			raytracer:   raytracer,
			framebuffer: framebuffer,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop closes the task queue, waits for the workers to drain it, and closes the results
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// SubmitTask submits a chunk to the worker pool
func (wp *WorkerPool) SubmitTask(task ChunkTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed chunk result
func (wp *WorkerPool) GetResult() (ChunkResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop. Chunks never overlap, so writes into the
// framebuffer need no locking.
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		start := time.Now()
		w.raytracer.renderChunk(task, w.framebuffer)

		w.resultQueue <- ChunkResult{
			TaskID:   task.TaskID,
			WorkerID: w.ID,
			Pixels:   task.End - task.Start,
			Duration: time.Since(start),
		}
	}
}
