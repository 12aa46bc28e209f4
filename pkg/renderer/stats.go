package renderer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
)

// WorkerStats accumulates what one worker rendered
type WorkerStats struct {
	WorkerID int
	Chunks   int
	Pixels   int
	Busy     time.Duration
}

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width           int
	Height          int
	TotalPixels     int // Pixels written by workers
	TotalSamples    int // Camera rays traced
	SamplesPerPixel int
	Chunks          int
	Workers         []WorkerStats
	Duration        time.Duration // Wall time of the render
	Host            *HostInfo     // Optional; shown in the table footer
}

func newRenderStats(config Config, numWorkers int) RenderStats {
	stats := RenderStats{
		Width:           config.Width,
		Height:          config.Height,
		SamplesPerPixel: config.SamplesPerPixel,
		Workers:         make([]WorkerStats, numWorkers),
	}
	for i := range stats.Workers {
		stats.Workers[i].WorkerID = i
	}
	return stats
}

// addChunk folds a finished chunk into the totals
func (s *RenderStats) addChunk(result ChunkResult) {
	s.Chunks++
	s.TotalPixels += result.Pixels
	s.TotalSamples += result.Pixels * s.SamplesPerPixel

	worker := &s.Workers[result.WorkerID]
	worker.Chunks++
	worker.Pixels += result.Pixels
	worker.Busy += result.Duration
}

// SamplesPerSecond returns the sampling throughput over wall time
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Duration.Seconds()
}

// Table renders per-worker statistics as a text table
func (s RenderStats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Worker", "Chunks", "Pixels", "% of frame", "Busy time"})

	for _, worker := range s.Workers {
		percent := 0.0
		if s.TotalPixels > 0 {
			percent = 100 * float64(worker.Pixels) / float64(s.TotalPixels)
		}
		table.Append([]string{
			fmt.Sprintf("#%d", worker.WorkerID),
			fmt.Sprintf("%d", worker.Chunks),
			fmt.Sprintf("%d", worker.Pixels),
			fmt.Sprintf("%02.1f %%", percent),
			worker.Busy.Round(time.Millisecond).String(),
		})
	}

	host := ""
	if s.Host != nil {
		host = s.Host.String()
	}
	table.SetFooter([]string{
		host,
		fmt.Sprintf("%d", s.Chunks),
		fmt.Sprintf("%d", s.TotalPixels),
		fmt.Sprintf("%.0f samples/s", s.SamplesPerSecond()),
		s.Duration.Round(time.Millisecond).String(),
	})

	table.Render()
	return buf.String()
}
