package renderer

import (
	"fmt"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

// HostInfo summarizes the machine a render ran on
type HostInfo struct {
	CPUModel     string
	LogicalCores int
	TotalMemory  uint64 // bytes
}

// DescribeHost queries the CPU model, logical core count and physical memory
func DescribeHost() (HostInfo, error) {
	var info HostInfo

	cpus, err := cpu.Info()
	if err != nil {
		return info, fmt.Errorf("reading cpu info: %w", err)
	}
	if len(cpus) > 0 {
		info.CPUModel = cpus[0].ModelName
	}

	cores, err := cpu.Counts(true)
	if err != nil {
		return info, fmt.Errorf("counting cpus: %w", err)
	}
	info.LogicalCores = cores

	memory, err := mem.VirtualMemory()
	if err != nil {
		return info, fmt.Errorf("reading memory info: %w", err)
	}
	info.TotalMemory = memory.Total

	return info, nil
}

// String formats the host as "model, N cores, X.Y GiB"
func (h HostInfo) String() string {
	model := h.CPUModel
	if model == "" {
		model = "unknown cpu"
	}
	return fmt.Sprintf("%s, %d cores, %.1f GiB", model, h.LogicalCores, float64(h.TotalMemory)/(1<<30))
}
