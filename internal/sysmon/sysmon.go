// Package sysmon samples host-wide CPU and memory usage so load timings can
// be read against the state of the machine.
package sysmon

import (
	"context"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of host resource usage.
type Stats struct {
	CPUPercent   float64 // 0.0 .. 100.0, since the previous CPU reading
	MemPercent   float64 // 0.0 .. 100.0
	MemAvailable uint64  // bytes
}

// Sampler reads host usage. Unreadable values are reported as zero.
type Sampler interface {
	CPUPercent(ctx context.Context) float64
	Memory(ctx context.Context) (usedPercent float64, available uint64)
}

// Host samples the machine the process runs on.
type Host struct{}

// CPUPercent returns system-wide CPU usage since the previous call. The
// first call on a fresh process measures from boot.
func (Host) CPUPercent(ctx context.Context) float64 {
	pcts, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil || len(pcts) == 0 {
		return 0
	}
	return pcts[0]
}

// Memory returns the used share and available bytes of virtual memory.
func (Host) Memory(ctx context.Context) (float64, uint64) {
	vmem, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil || vmem == nil {
		return 0, 0
	}
	return vmem.UsedPercent, vmem.Available
}

// Sample collects one snapshot from s.
func Sample(ctx context.Context, s Sampler) Stats {
	st := Stats{CPUPercent: s.CPUPercent(ctx)}
	st.MemPercent, st.MemAvailable = s.Memory(ctx)
	return st
}
