package metrics

import (
	"context"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agbru/flightdash/internal/sysmon"
)

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc   uint64 // bytes in use by the process
	Sys         uint64 // total bytes obtained from the OS
	NumGC       uint32 // completed GC cycles
	Goroutines  int    // live goroutines, including in-flight fetches
	HeapObjects uint64 // allocated heap objects
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:   m.HeapAlloc,
		Sys:         m.Sys,
		NumGC:       m.NumGC,
		Goroutines:  runtime.NumGoroutine(),
		HeapObjects: m.HeapObjects,
	}
}

// registerMemory exposes the snapshot fields as gauges read at scrape time.
func registerMemory(reg prometheus.Registerer, mc *MemoryCollector) {
	gauge := func(name, help string, read func(MemorySnapshot) float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{Name: name, Help: help}, func() float64 {
			return read(mc.Snapshot())
		})
	}
	reg.MustRegister(
		gauge("flightdash_heap_alloc_bytes", "Heap bytes in use.", func(s MemorySnapshot) float64 { return float64(s.HeapAlloc) }),
		gauge("flightdash_sys_bytes", "Bytes obtained from the OS.", func(s MemorySnapshot) float64 { return float64(s.Sys) }),
		gauge("flightdash_goroutines", "Live goroutines.", func(s MemorySnapshot) float64 { return float64(s.Goroutines) }),
		gauge("flightdash_heap_objects", "Allocated heap objects.", func(s MemorySnapshot) float64 { return float64(s.HeapObjects) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "flightdash_gc_cycles_total",
			Help: "Completed GC cycles.",
		}, func() float64 { return float64(mc.Snapshot().NumGC) }),
	)
}

// registerHost exposes host-wide usage read through s at scrape time.
func registerHost(reg prometheus.Registerer, s sysmon.Sampler) {
	reg.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "flightdash_host_cpu_percent",
			Help: "Host CPU usage since the previous scrape.",
		}, func() float64 { return s.CPUPercent(context.Background()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "flightdash_host_memory_percent",
			Help: "Host virtual memory in use.",
		}, func() float64 {
			used, _ := s.Memory(context.Background())
			return used
		}),
	)
}
