package profiler

import (
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-preview/common"
)

// StageTiming is the wall time spent in one named step of a render.
type StageTiming struct {
	Name     string
	Duration time.Duration
}

// Profiler records per-render stage timings and memory statistics.
// A nil *Profiler is valid and records nothing, so callers never need to check.
type Profiler struct {
	mu sync.Mutex

	start    time.Time
	last     time.Time
	stages   []StageTiming
	memStats runtime.MemStats

	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewProfiler creates a new Profiler.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	now := time.Now()
	return &Profiler{start: now, last: now}
}

// Begin starts a new render, discarding the stages of the previous one.
func (p *Profiler) Begin() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.start = time.Now()
	p.last = p.start
	p.stages = p.stages[:0]
}

// Mark closes the current stage under the given name. The stage spans the time since the
// previous Mark or Begin.
//
// Parameters:
//   - stage: the stage name
func (p *Profiler) Mark(stage string) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.stages = append(p.stages, StageTiming{Name: stage, Duration: now.Sub(p.last)})
	p.last = now
}

// Stages returns a copy of the stages recorded since Begin.
//
// Returns:
//   - []StageTiming: the stage timings in recording order
func (p *Profiler) Stages() []StageTiming {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]StageTiming, len(p.stages))
	copy(out, p.stages)
	return out
}

// Report logs the recorded stages and the current memory statistics at debug level.
// Statistics include: heap usage, allocation since the last report, GC count and the
// longest GC pause since the last report.
//
// Parameters:
//   - label: identifies the render in the log record
func (p *Profiler) Report(label string) {
	if p == nil {
		return
	}
	log := common.Logger()

	p.mu.Lock()
	defer p.mu.Unlock()

	attrs := make([]any, 0, len(p.stages)+6)
	attrs = append(attrs, "render", label, "total", p.last.Sub(p.start))
	for _, s := range p.stages {
		attrs = append(attrs, slog.Duration(s.Name, s.Duration))
	}

	runtime.ReadMemStats(&p.memStats)
	heapMB := float64(p.memStats.Alloc) / 1024 / 1024
	allocMB := float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024

	// PauseNs is a circular buffer of the last 256 GC pauses
	gcCount := p.memStats.NumGC
	var maxPause time.Duration
	startIdx := p.lastGCCount
	if gcCount-startIdx > 256 {
		startIdx = gcCount - 256
	}
	for i := startIdx; i < gcCount; i++ {
		maxPause = max(maxPause, time.Duration(p.memStats.PauseNs[i%256]))
	}
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc

	attrs = append(attrs, "heap_mb", heapMB, "alloc_mb", allocMB, "gc", gcCount, "gc_max_pause", maxPause)
	log.Debug("render profile", attrs...)
}
