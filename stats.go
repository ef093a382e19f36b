package gc

import (
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// durationStat accumulates a running mean and variance of a phase's
// wall-clock duration using Welford's online algorithm, so reporting
// Stats never requires retaining every sample.
type durationStat struct {
	mu    sync.Mutex
	n     uint64
	mean  float64
	m2    float64
	min   time.Duration
	max   time.Duration
}

func (d *durationStat) observe(dur time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.n++
	x := float64(dur)
	delta := x - d.mean
	d.mean += delta / float64(d.n)
	d.m2 += delta * (x - d.mean)
	if d.n == 1 || dur < d.min {
		d.min = dur
	}
	if dur > d.max {
		d.max = dur
	}
}

func (d *durationStat) snapshot() PhaseStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	var stddev float64
	if d.n > 1 {
		stddev = math.Sqrt(d.m2 / float64(d.n-1))
	}
	return PhaseStats{
		Count:  d.n,
		Mean:   time.Duration(d.mean),
		StdDev: time.Duration(stddev),
		Min:    d.min,
		Max:    d.max,
	}
}

// PhaseStats is a point-in-time snapshot of one phase's timing
// distribution.
type PhaseStats struct {
	Count  uint64
	Mean   time.Duration
	StdDev time.Duration
	Min    time.Duration
	Max    time.Duration
}

// stats holds the Heap's counters and phase timers. All fields are
// updated from multiple goroutines without external locking.
type stats struct {
	allocations atomic.Uint64
	frees       atomic.Uint64
	cycles      atomic.Uint64

	mark        durationStat
	sweep       durationStat
	mutatorWait durationStat
}

// Stats is an exported snapshot of a Heap's lifetime counters, safe to
// retain and compare across calls.
type Stats struct {
	Allocations uint64
	Frees       uint64
	Cycles      uint64
	LiveBytes   uint64

	Mark        PhaseStats
	Sweep       PhaseStats
	MutatorWait PhaseStats
}

// Stats returns a snapshot of the heap's allocation counters and
// per-phase timing distributions.
func (h *Heap) Stats() Stats {
	return Stats{
		Allocations: h.stats.allocations.Load(),
		Frees:       h.stats.frees.Load(),
		Cycles:      h.stats.cycles.Load(),
		LiveBytes:   h.usedBytes(),
		Mark:        h.stats.mark.snapshot(),
		Sweep:       h.stats.sweep.snapshot(),
		MutatorWait: h.stats.mutatorWait.snapshot(),
	}
}

// timePhase runs fn and records its duration into stat.
func timePhase(stat *durationStat, fn func()) {
	start := time.Now()
	fn()
	stat.observe(time.Since(start))
}
