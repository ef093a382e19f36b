package gc

import (
	"fmt"

	"github.com/shiinamiyuki/concurrent-gc/internal/config"
)

// Mode selects one of the three interchangeable collection policies.
type Mode int

const (
	StopTheWorld Mode = iota
	Incremental
	Concurrent
)

func (m Mode) String() string {
	switch m {
	case StopTheWorld:
		return "stw"
	case Incremental:
		return "incremental"
	case Concurrent:
		return "concurrent"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func parseMode(s string) (Mode, error) {
	switch s {
	case "", "stw":
		return StopTheWorld, nil
	case "incremental":
		return Incremental, nil
	case "concurrent":
		return Concurrent, nil
	default:
		return StopTheWorld, fmt.Errorf("gc: unknown collector mode %q", s)
	}
}

// Options configures a Heap. Zero value is not directly usable; start
// from DefaultOptions.
type Options struct {
	Mode Mode

	// MaxHeapBytes is the hard ceiling: an allocation that would cross
	// it forces a synchronous collection (under INCREMENTAL, the cycle in
	// progress is finished at once); under CONCURRENT the allocating
	// goroutine instead blocks until a collector cycle has returned the
	// heap to IDLE with enough room.
	MaxHeapBytes uint64

	// GCThreshold is the fraction of MaxHeapBytes past which a new
	// cycle is started (INCREMENTAL: entered from IDLE; CONCURRENT: a
	// collector goroutine is woken).
	GCThreshold float64

	// CollectorThreads is the number of background collector goroutines
	// started under CONCURRENT; only one of them runs a cycle at a time.
	// Ignored otherwise.
	CollectorThreads int

	// WorkerCount, when positive, fans marking out across that many
	// goroutines instead of running it on the caller, and sweeps with
	// one goroutine per segment when there is more than one segment.
	WorkerCount int

	// Segments is the number of independent segments the heap is split
	// into; allocations round-robin across them.
	Segments int

	// FullDebug disables the chunk allocator's pooling (every object is
	// a fresh allocation, every free returns it to the garbage
	// collector's runtime immediately) so tools like the race detector
	// and leak checkers see real allocation lifetimes.
	FullDebug bool
}

// DefaultOptions returns the configuration src/gc.h's gc_options_t
// defaults to: stop-the-world, a generous heap ceiling, a single
// segment, no parallelism.
func DefaultOptions() Options {
	return Options{
		Mode:             StopTheWorld,
		MaxHeapBytes:     256 << 20,
		GCThreshold:      0.7,
		CollectorThreads: 1,
		WorkerCount:      0,
		Segments:         1,
		FullDebug:        false,
	}
}

// LoadOptionsFile reads a gc.toml configuration file and overlays it
// onto DefaultOptions.
func LoadOptionsFile(path string) (Options, error) {
	f, err := config.Load(path)
	if err != nil {
		return Options{}, err
	}
	opts := DefaultOptions()
	mode, err := parseMode(f.Collector.Mode)
	if err != nil {
		return Options{}, err
	}
	opts.Mode = mode
	if f.Collector.MaxHeapBytes != 0 {
		opts.MaxHeapBytes = f.Collector.MaxHeapBytes
	}
	if f.Collector.GCThreshold != 0 {
		opts.GCThreshold = f.Collector.GCThreshold
	}
	if f.Collector.CollectorThreads != 0 {
		opts.CollectorThreads = f.Collector.CollectorThreads
	}
	opts.WorkerCount = f.Collector.WorkerCount
	opts.FullDebug = f.Collector.FullDebug
	return opts, nil
}

// Save writes opts out as a gc.toml configuration file.
func (o Options) Save(path string) error {
	f := &config.File{
		Collector: config.CollectorSection{
			Mode:             o.Mode.String(),
			MaxHeapBytes:     o.MaxHeapBytes,
			GCThreshold:      o.GCThreshold,
			CollectorThreads: o.CollectorThreads,
			WorkerCount:      o.WorkerCount,
			FullDebug:        o.FullDebug,
		},
	}
	return f.Save(path)
}
