package gc

import (
	"sync"
	"sync/atomic"

	"github.com/shiinamiyuki/concurrent-gc/internal/gclog"
)

// Heap is one instance of the collector: a segmented object space, a
// root set, and a scheduler driving one of the three collection
// policies. Most programs use the process-global heap via Init/Destroy;
// NewHeap is available for tests, and for embedding more than one
// independent heap in a process.
type Heap struct {
	options  Options
	segments []segment
	roots    rootSet
	log      *gclog.Logger

	allocBytes atomic.Uint64

	sched schedulerState

	stats stats
}

var (
	globalHeap   *Heap
	globalHeapMu sync.Mutex
)

// Init installs the process-global heap. Calling Init twice without an
// intervening Destroy is a fatal misuse, matching the original's
// abort-on-double-init (src/gc.cpp's init()).
func Init(opts Options) {
	globalHeapMu.Lock()
	defer globalHeapMu.Unlock()
	if globalHeap != nil {
		fatalf("gc: Init called twice without an intervening Destroy")
	}
	globalHeap = NewHeap(opts)
}

// Destroy runs a final full collection and tears down the process-global
// heap. It is a no-op if Init was never called.
func Destroy() {
	globalHeapMu.Lock()
	defer globalHeapMu.Unlock()
	if globalHeap == nil {
		return
	}
	globalHeap.Close()
	globalHeap = nil
}

// Default returns the process-global heap installed by Init. It is
// fatal to call before Init, matching the original's get_heap() assert.
func Default() *Heap {
	globalHeapMu.Lock()
	defer globalHeapMu.Unlock()
	if globalHeap == nil {
		fatalf("gc: heap not initialized, call Init first")
	}
	return globalHeap
}

// NewHeap builds a standalone heap that is not installed as the
// process global. Tests that want isolation between cases should
// prefer this over Init/Destroy.
func NewHeap(opts Options) *Heap {
	if opts.Segments < 1 {
		opts.Segments = 1
	}
	h := &Heap{
		options:  opts,
		segments: make([]segment, opts.Segments),
		log:      gclog.New(""),
	}
	for i := range h.segments {
		h.segments[i].idx = i
	}
	h.sched.init(h)
	return h
}

// Close stops any background collector goroutines, runs one final full
// collection, and asserts every segment's object list is empty
// afterward -- a leak here is a programming error (a dangling Root), not
// something to paper over.
func (h *Heap) Close() {
	h.sched.stop()
	h.CollectFull()
	for i := range h.segments {
		if h.segments[i].head != nil {
			fatalf("gc: memory leak detected in segment %d on Close", i)
		}
	}
}

func (h *Heap) chooseSegment() int {
	n := len(h.segments)
	if n == 1 {
		return 0
	}
	return int(h.stats.allocations.Load() % uint64(n))
}

func (h *Heap) accountAllocation(size uintptr) {
	h.allocBytes.Add(uint64(size))
}

func (h *Heap) accountFree(size uintptr) {
	h.allocBytes.Add(^(uint64(size) - 1)) // two's-complement subtraction
}

func (h *Heap) usedBytes() uint64 { return h.allocBytes.Load() }

// root performs the root barrier's acquisition half: increments
// root_refs, and on the 0->1 transition, inserts into the Root Set and
// shades the target.
func (h *Heap) root(obj Object) {
	if h.roots.incRoot(obj.header(), obj) {
		h.shade(obj)
	}
}

// unroot performs the root barrier's release half.
func (h *Heap) unroot(hdr *Header) {
	h.roots.decRoot(hdr)
}
