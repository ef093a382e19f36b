package gc

import "sync"

// parallelMarkEnabled reports whether marking should fan out across
// worker goroutines rather than run on the calling goroutine alone.
func (h *Heap) parallelMarkEnabled() bool {
	return h.options.WorkerCount > 0
}

// parallelSweepEnabled reports whether sweeping should run one
// goroutine per segment. Only worth it with more than one segment.
func (h *Heap) parallelSweepEnabled() bool {
	return h.options.WorkerCount > 0 && len(h.segments) > 1
}

// parallelSweep dispatches one goroutine per segment; each segment's
// list mutex already makes this safe without further coordination.
func (h *Heap) parallelSweep() {
	var wg sync.WaitGroup
	wg.Add(len(h.segments))
	for i := range h.segments {
		s := &h.segments[i]
		go func() {
			defer wg.Done()
			h.sweepSegment(s)
		}()
	}
	wg.Wait()
}

// parallelMarkToFixpoint runs Options.WorkerCount goroutines, each
// repeatedly pulling from whichever segment has work (Heap.nextWork
// already scans every segment), until a full round finds every segment's
// work list empty. A single worker observing its own segment empty does
// not mean marking is done: another worker may be about to shade a new
// child into that segment mid-scan. Each round is a barrier (wg.Wait);
// after the barrier, workListsEmpty is rechecked across all segments,
// and a fresh round of workers is launched if it is not, so no worker
// can return while another is still producing gray work.
func (h *Heap) parallelMarkToFixpoint() {
	w := h.options.WorkerCount
	if w < 1 {
		w = 1
	}
	for {
		var wg sync.WaitGroup
		wg.Add(w)
		for i := 0; i < w; i++ {
			go func() {
				defer wg.Done()
				for h.markSome(markBatch) {
				}
			}()
		}
		wg.Wait()
		if h.workListsEmpty() {
			return
		}
	}
}
