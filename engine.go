package gc

// markBatch is the per-call budget for markSome, matching the
// original's mark_some(10) call sites scaled up slightly since Go
// function-call overhead for scan() is higher than the original's
// inlined C++ path.
const markBatch = 64

// shade transitions obj from WHITE to GRAY and enqueues it on its
// segment's work list. No-op for nil, and for anything already GRAY or
// BLACK -- the CAS makes this race-safe when multiple goroutines shade
// the same object concurrently.
func (h *Heap) shade(obj Object) {
	if obj == nil {
		return
	}
	hdr := obj.header()
	if hdr.casColor(White, Gray) {
		h.segments[hdr.segment].push(obj)
	}
}

// scan blackens a GRAY object: traces its children (shading each
// reachable target), then marks it BLACK. Non-traceable objects have no
// children to shade and go straight to BLACK.
func (h *Heap) scan(obj Object) {
	if tr, ok := obj.(Traceable); ok {
		tr.Trace(&Visitor{heap: h})
	}
	obj.header().setColor(Black)
}

// nextWork pulls the next GRAY object from whichever segment has one.
func (h *Heap) nextWork() Object {
	for i := range h.segments {
		if obj := h.segments[i].pop(); obj != nil {
			return obj
		}
	}
	return nil
}

func (h *Heap) workListsEmpty() bool {
	for i := range h.segments {
		if !h.segments[i].workEmpty() {
			return false
		}
	}
	return true
}

// markSome drains up to budget entries from the work lists, scanning
// each. It reports whether the work lists were fully drained (false) or
// there is more work beyond this budget (true) -- mirroring the
// original mark_some's "more work may remain" contract exactly.
func (h *Heap) markSome(budget int) (moreWork bool) {
	for i := 0; i < budget; i++ {
		obj := h.nextWork()
		if obj == nil {
			return false
		}
		h.scan(obj)
	}
	return !h.workListsEmpty()
}

// markToFixpoint drains every segment's work list completely, fanning
// out across worker goroutines when parallel marking is enabled.
func (h *Heap) markToFixpoint() {
	timePhase(&h.stats.mark, func() {
		if h.parallelMarkEnabled() {
			h.parallelMarkToFixpoint()
			return
		}
		for h.markSome(markBatch) {
		}
	})
}

// scanRoots shades then immediately scans every currently rooted
// object -- matching src/gc.cpp's scan_roots, which scans roots
// directly rather than deferring them to the mark loop.
func (h *Heap) scanRoots() {
	h.roots.forEach(func(obj Object) {
		hdr := obj.header()
		hdr.setColor(Gray)
		h.scan(obj)
	})
}

// resetAllToWhite walks every segment's object list and resets every
// object to WHITE, and empties every segment's work list, the first step
// of a full synchronous cycle.
func (h *Heap) resetAllToWhite() {
	for i := range h.segments {
		s := &h.segments[i]
		s.listMu.Lock()
		for cur := s.head; cur != nil; cur = cur.header().next {
			cur.header().setColor(White)
		}
		s.listMu.Unlock()
		s.workMu.Lock()
		clear(s.work)
		s.work = s.work[:0]
		s.workMu.Unlock()
	}
}

// sweep walks every segment's object list: BLACK objects survive and
// reset to WHITE; WHITE objects are unlinked and freed. A GRAY object
// at sweep time is an invariant violation -- the mark phase must have
// reached fixpoint first.
func (h *Heap) sweep() {
	timePhase(&h.stats.sweep, func() {
		if h.parallelSweepEnabled() {
			h.parallelSweep()
			return
		}
		for i := range h.segments {
			h.sweepSegment(&h.segments[i])
		}
	})
}

func (h *Heap) sweepSegment(s *segment) {
	s.listMu.Lock()
	defer s.listMu.Unlock()

	var prevHdr *Header
	var newHead Object
	for cur := s.head; cur != nil; {
		hdr := cur.header()
		next := hdr.next
		switch hdr.Color() {
		case Black:
			hdr.setColor(White)
			if prevHdr == nil {
				newHead = cur
			} else {
				prevHdr.next = cur
			}
			prevHdr = hdr
		case Gray:
			fatalf("gc: GRAY object encountered at sweep, mark phase did not reach fixpoint")
		case White:
			if hdr.IsRoot() {
				fatalf("gc: rooted object observed WHITE at sweep in segment %d", s.idx)
			}
			h.free(cur)
		}
		cur = next
	}
	if prevHdr != nil {
		prevHdr.next = nil
	}
	s.head = newHead
}

// poolReturner is implemented by object types backed by a chunkalloc
// pool, letting free() recycle their slot instead of abandoning it to
// the garbage collector.
type poolReturner interface {
	returnToPool()
}

// free marks obj dead and subtracts its size from the heap's
// accounting. Go's own allocator and garbage collector reclaim the
// bytes in the general case; types backed by a chunkalloc pool return
// their slot explicitly via poolReturner.
func (h *Heap) free(obj Object) {
	hdr := obj.header()
	hdr.alive.Store(false)
	h.stats.frees.Add(1)
	h.accountFree(hdr.size)
	if pr, ok := obj.(poolReturner); ok {
		pr.returnToPool()
	}
}
