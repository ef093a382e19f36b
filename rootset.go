package gc

import (
	"container/list"
	"sync"
)

// rootSet is the unordered collection of objects currently kept
// reachable by a live Root handle, with O(1) insert/remove via the
// stable cursor container/list hands back from PushBack/Remove.
type rootSet struct {
	mu sync.Mutex
	l  list.List
}

// incRoot increments obj's root_refs; on the 0->1 transition it inserts
// obj into the set and reports firstRoot so the caller can shade it
// (outside this lock, to keep the lock order simple: root set, then
// work list).
func (rs *rootSet) incRoot(h *Header, obj Object) (firstRoot bool) {
	rs.mu.Lock()
	h.rootRefs++
	firstRoot = h.rootRefs == 1
	if firstRoot {
		h.rootCursor = rs.l.PushBack(obj)
	}
	rs.mu.Unlock()
	return firstRoot
}

// decRoot decrements obj's root_refs; on the ->0 transition it removes
// obj from the set.
func (rs *rootSet) decRoot(h *Header) {
	rs.mu.Lock()
	h.rootRefs--
	switch {
	case h.rootRefs == 0:
		rs.l.Remove(h.rootCursor)
		h.rootCursor = nil
	case h.rootRefs < 0:
		rs.mu.Unlock()
		fatalf("gc: root released more times than acquired")
		return
	}
	rs.mu.Unlock()
}

// forEach calls fn for every currently rooted object, under the lock.
// Used for scanning roots, so fn should be cheap (shade, or shade+scan).
func (rs *rootSet) forEach(fn func(Object)) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	for e := rs.l.Front(); e != nil; e = e.Next() {
		fn(e.Value.(Object))
	}
}

func (rs *rootSet) len() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.l.Len()
}
