package gc

import (
	"container/list"
	"sync/atomic"
)

// Object is the minimal interface every managed type satisfies, by
// embedding Header as its first field. It carries no tracing
// obligation; Traceable adds that.
type Object interface {
	header() *Header
}

// Traceable is an Object that reports its outgoing managed references.
// A type that embeds Header but never defines Trace is simply not
// traceable -- the same "no trace method" shape the original's
// as_tracable() returning nullptr expresses, except here it falls out
// of Go's own interface satisfaction rather than a virtual override.
type Traceable interface {
	Object
	Trace(v *Visitor)
}

// Header is the fixed metadata prefixed to every managed object. It
// must be the first embedded field of any type used as a type
// parameter to Ref/Root/Field/New, so that converting *T to Object
// yields a well-defined, non-dereferencing nil when the pointer is nil.
type Header struct {
	color atomic.Uint32 // Color

	alive atomic.Bool

	segment int32   // index into Heap.segments, fixed at allocation
	size    uintptr // estimated byte footprint, for heap accounting

	// rootRefs and rootCursor are guarded by the owning Heap's root set
	// mutex; rootRefs > 0 iff rootCursor != nil.
	rootRefs   int32
	rootCursor *list.Element

	// next is the intrusive link in the owning segment's object list,
	// guarded by that segment's list mutex.
	next Object
}

func (h *Header) header() *Header { return h }

// Color returns the object's current mark color.
func (h *Header) Color() Color { return Color(h.color.Load()) }

func (h *Header) setColor(c Color) { h.color.Store(uint32(c)) }

func (h *Header) casColor(old, new Color) bool {
	return h.color.CompareAndSwap(uint32(old), uint32(new))
}

// Alive reports whether the object has survived every sweep so far.
// Once false, it has been unlinked and its storage is free for reuse.
func (h *Header) Alive() bool { return h.alive.Load() }

// IsRoot reports whether the object currently has at least one live
// Root handle. Best-effort outside the root set lock; intended for
// diagnostics, not for making collection decisions.
func (h *Header) IsRoot() bool { return h.rootCursor != nil }
