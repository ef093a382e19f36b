package gc

import (
	"reflect"
	"sync"
)

// noCopy lets `go vet`'s copylocks check flag accidental copies of a
// Field, the way the original's Member<T> deletes its copy/move
// constructors. It is a zero-cost marker; it does no actual locking.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

var sizeCache sync.Map // reflect.Type -> uintptr

func sizeOfPointee(obj any) uintptr {
	t := reflect.TypeOf(obj)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if v, ok := sizeCache.Load(t); ok {
		return v.(uintptr)
	}
	sz := t.Size()
	sizeCache.Store(t, sz)
	return sz
}

// Ref[T] is a transient, non-owning reference to a managed object: a
// bare pointer that does not participate in the Root Set. It is only
// valid while some Root keeps its target reachable.
type Ref[T Object] struct {
	ptr T
}

// IsNil reports whether r refers to no object.
func (r Ref[T]) IsNil() bool { return r.ptr == nil }

// Deref returns the underlying pointer. It asserts the target hasn't
// already been swept -- a dangling Ref, dereferenced, is a programming
// error the collector can catch cheaply since Alive is one atomic load.
func (r Ref[T]) Deref() T {
	if r.ptr != nil && !r.ptr.header().Alive() {
		fatalf("gc: dereferenced a Ref to a swept object")
	}
	return r.ptr
}

// Visit reports r's target to v, if any. Trace implementations call
// this for every Ref-typed member.
func (r Ref[T]) Visit(v *Visitor) {
	if r.ptr != nil {
		v.visit(r.ptr)
	}
}

// New allocates a managed object via ctor, links it into the heap (in
// whichever segment the heap chooses) and, under INCREMENTAL/CONCURRENT,
// shades it immediately so an object born mid-cycle survives that
// cycle even before anything points to it -- the "allocation color"
// rule from the root barrier section.
func New[T Object](h *Heap, ctor func() T) Ref[T] {
	h.EnterSafePoint()

	obj := ctor()
	hdr := obj.header()
	size := sizeOfPointee(obj)
	hdr.size = size

	h.prepareAllocation(size)

	hdr.segment = int32(h.chooseSegment())
	h.segments[hdr.segment].link(obj)
	hdr.alive.Store(true)
	h.stats.allocations.Add(1)
	h.accountAllocation(size)

	if h.needsAllocationShade() {
		h.shade(obj)
	}

	return Ref[T]{ptr: obj}
}

// Root[T] is a scoped stack root: while held, it keeps its target
// reachable. Go has no destructors, so Release must be called exactly
// once -- typically via defer -- to undo the root barrier; this is the
// idiomatic Go analogue of the original's RAII-scoped Local<T>.
type Root[T Object] struct {
	heap *Heap
	ref  Ref[T]
}

// MakeRoot allocates a T via ctor and returns it already rooted,
// combining allocation with the root barrier in one step (the
// original's Local<T>::make).
func MakeRoot[T Object](h *Heap, ctor func() T) Root[T] {
	ref := New(h, ctor)
	h.root(ref.ptr)
	return Root[T]{heap: h, ref: ref}
}

// NewRootFrom wraps an existing Ref as a Root, performing the root
// barrier.
func NewRootFrom[T Object](h *Heap, ref Ref[T]) Root[T] {
	if !ref.IsNil() {
		h.root(ref.ptr)
	}
	return Root[T]{heap: h, ref: ref}
}

// Ref returns a transient reference to r's target.
func (r Root[T]) Ref() Ref[T] { return r.ref }

// Get returns the underlying pointer (see Ref.Deref).
func (r Root[T]) Get() T { return r.ref.Deref() }

func (r Root[T]) IsNil() bool { return r.ref.IsNil() }

// Release undoes the root barrier. Safe to call on an already-released
// or zero-value Root.
func (r *Root[T]) Release() {
	if r.ref.ptr == nil {
		return
	}
	r.heap.unroot(r.ref.ptr.header())
	r.ref.ptr = nil
}

// Set re-points the root at target, rooting it before releasing the
// previous target so an object is never transiently unrooted.
func (r *Root[T]) Set(target T) {
	if target == r.ref.ptr {
		return
	}
	if target != nil {
		r.heap.root(target)
	}
	prev := r.ref.ptr
	r.ref.ptr = target
	if prev != nil {
		r.heap.unroot(prev.header())
	}
}

// Field[T] is a heap-interior reference equipped with the write
// barrier: it must be bound to the managed object that physically
// contains it (its parent), since the Dijkstra insertion barrier only
// needs to fire when that parent is already BLACK.
type Field[T Object] struct {
	_      noCopy
	ref    Ref[T]
	parent Object
}

// NewField binds a zero-valued Field to parent. Call this for every
// Field member inside a type's constructor, the way the original binds
// Member<T> to `this`.
func NewField[T Object](parent Object) Field[T] {
	return Field[T]{parent: parent}
}

// Get returns a transient reference to the field's current target.
func (f *Field[T]) Get() Ref[T] { return f.ref }

// Set performs the Dijkstra insertion write barrier: if the barrier is
// active and the parent is BLACK, the new target is shaded before the
// pointer is overwritten, so a concurrently marking collector can never
// lose track of it.
func (f *Field[T]) Set(h *Heap, target T) {
	h.EnterSafePoint()
	if target == f.ref.ptr {
		return
	}
	if target != nil && h.needsWriteBarrier() && f.parent.header().Color() == Black {
		h.shade(target)
	}
	f.ref.ptr = target
}

// Visit reports the field's target to v, if any.
func (f *Field[T]) Visit(v *Visitor) {
	if f.ref.ptr != nil {
		v.visit(f.ref.ptr)
	}
}
