package gc

// Visitor is passed to an object's Trace method during marking. Every
// managed child reachable from the object must be reported through it
// exactly once; Ref and Field both expose a Visit method so Trace
// implementations just forward to their members.
type Visitor struct {
	heap *Heap
}

func (v *Visitor) visit(child Object) {
	v.heap.shade(child)
}
