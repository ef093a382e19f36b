package gc

import "testing"

func TestArrayGetSet(t *testing.T) {
	h := testHeap(StopTheWorld)
	defer h.Close()

	arr := NewArray[*node](h, 4)
	if arr.Deref().Len() != 4 {
		t.Fatalf("expected len 4, got %d", arr.Deref().Len())
	}

	n := newNode(h, 7)
	arr.Deref().Set(h, 2, n.Deref())

	if got := arr.Deref().Get(2); got.Deref().val != 7 {
		t.Errorf("expected val 7 at index 2, got %d", got.Deref().val)
	}
	if got := arr.Deref().Get(0); !got.IsNil() {
		t.Errorf("expected nil slot at index 0")
	}
}

func TestArrayOutOfRangeIsFatal(t *testing.T) {
	h := testHeap(StopTheWorld)
	defer h.Close()

	arr := NewArray[*node](h, 2)

	var caught string
	restore := withFatalHook(func(msg string) { caught = msg })
	defer restore()

	arr.Deref().Get(5)
	if caught == "" {
		t.Fatal("expected fatalf for out-of-range Get")
	}
}

func TestArrayTraceVisitsSlots(t *testing.T) {
	h := testHeap(StopTheWorld)
	defer h.Close()

	arr := NewArray[*node](h, 2)
	child := newNode(h, 1)
	arr.Deref().Set(h, 0, child.Deref())

	root := NewRootFrom(h, arr)
	defer root.Release()

	h.CollectFull()

	if !child.Deref().header().Alive() {
		t.Fatal("array should have traced and kept its child alive")
	}
}
