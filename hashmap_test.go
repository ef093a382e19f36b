package gc

import "testing"

type nodeHasher struct{}

func (nodeHasher) Hash(k *node) uint64   { return uint64(k.val) }
func (nodeHasher) Equal(a, b *node) bool { return a.val == b.val }

func TestHashMapSetGet(t *testing.T) {
	h := testHeap(StopTheWorld)
	defer h.Close()

	m := NewHashMap[*node, *node](h, nodeHasher{})
	root := NewRootFrom(h, m)
	defer root.Release()

	for i := 0; i < 50; i++ {
		key := newNode(h, i)
		val := newNode(h, i*100)
		root.Get().Set(h, key.Deref(), val.Deref())
	}

	if root.Get().Len() != 50 {
		t.Fatalf("expected 50 entries, got %d", root.Get().Len())
	}

	for i := 0; i < 50; i++ {
		probe := &node{val: i}
		v, ok := root.Get().Get(probe)
		if !ok {
			t.Fatalf("expected key %d to be present", i)
		}
		if v.Deref().val != i*100 {
			t.Errorf("key %d: expected value %d, got %d", i, i*100, v.Deref().val)
		}
	}
}

func TestHashMapOverwrite(t *testing.T) {
	h := testHeap(StopTheWorld)
	defer h.Close()

	m := NewHashMap[*node, *node](h, nodeHasher{})
	root := NewRootFrom(h, m)
	defer root.Release()

	key := newNode(h, 1)
	root.Get().Set(h, key.Deref(), newNode(h, 10).Deref())
	root.Get().Set(h, key.Deref(), newNode(h, 20).Deref())

	if root.Get().Len() != 1 {
		t.Fatalf("overwrite should not grow the entry count, got %d", root.Get().Len())
	}
	v, ok := root.Get().Get(key.Deref())
	if !ok || v.Deref().val != 20 {
		t.Fatalf("expected overwritten value 20, got %v ok=%v", v, ok)
	}
}

func TestHashMapStressSurvivesCollection(t *testing.T) {
	h := testHeap(StopTheWorld)
	defer h.Close()

	m := NewHashMap[*node, *node](h, nodeHasher{})
	root := NewRootFrom(h, m)
	defer root.Release()

	const n = 10000
	for i := 0; i < n; i++ {
		key := newNode(h, i)
		val := newNode(h, -i)
		root.Get().Set(h, key.Deref(), val.Deref())
	}

	h.CollectFull()

	if root.Get().Len() != n {
		t.Fatalf("expected %d entries to survive, got %d", n, root.Get().Len())
	}
	probe := &node{val: n - 1}
	v, ok := root.Get().Get(probe)
	if !ok || v.Deref().val != -(n - 1) {
		t.Fatalf("expected last key to survive collection with its value intact")
	}
}
