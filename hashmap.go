package gc

import "github.com/shiinamiyuki/concurrent-gc/internal/chunkalloc"

const (
	hashMapMinBuckets = 16
	hashMapLoadFactor = 0.75
)

// Hasher supplies the hash and equality operations HashMap needs for
// key type K, standing in for the operator overloads the original
// leans on.
type Hasher[K Object] interface {
	Hash(k K) uint64
	Equal(a, b K) bool
}

// hashBucket is one chained entry in a HashMap's bucket array. pool and
// poolSize are set at construction so a swept bucket can return its
// slot for reuse instead of letting every insert and rehash churn Go's
// own allocator directly; they are plain fields, not Field[T], since
// they point at infrastructure rather than heap data.
type hashBucket[K Object, V Object] struct {
	Header
	key   Field[K]
	value Field[V]
	next  Field[*hashBucket[K, V]]

	pool     *chunkalloc.Allocator[hashBucket[K, V]]
	poolSize uintptr
}

// returnToPool implements the free-time hook engine.go's free() looks
// for, recycling this bucket's slot once it has been swept.
func (b *hashBucket[K, V]) returnToPool() {
	if b.pool == nil {
		return
	}
	pool, size := b.pool, b.poolSize
	var zero hashBucket[K, V]
	*b = zero
	pool.Put(size, b)
}

func (b *hashBucket[K, V]) Trace(v *Visitor) {
	b.key.Visit(v)
	b.value.Visit(v)
	b.next.Visit(v)
}

// HashMap[K,V] is a managed, chained-bucket hash map keyed by K storing
// V. Rehashing doubles the bucket array once the load factor is
// crossed, the way the original's GcHashMap grows.
type HashMap[K Object, V Object] struct {
	Header
	buckets Field[*Array[*hashBucket[K, V]]]
	count   int
	hasher  Hasher[K]

	bucketPool *chunkalloc.Allocator[hashBucket[K, V]]
	bucketSize uintptr
}

// NewHashMap allocates an empty HashMap using hasher for key hashing
// and equality.
func NewHashMap[K Object, V Object](h *Heap, hasher Hasher[K]) Ref[*HashMap[K, V]] {
	return New(h, func() *HashMap[K, V] {
		size := sizeOfPointee(&hashBucket[K, V]{})
		m := &HashMap[K, V]{
			hasher:     hasher,
			bucketSize: size,
			bucketPool: chunkalloc.New[hashBucket[K, V]](size, h.options.FullDebug),
		}
		m.buckets = NewField[*Array[*hashBucket[K, V]]](m)
		return m
	})
}

func (m *HashMap[K, V]) Len() int { return m.count }

func (m *HashMap[K, V]) bucketIndex(key K, n int) int {
	return int(m.hasher.Hash(key) % uint64(n))
}

// Get looks up key, reporting whether it was present.
func (m *HashMap[K, V]) Get(key K) (Ref[V], bool) {
	arr := m.buckets.Get().Deref()
	if arr == nil {
		var zero Ref[V]
		return zero, false
	}
	idx := m.bucketIndex(key, arr.Len())
	for cur := arr.Get(idx); !cur.IsNil(); cur = cur.Deref().next.Get() {
		b := cur.Deref()
		if m.hasher.Equal(b.key.Get().Deref(), key) {
			return b.value.Get(), true
		}
	}
	var zero Ref[V]
	return zero, false
}

// Set inserts or overwrites the value for key.
func (m *HashMap[K, V]) Set(h *Heap, key K, value V) {
	h.EnterSafePoint()
	arr := m.buckets.Get().Deref()
	if arr == nil || arr.Len() == 0 {
		m.rehash(h, hashMapMinBuckets)
		arr = m.buckets.Get().Deref()
	}

	idx := m.bucketIndex(key, arr.Len())
	for cur := arr.Get(idx); !cur.IsNil(); cur = cur.Deref().next.Get() {
		b := cur.Deref()
		if m.hasher.Equal(b.key.Get().Deref(), key) {
			b.value.Set(h, value)
			return
		}
	}

	head := arr.Get(idx)
	newBucket := New(h, func() *hashBucket[K, V] {
		b := m.bucketPool.Get(m.bucketSize)
		b.pool = m.bucketPool
		b.poolSize = m.bucketSize
		b.key = NewField[K](b)
		b.value = NewField[V](b)
		b.next = NewField[*hashBucket[K, V]](b)
		return b
	})
	newBucket.Deref().key.Set(h, key)
	newBucket.Deref().value.Set(h, value)
	newBucket.Deref().next.Set(h, head.Deref())
	arr.Set(h, idx, newBucket.Deref())
	m.count++

	if float64(m.count) > float64(arr.Len())*hashMapLoadFactor {
		m.rehash(h, arr.Len()*2)
	}
}

// rehash replaces the bucket array with one of newSize slots and
// relinks every existing entry into it.
func (m *HashMap[K, V]) rehash(h *Heap, newSize int) {
	if newSize < hashMapMinBuckets {
		newSize = hashMapMinBuckets
	}
	newArr := NewArray[*hashBucket[K, V]](h, newSize)
	old := m.buckets.Get().Deref()
	if old != nil {
		for i := 0; i < old.Len(); i++ {
			for cur := old.Get(i); !cur.IsNil(); {
				b := cur.Deref()
				next := b.next.Get()
				idx := int(m.hasher.Hash(b.key.Get().Deref()) % uint64(newSize))
				b.next.Set(h, newArr.Deref().Get(idx).Deref())
				newArr.Deref().Set(h, idx, b)
				cur = next
			}
		}
	}
	m.buckets.Set(h, newArr.Deref())
}

func (m *HashMap[K, V]) Trace(v *Visitor) {
	m.buckets.Visit(v)
}
