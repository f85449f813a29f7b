package minheap

import (
	"strconv"
	"strings"

	"github.com/zeebo/errs/v2"

	"github.com/idxheap/idxheap/posmap"
)

// DefaultCapacity is the backing store size used when a caller has no better
// guess.
const DefaultCapacity = 16

var (
	ErrCapacity     = errs.Errorf("minheap: capacity must be positive")
	ErrEmpty        = errs.Errorf("minheap: heap is empty")
	ErrDuplicate    = errs.Errorf("minheap: value already present")
	ErrNotFound     = errs.Errorf("minheap: value not in heap")
	ErrNotADecrease = errs.Errorf("minheap: new value must be smaller")
)

// Sink observes the primitive work a heap performs: element comparisons,
// element swaps, backing array accesses, and backing array allocations. All
// calls happen synchronously from the operation that caused them, so
// implementations must be cheap. A nil Sink disables observation and changes
// no behavior.
type Sink interface {
	Compares(n int)
	Swaps(n int)
	Accesses(n int)
	Allocs(n int)
}

// T is a binary min-heap over unique int64 values with a value to index
// position map, giving O(1) membership and O(log n) decrease-key. The heap is
// embedded in a slice: the children of index i live at 2i+1 and 2i+2.
//
// Every structural mutation keeps the sequence and the position map
// consistent: map[v] == i exactly when vals[i] == v. Operations that fail
// leave the heap unchanged. Not safe for concurrent mutation.
type T struct {
	_ [0]func() // no equality

	vals []int64
	pos  posmap.T
	sink Sink
}

// New returns an empty heap whose backing store holds capacity values before
// the first regrowth. The sink may be nil.
func New(capacity int, sink Sink) (*T, error) {
	if capacity < 1 {
		return nil, ErrCapacity
	}
	t := &T{
		vals: make([]int64, 0, capacity),
		sink: sink,
	}
	t.alloc(1)
	return t, nil
}

// Build returns a heap holding the given values, heapified bottom-up in O(n):
// every index from len/2-1 down to 0 is sifted down. The input slice is not
// retained. Repeated values fail with ErrDuplicate.
func Build(vals []int64, sink Sink) (*T, error) {
	buf := make([]int64, len(vals), max(len(vals), DefaultCapacity))
	copy(buf, vals)
	return build(buf, sink)
}

// build heapifies in place, taking ownership of vals.
func build(vals []int64, sink Sink) (*T, error) {
	t := &T{
		vals: vals,
		sink: sink,
	}
	t.alloc(1)
	t.access(len(vals))

	for i, v := range vals {
		if _, ok := t.pos.Insert(v, uint32(i)); ok {
			return nil, ErrDuplicate
		}
	}
	for i := len(vals)/2 - 1; i >= 0; i-- {
		t.siftDown(i)
	}
	return t, nil
}

func (t *T) Len() int    { return len(t.vals) }
func (t *T) Cap() int    { return cap(t.vals) }
func (t *T) Empty() bool { return len(t.vals) == 0 }

func (t *T) Size() uint64 {
	return 0 +
		/* vals */ 24 + 8*uint64(cap(t.vals)) +
		/* pos  */ t.pos.Size() +
		/* sink */ 16 +
		0
}

// Reset clears the heap back to an empty state, keeping the allocation.
func (t *T) Reset() {
	t.vals = t.vals[:0]
	t.pos.Reset()
}

// Insert adds v to the heap. Fails with ErrDuplicate if v is already present.
func (t *T) Insert(v int64) error {
	if _, ok := t.pos.Find(v); ok {
		return ErrDuplicate
	}
	if len(t.vals) == cap(t.vals) {
		t.grow()
	}

	i := len(t.vals)
	t.vals = append(t.vals, v)
	t.pos.Insert(v, uint32(i))
	t.access(1)
	t.siftUp(i)
	return nil
}

// ExtractMin removes and returns the smallest value. Fails with ErrEmpty.
func (t *T) ExtractMin() (int64, error) {
	if len(t.vals) == 0 {
		return 0, ErrEmpty
	}

	m := t.vals[0]
	t.access(1)
	t.pos.Delete(m)

	last := len(t.vals) - 1
	if last > 0 {
		t.vals[0] = t.vals[last]
		t.access(2)
		t.pos.Insert(t.vals[0], 0)
	}
	t.vals = t.vals[:last]
	if last > 0 {
		t.siftDown(0)
	}
	return m, nil
}

// PeekMin returns the smallest value without removing it. Fails with ErrEmpty.
func (t *T) PeekMin() (int64, error) {
	if len(t.vals) == 0 {
		return 0, ErrEmpty
	}
	t.access(1)
	return t.vals[0], nil
}

// DecreaseKey replaces the value from with the strictly smaller value to,
// restoring the heap property upward from its slot. The checks happen in
// order: from must be present (ErrNotFound), to must be strictly smaller
// (ErrNotADecrease), and to must not already be present (ErrDuplicate).
func (t *T) DecreaseKey(from, to int64) error {
	i, ok := t.pos.Find(from)
	if !ok {
		return ErrNotFound
	}
	if to >= from {
		return ErrNotADecrease
	}
	if _, ok := t.pos.Find(to); ok {
		return ErrDuplicate
	}

	t.vals[i] = to
	t.access(1)
	t.pos.Delete(from)
	t.pos.Insert(to, i)
	t.siftUp(int(i))
	return nil
}

// Contains reports whether v is in the heap.
func (t *T) Contains(v int64) bool {
	_, ok := t.pos.Find(v)
	return ok
}

// Values returns a copy of the backing sequence in heap order.
func (t *T) Values() []int64 {
	out := make([]int64, len(t.vals))
	copy(out, t.vals)
	return out
}

func (t *T) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range t.vals {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatInt(v, 10))
	}
	sb.WriteByte(']')
	return sb.String()
}

// siftUp moves the value at i toward the root while it is smaller than its
// parent.
func (t *T) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		t.access(2)
		t.compare(1)
		if t.vals[i] >= t.vals[p] {
			break
		}
		t.swapAt(i, p)
		i = p
	}
}

// siftDown moves the value at i toward the leaves while it is larger than
// its smallest child.
func (t *T) siftDown(i int) {
	for {
		small := i
		if l := 2*i + 1; l < len(t.vals) {
			t.access(2)
			t.compare(1)
			if t.vals[l] < t.vals[small] {
				small = l
			}
		}
		if r := 2*i + 2; r < len(t.vals) {
			t.access(2)
			t.compare(1)
			if t.vals[r] < t.vals[small] {
				small = r
			}
		}
		if small == i {
			return
		}
		t.swapAt(i, small)
		i = small
	}
}

// swapAt exchanges two slots and repoints both position map entries.
func (t *T) swapAt(i, j int) {
	t.vals[i], t.vals[j] = t.vals[j], t.vals[i]
	t.pos.Insert(t.vals[i], uint32(i))
	t.pos.Insert(t.vals[j], uint32(j))
	t.swap(1)
	t.access(4)
}

func (t *T) grow() {
	next := make([]int64, len(t.vals), 2*cap(t.vals))
	copy(next, t.vals)
	t.vals = next
	t.alloc(1)
	t.access(len(t.vals))
}

func (t *T) compare(n int) {
	if t.sink != nil {
		t.sink.Compares(n)
	}
}

func (t *T) swap(n int) {
	if t.sink != nil {
		t.sink.Swaps(n)
	}
}

func (t *T) access(n int) {
	if t.sink != nil {
		t.sink.Accesses(n)
	}
}

func (t *T) alloc(n int) {
	if t.sink != nil {
		t.sink.Allocs(n)
	}
}
