package minheap

// Merge returns a fresh heap holding the values of both t and o, built from
// the concatenated sequences with one O(n+m) bottom-up heapify. Neither input
// is modified and the result shares no storage with them. The value sets must
// be disjoint: overlap fails with ErrDuplicate. A nil o yields a copy of t.
//
// The result reports to t's sink.
func (t *T) Merge(o *T) (*T, error) {
	if o == nil {
		return t.Clone(), nil
	}

	buf := make([]int64, 0, max(len(t.vals)+len(o.vals), DefaultCapacity))
	buf = append(buf, t.vals...)
	buf = append(buf, o.vals...)
	return build(buf, t.sink)
}

// Clone returns an independent copy of the heap, layout included.
func (t *T) Clone() *T {
	n := &T{
		vals: make([]int64, len(t.vals), max(cap(t.vals), DefaultCapacity)),
		sink: t.sink,
	}
	copy(n.vals, t.vals)
	for i, v := range n.vals {
		n.pos.Insert(v, uint32(i))
	}
	n.alloc(1)
	n.access(len(n.vals))
	return n
}
