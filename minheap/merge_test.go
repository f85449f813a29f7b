package minheap

import (
	"errors"
	"slices"
	"testing"

	"github.com/zeebo/assert"

	"github.com/idxheap/idxheap/testhelp"
)

func TestMerge(t *testing.T) {
	t.Run("Scenario", func(t *testing.T) {
		h1, err := Build([]int64{5, 10, 15}, nil)
		assert.NoError(t, err)
		h2, err := Build([]int64{3, 12, 20}, nil)
		assert.NoError(t, err)

		b1, b2 := h1.Values(), h2.Values()

		m, err := h1.Merge(h2)
		assert.NoError(t, err)
		check(t, m)
		assert.Equal(t, m.Len(), 6)

		got, err := m.PeekMin()
		assert.NoError(t, err)
		assert.Equal(t, got, 3)

		// inputs untouched
		assert.DeepEqual(t, h1.Values(), b1)
		assert.DeepEqual(t, h2.Values(), b2)
	})

	t.Run("Nil", func(t *testing.T) {
		h, err := Build([]int64{2, 1, 3}, nil)
		assert.NoError(t, err)

		m, err := h.Merge(nil)
		assert.NoError(t, err)
		check(t, m)
		assert.DeepEqual(t, m.Values(), h.Values())

		// the copy owns its storage
		assert.NoError(t, m.Insert(0))
		assert.Equal(t, h.Len(), 3)
		assert.That(t, !h.Contains(0))
	})

	t.Run("Overlap", func(t *testing.T) {
		h1, err := Build([]int64{1, 2, 3}, nil)
		assert.NoError(t, err)
		h2, err := Build([]int64{3, 4}, nil)
		assert.NoError(t, err)

		_, err = h1.Merge(h2)
		assert.That(t, errors.Is(err, ErrDuplicate))

		// inputs untouched even on failure
		assert.Equal(t, h1.Len(), 3)
		assert.Equal(t, h2.Len(), 2)
		check(t, h1)
		check(t, h2)
	})

	t.Run("Empty", func(t *testing.T) {
		h1, err := Build(nil, nil)
		assert.NoError(t, err)
		h2, err := Build(nil, nil)
		assert.NoError(t, err)

		m, err := h1.Merge(h2)
		assert.NoError(t, err)
		assert.That(t, m.Empty())
	})

	t.Run("Random", func(t *testing.T) {
		vals := testhelp.Values(1000)
		h1, err := Build(vals[:500], nil)
		assert.NoError(t, err)
		h2, err := Build(vals[500:], nil)
		assert.NoError(t, err)

		m, err := h1.Merge(h2)
		assert.NoError(t, err)
		check(t, m)
		assert.Equal(t, m.Len(), 1000)

		want := slices.Clone(vals)
		slices.Sort(want)
		assert.DeepEqual(t, drain(t, m), want)

		assert.Equal(t, h1.Len(), 500)
		assert.Equal(t, h2.Len(), 500)
	})
}

func TestClone(t *testing.T) {
	h, err := Build([]int64{7, 1, 4}, nil)
	assert.NoError(t, err)

	c := h.Clone()
	check(t, c)
	assert.DeepEqual(t, c.Values(), h.Values())

	_, err = c.ExtractMin()
	assert.NoError(t, err)
	assert.Equal(t, h.Len(), 3)
	assert.That(t, h.Contains(1))
}
