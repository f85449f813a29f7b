package posmap

import (
	"encoding/binary"
	"math"
	"math/bits"
	"unsafe"

	"github.com/zeebo/xxh3"
)

const (
	flagsEmpty = 0b00000000
	flagsTomb  = 0b01000000
	flagsHit   = 0b10000000

	maxLoadFactor = 0.8
)

func np2(x uint64) uint64 { return 1 << (uint(bits.Len64(x-1)) % 64) }

func digest(k int64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(k))
	return xxh3.Hash(buf[:])
}

type slot struct {
	k int64
	v uint32
	m uint8
}

// T maps heap values to their index in the backing sequence. It is a flat
// open addressed table with linear probing and tombstone deletion, sized to
// powers of two. The zero value is an empty map.
//
// Probe chains terminate on an empty slot. The load factor bound counts
// tombstones as occupied, so a chain always finds an empty slot eventually.
type T struct {
	_ [0]func() // no equality

	slots []slot
	mask  uint64
	eles  int
	used  int
	full  int
}

func (t *T) Len() int { return t.eles }

func (t *T) Size() uint64 {
	return 0 +
		/* slots */ 24 + uint64(unsafe.Sizeof(slot{}))*uint64(len(t.slots)) +
		/* mask  */ 8 +
		/* eles  */ 8 +
		/* used  */ 8 +
		/* full  */ 8 +
		0
}

// Reset clears the map back to an empty state, keeping the allocation.
func (t *T) Reset() {
	clear(t.slots)
	t.eles = 0
	t.used = 0
}

func (t *T) Find(k int64) (uint32, bool) {
	if t.eles == 0 {
		return 0, false
	}
	for i := digest(k) & t.mask; ; i = (i + 1) & t.mask {
		s := &t.slots[i]
		if s.m == flagsEmpty {
			return 0, false
		}
		if s.m == flagsHit && s.k == k {
			return s.v, true
		}
	}
}

// Insert sets the index for k, reusing the first tombstone on the probe
// chain if the key is new. It returns the previous index and true if the
// key was already present.
func (t *T) Insert(k int64, v uint32) (uint32, bool) {
	if t.used >= t.full {
		t.grow()
	}

	ti, tomb := uint64(0), false
	for i := digest(k) & t.mask; ; i = (i + 1) & t.mask {
		s := &t.slots[i]
		switch {
		case s.m == flagsEmpty:
			if tomb {
				s = &t.slots[ti]
			} else {
				t.used++
			}
			*s = slot{k: k, v: v, m: flagsHit}
			t.eles++
			return v, false

		case s.m == flagsTomb:
			if !tomb {
				ti, tomb = i, true
			}

		case s.k == k:
			p := s.v
			s.v = v
			return p, true
		}
	}
}

// Delete removes k, reporting whether it was present.
func (t *T) Delete(k int64) bool {
	if t.eles == 0 {
		return false
	}
	for i := digest(k) & t.mask; ; i = (i + 1) & t.mask {
		s := &t.slots[i]
		if s.m == flagsEmpty {
			return false
		}
		if s.m == flagsHit && s.k == k {
			s.m = flagsTomb
			t.eles--
			return true
		}
	}
}

func (t *T) grow() {
	nslots := max(128, np2(2*(t.mask+1)))
	nslots = max(nslots, np2(uint64(math.Ceil(float64(t.eles)/maxLoadFactor))))

	slots := t.slots
	t.slots = make([]slot, nslots)
	t.mask = nslots - 1
	t.eles = 0
	t.used = 0
	t.full = int(float64(nslots) * maxLoadFactor)

	// rehashing drops accumulated tombstones
	for i := range slots {
		s := &slots[i]
		if s.m == flagsHit {
			t.Insert(s.k, s.v)
		}
	}
}
