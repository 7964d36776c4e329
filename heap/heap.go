package heap

import (
	"github.com/joshuapare/heapkit/heap/arena"
	"github.com/joshuapare/heapkit/internal/format"
)

// Ptr is the arena offset of an allocation's payload.
type Ptr = uint32

// NilPtr is the null payload reference. Offset 0 can never be a payload
// because a header always precedes it.
const NilPtr Ptr = 0

// nilRegion marks the absence of a region. Offset 0 is a valid region
// start, so the sentinel is all-ones.
const nilRegion uint32 = 0xFFFFFFFF

// Heap is a free-store instance over one arena. The zero value is not
// usable; create instances with New.
type Heap struct {
	a *arena.Arena

	// Address-ordered region list bounds. The forward direction is derived
	// from region sizes; only these two ends are stored.
	first uint32
	last  uint32

	// Segregated free lists: list k holds free regions whose payload
	// capacity is in [2^k, 2^(k+1)). Heads are region offsets.
	freeLists [format.MaxFreeListIndex]uint32

	stats OpStats
}

// New creates a heap over the given arena. No arena space is consumed
// until the first allocation.
func New(a *arena.Arena) *Heap {
	h := &Heap{a: a}
	h.forgetRegions()
	return h
}

// Arena returns the underlying arena.
func (h *Heap) Arena() *arena.Arena {
	return h.a
}

// BlankSlate wipes all region and free-list bookkeeping without rewinding
// the break. Test hook: callers must not hold live payloads across it.
func (h *Heap) BlankSlate() {
	h.forgetRegions()
}

func (h *Heap) forgetRegions() {
	h.first = nilRegion
	h.last = nilRegion
	for i := range h.freeLists {
		h.freeLists[i] = nilRegion
	}
}

func (h *Heap) data() []byte {
	return h.a.Bytes()
}

// slice returns n payload bytes starting at p. Valid until the next
// operation that grows a slice-backed arena.
func (h *Heap) slice(p Ptr, n uint32) []byte {
	return h.data()[p : p+n]
}
