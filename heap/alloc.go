package heap

import "github.com/joshuapare/heapkit/internal/format"

// speculativeTries bounds the lookback into the size class one below the
// definitely-big-enough class. Freeing a region of capacity 112 lists it
// under class 6 ([64,128)); a later request for 100 searches class 7
// upward and would miss it. A short scan of class 6 recovers such
// recently freed near-fits, and since insertion is LIFO the recent ones
// sit at the head. Any small constant preserves the worst case.
const speculativeTries = 3

// Alloc allocates size payload bytes. The returned payload is 16-byte
// aligned with capacity at least size. Size 0 allocates nothing and
// returns NilPtr. The byte slice covers exactly size bytes and, for a
// slice-backed arena, is invalidated by the next growth.
func (h *Heap) Alloc(size uint32) (Ptr, []byte, error) {
	h.stats.AllocCalls++
	if size == 0 {
		return NilPtr, nil, nil
	}
	r := h.tryFromFreeList(size)
	if r == nilRegion {
		var err error
		r, err = h.newAllocation(size)
		if err != nil {
			return NilPtr, nil, err
		}
		h.stats.AllocSlowPath++
	} else {
		h.stats.AllocFastPath++
	}
	p := h.payloadOf(r)
	return p, h.slice(p, size), nil
}

// tryFromFreeList searches the segregated lists for a region that can
// hold size bytes and puts it to use. Returns nilRegion on miss.
func (h *Heap) tryFromFreeList(size uint32) uint32 {
	index := bigEnoughListIndex(size)

	// Speculative scan: the list one below may hold recently freed regions
	// that are nonetheless large enough for a request just above its lower
	// bound.
	if index > format.MinFreeListIndex && uint64(size) < minSizeForIndex(index) {
		r := h.freeLists[index-1]
		for tries := 0; r != nilRegion && tries < speculativeTries; tries++ {
			if h.maxPayload(r) >= size {
				h.stats.SpeculativeHits++
				h.useFreeRegion(r, size)
				return r
			}
			r = h.freeNext(r)
		}
	}

	// Every member of list index and above is big enough; take the first
	// head found. Note index may already be MaxFreeListIndex for a request
	// above 2^31, in which case the speculative scan above was the only
	// hope.
	for index < format.MaxFreeListIndex {
		if r := h.freeLists[index]; r != nilRegion {
			h.useFreeRegion(r, size)
			return r
		}
		index++
	}
	return nilRegion
}

// useFreeRegion takes a region off its list, marks it used for size
// bytes, and splits off whatever trailing slack is worth keeping.
func (h *Heap) useFreeRegion(r, size uint32) {
	h.removeFree(r)
	h.setUsedPayload(r, size)
	h.maybeSplitRemainder(r, size)
}

// extendLastRegion grows the arena by exactly the shortfall so that the
// last region's payload capacity reaches size, and marks size bytes used.
// A region that already holds size bytes is used without growth. On
// failure the region is untouched.
func (h *Heap) extendLastRegion(size uint32) error {
	last := h.last
	if need, have := format.AlignUp(size), h.maxPayload(last); need > have {
		growBy := need - have
		if _, err := h.a.Grow(growBy); err != nil {
			return ErrNoSpace
		}
		// The break is private to this heap, so the new bytes are contiguous
		// with the last region.
		h.stats.LastExtends++
		h.setTotalSize(last, h.totalSize(last)+growBy)
	}
	h.setUsedPayload(last, size)
	return nil
}

// newAllocation obtains a used region for size payload bytes from the
// arena, preferring to reuse or extend the tail of the heap over growing
// by a full region.
func (h *Heap) newAllocation(size uint32) (uint32, error) {
	if h.last != nilRegion {
		last := h.last
		if h.isFree(last) {
			// Extending the free tail avoids leaving fragmented free space
			// between allocated regions. Unlink first: the extension changes
			// its size class.
			h.removeFree(last)
			if err := h.extendLastRegion(size); err != nil {
				// Failed growth must not leak the region off its list.
				h.pushFree(last)
				return nilRegion, err
			}
			return last, nil
		}

		// The used tail may still have aligned slack at the end; start the
		// new region inside it and grow the arena only for the shortfall.
		alignedUsed := format.AlignUp(h.usedPayload(last))
		usable := h.maxPayload(last) - alignedUsed
		if usable > 0 {
			growBy := format.HeaderSize + format.AlignUp(size) - usable
			if _, err := h.a.Grow(growBy); err != nil {
				return nilRegion, ErrNoSpace
			}
			endOld := h.endOf(last)
			h.setTotalSize(last, h.totalSize(last)-usable)
			r := endOld - usable
			h.initRegion(r, growBy+usable, size)
			h.setPrevRegion(r, last)
			h.last = r
			return r, nil
		}
	}

	// Brand new space at the break.
	total := format.HeaderSize + format.AlignUp(size)
	r, err := h.a.Grow(total)
	if err != nil {
		return nilRegion, ErrNoSpace
	}
	if !format.IsAligned(r) {
		// Only the very first break can be misaligned: request the padding
		// separately and shift up. Afterwards the break is aligned forever.
		fixed := format.AlignUp(r)
		if _, err := h.a.Grow(fixed - r); err != nil {
			return nilRegion, ErrNoSpace
		}
		r = fixed
	}
	h.initRegion(r, total, size)
	if h.last != nilRegion {
		h.setPrevRegion(r, h.last)
	} else {
		h.first = r
	}
	h.last = r
	h.maybeSplitRemainder(r, size)
	return r, nil
}

// Free releases a payload. Freeing NilPtr is a no-op. The freed region
// merges eagerly with any adjacent free neighbour.
func (h *Heap) Free(p Ptr) error {
	h.stats.FreeCalls++
	if p == NilPtr {
		return nil
	}
	if err := h.checkPtr(p); err != nil {
		return err
	}
	h.freeRegion(regionOfPayload(p))
	return nil
}
