package heap

import "github.com/joshuapare/heapkit/internal/format"

// maybeSplitRemainder carves the trailing slack of a region being put to
// use (or shrunk) into a new free region, when the slack can hold at
// least a minimal region. Smaller slack stays inside the region as
// internal fragmentation.
//
// size must not exceed the region's payload capacity.
func (h *Heap) maybeSplitRemainder(r, size uint32) {
	extra := h.maxPayload(r) - size
	if extra < format.MinRegionSize {
		return
	}
	h.stats.Splits++

	end := h.endOf(r)
	split := format.AlignUp(h.payloadOf(r) + size)
	h.setTotalSize(r, split-r)
	// Both halves stay multiples of the alignment, so the remainder is at
	// least MinRegionSize whenever extra is.
	h.initRegion(split, end-split, 0)
	h.setPrevRegion(split, r)
	if r == h.last {
		h.last = split
	} else {
		h.setPrevRegion(end, split)
	}

	// The remainder may itself border a free region (e.g. when the split
	// happens during a realloc shrink with a free region after), so give
	// the coalescer a chance before listing it.
	if !h.mergeIntoNeighbors(split) {
		h.pushFree(split)
	}
}
