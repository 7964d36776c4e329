package heap

// mergeIntoNeighbors tries to merge a just-freed region, not yet on any
// list, into an adjacent free region. The survivor is always the region
// at the lower address; the absorbed region ceases to exist. Reports
// whether a merge happened; if not, the caller still owns r.
//
// Before the call the only possible free neighbours are regions that were
// already coalesced themselves, so at most one merge per side is needed.
func (h *Heap) mergeIntoNeighbors(r uint32) bool {
	prev := h.prevRegion(r)
	next := h.nextRegion(r)

	if prev != nilRegion && h.isFree(prev) {
		h.stats.MergesBackward++
		h.removeFree(prev)
		h.setTotalSize(prev, h.totalSize(prev)+h.totalSize(r))
		if next == nilRegion {
			h.last = prev
		} else {
			h.setPrevRegion(next, prev)
			// The other side may be mergable too.
			if h.isFree(next) {
				h.stats.MergesForward++
				h.removeFree(next)
				h.setTotalSize(prev, h.totalSize(prev)+h.totalSize(next))
				if next == h.last {
					h.last = prev
				} else {
					h.setPrevRegion(h.endOf(prev), prev)
				}
			}
		}
		h.pushFree(prev)
		return true
	}

	if next != nilRegion && h.isFree(next) {
		h.stats.MergesForward++
		h.removeFree(next)
		h.setTotalSize(r, h.totalSize(r)+h.totalSize(next))
		if next == h.last {
			h.last = r
		} else {
			h.setPrevRegion(h.endOf(r), r)
		}
		h.pushFree(r)
		return true
	}

	return false
}

// freeRegion releases a region: it either merges into a neighbour or
// joins a free list directly.
func (h *Heap) freeRegion(r uint32) {
	h.setUsedPayload(r, 0)
	if !h.mergeIntoNeighbors(r) {
		h.pushFree(r)
	}
}
