package heap

import "github.com/joshuapare/heapkit/internal/format"

// Region accessors. A region is addressed by the arena offset of its
// header. All mutation goes through these helpers so the header layout
// stays confined to this file and internal/format.

func (h *Heap) totalSize(r uint32) uint32 {
	return format.ReadU32(h.data(), int(r)+format.RegionTotalSizeOffset)
}

func (h *Heap) setTotalSize(r, v uint32) {
	format.PutU32(h.data(), int(r)+format.RegionTotalSizeOffset, v)
}

// usedPayload is the live payload byte count; 0 means the region is free.
func (h *Heap) usedPayload(r uint32) uint32 {
	return format.ReadU32(h.data(), int(r)+format.RegionUsedOffset)
}

func (h *Heap) setUsedPayload(r, v uint32) {
	format.PutU32(h.data(), int(r)+format.RegionUsedOffset, v)
}

func (h *Heap) isFree(r uint32) bool {
	return h.usedPayload(r) == 0
}

func (h *Heap) prevRegion(r uint32) uint32 {
	return format.ReadU32(h.data(), int(r)+format.RegionPrevOffset)
}

func (h *Heap) setPrevRegion(r, prev uint32) {
	format.PutU32(h.data(), int(r)+format.RegionPrevOffset, prev)
}

// endOf is the offset one past the region: the start of the next region
// in address order, unless r is the last region.
func (h *Heap) endOf(r uint32) uint32 {
	return r + h.totalSize(r)
}

// nextRegion derives the following region from the address order; there
// is no stored forward pointer.
func (h *Heap) nextRegion(r uint32) uint32 {
	if r == h.last {
		return nilRegion
	}
	return h.endOf(r)
}

func (h *Heap) maxPayload(r uint32) uint32 {
	return h.totalSize(r) - format.HeaderSize
}

func (h *Heap) payloadOf(r uint32) Ptr {
	return r + format.HeaderSize
}

func regionOfPayload(p Ptr) uint32 {
	return p - format.HeaderSize
}

// initRegion writes a fresh header. The region starts outside any free
// list with no recorded neighbour.
func (h *Heap) initRegion(r, total, used uint32) {
	h.setTotalSize(r, total)
	h.setUsedPayload(r, used)
	h.setPrevRegion(r, nilRegion)
	format.PutU32(h.data(), int(r)+format.RegionReservedOffset, 0)
}

// checkPtr rejects references that cannot be a live payload address.
// Misuse that passes these checks (double free, stale pointers into
// reused regions) is undefined behaviour.
func (h *Heap) checkPtr(p Ptr) error {
	if p < format.HeaderSize || !format.IsAligned(p) {
		return ErrBadPtr
	}
	r := regionOfPayload(p)
	if h.first == nilRegion || r < h.first || int(r)+format.HeaderSize > len(h.data()) {
		return ErrBadPtr
	}
	total := h.totalSize(r)
	if total < format.MinRegionSize || !format.IsAligned(total) {
		return ErrBadPtr
	}
	if h.endOf(r) > h.a.Break() {
		return ErrBadPtr
	}
	return nil
}
