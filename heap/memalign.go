package heap

import (
	"math"

	"github.com/joshuapare/heapkit/internal/format"
)

// Memalign allocates size payload bytes whose address is a multiple of
// align. align must be a power of two; values up to the natural alignment
// degenerate to Alloc. The path favours simplicity: coarse alignment is
// assumed infrequent.
func (h *Heap) Memalign(align, size uint32) (Ptr, []byte, error) {
	if align == 0 || !format.IsPowerOf2(align) {
		return NilPtr, nil, ErrBadAlign
	}
	if size == 0 {
		return NilPtr, nil, nil
	}
	if align <= format.Alignment {
		return h.Alloc(size)
	}
	h.stats.MemalignCalls++
	if size > math.MaxUint32-align {
		return NilPtr, nil, ErrNoSpace
	}

	// Opportunistic: an oversized free-list hit may land on the boundary
	// by luck. One try only; on the wrong alignment hand it straight back.
	if r := h.tryFromFreeList(size + align); r != nilRegion {
		p := h.payloadOf(r)
		if p%align == 0 {
			h.setUsedPayload(r, size)
			h.maybeSplitRemainder(r, size)
			return p, h.slice(p, size), nil
		}
		h.freeRegion(r)
	}

	// Deterministic path: pad the break so the next fresh payload lands on
	// the boundary, attaching the padding to the region before it. An
	// empty heap first gets a bootstrap region to attach to; it is
	// released afterwards.
	boot := nilRegion
	if h.last == nilRegion {
		r, err := h.newAllocation(format.AllocUnit)
		if err != nil {
			return NilPtr, nil, err
		}
		boot = r
	}

	if rem := (h.a.Break() + format.HeaderSize) % align; rem != 0 {
		pad := align - rem
		last := h.last
		wasFree := h.isFree(last)
		if wasFree {
			// Unlink while resizing: the padding may change its size class.
			h.removeFree(last)
		}
		if _, err := h.a.Grow(pad); err != nil {
			if wasFree {
				h.pushFree(last)
			}
			if boot != nilRegion {
				h.freeRegion(boot)
			}
			return NilPtr, nil, ErrNoSpace
		}
		h.setTotalSize(last, h.totalSize(last)+pad)
		if wasFree {
			h.pushFree(last)
		}
	}

	// Fresh region directly at the (now aligned) break. newAllocation is
	// bypassed on purpose: it would extend a free tail region instead of
	// starting at the prepared offset.
	total := format.HeaderSize + format.AlignUp(size)
	r, err := h.a.Grow(total)
	if err != nil {
		if boot != nilRegion {
			h.freeRegion(boot)
		}
		return NilPtr, nil, ErrNoSpace
	}
	h.initRegion(r, total, size)
	h.setPrevRegion(r, h.last)
	h.last = r

	if boot != nilRegion {
		h.freeRegion(boot)
	}
	p := h.payloadOf(r)
	return p, h.slice(p, size), nil
}

// PosixMemalign is the posix_memalign contract: status 0 on success,
// EINVAL for an alignment that is not a power of two or not a multiple of
// the word size, ENOMEM when space is exhausted. Size 0 succeeds with
// NilPtr.
func (h *Heap) PosixMemalign(align, size uint32) (Ptr, int) {
	if !format.IsPowerOf2(align) || align%4 != 0 {
		return NilPtr, EINVAL
	}
	if size == 0 {
		return NilPtr, 0
	}
	p, _, err := h.Memalign(align, size)
	if err != nil {
		return NilPtr, ENOMEM
	}
	return p, 0
}
