package heap

// Calloc allocates n*size bytes and zeroes them. The multiplication is
// not checked for overflow; that is the caller's contract. Fresh arena
// bytes arrive zeroed, but reused regions carry stale payload and list
// link bytes, so the payload is always cleared explicitly.
func (h *Heap) Calloc(n, size uint32) (Ptr, []byte, error) {
	p, buf, err := h.Alloc(n * size)
	if err != nil || p == NilPtr {
		return NilPtr, nil, err
	}
	clear(buf)
	return p, buf, nil
}

// Realloc resizes an allocation. Realloc(NilPtr, size) allocates;
// Realloc(p, 0) frees and returns NilPtr. Growth is attempted in place
// first: within the region's existing capacity, then by absorbing a free
// region immediately after, then by extending the arena when the region
// is the heap's tail. Only then does it fall back to allocate-copy-free.
// On failure the original allocation is left untouched.
func (h *Heap) Realloc(p Ptr, size uint32) (Ptr, []byte, error) {
	h.stats.ReallocCalls++
	if p == NilPtr {
		return h.Alloc(size)
	}
	if size == 0 {
		if err := h.Free(p); err != nil {
			return NilPtr, nil, err
		}
		return NilPtr, nil, nil
	}
	if err := h.checkPtr(p); err != nil {
		return NilPtr, nil, err
	}
	r := regionOfPayload(p)

	// Simple growth or shrink within the current capacity.
	if size <= h.maxPayload(r) {
		h.setUsedPayload(r, size)
		// A shrink may leave enough slack to hand back.
		h.maybeSplitRemainder(r, size)
		return p, h.slice(p, size), nil
	}

	// Absorb free space right after us, if any.
	if next := h.nextRegion(r); next != nilRegion && h.isFree(next) {
		h.stats.NextAbsorbs++
		h.removeFree(next)
		h.setTotalSize(r, h.totalSize(r)+h.totalSize(next))
		if next == h.last {
			h.last = r
		} else {
			h.setPrevRegion(h.endOf(r), r)
		}
		if size <= h.maxPayload(r) {
			h.setUsedPayload(r, size)
			h.maybeSplitRemainder(r, size)
			return p, h.slice(p, size), nil
		}
	}

	// Still short, but the tail of the heap can grow by just the
	// shortfall.
	if r == h.last {
		if err := h.extendLastRegion(size); err == nil {
			return p, h.slice(p, size), nil
		}
		// A failed extension leaves the region intact; the ordinary
		// allocation path below may still find space in a free list.
	}

	oldUsed := h.usedPayload(r)
	newP, buf, err := h.Alloc(size)
	if err != nil {
		return NilPtr, nil, err
	}
	// Offsets survive arena growth even when slices do not; re-fetch the
	// source after Alloc.
	copy(buf, h.slice(p, oldUsed))
	h.freeRegion(r)
	return newP, buf, nil
}
