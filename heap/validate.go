package heap

import (
	"fmt"
	"io"

	"github.com/joshuapare/heapkit/internal/format"
)

// ValidateAll re-asserts every structural invariant of the heap:
//
//   - regions tile the arena: end(A) == address(B) and prev(B) == A for
//     each adjacent pair, and the tail region ends exactly at the break
//   - no two adjacent regions are both free
//   - headers are sane: aligned sizes, used payload within capacity,
//     payloads aligned
//   - every free region sits in exactly one free list, the one matching
//     floor(log2) of its payload capacity, with consistent back links
//   - no used region appears in any list
//
// Intended for tests and debug runs; a conforming caller never sees a
// violation.
func (h *Heap) ValidateAll() error {
	if (h.first == nilRegion) != (h.last == nilRegion) {
		return fmt.Errorf("heap: first/last mismatch: first=%#x last=%#x", h.first, h.last)
	}
	if h.first == nilRegion {
		for i, head := range h.freeLists {
			if head != nilRegion {
				return fmt.Errorf("heap: empty heap but free list %d has head %#x", i, head)
			}
		}
		return nil
	}

	end := h.a.Break()

	// Walk the address order.
	listed := make(map[uint32]uint32) // free region -> list index it was found in
	freeRegions := 0
	prev := nilRegion
	for r := h.first; r != nilRegion; r = h.nextRegion(r) {
		if !format.IsAligned(r) {
			return fmt.Errorf("heap: region %#x misaligned", r)
		}
		total := h.totalSize(r)
		if total < format.MinRegionSize || !format.IsAligned(total) {
			return fmt.Errorf("heap: region %#x has bad total size %d", r, total)
		}
		if h.endOf(r) > end {
			return fmt.Errorf("heap: region %#x ends past the break (%#x > %#x)", r, h.endOf(r), end)
		}
		if h.usedPayload(r) > h.maxPayload(r) {
			return fmt.Errorf("heap: region %#x used %d exceeds capacity %d",
				r, h.usedPayload(r), h.maxPayload(r))
		}
		if h.prevRegion(r) != prev {
			return fmt.Errorf("heap: region %#x prev is %#x, want %#x", r, h.prevRegion(r), prev)
		}
		if prev != nilRegion {
			if h.endOf(prev) != r {
				return fmt.Errorf("heap: gap between %#x and %#x", prev, r)
			}
			if h.isFree(prev) && h.isFree(r) {
				return fmt.Errorf("heap: adjacent free regions %#x and %#x", prev, r)
			}
		}
		if h.isFree(r) {
			freeRegions++
		}
		prev = r
	}
	if prev != h.last {
		return fmt.Errorf("heap: walk ended at %#x, last is %#x", prev, h.last)
	}
	if h.endOf(h.last) != end {
		return fmt.Errorf("heap: last region ends at %#x, break is %#x", h.endOf(h.last), end)
	}

	// Walk the free lists.
	for i := format.MinFreeListIndex; i < format.MaxFreeListIndex; i++ {
		index := uint32(i)
		prevFree := nilRegion
		for r := h.freeLists[index]; r != nilRegion; r = h.freeNext(r) {
			if !h.isFree(r) {
				return fmt.Errorf("heap: used region %#x on free list %d", r, index)
			}
			if other, dup := listed[r]; dup {
				return fmt.Errorf("heap: region %#x on lists %d and %d", r, other, index)
			}
			listed[r] = index
			capacity := h.maxPayload(r)
			if uint64(capacity) < minSizeForIndex(index) ||
				uint64(capacity) >= minSizeForIndex(index+1) {
				return fmt.Errorf("heap: region %#x capacity %d misfiled in list %d", r, capacity, index)
			}
			if h.freePrev(r) != prevFree {
				return fmt.Errorf("heap: region %#x free-prev is %#x, want %#x", r, h.freePrev(r), prevFree)
			}
			prevFree = r
		}
	}
	if len(listed) != freeRegions {
		return fmt.Errorf("heap: %d free regions in arena, %d on lists", freeRegions, len(listed))
	}

	return nil
}

// DumpAll renders the region list and free lists for debugging.
func (h *Heap) DumpAll(w io.Writer) {
	fmt.Fprintf(w, "heap: break=%#x first=%#x last=%#x\n", h.a.Break(), h.first, h.last)
	for r := h.first; r != nilRegion; r = h.nextRegion(r) {
		fmt.Fprintf(w, "  [%#x - %#x) used %d / %d\n",
			r, h.endOf(r), h.usedPayload(r), h.maxPayload(r))
	}
	for i := format.MinFreeListIndex; i < format.MaxFreeListIndex; i++ {
		index := uint32(i)
		if h.freeLists[index] == nilRegion {
			continue
		}
		fmt.Fprintf(w, "  freeList[%d] sizes [%d, %d):", index,
			minSizeForIndex(index), minSizeForIndex(index+1))
		for r := h.freeLists[index]; r != nilRegion; r = h.freeNext(r) {
			fmt.Fprintf(w, " %#x(%d)", r, h.maxPayload(r))
		}
		fmt.Fprintln(w)
	}
}
