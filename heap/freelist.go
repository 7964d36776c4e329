package heap

import "github.com/joshuapare/heapkit/internal/format"

// Segregated free lists. List k holds free regions whose payload capacity
// lies in [2^k, 2^(k+1)). Lists are doubly linked through the first eight
// payload bytes of their members, so membership costs no extra metadata.
// Insertion is LIFO: recently freed regions are found first.

// freeListIndex is the list a region of the given payload capacity
// belongs to: the lower-bound power of two.
func freeListIndex(size uint32) uint32 {
	if size < format.AllocUnit {
		size = format.AllocUnit
	}
	return format.FloorLog2(size)
}

// bigEnoughListIndex is the first list whose members are all guaranteed
// to hold size bytes: the upper-bound power of two. Equals
// MaxFreeListIndex for every size above 2^31.
func bigEnoughListIndex(size uint32) uint32 {
	index := freeListIndex(size)
	if !format.IsPowerOf2(size) {
		index++
	}
	return index
}

// minSizeForIndex is the smallest payload capacity found in list index.
// 64-bit so that index 32 does not wrap.
func minSizeForIndex(index uint32) uint64 {
	return uint64(1) << index
}

func (h *Heap) freeNext(r uint32) uint32 {
	return format.ReadU32(h.data(), int(r)+format.FreeNextOffset)
}

func (h *Heap) setFreeNext(r, v uint32) {
	format.PutU32(h.data(), int(r)+format.FreeNextOffset, v)
}

func (h *Heap) freePrev(r uint32) uint32 {
	return format.ReadU32(h.data(), int(r)+format.FreePrevOffset)
}

func (h *Heap) setFreePrev(r, v uint32) {
	format.PutU32(h.data(), int(r)+format.FreePrevOffset, v)
}

// pushFree inserts a free region at the head of its list.
func (h *Heap) pushFree(r uint32) {
	index := freeListIndex(h.maxPayload(r))
	head := h.freeLists[index]
	h.freeLists[index] = r
	h.setFreePrev(r, nilRegion)
	h.setFreeNext(r, head)
	if head != nilRegion {
		h.setFreePrev(head, r)
	}
}

// removeFree unlinks a free region from its list in O(1).
func (h *Heap) removeFree(r uint32) {
	index := freeListIndex(h.maxPayload(r))
	prev := h.freePrev(r)
	next := h.freeNext(r)
	if h.freeLists[index] == r {
		h.freeLists[index] = next
	}
	if prev != nilRegion {
		h.setFreeNext(prev, next)
	}
	if next != nilRegion {
		h.setFreePrev(next, prev)
	}
}
