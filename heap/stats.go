package heap

import "github.com/joshuapare/heapkit/internal/format"

// Mallinfo mirrors the libc mallinfo struct. Fields the heap has no
// concept of (small/hole bookkeeping) stay zero.
type Mallinfo struct {
	Arena    uint32 // bytes from the first region to the break
	Ordblks  uint32 // number of free regions
	Smblks   uint32
	Hblks    uint32
	Hblkhd   uint32
	Usmblks  uint32
	Fsmblks  uint32
	Uordblks uint32 // payload capacity held by used regions
	Fordblks uint32 // payload capacity held by free regions
	Keepcost uint32

	usedRegions uint32
}

// HeaderBytes is the metadata overhead of the regions counted by a
// Mallinfo walk: Uordblks + Fordblks + HeaderBytes() == Arena.
func (mi Mallinfo) HeaderBytes() uint32 {
	return (mi.Ordblks + mi.usedRegions) * format.HeaderSize
}

// Mallinfo walks the region list once and accumulates the totals.
func (h *Heap) Mallinfo() Mallinfo {
	var mi Mallinfo
	if h.first == nilRegion {
		return mi
	}
	mi.Arena = h.a.Break() - h.first
	for r := h.first; r != nilRegion; r = h.nextRegion(r) {
		if h.isFree(r) {
			mi.Ordblks++
			mi.Fordblks += h.maxPayload(r)
		} else {
			mi.usedRegions++
			mi.Uordblks += h.maxPayload(r)
		}
	}
	return mi
}

// OpStats counts operations for instrumentation and tests.
type OpStats struct {
	AllocCalls      int // Alloc() calls, including size-0
	AllocFastPath   int // allocations served from a free list
	AllocSlowPath   int // allocations that reached the arena
	FreeCalls       int
	ReallocCalls    int
	MemalignCalls   int // Memalign calls above the natural alignment
	SpeculativeHits int // free-list hits found by the lookback scan
	Splits          int // trailing remainders carved off
	MergesForward   int // coalesces into the following region
	MergesBackward  int // coalesces into the preceding region
	NextAbsorbs     int // realloc in-place growth into the next region
	LastExtends     int // arena growths that stretched the tail region
}

// Stats returns a snapshot of the operation counters.
func (h *Heap) Stats() OpStats {
	return h.stats
}
