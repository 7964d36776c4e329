// Package heap implements a minimalistic free-store core over a single
// growing arena.
//
// # Overview
//
// The arena is tiled by adjacent regions, each carrying a 16-byte in-band
// header (total size, used payload byte count, offset of the preceding
// region). Free regions are additionally threaded into one of 32
// segregated free lists indexed by floor(log2) of their payload capacity;
// the two list links live in the free region's payload bytes.
//
// # Operations
//
//   - Alloc(size): free-list search with a bounded speculative lookback,
//     then last-region extension, then fresh arena growth
//   - Free(p): eager coalescing with adjacent free neighbours
//   - Realloc(p, size): in-place shrink/grow, next-region absorption,
//     last-region extension, copy fallback
//   - Calloc, Memalign, PosixMemalign, Mallinfo
//
// # Region lifecycle
//
// Regions are created by arena growth or by splitting; they change state
// between used and free, and cease to exist when merged into the region
// before them. Any operation that carves a region runs the splitter; any
// operation that releases one runs the coalescer, so no two free regions
// are ever address-adjacent.
//
// # Addressing
//
// All references are uint32 offsets into the arena. Ptr is the offset of a
// payload; the region header sits 16 bytes below it. NilPtr (0) is never a
// valid payload offset since at least one header precedes every payload.
//
// # Thread Safety
//
// A Heap is not thread-safe and takes no locks. The intended execution
// model is single-threaded; callers that share a Heap must serialize
// access externally.
package heap
