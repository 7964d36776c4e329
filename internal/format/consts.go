// Package format houses the low-level layout constants and byte-level
// helpers for the heap arena. The goal is to keep header encoding focused
// and allocation-free so the heap package can orchestrate regions without
// caring how the bytes are laid out.
package format

const (
	// Alignment is the natural alignment of the allocator. Every payload
	// address handed out is a multiple of this, and every region total
	// size is a multiple of this.
	Alignment = 16

	// AllocUnit is the minimum payload capacity of any region. Allocating
	// even a single byte consumes this much payload space.
	AllocUnit = Alignment

	// HeaderSize is the size of the in-band region header. It equals the
	// alignment so that payloads stay aligned without padding.
	HeaderSize = Alignment

	// MinRegionSize is the smallest legal region: one header plus one
	// allocation unit of payload.
	MinRegionSize = HeaderSize + AllocUnit

	// AlignmentMask is used for align-up arithmetic.
	AlignmentMask = Alignment - 1
)

// Region header field offsets, relative to the region start. The header is
// 16 bytes: total size, used payload byte count (0 means free), the offset
// of the preceding region, and a reserved word kept zero.
const (
	RegionTotalSizeOffset = 0x0
	RegionUsedOffset      = 0x4
	RegionPrevOffset      = 0x8
	RegionReservedOffset  = 0xC
)

// Free-list link offsets. A free region's payload bytes double as the two
// doubly-linked list pointers, so links start right after the header.
const (
	FreeNextOffset = HeaderSize
	FreePrevOffset = HeaderSize + 4
)

const (
	// MinFreeListIndex is log2(AllocUnit): smaller payloads cannot exist.
	MinFreeListIndex = 4

	// MaxFreeListIndex bounds the segregated lists; payload capacities are
	// 32-bit so there is no list for 2^32.
	MaxFreeListIndex = 32
)
