package heap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/arena"
	"github.com/joshuapare/heapkit/internal/format"
)

func Test_Alloc_ZeroSize(t *testing.T) {
	h := newTestHeap(t)

	p, buf, err := h.Alloc(0)
	require.NoError(t, err)
	require.Equal(t, NilPtr, p)
	require.Nil(t, buf)
	requireValid(t, h)
}

func Test_Alloc_PayloadAlignment(t *testing.T) {
	h := newTestHeap(t)

	for _, size := range []uint32{1, 7, 16, 100, 255, 4096} {
		p := mustAlloc(t, h, size)
		require.Zero(t, p%format.Alignment, "payload for size %d misaligned", size)
	}
	requireValid(t, h)
}

// Fresh allocations lay out regions back to back: a 100-byte request
// occupies a 128-byte region (16-byte header, payload rounded to 112),
// and a 10-byte request occupies 32 bytes.
func Test_Alloc_RegionLayout(t *testing.T) {
	h := newTestHeap(t)

	p1 := mustAlloc(t, h, 100)
	p2 := mustAlloc(t, h, 10)
	p3 := mustAlloc(t, h, 10)

	require.Equal(t, uint32(112+16), p2-p1)
	require.Equal(t, uint32(16+16), p3-p2)
	requireValid(t, h)
}

// A freed region is found again by the very next allocation of the same
// size, via the speculative lookback into the class below.
func Test_Alloc_ReusesRecentlyFreed(t *testing.T) {
	h := newTestHeap(t)

	a := mustAlloc(t, h, 100)
	require.NoError(t, h.Free(a))
	b := mustAlloc(t, h, 100)

	require.Equal(t, a, b)
	require.Equal(t, 1, h.Stats().SpeculativeHits)
	requireValid(t, h)
}

// With a single live allocation of any size, the heap never moves it off
// its base: free-list reuse and tail extension both keep the address.
func Test_Alloc_SingleLiveAllocationStaysPut(t *testing.T) {
	h := newTestHeap(t)

	base := mustAlloc(t, h, 1)
	require.NoError(t, h.Free(base))
	for i := uint32(2); i <= 300; i++ {
		p := mustAlloc(t, h, i)
		require.Equal(t, base, p, "size %d moved", i)
		require.NoError(t, h.Free(p))
	}
	requireValid(t, h)
}

func Test_Alloc_GrowsOnlyTheShortfall(t *testing.T) {
	h := newTestHeap(t)

	p := mustAlloc(t, h, 16)
	require.NoError(t, h.Free(p))

	// The free tail region has 16 bytes of payload; a 48-byte request
	// should extend it rather than append a fresh 64-byte region.
	before := h.a.Break()
	q := mustAlloc(t, h, 48)
	require.Equal(t, p, q)
	require.Equal(t, uint32(32), h.a.Break()-before)
	require.Equal(t, 1, h.Stats().LastExtends)
	requireValid(t, h)
}

// A used tail region whose payload rounding left aligned slack donates
// that slack to the next fresh region.
func Test_Alloc_UsedTailSlackIsReused(t *testing.T) {
	h := newTestHeap(t)

	// Capacity 112, used 90: aligned used is 96, leaving 16 bytes of
	// trailing slack inside the region.
	p1 := mustAlloc(t, h, 100)
	_, _, err := h.Realloc(p1, 90)
	require.NoError(t, err)

	before := h.a.Break()
	p2 := mustAlloc(t, h, 16)
	require.Equal(t, p1+96+format.HeaderSize, p2)
	require.Equal(t, uint32(16), h.a.Break()-before)
	requireValid(t, h)
}

func Test_Alloc_OutOfMemory(t *testing.T) {
	h := newTestHeapCapacity(t, 64)

	mustAlloc(t, h, 16)
	mustAlloc(t, h, 16)

	before := h.Mallinfo()
	p, buf, err := h.Alloc(16)
	require.ErrorIs(t, err, ErrNoSpace)
	require.Equal(t, NilPtr, p)
	require.Nil(t, buf)
	require.Equal(t, before, h.Mallinfo(), "failed allocation must not change the heap")
	requireValid(t, h)
}

// A failed tail extension must leave the free tail region on its list.
func Test_Alloc_FailedExtensionRestoresFreeList(t *testing.T) {
	h := newTestHeapCapacity(t, 64)

	mustAlloc(t, h, 16)
	p := mustAlloc(t, h, 16)
	require.NoError(t, h.Free(p)) // the tail region is now free

	_, _, err := h.Alloc(4096)
	require.ErrorIs(t, err, ErrNoSpace)
	requireValid(t, h)

	// The region freed above must still be reusable.
	q := mustAlloc(t, h, 16)
	require.Equal(t, p, q)
}

// The very first break may be misaligned; the first allocation requests
// the padding separately and every payload afterwards is aligned.
func Test_Alloc_MisalignedFirstBreak(t *testing.T) {
	a, err := arena.NewSlice(&arena.Options{Capacity: 1 << 20, Misalign: 4})
	require.NoError(t, err)
	h := New(a)

	p1 := mustAlloc(t, h, 10)
	require.Zero(t, p1%format.Alignment)
	p2 := mustAlloc(t, h, 10)
	require.Zero(t, p2%format.Alignment)
	requireValid(t, h)
}

func Test_BlankSlate(t *testing.T) {
	h := newTestHeap(t)

	mustAlloc(t, h, 100)
	mustAlloc(t, h, 200)
	breakBefore := h.a.Break()

	h.BlankSlate()
	requireValid(t, h)
	require.Equal(t, breakBefore, h.a.Break(), "blank slate must not rewind the break")

	// The heap restarts cleanly past the abandoned regions.
	p := mustAlloc(t, h, 32)
	require.Equal(t, breakBefore+format.HeaderSize, p)
	requireValid(t, h)
}
