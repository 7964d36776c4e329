package heap

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/format"
)

func Test_Free_NilIsNoOp(t *testing.T) {
	h := newTestHeap(t)
	require.NoError(t, h.Free(NilPtr))
	requireValid(t, h)
}

func Test_Free_BadPointer(t *testing.T) {
	h := newTestHeap(t)
	mustAlloc(t, h, 100)

	require.ErrorIs(t, h.Free(3), ErrBadPtr)     // misaligned
	require.ErrorIs(t, h.Free(1<<30), ErrBadPtr) // past the break
}

func Test_Free_MergesWithNext(t *testing.T) {
	h := newTestHeap(t)

	p1 := mustAlloc(t, h, 32)
	p2 := mustAlloc(t, h, 32)
	mustAlloc(t, h, 32)

	require.NoError(t, h.Free(p2))
	require.NoError(t, h.Free(p1))
	require.Equal(t, 1, h.Stats().MergesForward)
	requireValid(t, h)

	// The merged region spans both: an allocation of their combined
	// payload fits at p1.
	q := mustAlloc(t, h, 32+format.HeaderSize+32)
	require.Equal(t, p1, q)
}

func Test_Free_MergesWithPrev(t *testing.T) {
	h := newTestHeap(t)

	p1 := mustAlloc(t, h, 32)
	p2 := mustAlloc(t, h, 32)
	mustAlloc(t, h, 32)

	require.NoError(t, h.Free(p1))
	require.NoError(t, h.Free(p2))
	require.Equal(t, 1, h.Stats().MergesBackward)
	requireValid(t, h)

	q := mustAlloc(t, h, 32+format.HeaderSize+32)
	require.Equal(t, p1, q)
}

func Test_Free_MergesBothSides(t *testing.T) {
	h := newTestHeap(t)

	p1 := mustAlloc(t, h, 32)
	p2 := mustAlloc(t, h, 32)
	p3 := mustAlloc(t, h, 32)
	mustAlloc(t, h, 32)

	require.NoError(t, h.Free(p1))
	require.NoError(t, h.Free(p3))
	require.NoError(t, h.Free(p2)) // bridges the two
	requireValid(t, h)

	st := h.Stats()
	require.Equal(t, 1, st.MergesBackward)
	require.Equal(t, 1, st.MergesForward)

	q := mustAlloc(t, h, 3*32+2*format.HeaderSize)
	require.Equal(t, p1, q)
}

// Releasing every payload collapses the heap into a single free region
// covering the whole arena minus one header.
func Test_Free_AllCollapsesToOneRegion(t *testing.T) {
	h := newTestHeap(t)

	var ptrs []Ptr
	for _, size := range []uint32{100, 10, 10, 256, 1, 4000, 48} {
		ptrs = append(ptrs, mustAlloc(t, h, size))
	}
	rng := rand.New(rand.NewSource(7))
	rng.Shuffle(len(ptrs), func(i, j int) { ptrs[i], ptrs[j] = ptrs[j], ptrs[i] })
	for _, p := range ptrs {
		require.NoError(t, h.Free(p))
		requireValid(t, h)
	}

	mi := h.Mallinfo()
	require.Equal(t, uint32(1), mi.Ordblks)
	require.Equal(t, mi.Arena-format.HeaderSize, mi.Fordblks)
	require.Zero(t, mi.Uordblks)
}
