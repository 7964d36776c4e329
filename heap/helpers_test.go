package heap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/arena"
)

// newTestHeap returns a heap over a slice-backed arena large enough for
// every test in this package.
func newTestHeap(t testing.TB) *Heap {
	t.Helper()
	return newTestHeapCapacity(t, 1<<20)
}

func newTestHeapCapacity(t testing.TB, capacity int64) *Heap {
	t.Helper()
	a, err := arena.NewSlice(&arena.Options{Capacity: capacity})
	require.NoError(t, err)
	return New(a)
}

func mustAlloc(t testing.TB, h *Heap, size uint32) Ptr {
	t.Helper()
	p, _, err := h.Alloc(size)
	require.NoError(t, err)
	require.NotEqual(t, NilPtr, p)
	return p
}

func requireValid(t testing.TB, h *Heap) {
	t.Helper()
	require.NoError(t, h.ValidateAll())
}
