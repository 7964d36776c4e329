// Package malloc exposes a libc-shaped allocation surface over a single
// process-wide heap. Every function is a thin forwarder into
// heap.Heap; the only additions are lazy instantiation of the default
// heap, optional per-call logging, and optional full validation.
//
// The surface follows the allocator's execution model: single-threaded,
// no locks. Programs sharing it across goroutines must serialize
// externally.
package malloc

import (
	"fmt"
	"os"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/arena"
)

// Runtime debug flags - controlled by environment variables, read once.
var (
	logAlloc  = os.Getenv("HEAPKIT_LOG_ALLOC") != ""
	debugHeap = os.Getenv("HEAPKIT_DEBUG") != ""
)

var defaultHeap *heap.Heap

// Default returns the process-wide heap, creating it on first use.
func Default() *heap.Heap {
	if defaultHeap == nil {
		a, err := arena.New(nil)
		if err != nil {
			panic("malloc: arena init: " + err.Error())
		}
		defaultHeap = heap.New(a)
	}
	return defaultHeap
}

// validate panics on an invariant violation when HEAPKIT_DEBUG is set.
// Release runs never pay for the walk.
func validate(op string) {
	if !debugHeap {
		return
	}
	if err := Default().ValidateAll(); err != nil {
		panic("malloc: " + op + ": " + err.Error())
	}
}

// Malloc allocates size bytes, returning NilPtr for size 0 or when out
// of memory.
func Malloc(size uint32) heap.Ptr {
	validate("malloc enter")
	p, _, err := Default().Alloc(size)
	if logAlloc {
		fmt.Fprintf(os.Stderr, "[MALLOC] malloc(%d) => %#x err=%v\n", size, p, err)
	}
	validate("malloc exit")
	return p
}

// Free releases a payload. Freeing NilPtr is a no-op.
func Free(p heap.Ptr) {
	validate("free enter")
	err := Default().Free(p)
	if logAlloc {
		fmt.Fprintf(os.Stderr, "[MALLOC] free(%#x) err=%v\n", p, err)
	}
	validate("free exit")
}

// Calloc allocates n*size zeroed bytes.
func Calloc(n, size uint32) heap.Ptr {
	validate("calloc enter")
	p, _, err := Default().Calloc(n, size)
	if logAlloc {
		fmt.Fprintf(os.Stderr, "[MALLOC] calloc(%d, %d) => %#x err=%v\n", n, size, p, err)
	}
	validate("calloc exit")
	return p
}

// Realloc resizes an allocation, returning the (possibly moved) payload.
func Realloc(p heap.Ptr, size uint32) heap.Ptr {
	validate("realloc enter")
	newP, _, err := Default().Realloc(p, size)
	if logAlloc {
		fmt.Fprintf(os.Stderr, "[MALLOC] realloc(%#x, %d) => %#x err=%v\n", p, size, newP, err)
	}
	validate("realloc exit")
	return newP
}

// Memalign allocates size bytes aligned to align.
func Memalign(align, size uint32) heap.Ptr {
	validate("memalign enter")
	p, _, err := Default().Memalign(align, size)
	if logAlloc {
		fmt.Fprintf(os.Stderr, "[MALLOC] memalign(%d, %d) => %#x err=%v\n", align, size, p, err)
	}
	validate("memalign exit")
	return p
}

// PosixMemalign stores the payload through out and returns the libc
// status code.
func PosixMemalign(out *heap.Ptr, align, size uint32) int {
	validate("posix_memalign enter")
	p, status := Default().PosixMemalign(align, size)
	if status == 0 {
		*out = p
	}
	if logAlloc {
		fmt.Fprintf(os.Stderr, "[MALLOC] posix_memalign(%d, %d) => %#x status=%d\n",
			align, size, p, status)
	}
	validate("posix_memalign exit")
	return status
}

// Mallinfo reports heap statistics by walking the region list.
func Mallinfo() heap.Mallinfo {
	return Default().Mallinfo()
}

// Bytes returns n payload bytes at p. The slice is valid until the next
// operation that grows a slice-backed arena.
func Bytes(p heap.Ptr, n uint32) []byte {
	return Default().Arena().Bytes()[p : p+n]
}

// BlankSlate wipes the default heap's bookkeeping. Test hook: no live
// payloads may be held across it.
func BlankSlate() {
	Default().BlankSlate()
}
