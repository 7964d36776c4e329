package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/cespare/xxhash"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/arena"
)

var stressOpts struct {
	ops      int
	seed     int64
	maxSize  int
	capacity int64
	validate bool
}

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Run a randomized alloc/free/realloc workload",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStress()
	},
}

func init() {
	stressCmd.Flags().IntVar(&stressOpts.ops, "ops", 100000, "number of operations")
	stressCmd.Flags().Int64Var(&stressOpts.seed, "seed", 42, "rng seed")
	stressCmd.Flags().IntVar(&stressOpts.maxSize, "max-size", 4096, "largest single allocation")
	stressCmd.Flags().Int64Var(&stressOpts.capacity, "capacity", 64<<20, "arena capacity in bytes")
	stressCmd.Flags().BoolVar(&stressOpts.validate, "validate", false,
		"run the full invariant walk after every operation (slow)")
	rootCmd.AddCommand(stressCmd)
}

// liveAlloc tracks one outstanding allocation and the checksum of the
// bytes written into it.
type liveAlloc struct {
	ptr  heap.Ptr
	size uint32
	sum  uint64
}

func runStress() error {
	a, err := arena.New(&arena.Options{Capacity: stressOpts.capacity})
	if err != nil {
		return errors.Wrap(err, "create arena")
	}
	defer a.Close()
	h := heap.New(a)

	rng := rand.New(rand.NewSource(stressOpts.seed))
	live := make([]liveAlloc, 0, 1024)
	failures := 0

	fill := func(ptr heap.Ptr, size uint32) uint64 {
		buf := a.Bytes()[ptr : ptr+size]
		rng.Read(buf)
		return xxhash.Sum64(buf)
	}
	verify := func(la liveAlloc) error {
		buf := a.Bytes()[la.ptr : la.ptr+la.size]
		if xxhash.Sum64(buf) != la.sum {
			return errors.Errorf("payload at %#x (%d bytes) corrupted", la.ptr, la.size)
		}
		return nil
	}

	for i := 0; i < stressOpts.ops; i++ {
		switch op := rng.Intn(10); {
		case op < 5: // allocate
			size := uint32(1 + rng.Intn(stressOpts.maxSize))
			ptr, _, allocErr := h.Alloc(size)
			if allocErr != nil {
				failures++
				continue
			}
			live = append(live, liveAlloc{ptr: ptr, size: size, sum: fill(ptr, size)})

		case op < 8: // free
			if len(live) == 0 {
				continue
			}
			idx := rng.Intn(len(live))
			la := live[idx]
			if verifyErr := verify(la); verifyErr != nil {
				return errors.Wrapf(verifyErr, "op %d before free", i)
			}
			if freeErr := h.Free(la.ptr); freeErr != nil {
				return errors.Wrapf(freeErr, "op %d free(%#x)", i, la.ptr)
			}
			live[idx] = live[len(live)-1]
			live = live[:len(live)-1]

		default: // realloc
			if len(live) == 0 {
				continue
			}
			idx := rng.Intn(len(live))
			la := live[idx]
			if verifyErr := verify(la); verifyErr != nil {
				return errors.Wrapf(verifyErr, "op %d before realloc", i)
			}
			size := uint32(1 + rng.Intn(stressOpts.maxSize))
			ptr, _, reallocErr := h.Realloc(la.ptr, size)
			if reallocErr != nil {
				failures++
				continue
			}
			live[idx] = liveAlloc{ptr: ptr, size: size, sum: fill(ptr, size)}
		}

		if stressOpts.validate {
			if validateErr := h.ValidateAll(); validateErr != nil {
				return errors.Wrapf(validateErr, "op %d", i)
			}
		}
	}

	// Verify and release everything, then the heap must collapse.
	for _, la := range live {
		if verifyErr := verify(la); verifyErr != nil {
			return errors.Wrap(verifyErr, "final sweep")
		}
		if freeErr := h.Free(la.ptr); freeErr != nil {
			return errors.Wrapf(freeErr, "final free(%#x)", la.ptr)
		}
	}
	if validateErr := h.ValidateAll(); validateErr != nil {
		return errors.Wrap(validateErr, "final validation")
	}

	report(os.Stdout, h, failures)
	return nil
}

func report(w *os.File, h *heap.Heap, failures int) {
	mi := h.Mallinfo()
	st := h.Stats()
	fmt.Fprintf(w, "arena          %s\n", humanize.IBytes(uint64(mi.Arena)))
	fmt.Fprintf(w, "free regions   %d holding %s\n", mi.Ordblks, humanize.IBytes(uint64(mi.Fordblks)))
	fmt.Fprintf(w, "allocs         %d (%d fast, %d slow, %d failed)\n",
		st.AllocCalls, st.AllocFastPath, st.AllocSlowPath, failures)
	fmt.Fprintf(w, "frees          %d\n", st.FreeCalls)
	fmt.Fprintf(w, "reallocs       %d (%d next-absorbs)\n", st.ReallocCalls, st.NextAbsorbs)
	fmt.Fprintf(w, "tail extends   %d\n", st.LastExtends)
	fmt.Fprintf(w, "splits         %d\n", st.Splits)
	fmt.Fprintf(w, "merges         %d forward, %d backward\n", st.MergesForward, st.MergesBackward)
	fmt.Fprintf(w, "speculative    %d hits\n", st.SpeculativeHits)
}
