// heapstress drives a heap with randomized workloads and verifies that
// no allocation is ever corrupted by its neighbours or by allocator
// bookkeeping.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "heapstress",
	Short: "Exercise and verify the heapkit allocator",
	Long: `heapstress runs randomized allocate/free/realloc workloads against a
fresh heap, checksumming every live payload so that any corruption caused
by splitting, coalescing, or in-place growth is detected when that payload
is next freed or resized, or in the final sweep.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
