package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// FloorLog2 is checked against a table for small inputs and the 32-bit
// extremes.
func Test_FloorLog2(t *testing.T) {
	table := []struct {
		x    uint32
		want uint32
	}{
		{1, 0},
		{2, 1},
		{3, 1},
		{4, 2},
		{5, 2},
		{7, 2},
		{8, 3},
		{9, 3},
		{15, 3},
		{16, 4},
		{17, 4},
		{31, 4},
		{32, 5},
		{100, 6},
		{128, 7},
		{1 << 20, 20},
		{1<<31 - 1, 30},
		{1 << 31, 31},
		{1<<32 - 1, 31},
	}
	for _, tc := range table {
		require.Equal(t, tc.want, FloorLog2(tc.x), "FloorLog2(%d)", tc.x)
	}
}

func Test_IsPowerOf2(t *testing.T) {
	for _, x := range []uint32{1, 2, 4, 16, 1 << 20, 1 << 31} {
		require.True(t, IsPowerOf2(x), "%d", x)
	}
	for _, x := range []uint32{0, 3, 5, 6, 7, 100, 1<<31 + 1, 1<<32 - 1} {
		require.False(t, IsPowerOf2(x), "%d", x)
	}
}
