package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_AlignUp(t *testing.T) {
	cases := map[uint32]uint32{
		0:   0,
		1:   16,
		15:  16,
		16:  16,
		17:  32,
		100: 112,
		112: 112,
	}
	for in, want := range cases {
		require.Equal(t, want, AlignUp(in), "AlignUp(%d)", in)
	}
}

func Test_IsAligned(t *testing.T) {
	require.True(t, IsAligned(0))
	require.True(t, IsAligned(16))
	require.True(t, IsAligned(4096))
	require.False(t, IsAligned(1))
	require.False(t, IsAligned(17))
}
