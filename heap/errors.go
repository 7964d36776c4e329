package heap

import "errors"

var (
	// ErrNoSpace indicates that no free region large enough was found and
	// the arena could not grow.
	ErrNoSpace = errors.New("heap: out of memory")

	// ErrBadPtr indicates a pointer that cannot be a payload address:
	// misaligned, out of bounds, or below the first region.
	ErrBadPtr = errors.New("heap: bad payload pointer")

	// ErrBadAlign indicates a Memalign alignment that is not a power of two.
	ErrBadAlign = errors.New("heap: alignment must be a power of two")
)

// posix_memalign status codes (32-bit libc values).
const (
	EINVAL = 22
	ENOMEM = 12
)
