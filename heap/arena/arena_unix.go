//go:build linux || darwin

package arena

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// New creates an arena backed by an anonymous mapping reserved at full
// capacity. Pages are committed lazily by the kernel, so reserving the
// whole capacity up front costs nothing, and growth never moves the
// buffer. If the mapping cannot be created the slice backing is used
// instead.
func New(opts *Options) (*Arena, error) {
	capacity, err := opts.capacity()
	if err != nil {
		return nil, err
	}

	res, err := unix.Mmap(-1, 0, capacity,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return NewSlice(opts)
	}

	a := &Arena{res: res, capacity: capacity}
	if opts != nil {
		a.end = opts.Misalign
	}
	a.buf = res[:a.end]
	return a, nil
}

// Close releases the reservation. Slice-backed arenas have nothing to
// release.
func (a *Arena) Close() error {
	if a.res == nil {
		return nil
	}
	res := a.res
	a.res = nil
	a.buf = nil
	if err := unix.Munmap(res); err != nil {
		return errors.Wrap(err, "arena: munmap")
	}
	return nil
}
