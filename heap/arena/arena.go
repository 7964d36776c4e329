// Package arena provides the program-break primitive backing the heap.
//
// An Arena is a single linear byte range that only ever grows. Grow(n)
// extends the break by n bytes and returns the previous break, exactly like
// sbrk(): callers are guaranteed that consecutive calls hand out contiguous
// offsets. Nothing is ever unmapped or returned.
//
// Two backings exist. On linux and darwin the arena reserves its whole
// capacity up front as an anonymous mapping, so growth never moves the
// buffer. Elsewhere (and always via NewSlice) a plain slice is used and
// growth may reallocate; callers must re-fetch Bytes() after any growth.
package arena

import (
	"github.com/pkg/errors"
)

const (
	// DefaultCapacity is the break limit when Options.Capacity is zero.
	DefaultCapacity = 256 << 20

	// maxCapacity keeps offsets representable as uint32 with room to spare.
	maxCapacity = 1 << 31
)

// ErrExhausted is returned by Grow when the break would pass the capacity.
var ErrExhausted = errors.New("arena: break limit reached")

// Options configures an Arena. The zero value (or a nil pointer) selects
// the defaults.
type Options struct {
	// Capacity is the maximum number of bytes the break may reach.
	// 0 means DefaultCapacity.
	Capacity int64

	// Misalign places the initial break this many bytes past the start of
	// the buffer. The bytes below it are never handed out. Used in tests to
	// exercise the first-growth alignment fixup; real breaks start at 0.
	Misalign int
}

// Arena is a monotonically growing linear byte range.
type Arena struct {
	buf      []byte
	res      []byte // full reservation when mmap-backed, nil otherwise
	end      int
	capacity int
}

func (o *Options) capacity() (int, error) {
	c := int64(DefaultCapacity)
	if o != nil && o.Capacity != 0 {
		c = o.Capacity
	}
	if c <= 0 || c > maxCapacity {
		return 0, errors.Errorf("arena: capacity %d out of range", c)
	}
	if o != nil && int64(o.Misalign) >= c {
		return 0, errors.Errorf("arena: misalign %d exceeds capacity %d", o.Misalign, c)
	}
	return int(c), nil
}

// NewSlice creates a slice-backed arena. Growth may reallocate the buffer,
// so slices obtained from Bytes() are invalidated by Grow.
func NewSlice(opts *Options) (*Arena, error) {
	capacity, err := opts.capacity()
	if err != nil {
		return nil, err
	}
	a := &Arena{capacity: capacity}
	if opts != nil {
		a.end = opts.Misalign
		a.buf = make([]byte, a.end)
	}
	return a, nil
}

// Grow extends the break by n bytes and returns the previous break.
// The new bytes are zero. On failure the break is unchanged.
func (a *Arena) Grow(n uint32) (uint32, error) {
	old := a.end
	if int64(old)+int64(n) > int64(a.capacity) {
		return 0, errors.Wrapf(ErrExhausted, "grow %d at break %d (capacity %d)", n, old, a.capacity)
	}
	end := old + int(n)
	if a.res != nil {
		a.buf = a.res[:end]
	} else {
		if end > cap(a.buf) {
			grown := make([]byte, end, growCap(cap(a.buf), end, a.capacity))
			copy(grown, a.buf)
			a.buf = grown
		} else {
			a.buf = a.buf[:end]
		}
	}
	a.end = end
	return uint32(old), nil
}

// growCap doubles the slice capacity until it covers want, clamped to limit.
func growCap(have, want, limit int) int {
	if have == 0 {
		have = 4096
	}
	for have < want {
		have *= 2
	}
	if have > limit {
		have = limit
	}
	return have
}

// Break returns the current break: one past the last byte handed out.
func (a *Arena) Break() uint32 {
	return uint32(a.end)
}

// Bytes returns the arena contents up to the current break. For the
// slice backing the result is invalidated by the next Grow.
func (a *Arena) Bytes() []byte {
	return a.buf
}
