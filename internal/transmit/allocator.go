package transmit

import (
	"errors"
	"fmt"
)

// ErrAllocation is returned by the default allocator for sizes it refuses.
var ErrAllocation = errors.New("transmit: buffer allocation refused")

// Allocator hands out the zeroed sample buffers of a transmission.
type Allocator interface {
	// Alloc returns a zeroed buffer of exactly size bytes.
	Alloc(size int) ([]byte, error)
	// Free returns a buffer obtained from Alloc.
	Free(buf []byte)
}

// heapAllocator allocates from the Go heap and refuses sizes outside
// (0, limit()].
type heapAllocator struct {
	limit func() int
}

func (a heapAllocator) Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size %d", ErrAllocation, size)
	}
	if lim := a.limit(); lim > 0 && size > lim {
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", ErrAllocation, size, lim)
	}
	return make([]byte, size), nil
}

func (heapAllocator) Free([]byte) {}
