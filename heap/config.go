package heap

import "github.com/okhira/bareheap/internal/mem"

// Config defines the slab size-class strategy. The class sequence and the
// sub-region split are configuration choices, not fixed by the design;
// different targets trade heap headroom against routing granularity.
type Config struct {
	// Classes lists the slab block sizes in ascending order. Each must
	// be a power of two, at least 2*PtrSize (an intrusive link plus a
	// free-list header must fit in a freed block), and at most PageSize
	// (so page-aligned sub-regions give natural alignment for free).
	Classes []uintptr
}

// Predefined configurations.
var (
	// DefaultConfig mirrors the classic slab ladder: seven power-of-two
	// classes from 64 bytes to one page. The heap splits into eight
	// equal shares, one per class plus one for the fallback region.
	DefaultConfig = Config{
		Classes: []uintptr{64, 128, 256, 512, 1024, 2048, 4096},
	}

	// CompactConfig suits small heaps: fewer, smaller classes leave a
	// larger fallback share for odd-sized requests.
	CompactConfig = Config{
		Classes: []uintptr{32, 64, 128, 256, 512},
	}
)

// MaxClass returns the largest configured class, the routing cutoff above
// which every request goes to the fallback allocator.
func (c Config) MaxClass() uintptr {
	if len(c.Classes) == 0 {
		return 0
	}
	return c.Classes[len(c.Classes)-1]
}

func (c Config) validate() error {
	if len(c.Classes) == 0 {
		return ErrBadConfig
	}
	prev := uintptr(0)
	for _, class := range c.Classes {
		switch {
		case !mem.IsPow2(class):
			return ErrBadConfig
		case class < 2*mem.PtrSize:
			return ErrBadConfig
		case class > mem.PageSize:
			return ErrBadConfig
		case class <= prev:
			return ErrBadConfig
		}
		prev = class
	}
	return nil
}
