package heap

// Region describes the bounds of the memory under management. It is set
// exactly once during Init and immutable afterwards; the Heap owns the
// range exclusively for its entire lifetime.
type Region struct {
	base uintptr
	size uintptr
}

// Base returns the first managed address.
func (r Region) Base() uintptr { return r.base }

// Size returns the managed length in bytes.
func (r Region) Size() uintptr { return r.size }

// End returns the first address past the managed range.
func (r Region) End() uintptr { return r.base + r.size }

// Contains reports whether p lies inside the managed range.
func (r Region) Contains(p uintptr) bool {
	return p >= r.base && p < r.base+r.size
}
