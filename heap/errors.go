package heap

import "errors"

var (
	// ErrNoSpace indicates the request cannot be satisfied by any
	// subsystem. The heap is intact; the caller decides how to recover.
	ErrNoSpace = errors.New("heap: out of memory")

	// ErrUninitialized indicates an operation on a Heap that has not been
	// given a region via Init.
	ErrUninitialized = errors.New("heap: allocator not initialized")

	// ErrAlreadyInitialized indicates a second Init call. The first
	// region stays bound; the call has no effect.
	ErrAlreadyInitialized = errors.New("heap: already initialized")

	// ErrBadRegion indicates an Init region that is empty, misaligned,
	// overflowing, or too small to give every size class a sub-region.
	ErrBadRegion = errors.New("heap: unusable heap region")

	// ErrBadAlign indicates an alignment that is not a power of two.
	ErrBadAlign = errors.New("heap: alignment must be a power of two")

	// ErrBadPointer indicates a pointer outside the managed region.
	ErrBadPointer = errors.New("heap: pointer outside managed region")

	// ErrBadConfig indicates size classes that are not ascending powers
	// of two within the supported range.
	ErrBadConfig = errors.New("heap: invalid size class configuration")
)
