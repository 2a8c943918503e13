// Package mem provides raw address arithmetic over a managed heap region.
//
// Every helper here operates on plain uintptr addresses. The allocator owns
// the memory behind those addresses for its entire lifetime, so converting
// back to unsafe.Pointer for loads and stores is safe as long as callers
// never hand out addresses outside the managed region.
package mem

import "unsafe"

// PtrSize is the width of a machine pointer in bytes (4 on 32-bit, 8 on
// 64-bit). Every intrusive free-list link occupies exactly this much space
// inside the freed block itself.
const PtrSize = 4 << (^uintptr(0) >> 63)

// PageSize is the allocation granule for heap sub-regions. Sub-region
// starts are page-aligned so that every power-of-two block size up to
// PageSize is naturally aligned within its sub-region.
const PageSize = 4096

// AlignUp returns n rounded up to the next multiple of align.
// align must be a power of two.
//
// Example:
//
//	AlignUp(1, 8)  = 8
//	AlignUp(8, 8)  = 8
//	AlignUp(9, 8)  = 16
func AlignUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}

// AlignDown returns n rounded down to the previous multiple of align.
// align must be a power of two.
func AlignDown(n, align uintptr) uintptr {
	return n &^ (align - 1)
}

// IsAligned reports whether n is a multiple of align.
// align must be a power of two.
func IsAligned(n, align uintptr) bool {
	return n&(align-1) == 0
}

// IsPow2 reports whether n is a non-zero power of two.
func IsPow2(n uintptr) bool {
	return n != 0 && n&(n-1) == 0
}

// LoadPtr reads a pointer-sized word stored at addr.
func LoadPtr(addr uintptr) uintptr {
	return *(*uintptr)(unsafe.Pointer(addr)) //nolint:govet // addr is inside the managed region
}

// StorePtr writes a pointer-sized word at addr.
func StorePtr(addr, val uintptr) {
	*(*uintptr)(unsafe.Pointer(addr)) = val //nolint:govet // addr is inside the managed region
}

// Bytes returns the n bytes starting at addr as a slice. The caller must
// guarantee [addr, addr+n) lies inside memory it owns.
func Bytes(addr, n uintptr) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), n) //nolint:govet
}

// Copy copies n bytes from src to dst. The ranges must not belong to
// overlapping live allocations.
func Copy(dst, src, n uintptr) {
	copy(Bytes(dst, n), Bytes(src, n))
}

// Zero clears n bytes starting at addr.
func Zero(addr, n uintptr) {
	b := Bytes(addr, n)
	for i := range b {
		b[i] = 0
	}
}
