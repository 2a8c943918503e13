//go:build unix

// Package hostmem reserves page-aligned backing memory for the allocator
// when it runs hosted (tests, benchmarks, heapctl). On a real target the
// bootstrap code hands the allocator a physical region instead; this
// package only exists so the same code paths can be exercised on a
// development machine.
package hostmem

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Reserve maps size bytes of zeroed, page-aligned anonymous memory and
// returns its base address together with a release function. The mapping
// is private to the process and never moves, which is exactly the contract
// the allocator expects from its heap region.
func Reserve(size uintptr) (uintptr, func() error, error) {
	// Mmap takes an int length; reject sizes the host cannot express
	// (2 GiB and up on 32-bit platforms).
	if n := int(size); n < 0 || uintptr(n) != size {
		return 0, nil, unix.EINVAL
	}
	data, err := unix.Mmap(-1, 0, int(size),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return 0, nil, err
	}
	release := func() error {
		if data == nil {
			return nil
		}
		err := unix.Munmap(data)
		data = nil
		return err
	}
	return uintptr(unsafe.Pointer(&data[0])), release, nil
}
