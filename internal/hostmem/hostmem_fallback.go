//go:build !unix

// Package hostmem reserves page-aligned backing memory for the allocator
// when it runs hosted (tests, benchmarks, heapctl). On a real target the
// bootstrap code hands the allocator a physical region instead; this
// package only exists so the same code paths can be exercised on a
// development machine.
package hostmem

import (
	"sync"
	"unsafe"
)

const pageSize = 4096

var (
	mu   sync.Mutex
	live = map[uintptr][]byte{}
)

// Reserve allocates size bytes of zeroed memory aligned to a page boundary
// and returns its base address together with a release function. The
// backing slice is pinned in the live map so the garbage collector keeps
// it alive until release is called.
func Reserve(size uintptr) (uintptr, func() error, error) {
	buf := make([]byte, size+pageSize)
	raw := uintptr(unsafe.Pointer(&buf[0]))
	base := (raw + pageSize - 1) &^ (pageSize - 1)

	mu.Lock()
	live[base] = buf
	mu.Unlock()

	release := func() error {
		mu.Lock()
		delete(live, base)
		mu.Unlock()
		return nil
	}
	return base, release, nil
}
