package heap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/okhira/bareheap/internal/hostmem"
	"github.com/okhira/bareheap/internal/mem"
)

// newTestHeap reserves pages of backing memory, binds a fresh Heap to it,
// and returns the heap with its region bounds.
func newTestHeap(t *testing.T, pages int) *Heap {
	t.Helper()
	return newTestHeapWithConfig(t, pages, DefaultConfig)
}

func newTestHeapWithConfig(t *testing.T, pages int, cfg Config) *Heap {
	t.Helper()
	size := uintptr(pages) * mem.PageSize
	base, release, err := hostmem.Reserve(size)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, release()) })

	h := NewWithConfig(cfg)
	require.NoError(t, h.Init(base, size))
	return h
}

// inFallback reports whether ptr landed in the fallback region rather
// than a slab sub-region.
func inFallback(h *Heap, ptr uintptr) bool {
	return ptr >= h.SlabEnd() && ptr < h.Region().End()
}
