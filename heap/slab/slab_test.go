package slab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okhira/bareheap/internal/hostmem"
	"github.com/okhira/bareheap/internal/mem"
)

var testClasses = []uintptr{64, 128, 256, 512}

// newTestPool reserves backing memory and builds a pool with one page per
// class.
func newTestPool(t *testing.T, pagesPerClass int) *Pool {
	t.Helper()
	perClass := uintptr(pagesPerClass) * mem.PageSize
	base, release, err := hostmem.Reserve(perClass * uintptr(len(testClasses)))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, release()) })
	return New(base, perClass, testClasses)
}

func TestClassForRoundsUp(t *testing.T) {
	p := newTestPool(t, 1)

	cases := []struct {
		size  uintptr
		class uintptr
		ok    bool
	}{
		{1, 64, true},
		{64, 64, true},
		{65, 128, true},
		{128, 128, true},
		{500, 512, true},
		{512, 512, true},
		{513, 0, false},
		{1 << 20, 0, false},
	}
	for _, tc := range cases {
		class, ok := p.ClassFor(tc.size)
		assert.Equal(t, tc.ok, ok, "size %d", tc.size)
		assert.Equal(t, tc.class, class, "size %d", tc.size)
	}
}

func TestBumpCarvesAscending(t *testing.T) {
	p := newTestPool(t, 1)

	p0, ok := p.TryAlloc(64)
	require.True(t, ok)
	p1, ok := p.TryAlloc(64)
	require.True(t, ok)

	assert.Equal(t, p0+64, p1, "fresh blocks must be carved in address order")
	assert.True(t, mem.IsAligned(p0, 64))
	assert.True(t, mem.IsAligned(p1, 64))
}

func TestFreeListIsLIFO(t *testing.T) {
	p := newTestPool(t, 1)

	p0, _ := p.TryAlloc(128)
	p1, _ := p.TryAlloc(128)
	require.NotEqual(t, p0, p1)

	p.Free(p0, 128)
	p.Free(p1, 128)
	assert.Equal(t, 2, p.FreeBlocks(128))

	// Most recently freed comes back first, then the other; only after
	// the list drains does the cursor carve fresh memory again.
	r1, _ := p.TryAlloc(128)
	assert.Equal(t, p1, r1)
	r0, _ := p.TryAlloc(128)
	assert.Equal(t, p0, r0)
	assert.Equal(t, 0, p.FreeBlocks(128))
}

func TestClassExhaustion(t *testing.T) {
	p := newTestPool(t, 1)

	total := p.Remaining(512)
	require.Equal(t, mem.PageSize/512, total)

	ptrs := make([]uintptr, 0, total)
	for n := 0; n < total; n++ {
		ptr, ok := p.TryAlloc(512)
		require.True(t, ok)
		ptrs = append(ptrs, ptr)
	}

	_, ok := p.TryAlloc(512)
	assert.False(t, ok, "exhausted class must fail, not hand out foreign memory")

	// Exhaustion of one class must not bleed into another.
	_, ok = p.TryAlloc(64)
	assert.True(t, ok)

	// Freeing one block revives exactly one allocation.
	p.Free(ptrs[3], 512)
	got, ok := p.TryAlloc(512)
	require.True(t, ok)
	assert.Equal(t, ptrs[3], got)
	_, ok = p.TryAlloc(512)
	assert.False(t, ok)
}

func TestSubRegionsPartition(t *testing.T) {
	p := newTestPool(t, 2)

	// One block from each class; all distinct, all inside the pool, each
	// naturally aligned to its class.
	seen := map[uintptr]bool{}
	for _, class := range testClasses {
		ptr, ok := p.TryAlloc(class)
		require.True(t, ok)
		assert.False(t, seen[ptr])
		seen[ptr] = true
		assert.True(t, p.Owns(ptr))
		assert.True(t, mem.IsAligned(ptr, class), "class %d block at %#x", class, ptr)
	}
	assert.False(t, p.Owns(p.End()))
	assert.False(t, p.Owns(0))
}

func TestUnknownClassFailsSafely(t *testing.T) {
	p := newTestPool(t, 1)

	// 96 is not a configured class: allocation fails like exhaustion.
	ptr, ok := p.TryAlloc(96)
	assert.False(t, ok)
	assert.Zero(t, ptr)
	assert.Zero(t, p.FreeBlocks(96))
	assert.Zero(t, p.Remaining(96))

	// A free with a bogus class is dropped, not pushed onto another
	// class's list.
	block, ok := p.TryAlloc(64)
	require.True(t, ok)
	p.Free(block, 96)
	for _, class := range testClasses {
		assert.Zero(t, p.FreeBlocks(class), "class %d", class)
	}

	p.Free(block, 64)
	assert.Equal(t, 1, p.FreeBlocks(64))
}
