package heap

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okhira/bareheap/internal/mem"
)

// TestLiveRangesNeverOverlap drives a long random alloc/free workload and
// checks after every operation that no two live allocations overlap and
// every pointer honors its alignment. This is the property that cannot be
// recovered from once broken: overlap is silent corruption.
func TestLiveRangesNeverOverlap(t *testing.T) {
	h := newTestHeapWithConfig(t, 128, DefaultConfig)

	type allocation struct{ ptr, size, align uintptr }
	var live []allocation

	overlaps := func(a, b allocation) bool {
		aEnd := a.ptr + a.size
		bEnd := b.ptr + b.size
		return a.ptr < bEnd && b.ptr < aEnd
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 5000; i++ {
		if len(live) > 0 && rng.Intn(3) == 0 {
			j := rng.Intn(len(live))
			a := live[j]
			live[j] = live[len(live)-1]
			live = live[:len(live)-1]
			require.NoError(t, h.Free(a.ptr, a.size, a.align))
			continue
		}

		size := uintptr(rng.Intn(1024) + 1)
		align := uintptr(1) << rng.Intn(8)
		ptr, err := h.Alloc(size, align)
		if err != nil {
			// Exhaustion is legal; corruption is not. Drop something
			// and carry on.
			require.ErrorIs(t, err, ErrNoSpace)
			continue
		}

		next := allocation{ptr, size, align}
		require.True(t, mem.IsAligned(ptr, align), "op %d: misaligned %#x", i, ptr)
		require.True(t, h.Region().Contains(ptr), "op %d: %#x outside region", i, ptr)
		for _, a := range live {
			require.False(t, overlaps(a, next),
				"op %d: [%#x,%#x) overlaps [%#x,%#x)", i, next.ptr, next.ptr+next.size, a.ptr, a.ptr+a.size)
		}
		live = append(live, next)
	}

	for _, a := range live {
		require.NoError(t, h.Free(a.ptr, a.size, a.align))
	}
	s := h.Stats()
	assert.Equal(t, s.BytesAllocated, s.BytesFreed, "all memory must be back")
}

// TestPatternIntegrity writes a distinct byte pattern into every live
// block and verifies it after neighboring churn: if the allocator ever
// handed out overlapping memory, some pattern would be clobbered.
func TestPatternIntegrity(t *testing.T) {
	h := newTestHeap(t, 128)

	type allocation struct {
		ptr, size, align uintptr
		tag              byte
	}
	var live []allocation

	fill := func(a allocation) {
		b := mem.Bytes(a.ptr, a.size)
		for i := range b {
			b[i] = a.tag
		}
	}
	check := func(a allocation) {
		b := mem.Bytes(a.ptr, a.size)
		for i := range b {
			require.Equal(t, a.tag, b[i], "block %#x byte %d clobbered", a.ptr, i)
		}
	}

	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 2000; i++ {
		if len(live) > 8 && rng.Intn(2) == 0 {
			j := rng.Intn(len(live))
			a := live[j]
			check(a)
			live[j] = live[len(live)-1]
			live = live[:len(live)-1]
			require.NoError(t, h.Free(a.ptr, a.size, a.align))
			continue
		}
		size := uintptr(rng.Intn(512) + 1)
		ptr, err := h.Alloc(size, 8)
		require.NoError(t, err, "op %d", i)
		a := allocation{ptr, size, 8, byte(i)}
		fill(a)
		live = append(live, a)
	}
	for _, a := range live {
		check(a)
		require.NoError(t, h.Free(a.ptr, a.size, a.align))
	}
}
