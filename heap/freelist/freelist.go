package freelist

import (
	"github.com/okhira/bareheap/internal/mem"
)

// MinBlock is the smallest block the allocator will track: one size word
// plus one link word. Requests round up to it, and split remainders below
// it are never put back on the list.
const MinBlock = 2 * mem.PtrSize

// Free-block header offsets, in bytes from the block start.
const (
	offSize = 0
	offNext = mem.PtrSize
)

// Allocator is the fallback free-list allocator over one contiguous
// region.
type Allocator struct {
	base uintptr // region start
	end  uintptr // region end, exclusive
	head uintptr // first free block by address, 0 when none
}

// New builds an allocator over [base, base+size) with the whole region as
// one free block. A region smaller than MinBlock starts out permanently
// exhausted rather than failing: the facade treats the fallback share as
// best-effort.
func New(base, size uintptr) *Allocator {
	mem.Assert(mem.IsAligned(base, mem.PtrSize), "freelist base %#x not pointer-aligned", base)
	a := &Allocator{base: base, end: base + size}
	if size >= MinBlock {
		writeBlock(base, size, 0)
		a.head = base
	}
	return a
}

// RoundSize maps a request to the block size actually carved: at least
// MinBlock, pointer-aligned. Alloc and Free apply it identically, which is
// what lets Free rebuild the exact block from the caller's size alone.
func RoundSize(size uintptr) uintptr {
	if size < MinBlock {
		size = MinBlock
	}
	return mem.AlignUp(size, mem.PtrSize)
}

// Alloc returns the first free range that can hold size bytes at the given
// alignment, or false when no block fits. align must be a power of two.
// O(n) over the free list.
func (a *Allocator) Alloc(size, align uintptr) (uintptr, bool) {
	size = RoundSize(size)
	if align < mem.PtrSize {
		align = mem.PtrSize
	}

	prev := uintptr(0)
	for cur := a.head; cur != 0; cur = blockNext(cur) {
		bsize := blockSize(cur)
		bend := cur + bsize

		aligned := mem.AlignUp(cur, align)
		// A head gap too small to stand alone would be lost forever;
		// push the candidate forward so the gap stays a usable block.
		if aligned > cur && aligned-cur < MinBlock {
			aligned = mem.AlignUp(cur+MinBlock, align)
		}

		if aligned+size > bend || aligned+size < aligned { // no fit (or overflow)
			prev = cur
			continue
		}

		// cur leaves the list; up to two fragments go back in its place,
		// already in address order: [cur,aligned) then [aligned+size,bend).
		next := blockNext(cur)
		link := prev

		if headGap := aligned - cur; headGap > 0 {
			writeBlock(cur, headGap, 0)
			a.linkAfter(link, cur)
			link = cur
		}
		if tail := bend - (aligned + size); tail >= MinBlock {
			tailOff := aligned + size
			writeBlock(tailOff, tail, 0)
			a.linkAfter(link, tailOff)
			link = tailOff
		}
		// Tail remnants under MinBlock stay fused to the allocation:
		// unrecoverable, but bounded by MinBlock per allocation.
		a.setNext(link, next)

		return aligned, true
	}
	return 0, false
}

// Free inserts [ptr, ptr+size) into the list at its address position and
// merges with whichever neighbors touch it. size must be the value passed
// to the matching Alloc; RoundSize is applied the same way.
func (a *Allocator) Free(ptr, size uintptr) {
	size = RoundSize(size)
	mem.Assert(ptr >= a.base && ptr+size <= a.end,
		"freelist free: [%#x,%#x) outside region [%#x,%#x)", ptr, ptr+size, a.base, a.end)

	// Find the insertion point: prev < ptr < next in address order.
	prev := uintptr(0)
	next := a.head
	for next != 0 && next < ptr {
		prev = next
		next = blockNext(next)
	}
	mem.Assert(next == 0 || ptr+size <= next,
		"freelist free: [%#x,%#x) overlaps free block at %#x", ptr, ptr+size, next)
	mem.Assert(prev == 0 || prev+blockSize(prev) <= ptr,
		"freelist free: [%#x,%#x) overlaps free block at %#x", ptr, ptr+size, prev)

	// Merge forward first so the backward merge sees the final extent.
	if next != 0 && ptr+size == next {
		size += blockSize(next)
		next = blockNext(next)
	}
	if prev != 0 && prev+blockSize(prev) == ptr {
		writeBlock(prev, blockSize(prev)+size, next)
		return
	}

	writeBlock(ptr, size, next)
	a.setNext(prev, ptr)
}

// Contains reports whether ptr lies inside the allocator's region.
func (a *Allocator) Contains(ptr uintptr) bool {
	return ptr >= a.base && ptr < a.end
}

// FreeBytes sums the sizes of all blocks on the list. O(n); debug
// accounting for tests and heapctl.
func (a *Allocator) FreeBytes() uintptr {
	total := uintptr(0)
	for cur := a.head; cur != 0; cur = blockNext(cur) {
		total += blockSize(cur)
	}
	return total
}

// Blocks counts the blocks on the list. O(n).
func (a *Allocator) Blocks() int {
	n := 0
	for cur := a.head; cur != 0; cur = blockNext(cur) {
		n++
	}
	return n
}

// CheckInvariants walks the list and verifies ascending order, region
// bounds, and the no-adjacent-blocks invariant. Test hook; returns false
// on the first violation.
func (a *Allocator) CheckInvariants() bool {
	prevEnd := uintptr(0)
	for cur := a.head; cur != 0; cur = blockNext(cur) {
		size := blockSize(cur)
		if cur < a.base || cur+size > a.end || size < MinBlock {
			return false
		}
		if prevEnd != 0 && cur <= prevEnd {
			// cur == prevEnd means two adjacent blocks escaped merging;
			// cur < prevEnd means the order or sizes are corrupt.
			return false
		}
		prevEnd = cur + size
	}
	return true
}

// setNext points at's link (or the list head when at is 0) to target.
func (a *Allocator) setNext(at, target uintptr) {
	if at == 0 {
		a.head = target
	} else {
		mem.StorePtr(at+offNext, target)
	}
}

// linkAfter splices target in directly after at (or at the head when at is
// 0), preserving target's own link.
func (a *Allocator) linkAfter(at, target uintptr) {
	if at == 0 {
		mem.StorePtr(target+offNext, a.head)
		a.head = target
	} else {
		mem.StorePtr(target+offNext, blockNext(at))
		mem.StorePtr(at+offNext, target)
	}
}

func blockSize(block uintptr) uintptr { return mem.LoadPtr(block + offSize) }
func blockNext(block uintptr) uintptr { return mem.LoadPtr(block + offNext) }

func writeBlock(block, size, next uintptr) {
	mem.StorePtr(block+offSize, size)
	mem.StorePtr(block+offNext, next)
}
