package slab

import (
	"github.com/okhira/bareheap/internal/mem"
)

// cache serves one fixed block size from its own sub-region.
type cache struct {
	size uintptr // block size, power of two, >= 2*mem.PtrSize

	base  uintptr // sub-region start (page-aligned)
	limit uintptr // sub-region end, exclusive

	cursor uintptr // next never-carved address; carving stops at limit
	free   uintptr // head of the intrusive free list, 0 when empty
}

// alloc returns one block, preferring the free list over fresh carving.
// Returns 0 when the class is exhausted.
func (c *cache) alloc() uintptr {
	if p := c.free; p != 0 {
		c.free = mem.LoadPtr(p)
		return p
	}
	if c.cursor+c.size <= c.limit {
		p := c.cursor
		c.cursor += c.size
		return p
	}
	return 0
}

// freeBlock pushes a block onto the class free list (LIFO). The link lives
// inside the block's own memory.
func (c *cache) freeBlock(p uintptr) {
	mem.Assert(p >= c.base && p+c.size <= c.limit,
		"slab free: %#x outside class %d sub-region [%#x,%#x)", p, c.size, c.base, c.limit)
	mem.Assert(mem.IsAligned(p-c.base, c.size),
		"slab free: %#x not on a class %d block boundary", p, c.size)
	mem.StorePtr(p, c.free)
	c.free = p
}

// Pool is the size-class allocator: one cache per configured block size,
// ascending, over adjacent equally-sized sub-regions.
type Pool struct {
	classes []uintptr
	caches  []cache
	base    uintptr
	end     uintptr
}

// New carves one sub-region of perClass bytes for each class, in ascending
// class order starting at base. base must be page-aligned and perClass a
// page multiple so that every block is naturally aligned to its class size.
func New(base, perClass uintptr, classes []uintptr) *Pool {
	mem.Assert(mem.IsAligned(base, mem.PageSize), "slab pool base %#x not page-aligned", base)
	mem.Assert(mem.IsAligned(perClass, mem.PageSize), "slab sub-region size %#x not a page multiple", perClass)

	p := &Pool{
		classes: classes,
		caches:  make([]cache, len(classes)),
		base:    base,
		end:     base + perClass*uintptr(len(classes)),
	}
	for i, size := range classes {
		start := base + perClass*uintptr(i)
		p.caches[i] = cache{
			size:   size,
			base:   start,
			limit:  start + perClass,
			cursor: start,
		}
	}
	return p
}

// End returns the first address past the pool's last sub-region. The
// fallback region begins here.
func (p *Pool) End() uintptr {
	return p.end
}

// ClassFor returns the smallest configured class that can hold size, and
// false when size exceeds the largest class. Pure function of size; the
// Alloc and Free paths both rely on it resolving identically.
func (p *Pool) ClassFor(size uintptr) (uintptr, bool) {
	for _, c := range p.classes {
		if size <= c {
			return c, true
		}
	}
	return 0, false
}

// TryAlloc returns one block of exactly the given class, or false when the
// class is exhausted. class must be a value previously returned by
// ClassFor; an unknown class fails like exhaustion.
func (p *Pool) TryAlloc(class uintptr) (uintptr, bool) {
	c := p.cacheFor(class)
	if c == nil {
		return 0, false
	}
	if ptr := c.alloc(); ptr != 0 {
		return ptr, true
	}
	return 0, false
}

// Free returns a block to its class free list. The class is recomputed
// from the same value the facade derived at allocation time, so no
// per-pointer bookkeeping is needed. An unknown class is dropped rather
// than pushed onto a neighboring class's list.
func (p *Pool) Free(ptr, class uintptr) {
	if c := p.cacheFor(class); c != nil {
		c.freeBlock(ptr)
	}
}

// Owns reports whether ptr lies inside any class sub-region. The facade
// uses this single bounds check to tell slab blocks from overflow blocks
// that spilled into the fallback region.
func (p *Pool) Owns(ptr uintptr) bool {
	return ptr >= p.base && ptr < p.end
}

// cacheFor returns nil for a class the pool was not built with; assert
// builds trap the caller, release builds let the operation fail instead
// of touching the wrong class.
func (p *Pool) cacheFor(class uintptr) *cache {
	for i := range p.caches {
		if p.caches[i].size == class {
			return &p.caches[i]
		}
	}
	mem.Assert(false, "no cache for class %d", class)
	return nil
}

// FreeBlocks counts blocks currently on the free list of the given class.
// Debug accounting for tests and heapctl; O(list length).
func (p *Pool) FreeBlocks(class uintptr) int {
	c := p.cacheFor(class)
	if c == nil {
		return 0
	}
	n := 0
	for ptr := c.free; ptr != 0; ptr = mem.LoadPtr(ptr) {
		n++
	}
	return n
}

// Remaining returns how many fresh blocks the class cursor can still
// carve.
func (p *Pool) Remaining(class uintptr) int {
	c := p.cacheFor(class)
	if c == nil {
		return 0
	}
	return int((c.limit - c.cursor) / c.size)
}
