package heap

import (
	"github.com/okhira/bareheap/heap/freelist"
	"github.com/okhira/bareheap/heap/slab"
	"github.com/okhira/bareheap/internal/mem"
)

// Heap lifecycle states. The only transition is Empty -> Ready, made
// exactly once by Init.
const (
	stateEmpty uint32 = iota
	stateReady
)

// Heap is the allocator facade: it owns the lock, the lifecycle, and the
// routing decision between the slab pool and the fallback free list. A
// zero-argument New() Heap is a valid process-wide static; it just fails
// every operation until Init binds a region.
type Heap struct {
	lk    spinLock
	state uint32 // guarded by lk

	cfg    Config
	region Region
	pool   *slab.Pool
	fb     *freelist.Allocator

	stats Stats
}

// New returns an empty Heap using DefaultConfig.
func New() *Heap {
	return NewWithConfig(DefaultConfig)
}

// NewWithConfig returns an empty Heap with a custom size-class strategy.
// The config is validated at Init, not here, so package-level construction
// can never fail.
func NewWithConfig(cfg Config) *Heap {
	return &Heap{cfg: cfg}
}

// Init binds [base, base+size) to the heap and carves it up: one
// equally-sized, page-aligned sub-region per size class in ascending class
// order, then the fallback region over the remainder. The caller
// guarantees exclusive ownership of the range for the life of the
// process; Init validates shape, not ownership.
func (h *Heap) Init(base, size uintptr) error {
	h.lk.lock()
	defer h.lk.unlock()

	if h.state == stateReady {
		return ErrAlreadyInitialized
	}
	if err := h.cfg.validate(); err != nil {
		return err
	}
	if size == 0 || base+size < base {
		return ErrBadRegion
	}
	if !mem.IsAligned(base, mem.PageSize) {
		return ErrBadRegion
	}

	// Every class gets one share, the fallback gets the last. Rounding
	// the share down to a page keeps each sub-region start page-aligned,
	// which is what makes power-of-two classes naturally aligned.
	shares := uintptr(len(h.cfg.Classes)) + 1
	perClass := mem.AlignDown(size/shares, mem.PageSize)
	if perClass == 0 {
		return ErrBadRegion
	}

	h.region = Region{base: base, size: size}
	h.pool = slab.New(base, perClass, h.cfg.Classes)
	fbBase := h.pool.End()
	h.fb = freelist.New(fbBase, base+size-fbBase)
	h.state = stateReady
	return nil
}

// Ready reports whether Init has run.
func (h *Heap) Ready() bool {
	h.lk.lock()
	defer h.lk.unlock()
	return h.state == stateReady
}

// Region returns the managed bounds. Zero before Init.
func (h *Heap) Region() Region {
	h.lk.lock()
	defer h.lk.unlock()
	return h.region
}

// SlabEnd returns the boundary between the slab sub-regions and the
// fallback region. Debug accounting for tests and heapctl.
func (h *Heap) SlabEnd() uintptr {
	h.lk.lock()
	defer h.lk.unlock()
	if h.state != stateReady {
		return 0
	}
	return h.pool.End()
}

// RoutesToSlab reports which subsystem a (size, align) pair routes to.
// This is the load-bearing pure function of the design: it has no hidden
// state beyond the immutable config, and Alloc and Free both derive their
// subsystem from it, so no per-pointer ownership metadata exists anywhere.
//
// A request routes to the slab pool iff some class can hold it and the
// class's natural alignment (its size, a power of two) satisfies align.
func (h *Heap) RoutesToSlab(size, align uintptr) bool {
	_, ok := h.routeClass(size, align)
	return ok
}

// routeClass returns the rounded class for slab-routed requests. Both the
// Alloc and Free paths feed the class, not the raw size, to whichever
// subsystem serves the request, so the two paths stay symmetric even when
// a class overflows into the fallback region.
func (h *Heap) routeClass(size, align uintptr) (uintptr, bool) {
	for _, class := range h.cfg.Classes {
		if size <= class {
			return class, align <= class
		}
	}
	return 0, false
}

// Alloc returns size bytes aligned to align, or ErrNoSpace when neither
// subsystem can serve the request. align must be a power of two; a zero
// size is treated as one byte so every success is a unique address.
func (h *Heap) Alloc(size, align uintptr) (uintptr, error) {
	if !mem.IsPow2(align) {
		return 0, ErrBadAlign
	}
	if size == 0 {
		size = 1
	}

	h.lk.lock()
	defer h.lk.unlock()

	if h.state != stateReady {
		return 0, ErrUninitialized
	}
	h.stats.AllocCalls++

	ptr, got := h.allocLocked(size, align)
	if ptr == 0 {
		h.stats.FailedAllocs++
		return 0, ErrNoSpace
	}
	h.stats.BytesAllocated += uint64(got)

	mem.Assert(mem.IsAligned(ptr, align), "alloc(%d,%d) returned misaligned %#x", size, align, ptr)
	mem.Assert(h.region.Contains(ptr), "alloc(%d,%d) returned %#x outside region", size, align, ptr)
	return ptr, nil
}

// AllocZeroed is Alloc followed by clearing the block.
func (h *Heap) AllocZeroed(size, align uintptr) (uintptr, error) {
	ptr, err := h.Alloc(size, align)
	if err != nil {
		return 0, err
	}
	if size == 0 {
		size = 1
	}
	mem.Zero(ptr, size)
	return ptr, nil
}

// allocLocked routes and serves one request. Returns the address and the
// rounded number of bytes actually consumed, or (0, 0) on exhaustion.
func (h *Heap) allocLocked(size, align uintptr) (uintptr, uintptr) {
	if class, toSlab := h.routeClass(size, align); toSlab {
		if ptr, ok := h.pool.TryAlloc(class); ok {
			h.stats.SlabAllocs++
			return ptr, class
		}
		// Class exhausted: overflow into the fallback region with the
		// same rounded class size, so the Free path can mirror it.
		if ptr, ok := h.fb.Alloc(class, align); ok {
			h.stats.SlabOverflows++
			return ptr, freelist.RoundSize(class)
		}
		return 0, 0
	}
	if ptr, ok := h.fb.Alloc(size, align); ok {
		h.stats.FallbackAllocs++
		return ptr, freelist.RoundSize(size)
	}
	return 0, 0
}

// Free returns a block to the heap. (size, align) must be exactly the pair
// passed to the matching Alloc; that repetition is the contract that
// replaces per-pointer metadata. Passing anything else, or freeing twice,
// is undefined behavior; heapassert builds trap most cases.
func (h *Heap) Free(ptr, size, align uintptr) error {
	if !mem.IsPow2(align) {
		return ErrBadAlign
	}
	if size == 0 {
		size = 1
	}

	h.lk.lock()
	defer h.lk.unlock()

	if h.state != stateReady {
		return ErrUninitialized
	}
	if !h.region.Contains(ptr) {
		return ErrBadPointer
	}
	h.stats.FreeCalls++
	h.freeLocked(ptr, size, align)
	return nil
}

func (h *Heap) freeLocked(ptr, size, align uintptr) {
	if class, toSlab := h.routeClass(size, align); toSlab {
		if h.pool.Owns(ptr) {
			h.pool.Free(ptr, class)
			h.stats.SlabFrees++
			h.stats.BytesFreed += uint64(class)
			return
		}
		// The block spilled into the fallback region at Alloc time.
		h.fb.Free(ptr, class)
		h.stats.SlabOverflowFrees++
		h.stats.BytesFreed += uint64(freelist.RoundSize(class))
		return
	}
	h.fb.Free(ptr, size)
	h.stats.FallbackFrees++
	h.stats.BytesFreed += uint64(freelist.RoundSize(size))
}

// Realloc resizes an allocation, preserving min(oldSize, newSize) bytes of
// content. The default strategy is allocate-new / copy / free-old; when
// the routing decision and rounded class are unchanged the existing block
// already fits and is returned as-is. On failure the old block is left
// untouched and still owned by the caller.
func (h *Heap) Realloc(ptr, oldSize, oldAlign, newSize, newAlign uintptr) (uintptr, error) {
	if ptr == 0 {
		return h.Alloc(newSize, newAlign)
	}
	if !mem.IsPow2(oldAlign) || !mem.IsPow2(newAlign) {
		return 0, ErrBadAlign
	}
	if oldSize == 0 {
		oldSize = 1
	}
	if newSize == 0 {
		newSize = 1
	}

	h.lk.lock()
	defer h.lk.unlock()

	if h.state != stateReady {
		return 0, ErrUninitialized
	}
	if !h.region.Contains(ptr) {
		return 0, ErrBadPointer
	}
	h.stats.ReallocCalls++

	// Same class, satisfied alignment: the block already holds newSize.
	// This holds for spilled blocks too, since both paths carved exactly
	// the class size.
	oldClass, oldSlab := h.routeClass(oldSize, oldAlign)
	newClass, newSlab := h.routeClass(newSize, newAlign)
	if oldSlab && newSlab && oldClass == newClass && mem.IsAligned(ptr, newAlign) {
		return ptr, nil
	}

	dst, got := h.allocLocked(newSize, newAlign)
	if dst == 0 {
		h.stats.FailedAllocs++
		return 0, ErrNoSpace
	}
	h.stats.BytesAllocated += uint64(got)

	n := oldSize
	if newSize < n {
		n = newSize
	}
	mem.Copy(dst, ptr, n)
	h.freeLocked(ptr, oldSize, oldAlign)
	return dst, nil
}
