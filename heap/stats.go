package heap

// Stats holds debug counters maintained by the facade. They exist for
// tests and for heapctl instrumentation; nothing inside the allocator
// reads them back.
type Stats struct {
	AllocCalls   uint64 // Alloc entered (including failures)
	FreeCalls    uint64 // Free entered
	ReallocCalls uint64 // Realloc entered

	SlabAllocs     uint64 // served by a size class
	SlabFrees      uint64 // returned to a size class
	FallbackAllocs uint64 // fallback-routed requests served
	FallbackFrees  uint64 // fallback-routed blocks returned

	SlabOverflows     uint64 // slab-routed requests spilled into the fallback region
	SlabOverflowFrees uint64 // spilled blocks recognized and returned on Free

	FailedAllocs uint64 // requests no subsystem could satisfy

	BytesAllocated uint64 // rounded sizes handed out
	BytesFreed     uint64 // rounded sizes taken back
}

// Stats returns a snapshot of the counters.
func (h *Heap) Stats() Stats {
	h.lk.lock()
	defer h.lk.unlock()
	return h.stats
}
