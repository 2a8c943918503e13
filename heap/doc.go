// Package heap implements a dynamic memory allocator for freestanding
// environments: one statically-bounded region of raw memory, no operating
// system, no garbage collector, no recovery path if the allocator corrupts
// its own metadata.
//
// # Overview
//
// A Heap routes every request to one of two subsystems by a pure function
// of the request's size and alignment:
//
//   - slab.Pool: fixed-size classes with intrusive free lists and bump
//     cursors, O(1), for small common sizes
//   - freelist.Allocator: an address-ordered, coalescing, first-fit free
//     list, O(n), for everything else and for class overflow
//
// Because the routing function is deterministic and Free receives the same
// (size, align) pair that Alloc did, the allocator needs zero per-pointer
// bookkeeping to find the subsystem that owns a live allocation. The single
// exception is class overflow: a slab-routed block that spilled into the
// fallback region is recognized on Free by one bounds check against the
// slab sub-regions.
//
// # Lifecycle
//
// A Heap starts Empty and becomes Ready exactly once via Init, which
// partitions the region into one sub-region per size class followed by the
// fallback region. There is no way back to Empty. Allocating before Init
// fails with ErrUninitialized; a second Init fails with
// ErrAlreadyInitialized and leaves the heap untouched.
//
//	var global = heap.New() // usable as a process-wide static
//
//	func bootstrap(base, size uintptr) {
//		if err := global.Init(base, size); err != nil {
//			abort(err)
//		}
//	}
//
// # Concurrency
//
// Every public operation runs under a CAS spinlock covering the whole
// state mutation; there are no blocking primitives and no suspension
// points. No code path inside the allocator allocates, so the lock is
// re-entrancy-safe by construction.
//
// # Errors
//
// Exhaustion is an expected condition and is reported by ErrNoSpace, never
// by a panic: an allocator that aborts could be re-entered during its own
// abort handling. Contract violations (double free, size/align mismatch)
// are not detectable without per-pointer metadata and are undefined
// behavior; builds with the heapassert tag make many of them loud.
package heap
