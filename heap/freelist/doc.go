// Package freelist implements the general-purpose fallback allocator: an
// address-ordered, coalescing, first-fit free list over the part of the
// heap not reserved for slab classes.
//
// # Free-block layout
//
// Metadata lives inside the free memory itself. Every free block starts
// with a two-word header:
//
//	word 0: block size in bytes
//	word 1: address of the next free block, 0 at the end of the list
//
// Live allocations carry no header at all; the caller supplies the exact
// size back on Free, and the header is rebuilt in the memory being freed.
// Nothing on the free path ever allocates.
//
// # Invariants
//
//   - the list is kept in strictly ascending address order
//   - no two blocks on the list are address-adjacent; adjacency is
//     resolved by merging at Free time, checking only the insertion
//     point's neighbors
//   - every block is at least MinBlock bytes, so a header always fits
//
// Allocation scans from the head and takes the first block that can hold
// the request at its alignment (first-fit). Unused head and tail pieces of
// the chosen block go back on the list when they are at least MinBlock
// bytes; smaller tail remnants stay attached to the allocation as bounded
// internal fragmentation.
//
// The allocator never moves live data and never compacts. Locking is the
// facade's concern.
package freelist
