// Package slab implements the size-class pool that serves small, common
// allocation sizes in O(1).
//
// # Overview
//
// The pool owns one contiguous sub-region per configured block size. Each
// class hands out fixed-size blocks from two sources, in order:
//
//  1. an intrusive free list: the "next" link of each free block is stored
//     in the first pointer-sized word of the block itself, so the list
//     costs no memory beyond the blocks it chains
//  2. a bump cursor: fresh blocks are carved lazily from the never-touched
//     tail of the class sub-region
//
// Freed blocks are pushed back LIFO, so the most recently freed block is
// the next one reused. A class whose cursor has reached the sub-region end
// and whose free list is empty is exhausted; the caller decides whether to
// overflow elsewhere.
//
// # Alignment
//
// Block sizes are powers of two and sub-regions start page-aligned, so
// every block is naturally aligned to its class size. Requests needing
// stricter alignment than their class must not be routed here.
//
// The pool performs no locking and no bounds validation of freed pointers
// outside debug builds; the facade in package heap owns both concerns.
package slab
