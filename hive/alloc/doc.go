// Package alloc provides the slot and page primitives shared by the object
// pools in package hive and the raw pools in package hive/raw.
//
// # Overview
//
// A pool stores its elements in pages. Each page is a fixed-capacity slot
// array plus bookkeeping:
//
//   - an occupancy Bitmap (one bit per slot) that iteration scans word by word
//   - an intrusive free list threaded through the storage of unused slots
//   - a capacity chosen by a Policy when the page is created
//
// # Free Lists
//
// Free slots carry the index of the next free slot in memory they do not
// otherwise use, so no side array is needed. The storage is abstracted by the
// Linker interface:
//
//	head := alloc.BuildFreeList(page, capacity)
//	idx, ok := alloc.PopFree(page, &head)
//	// ... later
//	alloc.PushFree(page, &head, idx)
//
// Push/Pop and the matching Bitmap Set/Clear must be paired by the caller
// under the pool's exclusive lock.
//
// # Page Capacities
//
// Page capacities follow a geometric schedule so the number of pages stays
// small relative to the number of elements:
//
//	Page 0:    16 slots
//	Page 1:    64 slots
//	Page 2:   256 slots
//	Page 3:  1024 slots
//	Page 4+: 4096 slots (ConfigDefault cap)
//
// The schedule is a PageConfig, not a constant, so callers can trade
// fragmentation against allocation latency. Predefined configurations are
// provided for the common trade-offs, and PolicyFunc adapts any function.
//
// # Accounting
//
// Accounting counts pages and slots as they are allocated and released. Pools
// share one Accounting with the pages they orphan, which makes page leaks
// observable after the pool itself is gone.
//
// # Thread Safety
//
// Bitmap reads are atomic so they may be re-tested without the pool lock;
// Bitmap writes, free-list operations and page creation require the pool's
// exclusive lock. Accounting is safe for concurrent use.
package alloc
