package alloc

import "go.uber.org/atomic"

// Accounting tracks page and slot allocations across pools and orphaned
// pages. The zero value is ready to use.
type Accounting struct {
	pagesAllocated atomic.Int64
	pagesFreed     atomic.Int64
	slotsAllocated atomic.Int64
	slotsFreed     atomic.Int64
	pagesOrphaned  atomic.Int64
}

// AccountingSnapshot is a point-in-time copy of an Accounting.
type AccountingSnapshot struct {
	PagesAllocated int64 `json:"pages_allocated"`
	PagesFreed     int64 `json:"pages_freed"`
	SlotsAllocated int64 `json:"slots_allocated"`
	SlotsFreed     int64 `json:"slots_freed"`
	PagesOrphaned  int64 `json:"pages_orphaned"`
}

// PageAllocated records a new page of capacity slots.
func (a *Accounting) PageAllocated(capacity int) {
	a.pagesAllocated.Inc()
	a.slotsAllocated.Add(int64(capacity))
}

// PageFreed records the release of a page of capacity slots.
func (a *Accounting) PageFreed(capacity int) {
	a.pagesFreed.Inc()
	a.slotsFreed.Add(int64(capacity))
}

// PageOrphaned records a page that outlived its pool.
func (a *Accounting) PageOrphaned() {
	a.pagesOrphaned.Inc()
}

// LivePages returns allocated minus freed pages.
func (a *Accounting) LivePages() int64 {
	return a.pagesAllocated.Load() - a.pagesFreed.Load()
}

// Snapshot returns the current counters.
func (a *Accounting) Snapshot() AccountingSnapshot {
	return AccountingSnapshot{
		PagesAllocated: a.pagesAllocated.Load(),
		PagesFreed:     a.pagesFreed.Load(),
		SlotsAllocated: a.slotsAllocated.Load(),
		SlotsFreed:     a.slotsFreed.Load(),
		PagesOrphaned:  a.pagesOrphaned.Load(),
	}
}
