package raw

import (
	"fmt"
	"log/slog"
	"math/bits"
	"runtime"
	"sort"
	"sync"

	"go.uber.org/atomic"

	"github.com/joshuapare/hivekit/hive/alloc"
	"github.com/joshuapare/hivekit/internal/buf"
	"github.com/joshuapare/hivekit/internal/logger"
	"github.com/joshuapare/hivekit/internal/pagemem"
)

// minSlotSize is the room a free slot needs for its free-list link.
const minSlotSize = 4

// Slot identifies one allocated slot of a Pool. The zero Slot is never
// returned by Allocate.
type Slot struct {
	Page  uint32
	Index int32
}

// IsZero reports whether s is the zero Slot.
func (s Slot) IsZero() bool { return s.Page == 0 }

func (s Slot) String() string { return fmt.Sprintf("%d:%d", s.Page, s.Index) }

// Pool is a page-based pool of fixed-size byte slots.
type Pool struct {
	mu       sync.RWMutex
	elemSize int
	align    int
	slotSize int
	policy   alloc.Policy
	acct     *alloc.Accounting
	log      *slog.Logger
	heap     bool

	pages   []*page // ascending id
	current *page
	nextID  uint32
	maps    *mappings

	live atomic.Int64
}

// New returns an empty pool of elemSize-byte elements aligned to align bytes.
// align must be a power of two; zero means 1.
func New(elemSize, align int, opts ...Option) (*Pool, error) {
	if align == 0 {
		align = 1
	}
	if elemSize <= 0 {
		return nil, fmt.Errorf("raw: element size %d must be positive", elemSize)
	}
	if align < 0 || bits.OnesCount(uint(align)) != 1 {
		return nil, fmt.Errorf("raw: alignment %d is not a power of two", align)
	}

	r := &Pool{
		elemSize: elemSize,
		align:    align,
		slotSize: buf.AlignUp(max(elemSize, minSlotSize), align),
		policy:   alloc.ConfigDefault,
		nextID:   1,
		maps:     &mappings{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.acct == nil {
		r.acct = &alloc.Accounting{}
	}
	r.log = logger.Or(r.log)
	r.maps.acct = r.acct
	runtime.AddCleanup(r, (*mappings).release, r.maps)
	return r, nil
}

// ElemSize returns the element size the pool was created with.
func (r *Pool) ElemSize() int { return r.elemSize }

// Align returns the element alignment.
func (r *Pool) Align() int { return r.align }

// SlotSize returns the stride between slots.
func (r *Pool) SlotSize() int { return r.slotSize }

// Accounting returns the page accounting the pool reports to.
func (r *Pool) Accounting() *alloc.Accounting { return r.acct }

// Size returns the number of allocated slots.
func (r *Pool) Size() int { return int(r.live.Load()) }

// Allocate reserves a slot. Its contents are unspecified.
//
// Allocate panics if a new page cannot be obtained.
func (r *Pool) Allocate() Slot {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.pageWithRoom()
	i, ok := alloc.PopFree(p, &p.freeHead)
	if !ok {
		panic(fmt.Sprintf("raw: page %d has no free slot", p.id))
	}
	p.occupied.Set(i)
	p.live++
	r.live.Inc()
	return Slot{Page: p.id, Index: int32(i)}
}

func (r *Pool) pageWithRoom() *page {
	if r.current != nil && !r.current.full() {
		return r.current
	}
	for _, p := range r.pages {
		if !p.full() {
			r.current = p
			return p
		}
	}

	capacity := alloc.CapacityOf(r.policy, len(r.pages))
	p, err := newPage(r.nextID, capacity, r.slotSize, r.align, r.heap)
	if err != nil {
		panic(fmt.Sprintf("raw: allocate page: %v", err))
	}
	r.nextID++
	r.pages = append(r.pages, p)
	r.maps.add(p)
	r.current = p
	r.acct.PageAllocated(capacity)
	r.log.Debug("raw: page allocated",
		"elem_size", r.elemSize, "page", p.id, "capacity", capacity, "bytes", len(p.data))
	return p
}

// find returns the page with the given id. Caller holds the lock.
func (r *Pool) find(id uint32) *page {
	i := sort.Search(len(r.pages), func(i int) bool { return r.pages[i].id >= id })
	if i < len(r.pages) && r.pages[i].id == id {
		return r.pages[i]
	}
	return nil
}

// resolve returns the page and index of s. Caller holds the lock.
func (r *Pool) resolve(s Slot) (*page, int, error) {
	p := r.find(s.Page)
	if p == nil || s.Index < 0 || int(s.Index) >= p.capacity {
		return nil, 0, fmt.Errorf("raw: slot %s: %w", s, alloc.ErrNotFound)
	}
	return p, int(s.Index), nil
}

// Bytes returns the memory of an allocated slot, elemSize bytes long, or nil
// if s is not allocated.
func (r *Pool) Bytes(s Slot) []byte {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, i, err := r.resolve(s)
	if err != nil || !p.occupied.Test(i) {
		return nil
	}
	return p.slot(i)[:r.elemSize:r.elemSize]
}

// Contains reports whether s is an allocated slot of this pool.
func (r *Pool) Contains(s Slot) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, i, err := r.resolve(s)
	return err == nil && p.occupied.Test(i)
}

// Deallocate returns s to the pool. The caller must be done with its
// contents. It returns an error wrapping alloc.ErrNotFound for a slot of
// another pool and alloc.ErrNotAllocated for a slot that is already free.
func (r *Pool) Deallocate(s Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, i, err := r.resolve(s)
	if err != nil {
		return err
	}
	return r.free(p, i)
}

// Locate returns the slot whose memory starts at b[0].
func (r *Pool) Locate(b []byte) (Slot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.pages {
		if i, ok := p.indexOf(b); ok {
			return Slot{Page: p.id, Index: int32(i)}, true
		}
	}
	return Slot{}, false
}

// DeallocateBytes is Deallocate for memory returned by Bytes.
func (r *Pool) DeallocateBytes(b []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.pages {
		if i, ok := p.indexOf(b); ok {
			return r.free(p, i)
		}
	}
	return fmt.Errorf("raw: %d bytes: %w", len(b), alloc.ErrNotFound)
}

// free releases slot i of p. Caller holds the exclusive lock.
func (r *Pool) free(p *page, i int) error {
	if !p.occupied.Clear(i) {
		return fmt.Errorf("raw: slot %d:%d: %w", p.id, i, alloc.ErrNotAllocated)
	}
	alloc.PushFree(p, &p.freeHead, i)
	p.live--
	r.live.Dec()
	r.current = p
	return nil
}

// ForEach calls fn for every allocated slot until fn returns false. fn must
// not call other methods of the pool.
func (r *Pool) ForEach(fn func(s Slot, b []byte) bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.pages {
		for w := 0; w < p.occupied.Words(); w++ {
			word := p.occupied.Word(w)
			for word != 0 {
				i := w*64 + bits.TrailingZeros64(word)
				word &= word - 1
				if !fn(Slot{Page: p.id, Index: int32(i)}, p.slot(i)[:r.elemSize:r.elemSize]) {
					return
				}
			}
		}
	}
}

// mappings is the page memory of a pool, kept apart from the Pool so it can
// be unmapped once an uncleared pool becomes unreachable.
type mappings struct {
	acct     *alloc.Accounting
	pages    []*pagemem.Page
	caps     []int
	released atomic.Bool
}

func (m *mappings) add(p *page) {
	m.pages = append(m.pages, p.mem)
	m.caps = append(m.caps, p.capacity)
}

func (m *mappings) reset() { m.pages, m.caps = nil, nil }

func (m *mappings) release() {
	for i, p := range m.pages {
		_ = p.Release()
		m.acct.PageFreed(m.caps[i])
	}
	m.reset()
	m.released.Store(true)
}

// Clear calls destroy, if non-nil, on every allocated slot and then releases
// all pages. Slots handed out before Clear become invalid.
func (r *Pool) Clear(destroy func(b []byte)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.pages {
		if destroy != nil {
			for i := p.occupied.NextSet(0); i >= 0; i = p.occupied.NextSet(i + 1) {
				destroy(p.slot(i)[:r.elemSize:r.elemSize])
			}
		}
		if err := p.release(); err != nil {
			r.log.Warn("raw: release page", "page", p.id, "error", err)
		}
		r.acct.PageFreed(p.capacity)
	}
	r.log.Debug("raw: cleared", "elem_size", r.elemSize, "pages", len(r.pages))
	r.pages = nil
	r.maps.reset()
	r.current = nil
	r.live.Store(0)
}

// Stats is a snapshot of a raw pool's pages and slots.
type Stats struct {
	ElemSize int `json:"elem_size"`
	Align    int `json:"align"`
	SlotSize int `json:"slot_size"`
	Pages    int `json:"pages"`
	Capacity int `json:"capacity"`
	Live     int `json:"live"`
	Bytes    int `json:"bytes"`
}

// Stats returns the current page and slot counts.
func (r *Pool) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := Stats{
		ElemSize: r.elemSize,
		Align:    r.align,
		SlotSize: r.slotSize,
		Pages:    len(r.pages),
	}
	for _, p := range r.pages {
		s.Capacity += p.capacity
		s.Live += p.live
		s.Bytes += len(p.data)
	}
	return s
}
