package hive

import (
	"fmt"
	"log/slog"
	"sync"

	"go.uber.org/atomic"

	"github.com/joshuapare/hivekit/hive/alloc"
	"github.com/joshuapare/hivekit/hive/class"
	"github.com/joshuapare/hivekit/hive/ref"
	"github.com/joshuapare/hivekit/internal/logger"
)

// Hive stores objects of one class in pages of embedded slots.
type Hive struct {
	mu      sync.RWMutex
	factory class.Factory
	policy  alloc.Policy
	acct    *alloc.Accounting
	log     *slog.Logger
	name    string

	pages   []*page
	current *page
	nextID  uint32
	closed  bool

	live atomic.Int64
}

// New returns an empty pool for the class built by factory. A nil factory
// gives a pool whose Add always returns an empty pointer.
func New(factory class.Factory, opts ...Option) *Hive {
	h := &Hive{
		factory: factory,
		policy:  alloc.ConfigDefault,
	}
	if factory != nil {
		h.name = factory.Name()
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.acct == nil {
		h.acct = &alloc.Accounting{}
	}
	h.log = logger.Or(h.log)
	return h
}

// Factory returns the factory objects are built with.
func (h *Hive) Factory() class.Factory { return h.factory }

// TypeID returns the class identifier of the stored objects, or 0 without a
// factory.
func (h *Hive) TypeID() class.TypeID {
	if h.factory == nil {
		return 0
	}
	return h.factory.TypeID()
}

// Name returns the pool name.
func (h *Hive) Name() string { return h.name }

// Accounting returns the page accounting the pool reports to.
func (h *Hive) Accounting() *alloc.Accounting { return h.acct }

// Add constructs a new object in a free slot and returns an owning pointer to
// it. The pool keeps its own reference until Remove, Clear or Close.
//
// Add returns an empty pointer if the pool has no factory or is closed.
func (h *Hive) Add() ref.Ptr[ref.Object] {
	if h.factory == nil {
		return ref.Ptr[ref.Object]{}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ref.Ptr[ref.Object]{}
	}

	p := h.pageWithRoom()
	i, ok := alloc.PopFree(p, &p.freeHead)
	if !ok {
		panic(fmt.Sprintf("hive: page %d of %s has no free slot", p.id, h.name))
	}
	obj := p.activate(i)
	h.live.Inc()

	// Second strong reference, handed to the caller.
	obj.AddRef()
	return ref.Adopt(obj)
}

// pageWithRoom returns a page with at least one free slot, allocating one if
// needed. Caller holds the exclusive lock.
func (h *Hive) pageWithRoom() *page {
	if h.current != nil && !h.current.full() {
		return h.current
	}
	for _, p := range h.pages {
		if !p.full() {
			h.current = p
			return p
		}
	}

	capacity := alloc.CapacityOf(h.policy, len(h.pages))
	p := newPage(h, h.nextID, capacity)
	h.nextID++
	h.pages = append(h.pages, p)
	h.current = p
	h.log.Debug("hive: page allocated",
		"type", h.name, "page", p.id, "capacity", capacity, "pages", len(h.pages))
	return p
}

// locate returns the page and slot of obj if it is Active in this pool.
// Caller holds the lock in either mode.
func (h *Hive) locate(obj ref.Object) (*page, int, bool) {
	if obj == nil {
		return nil, 0, false
	}
	b := obj.ControlBlock()
	if b == nil {
		return nil, 0, false
	}
	p, ok := b.Owner().(*page)
	if !ok || p.pool != h {
		return nil, 0, false
	}
	i, ok := p.slotOf(b)
	if !ok || p.states[i] != alloc.SlotActive {
		return nil, 0, false
	}
	return p, i, true
}

// Remove drops obj from the pool. Outstanding pointers keep the object alive
// as a zombie: it is no longer counted or visited, and its slot is reused
// once the last pointer is released.
//
// Remove returns ErrNotFound if obj is not an active object of this pool and
// ErrClosed after Close.
func (h *Hive) Remove(obj ref.Object) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrClosed
	}
	p, i, ok := h.locate(obj)
	if !ok {
		h.mu.Unlock()
		return ErrNotFound
	}
	p.demote(i)
	h.live.Dec()
	b := &p.blocks[i]
	h.mu.Unlock()

	b.DropStrong()
	return nil
}

// Contains reports whether obj is an active object of this pool.
func (h *Hive) Contains(obj ref.Object) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, _, ok := h.locate(obj)
	return ok
}

// Size returns the number of active objects.
func (h *Hive) Size() int { return int(h.live.Load()) }

// Empty reports whether the pool has no active objects.
func (h *Hive) Empty() bool { return h.live.Load() == 0 }

// SetPageCapacity replaces the capacity policy for pages allocated from now
// on. Existing pages keep their capacity.
func (h *Hive) SetPageCapacity(p alloc.Policy) {
	h.mu.Lock()
	h.policy = p
	h.mu.Unlock()
}

// Closed reports whether Close has been called.
func (h *Hive) Closed() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.closed
}
