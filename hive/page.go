package hive

import (
	"log/slog"
	"sync"

	"go.uber.org/atomic"

	"github.com/joshuapare/hivekit/hive/alloc"
	"github.com/joshuapare/hivekit/hive/class"
	"github.com/joshuapare/hivekit/hive/ref"
)

// page is one slot array of a Hive plus its bookkeeping.
//
// While the page belongs to a pool its fields are guarded by the pool's lock.
// Once orphaned they are guarded by own. lock always points at whichever of
// the two is current.
type page struct {
	id       uint32
	capacity int
	factory  class.Factory

	states   []alloc.SlotState
	occupied *alloc.Bitmap
	blocks   []ref.Block
	storage  class.Storage
	freeHead int32

	live    int // Active slots
	zombies int // removed slots whose object is still alive
	expired int // destroyed objects whose block still has weak observers

	pool     *Hive
	lock     atomic.Pointer[sync.RWMutex]
	own      sync.RWMutex
	orphaned bool
	released bool

	acct *alloc.Accounting
	log  *slog.Logger
}

func newPage(h *Hive, id uint32, capacity int) *page {
	p := &page{
		id:       id,
		capacity: capacity,
		factory:  h.factory,
		states:   make([]alloc.SlotState, capacity),
		occupied: alloc.NewBitmap(capacity),
		blocks:   make([]ref.Block, capacity),
		storage:  h.factory.NewStorage(capacity),
		pool:     h,
		acct:     h.acct,
		log:      h.log,
	}
	p.lock.Store(&h.mu)
	for i := range p.blocks {
		p.blocks[i].Attach(p, uint32(i))
	}
	p.freeHead = alloc.BuildFreeList(p, capacity)
	p.acct.PageAllocated(capacity)
	return p
}

// Link implements alloc.Linker: free slots keep their link in the unused
// control block.
func (p *page) Link(i int) int32 { return p.blocks[i].FreeLink() }

// SetLink implements alloc.Linker.
func (p *page) SetLink(i int, next int32) { p.blocks[i].SetFreeLink(next) }

// full reports whether the page has no free slot. Caller holds the lock.
func (p *page) full() bool { return p.freeHead == alloc.NoSlot }

// acquire locks whichever lock currently guards the page. The pointer is
// re-checked after locking because orphaning swaps it while holding the old
// lock.
func (p *page) acquire() *sync.RWMutex {
	for {
		l := p.lock.Load()
		l.Lock()
		if p.lock.Load() == l {
			return l
		}
		l.Unlock()
	}
}

// slotOf returns the slot index of b if b is one of this page's blocks.
func (p *page) slotOf(b *ref.Block) (int, bool) {
	i := int(b.Slot())
	if i < 0 || i >= p.capacity || &p.blocks[i] != b {
		return 0, false
	}
	return i, true
}

// activate turns free slot i into an Active slot holding a new object and
// returns it. Caller holds the pool's exclusive lock.
func (p *page) activate(i int) ref.Object {
	p.states[i] = alloc.SlotActive
	p.occupied.Set(i)
	b := &p.blocks[i]
	b.Reset()
	obj := p.storage.Construct(i, b)
	p.live++
	return obj
}

// demote turns Active slot i into a Zombie. The caller must drop the pool's
// strong reference afterwards, outside the lock.
func (p *page) demote(i int) {
	p.occupied.Clear(i)
	p.states[i] = alloc.SlotZombie
	p.live--
	p.zombies++
}

// DestroyObject implements ref.Owner. It runs when the last strong reference
// to the object in the block's slot is dropped.
func (p *page) DestroyObject(b *ref.Block) {
	i := int(b.Slot())

	// The slot is a zombie, so the page cannot be released underneath us.
	p.storage.Destroy(i)

	l := p.acquire()
	p.zombies--
	p.expired++
	l.Unlock()
}

// FreeBlock implements ref.Owner. It runs when the last weak reference to the
// block is dropped and returns the slot to the free list.
func (p *page) FreeBlock(b *ref.Block) {
	i := int(b.Slot())

	l := p.acquire()
	defer l.Unlock()

	p.occupied.Clear(i)
	p.states[i] = alloc.SlotFree
	p.expired--
	alloc.PushFree(p, &p.freeHead, i)

	if !p.orphaned {
		p.pool.current = p
		return
	}
	if p.zombies == 0 && p.expired == 0 {
		p.log.Debug("hive: orphaned page released", "type", p.factory.Name(), "page", p.id)
		p.release()
	}
}

// orphan detaches the page from its pool. Caller holds the pool's exclusive
// lock. Fields are written before the lock pointer is swapped so that a
// goroutine observing the new lock also observes them.
func (p *page) orphan() {
	p.orphaned = true
	p.acct.PageOrphaned()
	p.log.Debug("hive: page orphaned",
		"type", p.factory.Name(), "page", p.id, "zombies", p.zombies, "expired", p.expired)
	p.lock.Store(&p.own)
}

// release frees the page storage. Caller holds the current page lock.
func (p *page) release() {
	if p.released {
		return
	}
	p.released = true
	p.storage = nil
	p.acct.PageFreed(p.capacity)
}
