package ref

import (
	"fmt"

	"go.uber.org/atomic"
)

// Owner receives the lifecycle transitions of the blocks it owns.
//
// DestroyObject runs when the strong count reaches zero, before the strong
// group's weak reference is dropped, so the block is still valid while the
// payload is torn down. FreeBlock runs when the weak count reaches zero.
type Owner interface {
	DestroyObject(b *Block)
	FreeBlock(b *Block)
}

// Block is the control block shared by every Ptr and Weak referring to one
// object.
//
// The zero value is an unused block; Init or NewBlock must be called before
// any reference operation.
type Block struct {
	strong atomic.Int32
	weak   atomic.Int32
	owner  Owner
	slot   uint32
}

// NewBlock allocates a heap block with strong=1, weak=1.
func NewBlock(owner Owner) *Block {
	b := &Block{}
	b.Init(owner, 0)
	return b
}

// Init attaches the block to owner and resets its counts.
func (b *Block) Init(owner Owner, slot uint32) {
	b.Attach(owner, slot)
	b.Reset()
}

// Attach records the owner and slot index of the block. slot is an opaque
// index the owner uses to find the storage the block belongs to.
//
// Pools attach every embedded block once, when the page is created, so the
// owner and slot never change while the block can be observed.
func (b *Block) Attach(owner Owner, slot uint32) {
	b.owner = owner
	b.slot = slot
}

// Reset prepares the block for a freshly constructed object:
// strong=1 (the creator's reference), weak=1 (the strong group).
func (b *Block) Reset() {
	b.weak.Store(1)
	b.strong.Store(1)
}

// Owner returns the block's owner, or nil for an unused block.
func (b *Block) Owner() Owner { return b.owner }

// Slot returns the slot index recorded by Init.
func (b *Block) Slot() uint32 { return b.slot }

// Strong returns the current strong count.
func (b *Block) Strong() int32 { return b.strong.Load() }

// Weak returns the current weak count, including the strong group's share.
func (b *Block) Weak() int32 { return b.weak.Load() }

// Expired reports whether the strong count has reached zero.
func (b *Block) Expired() bool { return b.strong.Load() <= 0 }

// AddRef acquires a strong reference. The caller must already hold one.
func (b *Block) AddRef() {
	if n := b.strong.Inc(); n < 2 {
		panic(fmt.Sprintf("ref: AddRef on block %p that was not held: strong %d", b, n))
	}
}

// ReleaseRef drops a strong reference and reports whether it was the last.
func (b *Block) ReleaseRef() bool {
	n := b.strong.Dec()
	if n < 0 {
		panic(fmt.Sprintf("ref: ReleaseRef on block %p that was not held: strong %d", b, n))
	}
	return n == 0
}

// TryAddRef acquires a strong reference only if the object is still alive.
// Once it has failed for a block it never succeeds again.
func (b *Block) TryAddRef() bool {
	for {
		n := b.strong.Load()
		if n <= 0 {
			return false
		}
		if b.strong.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// AddWeak acquires a weak reference.
func (b *Block) AddWeak() {
	b.weak.Inc()
}

// ReleaseWeak drops a weak reference and reports whether the block must now
// be freed.
func (b *Block) ReleaseWeak() bool {
	n := b.weak.Dec()
	if n < 0 {
		panic(fmt.Sprintf("ref: ReleaseWeak on block %p that was not held: weak %d", b, n))
	}
	return n == 0
}

// DropStrong releases a strong reference and runs the owner's destroy and
// free callbacks as the counts reach zero.
func (b *Block) DropStrong() {
	if !b.ReleaseRef() {
		return
	}
	owner := b.owner
	if owner != nil {
		owner.DestroyObject(b)
	}
	if b.ReleaseWeak() && owner != nil {
		owner.FreeBlock(b)
	}
}

// DropWeak releases a weak reference and frees the block when it was the
// last one.
func (b *Block) DropWeak() {
	if b.ReleaseWeak() && b.owner != nil {
		b.owner.FreeBlock(b)
	}
}

// FreeLink returns the free-list link stored in an unused block.
//
// An unused block has no Ptr or Weak referring to it, so its strong cell
// carries the index of the next free slot instead of a count.
func (b *Block) FreeLink() int32 { return b.strong.Load() }

// SetFreeLink stores a free-list link in an unused block.
func (b *Block) SetFreeLink(next int32) {
	b.weak.Store(0)
	b.strong.Store(next)
}

// funcOwner is the owner of an external-mode block.
type funcOwner struct {
	destroy func()
}

func (o *funcOwner) DestroyObject(*Block) {
	if o.destroy != nil {
		o.destroy()
	}
}

func (o *funcOwner) FreeBlock(*Block) {}
