package hive

import (
	"math/bits"
	"unsafe"

	"github.com/joshuapare/hivekit/hive/ref"
)

// pinned is one slot held alive by a strong reference while it waits to be
// visited.
type pinned struct {
	slot int
	obj  ref.Object
}

// each visits every active slot until fn returns false.
//
// The shared lock is held while a bitmap word is scanned and its set slots
// are pinned with TryAddRef. It is released while fn runs, so fn may call Add
// or Remove on the pool. Each bit is re-tested right before its visit: a slot
// removed by an earlier visit in the same word is skipped.
func (h *Hive) each(fn func(p *page, i int, obj ref.Object) bool) {
	var batch [64]pinned

	for pi := 0; ; pi++ {
		h.mu.RLock()
		if h.closed || pi >= len(h.pages) {
			h.mu.RUnlock()
			return
		}
		p := h.pages[pi]
		h.mu.RUnlock()

		for w := 0; w < p.occupied.Words(); w++ {
			n := h.pinWord(p, w, &batch)
			if n < 0 {
				return
			}

			stop := false
			for k := 0; k < n; k++ {
				if !stop && p.occupied.Test(batch[k].slot) {
					stop = !fn(p, batch[k].slot, batch[k].obj)
				}
				p.blocks[batch[k].slot].DropStrong()
				batch[k] = pinned{}
			}
			if stop {
				return
			}
		}
	}
}

// pinWord pins the active slots of bitmap word w and returns how many were
// pinned, or -1 if the pool was closed.
func (h *Hive) pinWord(p *page, w int, batch *[64]pinned) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return -1
	}

	n := 0
	word := p.occupied.Word(w)
	for word != 0 {
		bit := bits.TrailingZeros64(word)
		word &= word - 1

		i := w*64 + bit
		if !p.blocks[i].TryAddRef() {
			continue
		}
		batch[n] = pinned{slot: i, obj: p.storage.At(i)}
		n++
	}
	return n
}

// ForEach calls fn for every active object until fn returns false.
//
// fn may add and remove objects. Objects added during the walk may or may not
// be visited; an object removed before its turn is not visited.
func (h *Hive) ForEach(fn func(obj ref.Object) bool) {
	h.each(func(_ *page, _ int, obj ref.Object) bool {
		return fn(obj)
	})
}

// ForEachState calls fn with a pointer offset bytes into every active
// object's storage until fn returns false. offset must lie within the stored
// value.
func (h *Hive) ForEachState(offset uintptr, fn func(state unsafe.Pointer) bool) {
	h.each(func(p *page, i int, _ ref.Object) bool {
		return fn(unsafe.Add(p.storage.Addr(i), offset))
	})
}

// ForEachField visits a field of every active object. field is called once,
// on the first object, to find the field's offset; every later visit reuses
// it. field must return a pointer into the object it is given.
func ForEachField[S any](h *Hive, field func(obj ref.Object) *S, visit func(state *S) bool) {
	var (
		offset uintptr
		known  bool
	)
	h.each(func(p *page, i int, obj ref.Object) bool {
		base := p.storage.Addr(i)
		if !known {
			offset = uintptr(unsafe.Pointer(field(obj))) - uintptr(base)
			known = true
		}
		return visit((*S)(unsafe.Add(base, offset)))
	})
}
