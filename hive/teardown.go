package hive

import "github.com/joshuapare/hivekit/hive/ref"

// demoteAll turns every active slot into a zombie and returns the blocks
// whose pool reference must be dropped. Caller holds the exclusive lock.
func (h *Hive) demoteAll() []*ref.Block {
	var drop []*ref.Block
	for _, p := range h.pages {
		for i := p.occupied.NextSet(0); i >= 0; i = p.occupied.NextSet(i + 1) {
			p.demote(i)
			drop = append(drop, &p.blocks[i])
		}
	}
	h.live.Sub(int64(len(drop)))
	return drop
}

// Clear removes every active object. Pages are kept for reuse.
func (h *Hive) Clear() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	drop := h.demoteAll()
	h.mu.Unlock()

	for _, b := range drop {
		b.DropStrong()
	}
}

// Close removes every active object and releases the pool's pages.
//
// Pages that still hold zombies, or destroyed objects with weak observers,
// are orphaned: they leave the pool and free themselves when their last
// reference is released. Objects held elsewhere stay usable after Close.
func (h *Hive) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	drop := h.demoteAll()
	h.mu.Unlock()

	for _, b := range drop {
		b.DropStrong()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	orphans := 0
	for _, p := range h.pages {
		if p.zombies == 0 && p.expired == 0 {
			p.release()
			continue
		}
		p.orphan()
		orphans++
	}
	h.log.Debug("hive: closed", "type", h.name, "pages", len(h.pages), "orphans", orphans)
	h.pages = nil
	h.current = nil
}
