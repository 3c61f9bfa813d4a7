package hive

import "github.com/joshuapare/hivekit/hive/class"

// Stats is a snapshot of a pool's pages and slots.
type Stats struct {
	Name     string       `json:"name"`
	TypeID   class.TypeID `json:"type_id"`
	Pages    int          `json:"pages"`
	Capacity int          `json:"capacity"`
	Live     int          `json:"live"`
	Zombies  int          `json:"zombies"`
	Expired  int          `json:"expired"`
	Free     int          `json:"free"`
	Closed   bool         `json:"closed"`
}

// Stats returns the current page and slot counts. Orphaned pages are not
// included.
func (h *Hive) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s := Stats{
		Name:   h.name,
		TypeID: h.TypeID(),
		Pages:  len(h.pages),
		Closed: h.closed,
	}
	for _, p := range h.pages {
		s.Capacity += p.capacity
		s.Live += p.live
		s.Zombies += p.zombies
		s.Expired += p.expired
	}
	s.Free = s.Capacity - s.Live - s.Zombies - s.Expired
	return s
}
