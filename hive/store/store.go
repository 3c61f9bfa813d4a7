package store

import (
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"sync"
	"unsafe"

	"github.com/joshuapare/hivekit/hive"
	"github.com/joshuapare/hivekit/hive/alloc"
	"github.com/joshuapare/hivekit/hive/class"
	"github.com/joshuapare/hivekit/hive/raw"
	"github.com/joshuapare/hivekit/internal/logger"
)

type rawEntry struct {
	id   class.TypeID
	pool *raw.Pool
}

// Store owns the object and raw pools of a process, keyed by type ID.
type Store struct {
	mu       sync.RWMutex
	registry class.Finder
	cfg      Config
	acct     *alloc.Accounting
	log      *slog.Logger

	hives  []*hive.Hive // sorted by TypeID
	raws   []rawEntry   // sorted by id
	closed bool
}

// New returns an empty store that validates classes against registry. A zero
// cfg.Pages selects alloc.ConfigDefault.
//
// New panics if cfg.Pages is set but invalid.
func New(registry class.Finder, cfg Config, opts ...Option) *Store {
	if cfg.Pages == (alloc.PageConfig{}) {
		cfg.Pages = alloc.ConfigDefault
	}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("store: %v", err))
	}
	s := &Store{
		registry: registry,
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.acct == nil {
		s.acct = &alloc.Accounting{}
	}
	s.log = logger.Or(s.log)
	return s
}

// Config returns the store configuration.
func (s *Store) Config() Config { return s.cfg }

// Accounting returns the page accounting shared by every pool of the store.
func (s *Store) Accounting() *alloc.Accounting { return s.acct }

func (s *Store) searchHive(id class.TypeID) (int, bool) {
	i := sort.Search(len(s.hives), func(i int) bool { return s.hives[i].TypeID() >= id })
	return i, i < len(s.hives) && s.hives[i].TypeID() == id
}

func (s *Store) searchRaw(id class.TypeID) (int, bool) {
	i := sort.Search(len(s.raws), func(i int) bool { return s.raws[i].id >= id })
	return i, i < len(s.raws) && s.raws[i].id == id
}

// FindHive returns the object pool for id, or nil if none was created yet.
func (s *Store) FindHive(id class.TypeID) *hive.Hive {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i, ok := s.searchHive(id); ok {
		return s.hives[i]
	}
	return nil
}

// GetHive returns the object pool for id, creating it on first use. It
// returns an error wrapping ErrUnknownType if the registry has no factory
// for id.
func (s *Store) GetHive(id class.TypeID) (*hive.Hive, error) {
	if h := s.FindHive(id); h != nil {
		return h, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	i, ok := s.searchHive(id)
	if ok {
		return s.hives[i], nil
	}

	var f class.Factory
	if s.registry != nil {
		f = s.registry.FindFactory(id)
	}
	if f == nil {
		return nil, fmt.Errorf("store: hive for %s: %w", id, ErrUnknownType)
	}

	h := hive.New(f,
		hive.WithPolicy(s.cfg.Pages),
		hive.WithAccounting(s.acct),
		hive.WithLogger(s.log),
	)
	s.hives = append(s.hives, nil)
	copy(s.hives[i+1:], s.hives[i:])
	s.hives[i] = h
	s.log.Debug("store: hive created", "type", f.Name(), "id", id)
	return h, nil
}

// FindRawHive returns the raw pool for id, or nil if none was created yet.
func (s *Store) FindRawHive(id class.TypeID) *raw.Pool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i, ok := s.searchRaw(id); ok {
		return s.raws[i].pool
	}
	return nil
}

// GetRawHive returns the raw pool for id, creating it with the given element
// layout on first use. Asking again with another layout returns an error
// wrapping ErrLayoutMismatch.
func (s *Store) GetRawHive(id class.TypeID, size, align int) (*raw.Pool, error) {
	if r := s.FindRawHive(id); r != nil {
		return checkLayout(id, r, size, align)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	i, ok := s.searchRaw(id)
	if ok {
		return checkLayout(id, s.raws[i].pool, size, align)
	}

	r, err := raw.New(size, align,
		raw.WithPolicy(s.cfg.Pages),
		raw.WithAccounting(s.acct),
		raw.WithLogger(s.log),
		raw.WithHeapPages(s.cfg.HeapRawPages),
	)
	if err != nil {
		return nil, fmt.Errorf("store: raw hive for %s: %w", id, err)
	}
	s.raws = append(s.raws, rawEntry{})
	copy(s.raws[i+1:], s.raws[i:])
	s.raws[i] = rawEntry{id: id, pool: r}
	s.log.Debug("store: raw hive created", "id", id, "size", size, "align", align)
	return r, nil
}

func checkLayout(id class.TypeID, r *raw.Pool, size, align int) (*raw.Pool, error) {
	if align == 0 {
		align = 1
	}
	if r.ElemSize() != size || r.Align() != align {
		return nil, fmt.Errorf("store: raw hive for %s is %d/%d, requested %d/%d: %w",
			id, r.ElemSize(), r.Align(), size, align, ErrLayoutMismatch)
	}
	return r, nil
}

// RawHiveOf returns the raw pool for values of T, keyed by T's type ID. T
// must not contain Go pointers.
func RawHiveOf[T any](s *Store) (*raw.Pool, error) {
	t := reflect.TypeFor[T]()
	if hasPointers(t) {
		return nil, fmt.Errorf("store: raw hive for %s: %w", t, ErrPointerType)
	}
	var zero T
	return s.GetRawHive(class.IDOf[T](), int(unsafe.Sizeof(zero)), int(unsafe.Alignof(zero)))
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Slice,
		reflect.String, reflect.Interface, reflect.Chan, reflect.Func:
		return true
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}

// HiveCount returns the number of object pools.
func (s *Store) HiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.hives)
}

// RawHiveCount returns the number of raw pools.
func (s *Store) RawHiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.raws)
}

// ForEachHive calls fn for every object pool in type ID order until fn
// returns false. fn may call back into the store.
func (s *Store) ForEachHive(fn func(h *hive.Hive) bool) {
	s.mu.RLock()
	hives := append([]*hive.Hive(nil), s.hives...)
	s.mu.RUnlock()

	for _, h := range hives {
		if !fn(h) {
			return
		}
	}
}

// ForEachRawHive calls fn for every raw pool in type ID order until fn
// returns false. fn may call back into the store.
func (s *Store) ForEachRawHive(fn func(id class.TypeID, r *raw.Pool) bool) {
	s.mu.RLock()
	raws := append([]rawEntry(nil), s.raws...)
	s.mu.RUnlock()

	for _, e := range raws {
		if !fn(e.id, e.pool) {
			return
		}
	}
}

// Close tears down every pool. Objects still referenced elsewhere outlive
// their pools (see hive.Hive.Close); raw pool memory is released.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	hives, raws := s.hives, s.raws
	s.hives, s.raws = nil, nil
	s.mu.Unlock()

	for _, h := range hives {
		h.Close()
	}
	for _, e := range raws {
		e.pool.Clear(nil)
	}
	s.log.Debug("store: closed", "hives", len(hives), "raw_hives", len(raws))
}
