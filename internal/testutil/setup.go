package testutil

import (
	"go.uber.org/atomic"

	"github.com/joshuapare/hivekit/hive/class"
	"github.com/joshuapare/hivekit/hive/ref"
)

// Counters records how many objects a CountingFactory constructed and
// destroyed.
type Counters struct {
	Constructed atomic.Int64
	Destroyed   atomic.Int64
}

// Alive returns constructed minus destroyed.
func (c *Counters) Alive() int64 {
	return c.Constructed.Load() - c.Destroyed.Load()
}

// CountingFactory wraps a factory and counts in-place constructions and
// destructions of its pooled objects.
type CountingFactory struct {
	class.Factory
	Counters *Counters
}

// NewCountingFactory wraps f with a fresh set of counters.
func NewCountingFactory(f class.Factory) *CountingFactory {
	return &CountingFactory{Factory: f, Counters: &Counters{}}
}

// NewStorage implements class.Factory.
func (f *CountingFactory) NewStorage(capacity int) class.Storage {
	return &countingStorage{Storage: f.Factory.NewStorage(capacity), c: f.Counters}
}

type countingStorage struct {
	class.Storage
	c *Counters
}

func (s *countingStorage) Construct(i int, b *ref.Block) ref.Object {
	obj := s.Storage.Construct(i, b)
	s.c.Constructed.Inc()
	return obj
}

func (s *countingStorage) Destroy(i int) {
	s.Storage.Destroy(i)
	s.c.Destroyed.Inc()
}

// ProbeFactory returns a counting factory for Probe objects.
//
// Example:
//
//	f := testutil.ProbeFactory()
//	h := hive.New(f)
//	defer h.Close()
func ProbeFactory() *CountingFactory {
	return NewCountingFactory(class.NewFactory[Probe]("testutil.Probe"))
}
