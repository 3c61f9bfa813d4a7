package ref

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type widget struct {
	Base
	name      string
	finalized int
}

func (w *widget) Finalize() { w.finalized++ }

type namer interface{ Name() string }

func (w *widget) Name() string { return w.name }

func TestPtr_ExternalDestroyOnce(t *testing.T) {
	destroyed := 0
	p := New(42, func(int) { destroyed++ })
	q := p.Clone()
	require.Equal(t, int32(2), p.UseCount())

	p.Release()
	require.True(t, p.IsNil())
	require.Equal(t, 0, destroyed)

	q.Release()
	require.Equal(t, 1, destroyed)

	// Releasing an empty pointer is harmless.
	q.Release()
	require.Equal(t, 1, destroyed)
}

func TestPtr_TakeMovesWithoutCounting(t *testing.T) {
	p := New("v", nil)
	q := p.Take()
	require.True(t, p.IsNil())
	require.Equal(t, "v", q.Get())
	require.Equal(t, int32(1), q.UseCount())
	q.Release()
}

func TestWeak_LockWhileAlive(t *testing.T) {
	p := New(&struct{ n int }{n: 1}, nil)
	w := p.Weak()
	defer w.Release()

	for range 5 {
		l := w.Lock()
		require.False(t, l.IsNil())
		require.Equal(t, 1, l.Get().n)
		l.Release()
	}
	require.False(t, w.Expired())

	p.Release()
	require.True(t, w.Expired())
	require.True(t, w.Lock().IsNil())

	// Observers created from a clone after death are expired as well.
	w2 := w.Clone()
	require.True(t, w2.Lock().IsNil())
	w2.Release()
}

func TestWeak_EmptyObserver(t *testing.T) {
	var w Weak[int]
	require.True(t, w.Expired())
	require.True(t, w.IsNil())
	require.True(t, w.Lock().IsNil())
	w.Release()
}

func TestStandalone_IntrusiveLifecycle(t *testing.T) {
	obj := &widget{name: "a"}
	p := NewStandalone(obj)
	require.Same(t, obj.ControlBlock(), p.Block())

	q := p.Clone()
	require.Equal(t, int32(2), obj.ControlBlock().Strong())

	w := q.Weak()
	p.Release()
	q.Release()

	require.Equal(t, 1, obj.finalized)
	require.True(t, w.Expired())
	w.Release()
}

func TestShare_AcquiresReference(t *testing.T) {
	obj := &widget{}
	p := NewStandalone(obj)
	s := Share(obj)
	require.Equal(t, int32(2), p.UseCount())
	s.Release()
	p.Release()
	require.Equal(t, 1, obj.finalized)
}

func TestCast_TransfersOwnership(t *testing.T) {
	p := NewStandalone[Binder](&widget{name: "w"})

	n, ok := Cast[namer](&p)
	require.True(t, ok)
	require.True(t, p.IsNil())
	require.Equal(t, "w", n.Get().Name())
	require.Equal(t, int32(1), n.UseCount())

	_, ok = Cast[Finalizer](&p)
	require.False(t, ok, "empty pointer cannot be cast")

	n.Release()
}

func TestCast_FailureKeepsSource(t *testing.T) {
	p := New(3, nil)
	_, ok := Cast[namer](&p)
	require.False(t, ok)
	require.False(t, p.IsNil())
	p.Release()
}

func TestPtr_ConcurrentCloneRelease(t *testing.T) {
	destroyed := 0
	p := New(1, func(int) { destroyed++ })

	var wg sync.WaitGroup
	for range 16 {
		c := p.Clone()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				x := c.Clone()
				x.Release()
			}
			c.Release()
		}()
	}
	wg.Wait()
	require.Equal(t, int32(1), p.UseCount())
	p.Release()
	require.Equal(t, 1, destroyed)
}
