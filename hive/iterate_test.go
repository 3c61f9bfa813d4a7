package hive

import (
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hivekit/hive/ref"
	"github.com/joshuapare/hivekit/internal/testutil"
)

// fill adds n objects and drops the caller references, leaving the pool as
// the only owner.
func fill(t *testing.T, h *Hive, n int) []ref.Object {
	t.Helper()
	objs := make([]ref.Object, 0, n)
	for i := 0; i < n; i++ {
		p := h.Add()
		require.False(t, p.IsNil())
		objs = append(objs, p.Get())
		p.Release()
	}
	return objs
}

func TestForEach_RemoveAheadIsNotVisited(t *testing.T) {
	h, f, _ := newProbeHive(t)
	defer h.Close()
	objs := fill(t, h, 10)

	target := objs[2]
	visited := map[ref.Object]bool{}
	h.ForEach(func(obj ref.Object) bool {
		if obj == objs[0] {
			require.NoError(t, h.Remove(target))
			require.Zero(t, f.Counters.Destroyed.Load(), "pinned until the walk moves on")
		}
		visited[obj] = true
		return true
	})

	require.Len(t, visited, 9)
	require.False(t, visited[target])
	require.Equal(t, int64(1), f.Counters.Destroyed.Load())
	require.Equal(t, 9, h.Size())
}

func TestForEach_RemoveSelf(t *testing.T) {
	h, f, _ := newProbeHive(t)
	defer h.Close()
	fill(t, h, 20)

	h.ForEach(func(obj ref.Object) bool {
		require.True(t, testutil.AsProbe(obj).Live)
		require.NoError(t, h.Remove(obj))
		return true
	})

	require.True(t, h.Empty())
	require.Equal(t, int64(20), f.Counters.Destroyed.Load())
}

func TestForEach_Stop(t *testing.T) {
	h, _, _ := newProbeHive(t)
	defer h.Close()
	fill(t, h, 30)

	n := 0
	h.ForEach(func(ref.Object) bool {
		n++
		return n < 5
	})
	require.Equal(t, 5, n)
}

func TestForEach_AddDuringWalk(t *testing.T) {
	h, _, _ := newProbeHive(t)
	defer h.Close()
	fill(t, h, 4)

	n := 0
	h.ForEach(func(ref.Object) bool {
		if n < 4 {
			p := h.Add()
			p.Release()
		}
		n++
		return true
	})
	require.GreaterOrEqual(t, n, 4)
	require.Equal(t, 8, h.Size())
}

func TestForEach_StopsAfterClose(t *testing.T) {
	h, _, acct := newProbeHive(t)
	fill(t, h, 100)

	n := 0
	h.ForEach(func(ref.Object) bool {
		n++
		if n == 1 {
			h.Close()
		}
		return true
	})
	require.Equal(t, 1, n)
	require.Zero(t, acct.LivePages())
}

func TestForEachState(t *testing.T) {
	h, _, _ := newProbeHive(t)
	defer h.Close()
	objs := fill(t, h, 70)
	for _, obj := range objs {
		testutil.AsProbe(obj).Bump()
	}

	var sum int64
	h.ForEachState(unsafe.Offsetof(testutil.Probe{}.State), func(state unsafe.Pointer) bool {
		s := (*testutil.ProbeState)(state)
		s.Ticks++
		sum += s.Value
		return true
	})
	require.Equal(t, int64(70), sum)
	for _, obj := range objs {
		require.Equal(t, int64(1), testutil.AsProbe(obj).State.Ticks)
	}
}

func TestForEachField(t *testing.T) {
	h, _, _ := newProbeHive(t)
	defer h.Close()
	objs := fill(t, h, 17)

	calls := 0
	ForEachField(h,
		func(obj ref.Object) *testutil.ProbeState {
			calls++
			return &testutil.AsProbe(obj).State
		},
		func(s *testutil.ProbeState) bool {
			s.Value += 3
			return true
		})

	require.Equal(t, 1, calls)
	for _, obj := range objs {
		require.Equal(t, int64(3), testutil.AsProbe(obj).State.Value)
	}
}

func TestConcurrentAddRemoveIterate(t *testing.T) {
	h, f, acct := newProbeHive(t)

	const (
		workers = 8
		rounds  = 500
	)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				p := h.Add()
				probe := testutil.AsProbe(p.Get())
				probe.Bump()
				if i%3 == 0 {
					w := p.Weak()
					_ = h.Remove(p.Get())
					if l := w.Lock(); !l.IsNil() {
						l.Release()
					}
					w.Release()
				}
				p.Release()
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			h.ForEach(func(obj ref.Object) bool {
				if !testutil.AsProbe(obj).Live {
					t.Errorf("visited a destroyed object")
				}
				return true
			})
		}
	}()
	wg.Wait()

	removed := workers * ((rounds + 2) / 3)
	require.Equal(t, workers*rounds-removed, h.Size())

	h.Close()
	require.Zero(t, f.Counters.Alive())
	require.Zero(t, acct.LivePages())
}
