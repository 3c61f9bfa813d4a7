package hive

import (
	"testing"
	"unsafe"

	"github.com/joshuapare/hivekit/hive/ref"
	"github.com/joshuapare/hivekit/internal/testutil"
)

// BenchmarkAddRelease measures slot allocation and reclamation through the
// free list.
func BenchmarkAddRelease(b *testing.B) {
	h := New(testutil.ProbeFactory())
	defer h.Close()

	b.ReportAllocs()
	b.ResetTimer()

	for range b.N {
		p := h.Add()
		_ = h.Remove(p.Get())
		p.Release()
	}
}

// BenchmarkForEach measures iteration over a full pool.
func BenchmarkForEach(b *testing.B) {
	h := New(testutil.ProbeFactory())
	defer h.Close()
	for range 10000 {
		p := h.Add()
		p.Release()
	}

	b.ReportAllocs()
	b.ResetTimer()

	for range b.N {
		h.ForEach(func(obj ref.Object) bool {
			testutil.AsProbe(obj).Bump()
			return true
		})
	}
}

// BenchmarkForEachState is BenchmarkForEach without the per-object
// interface dispatch.
func BenchmarkForEachState(b *testing.B) {
	h := New(testutil.ProbeFactory())
	defer h.Close()
	for range 10000 {
		p := h.Add()
		p.Release()
	}
	offset := unsafe.Offsetof(testutil.Probe{}.State)

	b.ReportAllocs()
	b.ResetTimer()

	for range b.N {
		h.ForEachState(offset, func(state unsafe.Pointer) bool {
			(*testutil.ProbeState)(state).Value++
			return true
		})
	}
}

// BenchmarkWeakLock measures promotion of an observer under contention.
func BenchmarkWeakLock(b *testing.B) {
	h := New(testutil.ProbeFactory())
	defer h.Close()
	p := h.Add()
	defer p.Release()
	w := p.Weak()
	defer w.Release()

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			l := w.Lock()
			l.Release()
		}
	})
}
