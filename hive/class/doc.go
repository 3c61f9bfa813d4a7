// Package class defines the boundary between pools and the types they store.
//
// A Factory describes one class of pool-resident objects: how large an
// instance is, how to create a standalone instance, and how to allocate the
// contiguous slot Storage of a page so that objects can be constructed in
// place with a control block supplied by the pool.
//
// Types are identified by TypeID, a 64-bit hash of the Go type name. A
// Registry maps ids to factories; pool stores consult it before creating a
// pool for an id.
//
// The generic NewFactory covers the common case of a struct embedding
// ref.Base:
//
//	type Particle struct {
//	    ref.Base
//	    X, Y float32
//	}
//
//	var reg class.Registry
//	reg.MustRegister(class.NewFactory[Particle]("particle"))
package class
