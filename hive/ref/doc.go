// Package ref provides atomically reference-counted owning and observing
// pointers built on a shared control block.
//
// # Overview
//
// Every shared object is associated with one Block holding two counters:
//
//   - strong: the number of owning references (Ptr). The object is destroyed
//     when it reaches zero.
//   - weak: the number of observing references (Weak) plus one for the strong
//     group as a whole. The block itself is released when it reaches zero.
//
// Once the strong count has reached zero it can never be raised again:
// Weak.Lock and Block.TryAddRef fail permanently from that point on.
//
// # Modes
//
// External mode is used for plain values. The block is allocated by New and
// carries a type-erased destroy function:
//
//	p := ref.New(&conn{}, func(c *conn) { c.Close() })
//	defer p.Release()
//
// Intrusive mode is used for objects that embed Base and therefore carry
// their own reference methods. Pools bind such objects to control blocks that
// live inside pool pages instead of on the heap:
//
//	type Node struct {
//	    ref.Base
//	    Value int
//	}
//
//	p := ref.NewStandalone(&Node{Value: 1})
//	w := p.Weak()
//	p.Release()        // destroys the node
//	w.Lock().IsNil()   // true
//
// # Copy and Move
//
// Go has no copy constructors, so ownership transfers are explicit:
//
//	q := p.Clone() // copy: acquires a strong reference
//	r := p.Take()  // move: p is empty afterwards, no count change
//	q.Release()    // drop
//
// # Thread Safety
//
// All counter operations are lock-free and safe for concurrent use. A single
// Ptr or Weak value is not itself safe for concurrent mutation (Release and
// Take modify the receiver); share clones instead.
package ref
