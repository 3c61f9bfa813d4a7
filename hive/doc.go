// Package hive implements object pools ("hives"): containers that store many
// reference-counted objects of one class in contiguous, page-based slots.
//
// # Overview
//
// A Hive allocates objects through a class.Factory into pages created on a
// geometric capacity schedule (see alloc.PageConfig). Every slot of a page
// owns an embedded ref.Block, so pool-resident objects need no per-object
// heap allocation for their control block.
//
//	h := hive.New(class.NewFactory[Particle]("particle"))
//	defer h.Close()
//
//	p := h.Add()          // strong handle; the pool holds another reference
//	defer p.Release()
//
//	h.ForEach(func(o ref.Object) bool {
//	    o.(*Particle).X++
//	    return true
//	})
//
// # Slot Lifecycle
//
// Each slot is Free, Active or Zombie:
//
//	Free ──Add──▶ Active ──Remove──▶ Zombie ──last strong + last weak──▶ Free
//	                 └──────Remove with no other holder──────────────────▶ Free
//
// Removing an object only drops the pool's own reference. If callers still
// hold handles the slot becomes a zombie: it is no longer counted by Size or
// visited by ForEach, but the object stays fully usable until the last handle
// is released. A destroyed object whose block still has weak observers keeps
// its slot reserved until the last observer is released.
//
// # Teardown
//
// Close releases the pool's reference to every object. Pages without
// survivors are freed immediately. Pages that still contain zombies or
// observed blocks are orphaned: they leave the pool, switch to a private
// lock, and free themselves once their last zombie and last observer are
// gone. Objects therefore remain valid after the pool that created them has
// been closed.
//
// # Thread Safety
//
// Hive methods are safe for concurrent use. Structural changes (Add, Remove,
// page creation) take the pool's exclusive lock; iteration takes it in shared
// mode while scanning a bitmap word and pins the objects it is about to visit
// with a strong reference. The lock is not held while the visitor runs, so a
// visitor may add or remove objects, including ones later in the same scan;
// every slot is re-checked right before it is visited.
//
// Factories construct objects while the pool's exclusive lock is held; an
// Init method must not call back into the same pool.
package hive
