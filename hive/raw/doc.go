// Package raw implements pools of fixed-size, untyped slots.
//
// A raw pool hands out uninitialized byte slots and takes them back. It has
// no control blocks, no per-slot lifecycle beyond allocated and free, and no
// zombies: the caller must be done with a slot's contents before
// deallocating it.
//
// By default pages are anonymous memory mappings (see internal/pagemem), so
// slot memory is invisible to the garbage collector and must never hold Go
// pointers. WithHeapPages(true) keeps pages on the Go heap instead. Clear
// unmaps the pages right away; a pool dropped without Clear has its pages
// unmapped after the garbage collector finds it unreachable.
//
// All methods are safe for concurrent use. ForEach holds the pool's shared
// lock for the whole walk; its visitor must not call back into the pool.
package raw
