package ref

// Object is implemented by values that carry their own reference methods
// (intrusive mode). Embedding Base is the usual way to satisfy it.
type Object interface {
	ControlBlock() *Block
	AddRef()
	Release()
}

// Ptr is an owning reference to a value of type T.
//
// The zero value is an empty pointer. Copying a Ptr struct does not acquire a
// reference; use Clone.
type Ptr[T any] struct {
	v     T
	block *Block
	obj   Object // non-nil in intrusive mode
}

// New wraps v in external mode. destroy, if non-nil, runs once when the last
// strong reference is released.
func New[T any](v T, destroy func(T)) Ptr[T] {
	o := &funcOwner{}
	if destroy != nil {
		o.destroy = func() { destroy(v) }
	}
	return Ptr[T]{v: v, block: NewBlock(o)}
}

// Adopt wraps an intrusive object without acquiring a reference: the
// returned Ptr takes over one the caller already holds.
func Adopt[T Object](v T) Ptr[T] {
	return Ptr[T]{v: v, block: v.ControlBlock(), obj: v}
}

// Share wraps an intrusive object and acquires a new strong reference.
func Share[T Object](v T) Ptr[T] {
	v.AddRef()
	return Adopt(v)
}

// Get returns the referenced value, or the zero T for an empty pointer.
func (p Ptr[T]) Get() T { return p.v }

// IsNil reports whether p is empty.
func (p Ptr[T]) IsNil() bool { return p.block == nil }

// Block returns the control block, or nil for an empty pointer.
func (p Ptr[T]) Block() *Block { return p.block }

// UseCount returns the current strong count, or 0 for an empty pointer.
func (p Ptr[T]) UseCount() int32 {
	if p.block == nil {
		return 0
	}
	return p.block.Strong()
}

// Clone acquires another strong reference to the same value.
func (p Ptr[T]) Clone() Ptr[T] {
	switch {
	case p.block == nil:
		return Ptr[T]{}
	case p.obj != nil:
		p.obj.AddRef()
	default:
		p.block.AddRef()
	}
	return p
}

// Take moves the reference out of p, leaving p empty.
func (p *Ptr[T]) Take() Ptr[T] {
	out := *p
	*p = Ptr[T]{}
	return out
}

// Release drops the reference held by p and empties it. Releasing an empty
// pointer is a no-op.
func (p *Ptr[T]) Release() {
	if p.block == nil {
		return
	}
	obj, b := p.obj, p.block
	*p = Ptr[T]{}
	if obj != nil {
		obj.Release()
		return
	}
	b.DropStrong()
}

// Weak returns a new observer of p's value.
func (p Ptr[T]) Weak() Weak[T] {
	if p.block == nil {
		return Weak[T]{}
	}
	p.block.AddWeak()
	return Weak[T]{v: p.v, block: p.block, obj: p.obj}
}

// Cast converts p to a Ptr[U] when the referenced value implements U. On
// success ownership moves to the returned pointer and p is emptied; on
// failure p is left untouched.
func Cast[U, T any](p *Ptr[T]) (Ptr[U], bool) {
	if p.block == nil {
		return Ptr[U]{}, false
	}
	u, ok := any(p.v).(U)
	if !ok {
		return Ptr[U]{}, false
	}
	out := Ptr[U]{v: u, block: p.block, obj: p.obj}
	*p = Ptr[T]{}
	return out, true
}
