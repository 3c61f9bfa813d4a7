package ref

// Weak observes a value without keeping it alive.
type Weak[T any] struct {
	v     T
	block *Block
	obj   Object
}

// Lock promotes the observer to an owning reference. It returns an empty Ptr
// once the value has been destroyed.
func (w Weak[T]) Lock() Ptr[T] {
	if w.block == nil || !w.block.TryAddRef() {
		return Ptr[T]{}
	}
	return Ptr[T]{v: w.v, block: w.block, obj: w.obj}
}

// Expired reports whether the observed value has been destroyed. An empty
// observer is always expired.
func (w Weak[T]) Expired() bool {
	return w.block == nil || w.block.Expired()
}

// IsNil reports whether w observes nothing.
func (w Weak[T]) IsNil() bool { return w.block == nil }

// Clone returns another observer of the same value.
func (w Weak[T]) Clone() Weak[T] {
	if w.block != nil {
		w.block.AddWeak()
	}
	return w
}

// Release drops the observer and empties it.
func (w *Weak[T]) Release() {
	if w.block == nil {
		return
	}
	b := w.block
	*w = Weak[T]{}
	b.DropWeak()
}
