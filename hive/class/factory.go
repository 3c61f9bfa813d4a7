package class

import (
	"unsafe"

	"github.com/joshuapare/hivekit/hive/ref"
)

// Pointer constrains PT to *T where *T is a bindable object.
type Pointer[T any] interface {
	*T
	ref.Binder
}

// TypedFactory is the Factory for instances of T stored by value.
type TypedFactory[T any, PT Pointer[T]] struct {
	id   TypeID
	name string
}

// NewFactory returns a factory for T. name defaults to T's qualified name.
func NewFactory[T any, PT Pointer[T]](name string) *TypedFactory[T, PT] {
	if name == "" {
		name = TypeName[T]()
	}
	return &TypedFactory[T, PT]{id: IDOf[T](), name: name}
}

// TypeID implements Factory.
func (f *TypedFactory[T, PT]) TypeID() TypeID { return f.id }

// Name implements Factory.
func (f *TypedFactory[T, PT]) Name() string { return f.name }

// InstanceSize implements Factory.
func (f *TypedFactory[T, PT]) InstanceSize() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}

// InstanceAlignment implements Factory.
func (f *TypedFactory[T, PT]) InstanceAlignment() uintptr {
	var zero T
	return unsafe.Alignof(zero)
}

// CreateInstance implements Factory.
func (f *TypedFactory[T, PT]) CreateInstance() ref.Ptr[ref.Object] {
	obj := PT(new(T))
	p := ref.NewStandalone[ref.Binder](obj)
	if in, ok := any(obj).(Initializer); ok {
		in.Init()
	}
	out, _ := ref.Cast[ref.Object](&p)
	return out
}

// NewStorage implements Factory.
func (f *TypedFactory[T, PT]) NewStorage(capacity int) Storage {
	return &typedStorage[T, PT]{items: make([]T, capacity)}
}

type typedStorage[T any, PT Pointer[T]] struct {
	items []T
}

func (s *typedStorage[T, PT]) Construct(i int, b *ref.Block) ref.Object {
	p := PT(&s.items[i])
	var zero T
	*p = zero
	p.Bind(b)
	if in, ok := any(p).(Initializer); ok {
		in.Init()
	}
	return p
}

func (s *typedStorage[T, PT]) Destroy(i int) {
	p := PT(&s.items[i])
	if f, ok := any(p).(ref.Finalizer); ok {
		f.Finalize()
	}
	var zero T
	*p = zero
}

func (s *typedStorage[T, PT]) At(i int) ref.Object { return PT(&s.items[i]) }

func (s *typedStorage[T, PT]) Addr(i int) unsafe.Pointer { return unsafe.Pointer(&s.items[i]) }

func (s *typedStorage[T, PT]) Len() int { return len(s.items) }
