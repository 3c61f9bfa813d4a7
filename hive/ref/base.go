package ref

// Finalizer is an optional capability: objects implementing it are notified
// right before their storage is torn down.
type Finalizer interface {
	Finalize()
}

// Base binds an object to a control block and implements Object on top of
// it. Embed it by value:
//
//	type Sprite struct {
//	    ref.Base
//	    X, Y float32
//	}
type Base struct {
	block *Block
}

// Bind attaches the object to b. Pools call it with a block embedded in the
// page; NewStandalone calls it with a heap block.
func (o *Base) Bind(b *Block) { o.block = b }

// ControlBlock returns the bound block, or nil if the object is unbound.
func (o *Base) ControlBlock() *Block { return o.block }

// AddRef acquires a strong reference to the object.
func (o *Base) AddRef() { o.block.AddRef() }

// Release drops a strong reference; the object is destroyed at zero.
func (o *Base) Release() { o.block.DropStrong() }

// Binder is implemented by objects that embed Base.
type Binder interface {
	Object
	Bind(b *Block)
}

// standaloneOwner destroys a heap-allocated intrusive object.
type standaloneOwner struct {
	obj Object
}

func (s *standaloneOwner) DestroyObject(*Block) {
	if f, ok := s.obj.(Finalizer); ok {
		f.Finalize()
	}
	s.obj = nil
}

func (s *standaloneOwner) FreeBlock(*Block) {}

// NewStandalone binds obj to a fresh heap block and returns the only strong
// reference to it. When that reference count reaches zero obj's Finalize
// method, if any, is invoked.
func NewStandalone[T Binder](obj T) Ptr[T] {
	b := NewBlock(&standaloneOwner{obj: obj})
	obj.Bind(b)
	return Adopt(obj)
}
