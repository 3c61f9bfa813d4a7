package class

import (
	"reflect"
	"strconv"
	"unsafe"

	"github.com/cespare/xxhash/v2"

	"github.com/joshuapare/hivekit/hive/ref"
)

// TypeID identifies a class of objects or a plain element type.
type TypeID uint64

// String formats the id as hex.
func (id TypeID) String() string {
	return "0x" + strconv.FormatUint(uint64(id), 16)
}

// IDFor hashes a type name into a TypeID.
func IDFor(name string) TypeID {
	return TypeID(xxhash.Sum64String(name))
}

// IDOf returns the TypeID of T, derived from its package path and name.
func IDOf[T any]() TypeID {
	return IDFor(TypeName[T]())
}

// TypeName returns the qualified name used to derive IDOf[T].
func TypeName[T any]() string {
	t := reflect.TypeFor[T]()
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// Storage is the slot array of one page. Slots are addressed by index and
// never move for the lifetime of the storage.
type Storage interface {
	// Construct builds a new object in slot i, bound to the preexisting
	// control block b, and returns it.
	Construct(i int, b *ref.Block) ref.Object

	// Destroy tears down the object in slot i and zeroes the slot.
	Destroy(i int)

	// At returns the object in slot i.
	At(i int) ref.Object

	// Addr returns the address of slot i.
	Addr(i int) unsafe.Pointer

	// Len returns the number of slots.
	Len() int
}

// Factory creates and destroys instances of one class.
type Factory interface {
	TypeID() TypeID
	Name() string

	// CreateInstance allocates a standalone instance with its own control
	// block and returns the only strong reference to it.
	CreateInstance() ref.Ptr[ref.Object]

	// NewStorage allocates contiguous storage for capacity instances.
	NewStorage(capacity int) Storage

	InstanceSize() uintptr
	InstanceAlignment() uintptr
}

// Finder looks up factories by id. It returns nil for unknown ids.
type Finder interface {
	FindFactory(id TypeID) Factory
}

// Initializer is an optional capability run after an object is bound to its
// control block.
type Initializer interface {
	Init()
}
