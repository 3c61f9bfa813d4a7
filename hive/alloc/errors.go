package alloc

import "errors"

var (
	// ErrNotFound indicates that an element does not belong to the pool.
	ErrNotFound = errors.New("alloc: element not owned by pool")

	// ErrNotAllocated indicates that a slot is already free.
	ErrNotAllocated = errors.New("alloc: slot is not allocated")

	// ErrBadConfig indicates an unusable page capacity configuration.
	ErrBadConfig = errors.New("alloc: invalid page configuration")
)
