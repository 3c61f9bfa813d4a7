package store

import "errors"

var (
	// ErrUnknownType indicates that no factory is registered for a type ID.
	ErrUnknownType = errors.New("store: unknown type")

	// ErrLayoutMismatch indicates a raw pool requested again with a
	// different element size or alignment.
	ErrLayoutMismatch = errors.New("store: raw pool layout mismatch")

	// ErrPointerType indicates an element type that holds Go pointers and
	// therefore cannot live in raw pool memory.
	ErrPointerType = errors.New("store: element type contains pointers")

	// ErrClosed indicates an operation on a closed store.
	ErrClosed = errors.New("store: closed")
)
