package hive

import (
	"errors"

	"github.com/joshuapare/hivekit/hive/alloc"
)

var (
	// ErrNotFound indicates that an object does not belong to the pool or was
	// already removed from it.
	ErrNotFound = alloc.ErrNotFound

	// ErrClosed indicates an operation on a closed pool.
	ErrClosed = errors.New("hive: pool closed")
)
