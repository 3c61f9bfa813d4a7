package class

import (
	"errors"
	"fmt"
	"sync"
)

// ErrDuplicate indicates that a factory is already registered for an id.
var ErrDuplicate = errors.New("class: factory already registered")

// Registry is a concurrency-safe Finder. The zero value is ready to use.
type Registry struct {
	mu        sync.RWMutex
	factories map[TypeID]Factory
}

// Register adds f under f.TypeID().
func (r *Registry) Register(f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.factories == nil {
		r.factories = make(map[TypeID]Factory)
	}
	if _, ok := r.factories[f.TypeID()]; ok {
		return fmt.Errorf("%w: %s (%s)", ErrDuplicate, f.Name(), f.TypeID())
	}
	r.factories[f.TypeID()] = f
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(f Factory) {
	if err := r.Register(f); err != nil {
		panic(err)
	}
}

// FindFactory implements Finder.
func (r *Registry) FindFactory(id TypeID) Factory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.factories[id]
}

// Len returns the number of registered factories.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.factories)
}
