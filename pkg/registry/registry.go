package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNotFound is returned by Build for names nothing was registered under.
var ErrNotFound = errors.New("not registered")

// Factory builds a T from the settings in C.
type Factory[C, T any] func(ctx context.Context, cfg C) (T, error)

// Registry maps names to factories, e.g. generator backends by their config name.
type Registry[C, T any] struct {
	mu        sync.RWMutex
	factories map[string]Factory[C, T]
}

// New creates an empty registry.
func New[C, T any]() *Registry[C, T] {
	return &Registry[C, T]{
		factories: make(map[string]Factory[C, T]),
	}
}

// Register adds a factory.
// If a factory with the same name exists, it is overwritten.
func (r *Registry[C, T]) Register(name string, fn Factory[C, T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = fn
}

// Build looks up the factory registered under name and runs it.
func (r *Registry[C, T]) Build(ctx context.Context, name string, cfg C) (T, error) {
	r.mu.RLock()
	fn, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		var zero T
		return zero, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return fn(ctx, cfg)
}

// Names lists the registered names in order.
func (r *Registry[C, T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
