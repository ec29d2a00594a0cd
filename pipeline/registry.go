package pipeline

import (
	"sync"

	"github.com/pkg/errors"
)

// Factory constructs a fresh, unhydrated module instance.
type Factory func() Module

// Instantiator resolves a module type name to a new instance. It is the
// loader's view of a module registry; implementations must be safe for
// concurrent lookups.
type Instantiator interface {
	Instantiate(typeName string) (Module, error)
}

// Registry maps module type names to factories. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty module registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under the given type name. Overwrites any existing
// registration.
func (r *Registry) Register(typeName string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.factories == nil {
		r.factories = make(map[string]Factory)
	}
	r.factories[typeName] = factory
}

// Instantiate constructs a new module for typeName, or returns an error if the
// type is not registered.
func (r *Registry) Instantiate(typeName string) (Module, error) {
	r.mu.RLock()
	factory, ok := r.factories[typeName]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.Errorf("module type %q not registered", typeName)
	}
	return factory(), nil
}

// Names returns all registered type names (unordered).
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	return names
}
