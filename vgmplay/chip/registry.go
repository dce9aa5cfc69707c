package chip

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownChip   = errors.New("unknown chip")
	ErrDuplicateChip = errors.New("chip already registered")
)

// Factory creates a fresh, uninitialized backend.
type Factory func() Chip

// Registry maps stable identifiers to backend factories.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under id.
func (r *Registry) Register(id string, f Factory) error {
	if f == nil {
		return fmt.Errorf("register %q: nil factory", id)
	}
	if _, ok := r.factories[id]; ok {
		return fmt.Errorf("register %q: %w", id, ErrDuplicateChip)
	}
	r.factories[id] = f
	return nil
}

// New creates a backend for id.
func (r *Registry) New(id string) (Chip, error) {
	f, ok := r.factories[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChip, id)
	}
	return f(), nil
}

// Names returns the registered identifiers, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
