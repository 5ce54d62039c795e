package types

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicateType is returned when two types are registered under one name.
var ErrDuplicateType = errors.New("duplicate component type")

// Registry maps type names used in template files to component types.
type Registry struct {
	types map[string]*Type
}

func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*Type, 32)}
}

// Register adds t under its name.
func (r *Registry) Register(t *Type) error {
	if _, ok := r.types[t.name]; ok {
		return fmt.Errorf("register %s: %w", t.name, ErrDuplicateType)
	}
	r.types[t.name] = t
	return nil
}

// MustRegister is Register for package-level catalogs; it panics on duplicates.
func (r *Registry) MustRegister(ts ...*Type) {
	for _, t := range ts {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the type registered under name, or nil if none.
func (r *Registry) Lookup(name string) *Type {
	return r.types[name]
}

// Names returns all registered type names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.types))
	for n := range r.types {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered types.
func (r *Registry) Count() int {
	return len(r.types)
}
