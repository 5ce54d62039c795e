package ecs

import (
	"reflect"
	"sort"
)

// Registry tracks all component stores by component type and supports bulk
// cleanup on entity destroy.
type Registry struct {
	stores map[reflect.Type]Removable
	order  []reflect.Type
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make(map[reflect.Type]Removable, 16),
		order:  make([]reflect.Type, 0, 16),
	}
}

// Register adds a component store to the registry under its component type.
func (r *Registry) Register(key reflect.Type, store Removable) {
	if _, ok := r.stores[key]; !ok {
		r.order = append(r.order, key)
	}
	r.stores[key] = store
}

func (r *Registry) lookup(key reflect.Type) (Removable, bool) {
	s, ok := r.stores[key]
	return s, ok
}

// RemoveAll clears the given entity from every registered component store.
func (r *Registry) RemoveAll(id EntityID) {
	for _, key := range r.order {
		r.stores[key].Remove(id)
	}
}

// TypesOf lists the component types attached to id, sorted by name.
func (r *Registry) TypesOf(id EntityID) []reflect.Type {
	var out []reflect.Type
	for _, key := range r.order {
		if r.stores[key].Has(id) {
			out = append(out, key)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
