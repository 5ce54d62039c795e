package ecs

import "reflect"

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID)
	Has(id EntityID) bool
}

// Store is a generic typed map store for one component type. T is the
// concrete component type as attached: a pointer for reference components,
// a plain struct for value components.
type Store[T any] struct {
	data map[EntityID]T
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		data: make(map[EntityID]T, 64),
	}
}

func (s *Store[T]) Set(id EntityID, c T) {
	s.data[id] = c
}

func (s *Store[T]) Get(id EntityID) (T, bool) {
	c, ok := s.data[id]
	return c, ok
}

func (s *Store[T]) Remove(id EntityID) {
	delete(s.data, id)
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *Store[T]) Len() int {
	return len(s.data)
}

func (s *Store[T]) Each(fn func(EntityID, T)) {
	for id, c := range s.data {
		fn(id, c)
	}
}

// StoreOf returns the store for component type T, creating and registering
// it on first use.
func StoreOf[T any](w *World) *Store[T] {
	key := reflect.TypeOf((*T)(nil)).Elem()
	if s, ok := w.registry.lookup(key); ok {
		return s.(*Store[T])
	}
	s := NewStore[T]()
	w.registry.Register(key, s)
	return s
}

// Attach sets component c of type T on entity id, replacing any existing T.
func Attach[T any](w *World, id EntityID, c T) {
	StoreOf[T](w).Set(id, c)
	if w.bus != nil {
		emitAttached(w, id, reflect.TypeOf((*T)(nil)).Elem())
	}
}

// Get returns the T attached to id.
func Get[T any](w *World, id EntityID) (T, bool) {
	s, ok := w.registry.lookup(reflect.TypeOf((*T)(nil)).Elem())
	if !ok {
		var zero T
		return zero, false
	}
	return s.(*Store[T]).Get(id)
}

// Has reports whether a T is attached to id.
func Has[T any](w *World, id EntityID) bool {
	s, ok := w.registry.lookup(reflect.TypeOf((*T)(nil)).Elem())
	return ok && s.Has(id)
}

// Remove detaches the T from id, if any.
func Remove[T any](w *World, id EntityID) {
	if s, ok := w.registry.lookup(reflect.TypeOf((*T)(nil)).Elem()); ok {
		s.Remove(id)
	}
}
