package template

import "sort"

// Store resolves templates by name. Implementations may be slow; callers
// cache what they need. A miss is reported with ok=false.
type Store interface {
	ResolveComponent(name string) (*Component, bool)
	ResolveEntity(name string) (*Entity, bool)
}

// MapStore is an in-memory Store.
type MapStore struct {
	components map[string]*Component
	entities   map[string]*Entity
}

func NewMapStore() *MapStore {
	return &MapStore{
		components: make(map[string]*Component, 64),
		entities:   make(map[string]*Entity, 64),
	}
}

// AddComponent stores c under its key, replacing any previous entry.
func (s *MapStore) AddComponent(c *Component) {
	s.components[c.Key()] = c
}

// AddComponentAs stores c under an explicit lookup name.
func (s *MapStore) AddComponentAs(name string, c *Component) {
	s.components[name] = c
}

// AddEntity stores e under its name, replacing any previous entry.
func (s *MapStore) AddEntity(e *Entity) {
	s.entities[e.Name] = e
}

// Merge copies every template of other into s; other wins on conflicts.
func (s *MapStore) Merge(other *MapStore) {
	for k, c := range other.components {
		s.components[k] = c
	}
	for k, e := range other.entities {
		s.entities[k] = e
	}
}

func (s *MapStore) ResolveComponent(name string) (*Component, bool) {
	c, ok := s.components[name]
	return c, ok && c != nil
}

func (s *MapStore) ResolveEntity(name string) (*Entity, bool) {
	e, ok := s.entities[name]
	return e, ok && e != nil
}

func (s *MapStore) ComponentCount() int { return len(s.components) }
func (s *MapStore) EntityCount() int    { return len(s.entities) }

// EntityNames returns the stored entity template names, sorted.
func (s *MapStore) EntityNames() []string {
	return sortedKeys(s.entities)
}

// ComponentNames returns the stored component template names, sorted.
func (s *MapStore) ComponentNames() []string {
	return sortedKeys(s.components)
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Chain resolves through several stores in order; the first hit wins.
type Chain []Store

func (c Chain) ResolveComponent(name string) (*Component, bool) {
	for _, s := range c {
		if t, ok := s.ResolveComponent(name); ok {
			return t, true
		}
	}
	return nil, false
}

func (c Chain) ResolveEntity(name string) (*Entity, bool) {
	for _, s := range c {
		if t, ok := s.ResolveEntity(name); ok {
			return t, true
		}
	}
	return nil, false
}
