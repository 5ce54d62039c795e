package ecs

// Hierarchy stores parent/child links between live entities. Children keep
// insertion order.
type Hierarchy struct {
	parents  map[EntityID]EntityID
	children map[EntityID][]EntityID
}

func NewHierarchy() *Hierarchy {
	return &Hierarchy{
		parents:  make(map[EntityID]EntityID, 64),
		children: make(map[EntityID][]EntityID, 64),
	}
}

func (h *Hierarchy) SetParent(child, parent EntityID) {
	if old, ok := h.parents[child]; ok {
		if old == parent {
			return
		}
		h.unlink(old, child)
	}
	h.parents[child] = parent
	h.children[parent] = append(h.children[parent], child)
}

func (h *Hierarchy) Parent(id EntityID) (EntityID, bool) {
	p, ok := h.parents[id]
	return p, ok
}

// Children returns a copy of id's children.
func (h *Hierarchy) Children(id EntityID) []EntityID {
	kids := h.children[id]
	if len(kids) == 0 {
		return nil
	}
	out := make([]EntityID, len(kids))
	copy(out, kids)
	return out
}

// Detach removes id from its parent and orphans its children.
func (h *Hierarchy) Detach(id EntityID) {
	if p, ok := h.parents[id]; ok {
		h.unlink(p, id)
		delete(h.parents, id)
	}
	for _, c := range h.children[id] {
		delete(h.parents, c)
	}
	delete(h.children, id)
}

// Walk visits root and its descendants depth-first, parents before children.
func (h *Hierarchy) Walk(root EntityID, fn func(id EntityID, depth int)) {
	var visit func(EntityID, int)
	visit = func(id EntityID, depth int) {
		fn(id, depth)
		for _, c := range h.children[id] {
			visit(c, depth+1)
		}
	}
	visit(root, 0)
}

func (h *Hierarchy) unlink(parent, child EntityID) {
	kids := h.children[parent]
	for i, c := range kids {
		if c == child {
			h.children[parent] = append(kids[:i], kids[i+1:]...)
			break
		}
	}
	if len(h.children[parent]) == 0 {
		delete(h.children, parent)
	}
}
