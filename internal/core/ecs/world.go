package ecs

import "github.com/l1jgo/entityforge/internal/core/event"

// World is the top-level ECS container. It owns the entity pool, the component
// registry, the parent/child hierarchy and a deferred destruction queue.
// Not safe for concurrent use.
type World struct {
	pool         *EntityPool
	registry     *Registry
	hierarchy    *Hierarchy
	destroyQueue []EntityID
	bus          *event.Bus
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		hierarchy:    NewHierarchy(),
		destroyQueue: make([]EntityID, 0, 64),
	}
}

func (w *World) Pool() *EntityPool     { return w.pool }
func (w *World) Registry() *Registry   { return w.registry }
func (w *World) Hierarchy() *Hierarchy { return w.hierarchy }
func (w *World) Bus() *event.Bus       { return w.bus }

// SetBus attaches an event bus; nil disables events.
func (w *World) SetBus(b *event.Bus) {
	w.bus = b
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return w.pool.Len()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

func (w *World) Parent(id EntityID) (EntityID, bool) {
	return w.hierarchy.Parent(id)
}

func (w *World) Children(id EntityID) []EntityID {
	return w.hierarchy.Children(id)
}

func (w *World) CreateEntity() EntityID {
	id := w.pool.Create()
	if w.bus != nil {
		event.Emit(w.bus, EntityCreated{Entity: id})
	}
	return id
}

// SetParent links child under parent, detaching it from any previous parent.
func (w *World) SetParent(child, parent EntityID) {
	w.hierarchy.SetParent(child, parent)
	if w.bus != nil {
		event.Emit(w.bus, ParentSet{Child: child, Parent: parent})
	}
}

// MarkForDestruction queues an entity for deferred cleanup.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// FlushDestroyQueue destroys all queued entities, clears their components and
// detaches them from the hierarchy. Their children become roots.
func (w *World) FlushDestroyQueue() {
	for _, id := range w.destroyQueue {
		if !w.pool.Alive(id) {
			continue
		}
		w.registry.RemoveAll(id)
		w.hierarchy.Detach(id)
		w.pool.Destroy(id)
		if w.bus != nil {
			event.Emit(w.bus, EntityDestroyed{Entity: id})
		}
	}
	w.destroyQueue = w.destroyQueue[:0]
}
