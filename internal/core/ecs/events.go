package ecs

import (
	"reflect"

	"github.com/l1jgo/entityforge/internal/core/event"
)

// Events emitted by a World that has a bus attached. They become readable
// after the next SwapBuffers.

type EntityCreated struct {
	Entity EntityID
}

type ComponentAttached struct {
	Entity EntityID
	Type   reflect.Type
}

type ParentSet struct {
	Child  EntityID
	Parent EntityID
}

type EntityDestroyed struct {
	Entity EntityID
}

func emitAttached(w *World, id EntityID, t reflect.Type) {
	event.Emit(w.bus, ComponentAttached{Entity: id, Type: t})
}
