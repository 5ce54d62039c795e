package ecs_test

import (
	"reflect"
	"testing"

	"github.com/l1jgo/entityforge/internal/core/ecs"
	"github.com/l1jgo/entityforge/internal/core/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type position struct{ X, Y int32 }

type health struct{ HP int32 }

func TestEntityPool(t *testing.T) {
	p := ecs.NewEntityPool()
	assert.False(t, p.Alive(0))

	a := p.Create()
	b := p.Create()
	assert.False(t, a.IsZero())
	assert.Equal(t, uint32(1), a.Index())
	assert.Equal(t, 2, p.Len())

	p.Destroy(a)
	assert.False(t, p.Alive(a))
	assert.Equal(t, 1, p.Len())

	c := p.Create()
	assert.Equal(t, a.Index(), c.Index(), "freed index is reused")
	assert.Equal(t, uint32(1), c.Generation())
	assert.False(t, p.Alive(a), "stale id stays dead")
	assert.True(t, p.Alive(b))
	assert.Equal(t, "1.1", c.String())

	p.Destroy(a)
	assert.True(t, p.Alive(c), "destroying a stale id is a no-op")
}

func TestAttachReplacesSameType(t *testing.T) {
	w := ecs.NewWorld()
	id := w.CreateEntity()

	ecs.Attach(w, id, position{X: 1})
	ecs.Attach(w, id, position{X: 2})
	ecs.Attach(w, id, &health{HP: 5})

	pos, ok := ecs.Get[position](w, id)
	require.True(t, ok)
	assert.Equal(t, int32(2), pos.X)
	assert.Equal(t, 1, ecs.StoreOf[position](w).Len())

	assert.True(t, ecs.Has[*health](w, id))
	assert.False(t, ecs.Has[health](w, id), "value and pointer are distinct component types")

	ecs.Remove[position](w, id)
	assert.False(t, ecs.Has[position](w, id))

	_, ok = ecs.Get[struct{}](w, id)
	assert.False(t, ok)
}

func TestTypesOf(t *testing.T) {
	w := ecs.NewWorld()
	id := w.CreateEntity()
	ecs.Attach(w, id, &health{})
	ecs.Attach(w, id, position{})

	got := w.Registry().TypesOf(id)
	assert.Equal(t, []reflect.Type{reflect.TypeOf((**health)(nil)).Elem(), reflect.TypeOf((*position)(nil)).Elem()}, got)
}

func TestHierarchy(t *testing.T) {
	w := ecs.NewWorld()
	root, mid, leaf, other := w.CreateEntity(), w.CreateEntity(), w.CreateEntity(), w.CreateEntity()
	w.SetParent(mid, root)
	w.SetParent(leaf, mid)
	w.SetParent(other, root)

	p, ok := w.Parent(leaf)
	require.True(t, ok)
	assert.Equal(t, mid, p)
	_, ok = w.Parent(root)
	assert.False(t, ok)
	assert.Equal(t, []ecs.EntityID{mid, other}, w.Children(root))

	type visit struct {
		id    ecs.EntityID
		depth int
	}
	var walked []visit
	w.Hierarchy().Walk(root, func(id ecs.EntityID, depth int) {
		walked = append(walked, visit{id, depth})
	})
	assert.Equal(t, []visit{{root, 0}, {mid, 1}, {leaf, 2}, {other, 1}}, walked)

	// re-parenting moves the child
	w.SetParent(other, mid)
	assert.Equal(t, []ecs.EntityID{mid}, w.Children(root))
	assert.Equal(t, []ecs.EntityID{leaf, other}, w.Children(mid))

	kids := w.Children(mid)
	kids[0] = root
	assert.Equal(t, leaf, w.Children(mid)[0], "Children returns a copy")
}

func TestFlushDestroyQueue(t *testing.T) {
	w := ecs.NewWorld()
	root, child := w.CreateEntity(), w.CreateEntity()
	w.SetParent(child, root)
	ecs.Attach(w, root, position{X: 9})

	w.MarkForDestruction(root)
	w.MarkForDestruction(root)
	w.FlushDestroyQueue()

	assert.False(t, w.Alive(root))
	assert.True(t, w.Alive(child))
	assert.False(t, ecs.Has[position](w, root))
	_, ok := w.Parent(child)
	assert.False(t, ok, "children of a destroyed entity become roots")
	assert.Equal(t, 1, w.Len())
}

func TestWorldEvents(t *testing.T) {
	w := ecs.NewWorld()
	bus := event.NewBus()
	w.SetBus(bus)

	var (
		created  []ecs.EntityID
		attached []reflect.Type
		parents  []ecs.ParentSet
		gone     []ecs.EntityID
	)
	event.Subscribe(bus, func(ev ecs.EntityCreated) { created = append(created, ev.Entity) })
	event.Subscribe(bus, func(ev ecs.ComponentAttached) { attached = append(attached, ev.Type) })
	event.Subscribe(bus, func(ev ecs.ParentSet) { parents = append(parents, ev) })
	event.Subscribe(bus, func(ev ecs.EntityDestroyed) { gone = append(gone, ev.Entity) })

	a, b := w.CreateEntity(), w.CreateEntity()
	ecs.Attach(w, a, position{})
	w.SetParent(b, a)
	w.MarkForDestruction(b)
	w.FlushDestroyQueue()

	bus.DispatchAll()
	assert.Empty(t, created, "events are not visible before the swap")

	bus.SwapBuffers()
	bus.DispatchAll()
	assert.Equal(t, []ecs.EntityID{a, b}, created)
	assert.Equal(t, []reflect.Type{reflect.TypeOf((*position)(nil)).Elem()}, attached)
	assert.Equal(t, []ecs.ParentSet{{Child: b, Parent: a}}, parents)
	assert.Equal(t, []ecs.EntityID{b}, gone)
}
