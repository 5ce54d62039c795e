// Package builder materializes entity templates into live entities, wiring
// inherited components and parent/child links into an ecs.World.
package builder

import (
	"fmt"

	"github.com/l1jgo/entityforge/internal/core/ecs"
	"github.com/l1jgo/entityforge/internal/factory"
	"github.com/l1jgo/entityforge/internal/template"
	"go.uber.org/zap"
)

// Builder creates entity graphs from templates. The resolution cache and
// traversal queue are reused between calls, so a Builder must not be used
// from more than one goroutine at a time.
type Builder struct {
	store      template.Store
	world      *ecs.World
	components *factory.Materializer
	log        *zap.Logger

	resolved map[string]*template.Entity
	queue    []*node
}

// node is one entity in the breadth-first hierarchy walk. name is the name
// the template was resolved under; keyed is false for an unnamed template
// handed to TryCreate directly.
type node struct {
	tmpl  *template.Entity
	name  string
	keyed bool
	id    ecs.EntityID
	up    *node
}

// New creates a Builder. log may be nil.
func New(store template.Store, world *ecs.World, components *factory.Materializer, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{
		store:      store,
		world:      world,
		components: components,
		log:        log,
		resolved:   make(map[string]*template.Entity, 32),
		queue:      make([]*node, 0, 32),
	}
}

// TryCreateByName resolves name and builds it. A blank name is an
// ErrInvalidArgument; an unknown name returns ok=false.
func (b *Builder) TryCreateByName(name string) (ecs.EntityID, bool, error) {
	if template.Blank(name) {
		return 0, false, fmt.Errorf("entity name %q: %w", name, template.ErrInvalidArgument)
	}
	clear(b.resolved)
	t, ok := b.resolve(name)
	if !ok {
		return 0, false, nil
	}
	id, ok := b.create(t, name)
	return id, ok, nil
}

// TryCreate builds t. A template with a parent or children is built as part
// of its whole hierarchy and the hierarchy root is returned, whichever node
// t is. It fails only when the parent chain cannot be resolved.
func (b *Builder) TryCreate(t *template.Entity) (ecs.EntityID, bool) {
	if t == nil {
		return 0, false
	}
	clear(b.resolved)
	return b.create(t, t.Name)
}

func (b *Builder) create(t *template.Entity, name string) (ecs.EntityID, bool) {
	if t.IsLeaf() {
		return b.spawn(t), true
	}

	root, rootName, ok := b.findRoot(t, name)
	if !ok {
		return 0, false
	}
	rootID := b.spawn(root)

	b.queue = append(b.queue[:0], &node{
		tmpl:  root,
		name:  rootName,
		keyed: rootName != "",
		id:    rootID,
	})
	for head := 0; head < len(b.queue); head++ {
		parent := b.queue[head]
		for _, childName := range parent.tmpl.Children {
			child, ok := b.resolve(childName)
			if !ok {
				b.log.Debug("child template not found, skipped",
					zap.String("parent", parent.tmpl.Name), zap.String("child", childName))
				continue
			}
			if parent.hasAncestor(childName, child) {
				b.log.Debug("child template names its own ancestor, skipped",
					zap.String("parent", parent.tmpl.Name), zap.String("child", childName))
				continue
			}
			childID := b.spawn(child)
			b.world.SetParent(childID, parent.id)
			b.queue = append(b.queue, &node{tmpl: child, name: childName, keyed: true, id: childID, up: parent})
		}
	}
	clear(b.queue)
	b.queue = b.queue[:0]
	return rootID, true
}

// findRoot follows Parent links up to the template without a parent. It
// returns the root and the name it was resolved under.
func (b *Builder) findRoot(t *template.Entity, name string) (*template.Entity, string, bool) {
	seen := map[string]bool{name: true, t.Name: true}
	for t.Parent != "" {
		if seen[t.Parent] {
			b.log.Debug("parent chain is cyclic", zap.String("entity", t.Name), zap.String("parent", t.Parent))
			return nil, "", false
		}
		seen[t.Parent] = true
		p, ok := b.resolve(t.Parent)
		if !ok {
			b.log.Debug("parent template not found", zap.String("entity", t.Name), zap.String("parent", t.Parent))
			return nil, "", false
		}
		t, name = p, t.Parent
	}
	return t, name, true
}

// spawn creates one entity and attaches its effective components.
func (b *Builder) spawn(t *template.Entity) ecs.EntityID {
	id := b.world.CreateEntity()
	for _, ct := range b.effectiveComponents(t) {
		v, ok, err := b.components.TryCreate(ct)
		if err != nil || !ok {
			b.log.Debug("component skipped",
				zap.String("entity", t.Name), zap.String("component", ct.Key()), zap.Error(err))
			continue
		}
		ct.Type.Attach(b.world, id, v)
	}
	return id
}

// effectiveComponents flattens t's own components followed by its inherited
// ones (depth-first, in InheritsFrom order) and keeps the first template of
// each component type.
func (b *Builder) effectiveComponents(t *template.Entity) []*template.Component {
	var all []*template.Component
	visited := make(map[string]bool)
	var collect func(*template.Entity)
	collect = func(e *template.Entity) {
		all = append(all, e.Components...)
		for _, name := range e.InheritsFrom {
			if visited[name] {
				continue
			}
			visited[name] = true
			base, ok := b.resolve(name)
			if !ok {
				b.log.Debug("inherited template not found, skipped",
					zap.String("entity", e.Name), zap.String("base", name))
				continue
			}
			collect(base)
		}
	}
	if t.Name != "" {
		visited[t.Name] = true
	}
	collect(t)
	return dedupByType(all)
}

func dedupByType(all []*template.Component) []*template.Component {
	out := make([]*template.Component, 0, len(all))
	for _, c := range all {
		if c == nil {
			continue
		}
		dup := false
		for _, kept := range out {
			if template.SameType(kept, c) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, c)
		}
	}
	return out
}

func (b *Builder) resolve(name string) (*template.Entity, bool) {
	if t, ok := b.resolved[name]; ok {
		return t, true
	}
	t, ok := b.store.ResolveEntity(name)
	if !ok || t == nil {
		return nil, false
	}
	b.resolved[name] = t
	return t, true
}

// hasAncestor reports whether the child resolved under name is n or one of
// n's ancestors.
func (n *node) hasAncestor(name string, child *template.Entity) bool {
	for p := n; p != nil; p = p.up {
		if p.tmpl == child || (p.keyed && p.name == name) {
			return true
		}
	}
	return false
}
