// Package factory turns component templates into typed component instances.
package factory

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/l1jgo/entityforge/internal/template"
	"github.com/l1jgo/entityforge/internal/types"
	"go.uber.org/zap"
)

// Materializer builds component instances from templates. It caches shared
// instances and per-template accessors for its whole lifetime; neither cache
// is ever evicted. Not safe for concurrent use.
type Materializer struct {
	store     template.Store
	shared    map[sharedKey]any
	accessors map[string]*types.Accessor
	log       *zap.Logger
}

// sharedKey identifies a shared instance. Templates reusing a name with a
// different component type get their own instance.
type sharedKey struct {
	name string
	typ  reflect.Type
}

// New creates a Materializer resolving names through store. log may be nil.
func New(store template.Store, log *zap.Logger) *Materializer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Materializer{
		store:     store,
		shared:    make(map[sharedKey]any, 16),
		accessors: make(map[string]*types.Accessor, 32),
		log:       log,
	}
}

// TryCreateByName resolves name through the store and materializes the
// result. A blank name, or a resolved template with a blank name, is an
// ErrInvalidArgument; an unknown name returns ok=false and no error.
func (m *Materializer) TryCreateByName(name string) (any, bool, error) {
	if template.Blank(name) {
		return nil, false, fmt.Errorf("component name %q: %w", name, template.ErrInvalidArgument)
	}
	t, ok := m.store.ResolveComponent(name)
	if !ok {
		return nil, false, nil
	}
	return m.TryCreate(t)
}

// TryCreate materializes t. Once a usable template is in hand it always
// succeeds: constructor, conversion and unknown-field problems degrade to
// zero values instead of failing.
func (m *Materializer) TryCreate(t *template.Component) (any, bool, error) {
	if t == nil {
		return nil, false, fmt.Errorf("nil component template: %w", template.ErrInvalidArgument)
	}
	key := t.Key()
	if template.Blank(key) {
		return nil, false, fmt.Errorf("component template name is blank, it identifies the component at runtime: %w", template.ErrInvalidArgument)
	}
	if t.Type == nil {
		return nil, false, fmt.Errorf("component template %q has no type: %w", key, template.ErrInvalidArgument)
	}

	if t.Shared {
		sk := sharedKey{name: key, typ: t.Type.Key()}
		if v, ok := m.shared[sk]; ok {
			return v, v != nil, nil
		}
		v := m.instantiate(key, t)
		m.shared[sk] = v
		return v, true, nil
	}
	return m.instantiate(key, t), true, nil
}

// TryCreateAs is TryCreateByName for callers expecting a specific Go type.
// It reports ok=false when the produced instance is not a T.
func TryCreateAs[T any](m *Materializer, name string) (T, bool, error) {
	var zero T
	v, ok, err := m.TryCreateByName(name)
	if err != nil || !ok {
		return zero, false, err
	}
	c, isT := v.(T)
	if !isT {
		return zero, false, nil
	}
	return c, true, nil
}

// SharedCount returns the number of cached shared instances.
func (m *Materializer) SharedCount() int {
	return len(m.shared)
}

func (m *Materializer) instantiate(key string, t *template.Component) any {
	typ := t.Type
	var (
		p        any
		consumed []bool
	)
	if typ.Kind() == types.ByReference {
		p, consumed = m.construct(key, typ, t.Defaults)
	}
	if p == nil {
		if d, ok := typ.NewDefault(); ok {
			p = d
		} else {
			p = typ.NewZero()
		}
	}
	if len(t.Defaults) == 0 {
		return typ.Finish(p)
	}

	acc := m.accessor(key, typ)
	for i, d := range t.Defaults {
		if consumed != nil && consumed[i] {
			continue
		}
		f, ok := acc.Field(d.Name)
		if !ok {
			m.log.Debug("component default ignored: no such field",
				zap.String("template", key), zap.String("field", d.Name))
			continue
		}
		if !f.Assign(p, d.Value) {
			m.log.Debug("component default not convertible, using zero value",
				zap.String("template", key), zap.String("field", d.Name),
				zap.Stringer("value", d.Value), zap.Stringer("want", f.Kind()))
		}
	}
	return typ.Finish(p)
}

// construct runs the constructor matching the most default names. It returns
// nil when no constructor takes any of the defaults or the chosen one fails.
// consumed marks the defaults handed to the constructor.
func (m *Materializer) construct(key string, typ *types.Type, defaults template.Defaults) (any, []bool) {
	if len(defaults) == 0 {
		return nil, nil
	}
	var (
		best        *types.Ctor
		bestBinding []int
		bestMatched int
	)
	for _, c := range typ.Constructors() {
		binding, matched := bind(c.Params(), defaults)
		if matched > bestMatched {
			best, bestBinding, bestMatched = c, binding, matched
		}
	}
	if best == nil {
		return nil, nil
	}

	consumed := make([]bool, len(defaults))
	args := make([]types.Value, len(bestBinding))
	for i, j := range bestBinding {
		if j < 0 {
			continue
		}
		consumed[j] = true
		param := best.Params()[i]
		v, ok := param.Accept(defaults[j].Value)
		if !ok {
			m.log.Debug("constructor argument not convertible, using zero value",
				zap.String("template", key), zap.String("param", param.Name),
				zap.Stringer("value", defaults[j].Value))
		}
		args[i] = v
	}

	p, err := call(best, args)
	if err != nil || p == nil {
		m.log.Debug("constructor failed, falling back to default construction",
			zap.String("template", key), zap.Error(err))
		return nil, nil
	}
	return p, consumed
}

// bind maps each parameter to the index of the default with the same name
// (case-insensitive), or -1.
func bind(params []types.Param, defaults template.Defaults) ([]int, int) {
	binding := make([]int, len(params))
	matched := 0
	for i, prm := range params {
		binding[i] = -1
		for j, d := range defaults {
			if strings.EqualFold(d.Name, prm.Name) {
				binding[i] = j
				matched++
				break
			}
		}
	}
	return binding, matched
}

func call(c *types.Ctor, args []types.Value) (p any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("constructor panic: %v", r)
		}
	}()
	return c.Call(args), nil
}

func (m *Materializer) accessor(key string, typ *types.Type) *types.Accessor {
	if a, ok := m.accessors[key]; ok {
		if a.Type() == typ {
			return a
		}
		// Same name, different type: serve it uncached rather than evict.
		return typ.Accessor()
	}
	a := typ.Accessor()
	m.accessors[key] = a
	return a
}
