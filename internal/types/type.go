package types

import (
	"reflect"
	"strings"

	"github.com/l1jgo/entityforge/internal/core/ecs"
)

// Kind says how instances of a component type are carried.
type Kind uint8

const (
	// ByReference types are class-like: instances are *T and may be shared.
	ByReference Kind = iota
	// ByValue types are struct-like: instances are T, built from the zero
	// value and patched field by field.
	ByValue
)

func (k Kind) String() string {
	if k == ByValue {
		return "value"
	}
	return "reference"
}

// Type describes one component type: how to construct it, which fields a
// template may set and how to attach an instance to an entity. It is the
// hand-written accessor table that replaces runtime reflection.
type Type struct {
	name       string
	kind       Kind
	key        reflect.Type
	fields     []*Field
	ctors      []*Ctor
	newDefault func() any
	newZero    func() any
	finish     func(p any) any
	attach     func(w *ecs.World, id ecs.EntityID, v any)
}

func (t *Type) Name() string { return t.name }
func (t *Type) Kind() Kind   { return t.kind }

// Key is the concrete Go type of instances: *T for reference types, T for
// value types. Two templates describe the same component iff their keys match.
func (t *Type) Key() reflect.Type { return t.key }

func (t *Type) String() string { return t.name }

// Fields lists the declared fields in declaration order.
func (t *Type) Fields() []*Field { return t.fields }

// Constructors lists the named-parameter constructors in declaration order.
func (t *Type) Constructors() []*Ctor { return t.ctors }

// NewZero returns a work pointer to an uninitialized (zero) instance.
func (t *Type) NewZero() any { return t.newZero() }

// NewDefault runs the parameterless constructor, if the type has one.
func (t *Type) NewDefault() (any, bool) {
	if t.newDefault == nil {
		return nil, false
	}
	return t.newDefault(), true
}

// Finish turns a work pointer into the instance handed to callers.
func (t *Type) Finish(p any) any { return t.finish(p) }

// Attach stores instance v on entity id under the type's concrete Go type,
// replacing any component of that type.
func (t *Type) Attach(w *ecs.World, id ecs.EntityID, v any) { t.attach(w, id, v) }

// Accessor builds a case-insensitive lookup table over the type's fields.
func (t *Type) Accessor() *Accessor {
	a := &Accessor{typ: t, fields: make(map[string]*Field, len(t.fields))}
	for _, f := range t.fields {
		key := strings.ToLower(f.name)
		if _, dup := a.fields[key]; !dup {
			a.fields[key] = f
		}
	}
	return a
}

// Accessor resolves default-entry names to fields.
type Accessor struct {
	typ    *Type
	fields map[string]*Field
}

func (a *Accessor) Type() *Type { return a.typ }

func (a *Accessor) Field(name string) (*Field, bool) {
	f, ok := a.fields[strings.ToLower(name)]
	return f, ok
}

// Param is one named constructor parameter. Integral number parameters
// accept only whole numbers, matching integer fields.
type Param struct {
	Name     string
	Kind     ValueKind
	Integral bool
}

func P(name string, kind ValueKind) Param { return Param{Name: name, Kind: kind} }

// IntP declares an integral number parameter.
func IntP(name string) Param { return Param{Name: name, Kind: KindNumber, Integral: true} }

// Accept coerces v to the parameter's kind.
func (p Param) Accept(v Value) (Value, bool) {
	cv, ok := Coerce(v, p.Kind)
	if !ok || (p.Integral && !Integral(cv.num)) {
		return Value{}, false
	}
	return cv, true
}

// Ctor is a constructor taking named parameters.
type Ctor struct {
	params []Param
	call   func(Args) any
}

func (c *Ctor) Params() []Param { return c.params }

// Call runs the constructor. args must hold one coerced value per parameter;
// a zero Value yields the parameter type's zero value.
func (c *Ctor) Call(args []Value) any { return c.call(Args{vals: args}) }

// Args gives a constructor typed access to its coerced arguments.
type Args struct {
	vals []Value
}

func (a Args) Len() int            { return len(a.vals) }
func (a Args) Value(i int) Value   { return a.vals[i] }
func (a Args) Float(i int) float64 { return a.vals[i].num }
func (a Args) Int(i int) int       { return int(a.vals[i].num) }
func (a Args) Text(i int) string   { return a.vals[i].text }
func (a Args) Flag(i int) bool     { return a.vals[i].flag }
func (a Args) Ordinal(i int) int   { return a.vals[i].ord }
func (a Args) Any(i int) any       { return a.vals[i].opaque }
func (a Args) Has(i int) bool      { return !a.vals[i].IsZero() }

// Builder declares a component type. Field declarators are free functions
// (NumberOf, Text, Flag, EnumOf, OpaqueOf) because they need their own type
// parameters.
type Builder[T any] struct {
	t *Type
}

// Define starts a type declaration for Go type T under the given name.
func Define[T any](name string, kind Kind) *Builder[T] {
	t := &Type{
		name:    name,
		kind:    kind,
		newZero: func() any { return new(T) },
	}
	if kind == ByValue {
		t.key = reflect.TypeOf((*T)(nil)).Elem()
		t.finish = func(p any) any { return *p.(*T) }
		t.attach = func(w *ecs.World, id ecs.EntityID, v any) { ecs.Attach(w, id, v.(T)) }
	} else {
		t.key = reflect.TypeOf((**T)(nil)).Elem()
		t.finish = func(p any) any { return p }
		t.attach = func(w *ecs.World, id ecs.EntityID, v any) { ecs.Attach(w, id, v.(*T)) }
	}
	return &Builder[T]{t: t}
}

// New sets the parameterless constructor.
func (b *Builder[T]) New(fn func() *T) *Builder[T] {
	b.t.newDefault = func() any {
		if v := fn(); v != nil {
			return v
		}
		return new(T)
	}
	return b
}

// Constructor declares a named-parameter constructor. Value types never use
// constructors; they are always built from New or the zero value.
func Constructor[T any](b *Builder[T], params []Param, fn func(Args) *T) *Builder[T] {
	b.t.ctors = append(b.t.ctors, &Ctor{
		params: params,
		call: func(a Args) any {
			if v := fn(a); v != nil {
				return v
			}
			return nil
		},
	})
	return b
}

// Build returns the finished type.
func (b *Builder[T]) Build() *Type {
	return b.t
}
