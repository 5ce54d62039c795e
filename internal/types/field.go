package types

// Numeric is every Go number type a NumberOf field may target.
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Ordinal is the underlying type of an enum field.
type Ordinal interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32
}

// Field is a settable member of a component type. Closures operate on the
// work pointer (*T) produced by the type's constructors.
type Field struct {
	name      string
	kind      ValueKind
	enumNames map[string]int
	set       func(p any, v Value) bool
	reset     func(p any)
}

func (f *Field) Name() string    { return f.name }
func (f *Field) Kind() ValueKind { return f.kind }

// Assign coerces v to the field's kind and stores it on p. When the value
// cannot be converted the field is reset to its zero value and Assign
// returns false.
func (f *Field) Assign(p any, v Value) bool {
	if f.kind == KindEnum && v.kind == KindString {
		if ord, ok := f.enumNames[v.text]; ok {
			v = Enum(ord)
		}
	}
	cv, ok := Coerce(v, f.kind)
	if ok && f.set(p, cv) {
		return true
	}
	f.reset(p)
	return false
}

func (b *Builder[T]) addField(f *Field) *Builder[T] {
	b.t.fields = append(b.t.fields, f)
	return b
}

// NumberOf declares a numeric field. Integer targets accept only numbers that
// fit without losing their integral part.
func NumberOf[T any, N Numeric](b *Builder[T], name string, ptr func(*T) *N) *Builder[T] {
	return b.addField(&Field{
		name: name,
		kind: KindNumber,
		set: func(p any, v Value) bool {
			n, ok := toNumeric[N](v.num)
			if ok {
				*ptr(p.(*T)) = n
			}
			return ok
		},
		reset: func(p any) { var zero N; *ptr(p.(*T)) = zero },
	})
}

// Text declares a string field.
func Text[T any, S ~string](b *Builder[T], name string, ptr func(*T) *S) *Builder[T] {
	return b.addField(&Field{
		name:  name,
		kind:  KindString,
		set:   func(p any, v Value) bool { *ptr(p.(*T)) = S(v.text); return true },
		reset: func(p any) { *ptr(p.(*T)) = "" },
	})
}

// Flag declares a boolean field.
func Flag[T any, B ~bool](b *Builder[T], name string, ptr func(*T) *B) *Builder[T] {
	return b.addField(&Field{
		name:  name,
		kind:  KindBool,
		set:   func(p any, v Value) bool { *ptr(p.(*T)) = B(v.flag); return true },
		reset: func(p any) { *ptr(p.(*T)) = false },
	})
}

// EnumOf declares an enum field. members lists the symbolic names in ordinal
// order so text templates can spell values by name.
func EnumOf[T any, E Ordinal](b *Builder[T], name string, ptr func(*T) *E, members ...string) *Builder[T] {
	names := make(map[string]int, len(members))
	for i, m := range members {
		names[m] = i
	}
	return b.addField(&Field{
		name:      name,
		kind:      KindEnum,
		enumNames: names,
		set: func(p any, v Value) bool {
			e := E(v.ord)
			if int(e) != v.ord {
				return false
			}
			*ptr(p.(*T)) = e
			return true
		},
		reset: func(p any) { var zero E; *ptr(p.(*T)) = zero },
	})
}

// OpaqueOf declares a field holding an arbitrary Go value of type V.
func OpaqueOf[T any, V any](b *Builder[T], name string, ptr func(*T) *V) *Builder[T] {
	return b.addField(&Field{
		name: name,
		kind: KindOpaque,
		set: func(p any, v Value) bool {
			x, ok := v.opaque.(V)
			if ok {
				*ptr(p.(*T)) = x
			}
			return ok
		},
		reset: func(p any) { var zero V; *ptr(p.(*T)) = zero },
	})
}

func toNumeric[N Numeric](f float64) (N, bool) {
	var one N = 1
	if one/2 != 0 {
		return N(f), true
	}
	if !Integral(f) {
		return 0, false
	}
	n := N(f)
	if float64(n) != f {
		return 0, false
	}
	return n, true
}
