package types

import (
	"fmt"

	"github.com/spf13/cast"
)

// ValueKind tags a loosely-typed default value and also names the kind a
// field or constructor parameter expects.
type ValueKind uint8

const (
	KindNone ValueKind = iota
	KindNumber
	KindBool
	KindString
	KindEnum
	KindOpaque
)

func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	case KindOpaque:
		return "opaque"
	default:
		return "none"
	}
}

// Value is a template default: number, boolean, string, enum ordinal or an
// opaque Go value. The zero Value has KindNone and converts to nothing.
type Value struct {
	kind   ValueKind
	num    float64
	flag   bool
	text   string
	ord    int
	opaque any
}

func Number(f float64) Value { return Value{kind: KindNumber, num: f} }
func Bool(b bool) Value      { return Value{kind: KindBool, flag: b} }
func String(s string) Value  { return Value{kind: KindString, text: s} }
func Enum(ordinal int) Value { return Value{kind: KindEnum, ord: ordinal} }
func Opaque(v any) Value     { return Value{kind: KindOpaque, opaque: v} }

// Of lifts a plain Go value. Integers and floats become numbers; anything
// that is not a bool, string or Value becomes opaque.
func Of(v any) Value {
	switch x := v.(type) {
	case nil:
		return Value{}
	case Value:
		return x
	case bool:
		return Bool(x)
	case string:
		return String(x)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return Number(cast.ToFloat64(x))
	default:
		return Opaque(x)
	}
}

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsZero() bool    { return v.kind == KindNone }

func (v Value) Float() (float64, bool) { return v.num, v.kind == KindNumber }
func (v Value) Flag() (bool, bool)     { return v.flag, v.kind == KindBool }
func (v Value) Text() (string, bool)   { return v.text, v.kind == KindString }
func (v Value) Ordinal() (int, bool)   { return v.ord, v.kind == KindEnum }
func (v Value) Any() (any, bool)       { return v.opaque, v.kind == KindOpaque }

// Interface returns the payload as a plain Go value.
func (v Value) Interface() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindBool:
		return v.flag
	case KindString:
		return v.text
	case KindEnum:
		return v.ord
	case KindOpaque:
		return v.opaque
	}
	return nil
}

func (v Value) String() string {
	switch v.kind {
	case KindNone:
		return "<none>"
	case KindEnum:
		return fmt.Sprintf("enum(%d)", v.ord)
	case KindString:
		return fmt.Sprintf("%q", v.text)
	}
	return fmt.Sprintf("%v", v.Interface())
}
