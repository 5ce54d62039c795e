package types

import (
	"math"

	"github.com/spf13/cast"
)

// Coerce converts v to the given kind. The table is closed:
//
//	number → number, string (canonical text, 123 → "123")
//	bool   → bool, string ("True" / "False")
//	string → string, bool (standard boolean literals)
//	enum   → enum
//	number → enum (integral numbers only)
//	opaque → opaque
//
// Every other pairing reports false and the caller keeps the zero value.
func Coerce(v Value, to ValueKind) (Value, bool) {
	if v.kind == to && to != KindNone {
		return v, true
	}
	switch to {
	case KindString:
		switch v.kind {
		case KindNumber:
			return String(cast.ToString(v.num)), true
		case KindBool:
			if v.flag {
				return String("True"), true
			}
			return String("False"), true
		}
	case KindBool:
		if v.kind == KindString {
			b, err := cast.ToBoolE(v.text)
			if err != nil {
				return Value{}, false
			}
			return Bool(b), true
		}
	case KindEnum:
		if v.kind == KindNumber && Integral(v.num) {
			return Enum(int(v.num)), true
		}
	}
	return Value{}, false
}

// Integral reports whether f is a whole number inside the range of int.
func Integral(f float64) bool {
	const limit = -float64(math.MinInt)
	return f == math.Trunc(f) && f >= -limit && f < limit
}
