package types_test

import (
	"math"
	"testing"

	"github.com/l1jgo/entityforge/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name   string
		in     types.Value
		to     types.ValueKind
		want   types.Value
		wantOK bool
	}{
		{"number to number", types.Number(1.5), types.KindNumber, types.Number(1.5), true},
		{"integral number to string", types.Number(123), types.KindString, types.String("123"), true},
		{"fractional number to string", types.Number(123.25), types.KindString, types.String("123.25"), true},
		{"true to string", types.Bool(true), types.KindString, types.String("True"), true},
		{"false to string", types.Bool(false), types.KindString, types.String("False"), true},
		{"string to bool", types.String("True"), types.KindBool, types.Bool(true), true},
		{"lowercase string to bool", types.String("false"), types.KindBool, types.Bool(false), true},
		{"unparsable string to bool", types.String("yes please"), types.KindBool, types.Value{}, false},
		{"integral number to enum", types.Number(3), types.KindEnum, types.Enum(3), true},
		{"fractional number to enum", types.Number(3.5), types.KindEnum, types.Value{}, false},
		{"infinity to enum", types.Number(math.Inf(1)), types.KindEnum, types.Value{}, false},
		{"huge number to enum", types.Number(1e300), types.KindEnum, types.Value{}, false},
		{"huge negative number to enum", types.Number(-1e300), types.KindEnum, types.Value{}, false},
		{"nan to enum", types.Number(math.NaN()), types.KindEnum, types.Value{}, false},
		{"enum to enum", types.Enum(2), types.KindEnum, types.Enum(2), true},
		{"bool to number", types.Bool(true), types.KindNumber, types.Value{}, false},
		{"string to number", types.String("12"), types.KindNumber, types.Value{}, false},
		{"number to bool", types.Number(1), types.KindBool, types.Value{}, false},
		{"enum to string", types.Enum(1), types.KindString, types.Value{}, false},
		{"none to none", types.Value{}, types.KindNone, types.Value{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := types.Coerce(tt.in, tt.to)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIntegral(t *testing.T) {
	assert.True(t, types.Integral(0))
	assert.True(t, types.Integral(-42))
	assert.True(t, types.Integral(float64(math.MinInt)))
	assert.False(t, types.Integral(-float64(math.MinInt)), "one past the largest int")
	assert.False(t, types.Integral(2.5))
	assert.False(t, types.Integral(math.NaN()))
	assert.False(t, types.Integral(math.Inf(-1)))
}

func TestCoerceOpaqueKeepsPayload(t *testing.T) {
	payload := map[string]any{"gold": 10}
	got, ok := types.Coerce(types.Opaque(payload), types.KindOpaque)
	assert.True(t, ok)
	v, isOpaque := got.Any()
	assert.True(t, isOpaque)
	assert.Equal(t, payload, v)
}

func TestOf(t *testing.T) {
	assert.Equal(t, types.Number(7), types.Of(int16(7)))
	assert.Equal(t, types.Number(0.25), types.Of(float32(0.25)))
	assert.Equal(t, types.Bool(true), types.Of(true))
	assert.Equal(t, types.String("x"), types.Of("x"))
	assert.Equal(t, types.Enum(4), types.Of(types.Enum(4)))
	assert.True(t, types.Of(nil).IsZero())
	assert.Equal(t, types.KindOpaque, types.Of([]int{1}).Kind())
}
