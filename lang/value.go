package lang

//go:generate go tool stringer --linecomment --type Type --output type_string.go

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
)

// Type identifies the dynamic type of a [Value].
type Type int

const (
	TypeNull   Type = iota // null
	TypeNumber             // number
	TypeString             // string
	TypeBool               // bool
)

// Value is a dynamically-typed runtime value.
//
// The zero Value is null, the result of a function that returns nothing.
type Value struct {
	str string
	num float64
	typ Type
	b   bool
}

// Null is the unset value.
var Null = Value{}

// Number returns a number value.
func Number(f float64) Value { return Value{typ: TypeNumber, num: f} }

// String returns a string value.
func String(s string) Value { return Value{typ: TypeString, str: s} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{typ: TypeBool, b: b} }

// Type returns the dynamic type of v.
func (v Value) Type() Type { return v.typ }

// IsNull reports whether v is unset.
func (v Value) IsNull() bool { return v.typ == TypeNull }

// Num returns the numeric payload and whether v is a number.
func (v Value) Num() (float64, bool) { return v.num, v.typ == TypeNumber }

// Str returns the string payload and whether v is a string.
func (v Value) Str() (string, bool) { return v.str, v.typ == TypeString }

// Boolean returns the boolean payload and whether v is a boolean.
func (v Value) Boolean() (bool, bool) { return v.b, v.typ == TypeBool }

// Truthy reports whether v counts as true in a condition: a non-zero number,
// a non-empty string, or true.
func (v Value) Truthy() bool {
	switch v.typ {
	case TypeNumber:
		return v.num != 0 && !math.IsNaN(v.num)
	case TypeString:
		return v.str != ""
	case TypeBool:
		return v.b
	default:
		return false
	}
}

// Equal compares type first, then payload. A number never equals a string.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ {
		return false
	}

	switch v.typ {
	case TypeNumber:
		return v.num == o.num
	case TypeString:
		return v.str == o.str
	case TypeBool:
		return v.b == o.b
	default:
		return true
	}
}

// String returns the display form of v.
func (v Value) String() string {
	switch v.typ {
	case TypeNumber:
		return formatNumber(v.num)
	case TypeString:
		return v.str
	case TypeBool:
		return strconv.FormatBool(v.b)
	default:
		return "null"
	}
}

// Quote returns v as it would appear in source: strings are quoted.
func (v Value) Quote() string {
	if v.typ == TypeString {
		return `"` + v.str + `"`
	}

	return v.String()
}

// Native returns v as a plain Go value: nil, float64, string, or bool.
func (v Value) Native() any {
	switch v.typ {
	case TypeNumber:
		return v.num
	case TypeString:
		return v.str
	case TypeBool:
		return v.b
	default:
		return nil
	}
}

// LogValue implements [slog.LogValuer].
func (v Value) LogValue() slog.Value {
	switch v.typ {
	case TypeNumber:
		return slog.Float64Value(v.num)
	case TypeString:
		return slog.StringValue(v.str)
	case TypeBool:
		return slog.BoolValue(v.b)
	default:
		return slog.StringValue("null")
	}
}

// MarshalText implements [encoding.TextMarshaler] using the quoted form.
func (v Value) MarshalText() ([]byte, error) { return []byte(v.Quote()), nil }

// FromNative converts a plain Go value into a [Value]. Integers and floats of
// any width become numbers. Other types are rendered with [fmt.Sprint].
func FromNative(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null
	case Value:
		return t
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int8:
		return Number(float64(t))
	case int16:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case uint:
		return Number(float64(t))
	case uint8:
		return Number(float64(t))
	case uint16:
		return Number(float64(t))
	case uint32:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case fmt.Stringer:
		return String(t.String())
	default:
		return String(fmt.Sprint(t))
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
