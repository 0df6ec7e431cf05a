// SPDX-License-Identifier: Apache-2.0

package table

import (
	"fmt"
	"math"
	"strconv"
)

// Kind is the declared type of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	default:
		return "null"
	}
}

// Value is a single scalar cell. The zero Value is null.
//
// Integers outside the float64 exact range keep their decimal text in str so
// that String and Interface render them without rounding.
type Value struct {
	kind Kind
	str  string
	num  float64
}

// maxExact is the largest magnitude float64 holds for every integer.
const maxExact = 1 << 53

// Null returns the absent value.
func Null() Value {
	return Value{}
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number returns a numeric value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Int returns a numeric value holding n exactly.
func Int(n int64) Value {
	if n >= -maxExact && n <= maxExact {
		return Number(float64(n))
	}
	return Value{kind: KindNumber, num: float64(n), str: strconv.FormatInt(n, 10)}
}

// Uint returns a numeric value holding n exactly.
func Uint(n uint64) Value {
	if n <= maxExact {
		return Number(float64(n))
	}
	return Value{kind: KindNumber, num: float64(n), str: strconv.FormatUint(n, 10)}
}

// FromAny converts a decoded scalar (YAML, JSON, SQL driver value) into a Value.
// Types without a natural scalar form are rendered with fmt.
func FromAny(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case string:
		return String(x)
	case []byte:
		return String(string(x))
	case bool:
		return String(strconv.FormatBool(x))
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(int64(x))
	case uint:
		return Uint(uint64(x))
	case uint8:
		return Uint(uint64(x))
	case uint16:
		return Uint(uint64(x))
	case uint32:
		return Uint(uint64(x))
	case uint64:
		return Uint(uint64(x))
	case float32:
		return Number(float64(x))
	case float64:
		if math.IsNaN(x) {
			return Null()
		}
		return Number(x)
	case fmt.Stringer:
		return String(x.String())
	default:
		return String(fmt.Sprint(x))
	}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Float returns the numeric payload and whether the value is a number.
// Large integers are rounded; see Exact.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Exact reports whether Float returns the number without rounding.
func (v Value) Exact() bool {
	return v.kind != KindNumber || v.str == ""
}

// String renders the value as text. Null renders as the empty string and
// integral numbers render without a fractional part.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		if v.str != "" {
			return v.str
		}
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Interface returns nil, a string, a float64, or an int64/uint64 for
// integers a float64 cannot hold exactly.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		if v.str != "" {
			if n, err := strconv.ParseInt(v.str, 10, 64); err == nil {
				return n
			}
			if n, err := strconv.ParseUint(v.str, 10, 64); err == nil {
				return n
			}
		}
		return v.num
	default:
		return nil
	}
}
