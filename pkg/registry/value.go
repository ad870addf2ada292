package registry

import (
	"strconv"

	"github.com/arthur-debert/savesvc/pkg/errors"
)

// Kind discriminates the native representation of a Value.
type Kind int

const (
	// KindInvalid is the zero Value; it cannot be serialized.
	KindInvalid Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
)

// String returns the kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "invalid"
	}
}

// Value is a typed registry value. The zero Value is invalid.
type Value struct {
	kind Kind
	str  string
	num  int64
	flt  float64
	b    bool
}

// String makes a string-typed Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Int makes an integer-typed Value.
func Int(n int64) Value { return Value{kind: KindInt, num: n} }

// Float makes a float-typed Value.
func Float(f float64) Value { return Value{kind: KindFloat, flt: f} }

// Bool makes a boolean-typed Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind returns the value's native representation kind.
func (v Value) Kind() Kind { return v.kind }

// StringValue converts the value to its canonical text form.
// String-typed values are returned verbatim; other kinds use the
// registry's value-to-string rule. An invalid value is an error.
func (v Value) StringValue() (string, error) {
	switch v.kind {
	case KindString:
		return v.str, nil
	case KindInt:
		return strconv.FormatInt(v.num, 10), nil
	case KindFloat:
		return strconv.FormatFloat(v.flt, 'g', -1, 64), nil
	case KindBool:
		return strconv.FormatBool(v.b), nil
	default:
		return "", errors.Newf(errors.ErrValueConvert, "cannot convert %s value to string", v.kind)
	}
}
