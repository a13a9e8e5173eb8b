// Package numerics compares numbers by mathematical value regardless of
// their Go storage type.
//
// Signed and unsigned integers of every width, float32, float64,
// decimal.Decimal, named types over those, and non-nil pointers to any of
// them all take part. A single coercion path replaces per-type overloads:
// operands are lifted into the widest domain the pair needs.
package numerics

import (
	"math"
	"math/big"
	"reflect"

	"github.com/shopspring/decimal"

	"github.com/AndreyAkinshin/assay/pkg/errors"
	"github.com/AndreyAkinshin/assay/pkg/tolerance"
)

// Kind classifies a numeric value.
type Kind int

const (
	KindNone Kind = iota
	KindSigned
	KindUnsigned
	KindFloat32
	KindFloat64
	KindDecimal
)

var decimalType = reflect.TypeOf(decimal.Decimal{})

// Number is a numeric value lifted out of its Go type.
type Number struct {
	Kind Kind
	i    int64
	u    uint64
	f    float64
	d    decimal.Decimal
}

// Parse classifies v. Non-nil pointers are followed.
func Parse(v any) (Number, bool) {
	if v == nil {
		return Number{}, false
	}
	if d, ok := v.(decimal.Decimal); ok {
		return Number{Kind: KindDecimal, d: d}, true
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Number{}, false
		}
		rv = rv.Elem()
	}
	if rv.Type() == decimalType {
		return Number{Kind: KindDecimal, d: rv.Interface().(decimal.Decimal)}, true
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number{Kind: KindSigned, i: rv.Int()}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Number{Kind: KindUnsigned, u: rv.Uint()}, true
	case reflect.Float32:
		return Number{Kind: KindFloat32, f: rv.Float()}, true
	case reflect.Float64:
		return Number{Kind: KindFloat64, f: rv.Float()}, true
	}
	return Number{}, false
}

// IsNumeric reports whether v is a number or a non-nil pointer to one.
func IsNumeric(v any) bool {
	_, ok := Parse(v)
	return ok
}

// IsFloat reports whether v is a binary floating point number.
func IsFloat(v any) bool {
	n, ok := Parse(v)
	return ok && n.IsFloat()
}

// IsNaN reports whether v is a floating point NaN.
func IsNaN(v any) bool {
	n, ok := Parse(v)
	return ok && n.IsFloat() && math.IsNaN(n.f)
}

// IsFloat reports whether n is a binary floating point number.
func (n Number) IsFloat() bool {
	return n.Kind == KindFloat32 || n.Kind == KindFloat64
}

// IsSpecial reports whether n is NaN or infinite.
func (n Number) IsSpecial() bool {
	return n.IsFloat() && (math.IsNaN(n.f) || math.IsInf(n.f, 0))
}

// Float64 returns n as a float64, rounding when necessary.
func (n Number) Float64() float64 {
	switch n.Kind {
	case KindSigned:
		return float64(n.i)
	case KindUnsigned:
		return float64(n.u)
	case KindDecimal:
		return n.d.InexactFloat64()
	default:
		return n.f
	}
}

// Decimal returns n in the decimal domain. Floats convert through their
// shortest round-tripping representation. NaN and infinities have no
// decimal form and yield false.
func (n Number) Decimal() (decimal.Decimal, bool) {
	switch n.Kind {
	case KindSigned:
		return decimal.NewFromInt(n.i), true
	case KindUnsigned:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(n.u), 0), true
	case KindDecimal:
		return n.d, true
	case KindFloat32:
		if n.IsSpecial() {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat32(float32(n.f)), true
	case KindFloat64:
		if n.IsSpecial() {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(n.f), true
	}
	return decimal.Zero, false
}

// Compare orders a and b by mathematical value. NaN equals NaN and sorts
// before every other number. Non-numeric operands are an Argument error.
func Compare(a, b any) (int, error) {
	x, ok := Parse(a)
	if !ok {
		return 0, errors.Argument("expected", "%T is not a number", a)
	}
	y, ok := Parse(b)
	if !ok {
		return 0, errors.Argument("actual", "%T is not a number", b)
	}
	return compareNumbers(x, y), nil
}

func compareNumbers(x, y Number) int {
	if x.IsSpecial() || y.IsSpecial() || x.IsFloat() && y.IsFloat() {
		return compareFloats(x.Float64(), y.Float64())
	}
	if x.Kind == KindSigned && y.Kind == KindSigned {
		return cmpInt(x.i, y.i)
	}
	if x.Kind == KindUnsigned && y.Kind == KindUnsigned {
		return cmpUint(x.u, y.u)
	}
	dx, _ := x.Decimal()
	dy, _ := y.Decimal()
	return dx.Cmp(dy)
}

func compareFloats(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return -1
	case bNaN:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Equal reports whether actual equals expected within tol.
//
// The comparison domain is picked from the operand pair: float32 when both
// are float32 and tol counts ULPs, float64 when either is a binary float,
// exact decimal otherwise. NaN and infinite values only equal themselves.
func Equal(expected, actual any, tol tolerance.Tolerance) (bool, error) {
	x, ok := Parse(expected)
	if !ok {
		return false, errors.Argument("expected", "%T is not a number", expected)
	}
	y, ok := Parse(actual)
	if !ok {
		return false, errors.Argument("actual", "%T is not a number", actual)
	}
	return equalNumbers(x, y, tol)
}

func equalNumbers(x, y Number, tol tolerance.Tolerance) (bool, error) {
	if tol.Mode() == tolerance.ModeUlps {
		if !x.IsFloat() || !y.IsFloat() {
			return false, errors.InvalidArgument("tolerance", "ulps may only be specified for floating point arguments")
		}
		if x.Kind == KindFloat32 && y.Kind == KindFloat32 {
			return tol.WithinFloat32(float32(x.f), float32(y.f)), nil
		}
		return tol.WithinFloat64(x.f, y.f), nil
	}
	if tol.IsExact() {
		return compareNumbers(x, y) == 0, nil
	}
	if x.IsSpecial() || y.IsSpecial() {
		return tol.WithinFloat64(x.Float64(), y.Float64()), nil
	}
	if x.IsFloat() && y.Kind != KindDecimal || y.IsFloat() && x.Kind != KindDecimal {
		return tol.WithinFloat64(x.Float64(), y.Float64()), nil
	}
	dx, _ := x.Decimal()
	dy, _ := y.Decimal()
	return tol.WithinDecimal(dx, dy)
}

// Sign returns -1, 0 or +1 according to the sign of v. NaN has sign 0.
func Sign(v any) (int, error) {
	n, ok := Parse(v)
	if !ok {
		return 0, errors.Argument("actual", "%T is not a number", v)
	}
	if n.IsFloat() && math.IsNaN(n.f) {
		return 0, nil
	}
	return compareNumbers(n, Number{Kind: KindSigned}), nil
}
