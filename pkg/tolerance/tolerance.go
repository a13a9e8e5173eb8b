// Package tolerance models the acceptable deviation between an expected and
// an actual numeric value.
//
// A Tolerance is immutable. The zero value is the unset tolerance, which
// callers may replace with a configured default; Exact always demands
// exact equality.
package tolerance

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AndreyAkinshin/assay/pkg/errors"
)

// Mode selects how a tolerance amount is applied.
type Mode int

const (
	ModeUnset Mode = iota
	ModeExact
	ModeLinear
	ModePercent
	ModeUlps
)

func (m Mode) String() string {
	switch m {
	case ModeUnset:
		return "Unset"
	case ModeExact:
		return "Exact"
	case ModeLinear:
		return "Linear"
	case ModePercent:
		return "Percent"
	case ModeUlps:
		return "Ulps"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Tolerance is an acceptable deviation between two values.
type Tolerance struct {
	mode   Mode
	value  any // amount as supplied by the caller
	amount decimal.Decimal
	ulps   uint64
}

// Empty is the unset tolerance.
var Empty = Tolerance{}

// Exact requires exact equality.
var Exact = Tolerance{mode: ModeExact, value: 0, amount: decimal.Zero}

var (
	decimalType  = reflect.TypeOf(decimal.Decimal{})
	durationType = reflect.TypeOf(time.Duration(0))
)

// NewLinear returns a tolerance allowing |actual-expected| <= amount.
// The amount may be any Go numeric type, a decimal.Decimal or a time.Duration.
func NewLinear(amount any) (Tolerance, error) {
	d, err := parseAmount(amount)
	if err != nil {
		return Tolerance{}, err
	}
	return Tolerance{mode: ModeLinear, value: amount, amount: d}, nil
}

// NewPercent returns a tolerance allowing a deviation of pct percent of the
// expected value.
func NewPercent(pct any) (Tolerance, error) {
	d, err := parseAmount(pct)
	if err != nil {
		return Tolerance{}, err
	}
	if _, ok := pct.(time.Duration); ok {
		return Tolerance{}, errors.InvalidArgument("amount", "a percent tolerance requires a numeric amount, got %s", pct)
	}
	return Tolerance{mode: ModePercent, value: pct, amount: d}, nil
}

// NewUlps returns a tolerance allowing a distance of count units in the
// last place between two floating point values.
func NewUlps(count int64) (Tolerance, error) {
	if count < 0 {
		return Tolerance{}, errors.InvalidArgument("amount", "tolerance amount must be non-negative, got %d", count)
	}
	return Tolerance{mode: ModeUlps, value: count, amount: decimal.NewFromInt(count), ulps: uint64(count)}, nil
}

// MustLinear is like NewLinear but panics on an invalid amount.
func MustLinear(amount any) Tolerance {
	t, err := NewLinear(amount)
	if err != nil {
		panic(err)
	}
	return t
}

// MustPercent is like NewPercent but panics on an invalid amount.
func MustPercent(pct any) Tolerance {
	t, err := NewPercent(pct)
	if err != nil {
		panic(err)
	}
	return t
}

// MustUlps is like NewUlps but panics on a negative count.
func MustUlps(count int64) Tolerance {
	t, err := NewUlps(count)
	if err != nil {
		panic(err)
	}
	return t
}

// Percent reinterprets a linear amount as a percentage.
func (t Tolerance) Percent() (Tolerance, error) {
	if t.mode != ModeLinear {
		return Tolerance{}, errors.InvalidOperation("tolerance amount must be specified before setting mode")
	}
	return NewPercent(t.value)
}

// Ulps reinterprets a linear amount as a count of units in the last place.
// The amount must be a non-negative integer.
func (t Tolerance) Ulps() (Tolerance, error) {
	if t.mode != ModeLinear {
		return Tolerance{}, errors.InvalidOperation("tolerance amount must be specified before setting mode")
	}
	if !t.amount.IsInteger() {
		return Tolerance{}, errors.InvalidArgument("amount", "ulps tolerance requires a whole number, got %s", t.amount)
	}
	if _, ok := t.value.(time.Duration); ok {
		return Tolerance{}, errors.InvalidArgument("amount", "ulps tolerance requires a numeric amount, got %s", t.value)
	}
	return NewUlps(t.amount.IntPart())
}

// Mode returns the tolerance mode.
func (t Tolerance) Mode() Mode { return t.mode }

// IsUnset reports whether no tolerance was specified.
func (t Tolerance) IsUnset() bool { return t.mode == ModeUnset }

// IsExact reports whether the tolerance demands exact equality.
func (t Tolerance) IsExact() bool {
	return t.mode == ModeUnset || t.mode == ModeExact
}

// Value returns the amount as supplied by the caller.
func (t Tolerance) Value() any { return t.value }

// Amount returns the amount in the decimal domain.
func (t Tolerance) Amount() decimal.Decimal { return t.amount }

// Float returns the amount as a float64.
func (t Tolerance) Float() float64 { return t.amount.InexactFloat64() }

// Duration returns the amount when it was given as a time.Duration.
func (t Tolerance) Duration() (time.Duration, bool) {
	d, ok := t.value.(time.Duration)
	return d, ok
}

// WithinFloat64 reports whether actual lies within the tolerance of expected.
// NaN and infinite values only match themselves, whatever the mode.
func (t Tolerance) WithinFloat64(expected, actual float64) bool {
	if special, eq := specialEqual(expected, actual); special {
		return eq
	}
	switch t.mode {
	case ModeLinear:
		return math.Abs(expected-actual) <= t.Float()
	case ModePercent:
		return math.Abs(expected-actual) <= math.Abs(expected)*t.Float()/100
	case ModeUlps:
		return ULPDistance64(expected, actual) <= t.ulps
	default:
		return expected == actual
	}
}

// WithinFloat32 is WithinFloat64 for single precision values. ULP distance is
// measured in float32 space.
func (t Tolerance) WithinFloat32(expected, actual float32) bool {
	if t.mode == ModeUlps {
		e, a := float64(expected), float64(actual)
		if special, eq := specialEqual(e, a); special {
			return eq
		}
		return ULPDistance32(expected, actual) <= t.ulps
	}
	return t.WithinFloat64(float64(expected), float64(actual))
}

// WithinDecimal reports whether actual lies within the tolerance of expected
// in exact decimal arithmetic. A ULP tolerance has no meaning for decimals.
func (t Tolerance) WithinDecimal(expected, actual decimal.Decimal) (bool, error) {
	diff := expected.Sub(actual).Abs()
	switch t.mode {
	case ModeLinear:
		return diff.LessThanOrEqual(t.amount), nil
	case ModePercent:
		limit := expected.Abs().Mul(t.amount).Div(decimal.NewFromInt(100))
		return diff.LessThanOrEqual(limit), nil
	case ModeUlps:
		return false, errors.InvalidArgument("tolerance", "ulps may only be specified for floating point arguments")
	default:
		return diff.IsZero(), nil
	}
}

// WithinTime reports whether two instants are at most a duration apart.
func (t Tolerance) WithinTime(expected, actual time.Time) (bool, error) {
	if t.IsExact() {
		return expected.Equal(actual), nil
	}
	d, ok := t.Duration()
	if !ok || t.mode != ModeLinear {
		return false, errors.InvalidArgument("tolerance", "times may only be compared within a time.Duration, got %v", t.value)
	}
	diff := expected.Sub(actual)
	if diff < 0 {
		diff = -diff
	}
	return diff <= d, nil
}

// ULPDistance64 returns the number of representable float64 values between
// a and b. The sign-folded ordering makes -0 and +0 adjacent at distance 0
// and keeps the distance correct when a and b straddle zero.
func ULPDistance64(a, b float64) uint64 {
	ai := int64(math.Float64bits(a))
	bi := int64(math.Float64bits(b))
	if ai < 0 {
		ai = math.MinInt64 - ai
	}
	if bi < 0 {
		bi = math.MinInt64 - bi
	}
	if ai >= bi {
		return uint64(ai) - uint64(bi)
	}
	return uint64(bi) - uint64(ai)
}

// ULPDistance32 is ULPDistance64 for float32 values.
func ULPDistance32(a, b float32) uint64 {
	ai := int64(int32(math.Float32bits(a)))
	bi := int64(int32(math.Float32bits(b)))
	if ai < 0 {
		ai = math.MinInt32 - ai
	}
	if bi < 0 {
		bi = math.MinInt32 - bi
	}
	if ai >= bi {
		return uint64(ai - bi)
	}
	return uint64(bi - ai)
}

func specialEqual(expected, actual float64) (special, equal bool) {
	if math.IsNaN(expected) || math.IsNaN(actual) {
		return true, math.IsNaN(expected) && math.IsNaN(actual)
	}
	if math.IsInf(expected, 0) || math.IsInf(actual, 0) {
		return true, expected == actual
	}
	return false, false
}

func parseAmount(amount any) (decimal.Decimal, error) {
	if amount == nil {
		return decimal.Zero, errors.InvalidArgument("amount", "tolerance amount must not be null")
	}
	rv := reflect.ValueOf(amount)
	var d decimal.Decimal
	switch {
	case rv.Type() == decimalType:
		d = amount.(decimal.Decimal)
	case rv.Type() == durationType:
		d = decimal.NewFromInt(int64(amount.(time.Duration)))
	default:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			d = decimal.NewFromInt(rv.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			d = decimal.NewFromBigInt(new(big.Int).SetUint64(rv.Uint()), 0)
		case reflect.Float32, reflect.Float64:
			f := rv.Float()
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return decimal.Zero, errors.InvalidArgument("amount", "tolerance amount must be finite, got %v", f)
			}
			if rv.Kind() == reflect.Float32 {
				d = decimal.NewFromFloat32(float32(f))
			} else {
				d = decimal.NewFromFloat(f)
			}
		default:
			return decimal.Zero, errors.InvalidArgument("amount", "tolerance amount must be numeric, got %T", amount)
		}
	}
	if d.IsNegative() {
		return decimal.Zero, errors.InvalidArgument("amount", "tolerance amount must be non-negative, got %s", d)
	}
	return d, nil
}
