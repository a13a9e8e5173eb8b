package numerics

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/AndreyAkinshin/assay/pkg/errors"
	"github.com/AndreyAkinshin/assay/pkg/tolerance"
)

type celsius float64

func TestParse(t *testing.T) {
	t.Parallel()
	four := 4
	var nilPtr *int
	tests := []struct {
		name string
		v    any
		kind Kind
		ok   bool
	}{
		{"int", 4, KindSigned, true},
		{"int8", int8(-4), KindSigned, true},
		{"uint64", uint64(math.MaxUint64), KindUnsigned, true},
		{"byte", byte(7), KindUnsigned, true},
		{"float32", float32(1.5), KindFloat32, true},
		{"float64", 1.5, KindFloat64, true},
		{"decimal", decimal.NewFromInt(3), KindDecimal, true},
		{"named", celsius(21.5), KindFloat64, true},
		{"pointer", &four, KindSigned, true},
		{"nil pointer", nilPtr, KindNone, false},
		{"nil", nil, KindNone, false},
		{"string", "4", KindNone, false},
		{"bool", true, KindNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			n, ok := Parse(tt.v)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.kind, n.Kind)
		})
	}
}

func TestCompareAcrossTypes(t *testing.T) {
	t.Parallel()
	nan := math.NaN()
	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"int and float", 4, 4.0, 0},
		{"int and decimal", 4, decimal.RequireFromString("4.00"), 0},
		{"uint and int", uint(4), int64(4), 0},
		{"negative and unsigned", -1, uint64(math.MaxUint64), -1},
		{"large unsigned", uint64(math.MaxUint64), uint64(math.MaxUint64 - 1), 1},
		{"float32 and float64", float32(0.5), 0.5, 0},
		{"float and int less", 3.9, 4, -1},
		{"decimal and float greater", decimal.RequireFromString("0.3"), 0.1, 1},
		{"nan and nan", nan, nan, 0},
		{"nan sorts first", nan, math.Inf(-1), -1},
		{"number after nan", 0, nan, 1},
		{"infinity and int", math.Inf(1), math.MaxInt64, 1},
		{"negative infinity and decimal", math.Inf(-1), decimal.NewFromInt(-1), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Compare(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompareRejectsNonNumbers(t *testing.T) {
	_, err := Compare("a", 1)
	assert.True(t, errors.Is(err, errors.KindArgument))

	_, err = Compare(1, nil)
	assert.True(t, errors.Is(err, errors.KindArgument))
}

func TestEqual(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		expected any
		actual   any
		tol      tolerance.Tolerance
		want     bool
	}{
		{"exact across types", 5, 5.0, tolerance.Empty, true},
		{"exact decimal scale", decimal.RequireFromString("1.10"), 1.1, tolerance.Exact, true},
		{"linear float", 1.234, 1.2345, tolerance.MustLinear(0.001), true},
		{"linear int", 100, 103, tolerance.MustLinear(2), false},
		{"linear int mixed with float", 100, 101.5, tolerance.MustLinear(2), true},
		{"percent decimal", decimal.NewFromInt(200), decimal.RequireFromString("203"), tolerance.MustPercent(1), false},
		{"percent int", 200, 202, tolerance.MustPercent(1), true},
		{"ulps float32", float32(1), math.Nextafter32(1, 2), tolerance.MustUlps(1), true},
		{"ulps float64 mixed widths", float32(0.5), 0.5, tolerance.MustUlps(0), true},
		{"nan nan within", math.NaN(), math.NaN(), tolerance.MustLinear(0.5), true},
		{"inf inf within", math.Inf(1), math.Inf(1), tolerance.MustPercent(5), true},
		{"value vs nan", 1.234, math.NaN(), tolerance.MustLinear(0.0), false},
		{"pointer operand", ptr(3), 3, tolerance.Empty, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Equal(tt.expected, tt.actual, tt.tol)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEqualUlpsRequiresFloats(t *testing.T) {
	_, err := Equal(1, 1.0, tolerance.MustUlps(1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.KindInvalidArgument))

	_, err = Equal(decimal.NewFromInt(1), decimal.NewFromInt(1), tolerance.MustUlps(1))
	assert.True(t, errors.Is(err, errors.KindInvalidArgument))
}

func TestSign(t *testing.T) {
	tests := []struct {
		v    any
		want int
	}{
		{-3, -1},
		{uint(0), 0},
		{0.25, 1},
		{decimal.RequireFromString("-0.01"), -1},
		{math.NaN(), 0},
		{math.Inf(-1), -1},
	}
	for _, tt := range tests {
		got, err := Sign(tt.v)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "Sign(%v)", tt.v)
	}
}

func TestCompareProperties(t *testing.T) {
	t.Run("integer order matches float order", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			a := rapid.IntRange(-1<<40, 1<<40).Draw(t, "a")
			b := rapid.IntRange(-1<<40, 1<<40).Draw(t, "b")
			want, _ := Compare(a, b)
			got, err := Compare(float64(a), decimal.NewFromInt(int64(b)))
			if err != nil {
				t.Fatal(err)
			}
			if got != want {
				t.Fatalf("Compare(%d, %d) = %d across types, %d as ints", a, b, got, want)
			}
		})
	})

	t.Run("compare is antisymmetric", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			a := rapid.Float64().Draw(t, "a")
			b := rapid.Int64().Draw(t, "b")
			ab, _ := Compare(a, b)
			ba, _ := Compare(b, a)
			if ab != -ba {
				t.Fatalf("Compare(%v, %d) = %d but Compare(%d, %v) = %d", a, b, ab, b, a, ba)
			}
		})
	})
}

func ptr[T any](v T) *T { return &v }
