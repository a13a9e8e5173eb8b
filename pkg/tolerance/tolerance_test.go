package tolerance

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/AndreyAkinshin/assay/pkg/errors"
)

func TestNewRejectsNegativeAmounts(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		fn   func() (Tolerance, error)
	}{
		{"linear int", func() (Tolerance, error) { return NewLinear(-1) }},
		{"linear float", func() (Tolerance, error) { return NewLinear(-0.5) }},
		{"linear decimal", func() (Tolerance, error) { return NewLinear(decimal.RequireFromString("-0.01")) }},
		{"linear duration", func() (Tolerance, error) { return NewLinear(-time.Second) }},
		{"percent", func() (Tolerance, error) { return NewPercent(-5) }},
		{"ulps", func() (Tolerance, error) { return NewUlps(-1) }},
		{"nan", func() (Tolerance, error) { return NewLinear(math.NaN()) }},
		{"infinity", func() (Tolerance, error) { return NewLinear(math.Inf(1)) }},
		{"non numeric", func() (Tolerance, error) { return NewLinear("1") }},
		{"nil", func() (Tolerance, error) { return NewLinear(nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := tt.fn()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.KindInvalidArgument), "kind of %v", err)
		})
	}
}

func TestMustPanicsOnNegative(t *testing.T) {
	assert.Panics(t, func() { MustLinear(-1) })
	assert.Panics(t, func() { MustPercent(-1) })
	assert.Panics(t, func() { MustUlps(-1) })
	assert.NotPanics(t, func() { MustLinear(0) })
}

func TestModeReinterpretation(t *testing.T) {
	linear := MustLinear(5)

	pct, err := linear.Percent()
	require.NoError(t, err)
	assert.Equal(t, ModePercent, pct.Mode())
	assert.Equal(t, 5, pct.Value())

	ulps, err := linear.Ulps()
	require.NoError(t, err)
	assert.Equal(t, ModeUlps, ulps.Mode())

	_, err = MustLinear(1.5).Ulps()
	assert.True(t, errors.Is(err, errors.KindInvalidArgument))

	_, err = Empty.Percent()
	assert.True(t, errors.Is(err, errors.KindInvalidOperation))

	_, err = pct.Ulps()
	assert.True(t, errors.Is(err, errors.KindInvalidOperation))
}

func TestWithinFloat64(t *testing.T) {
	t.Parallel()
	nan := math.NaN()
	inf := math.Inf(1)
	tests := []struct {
		name     string
		tol      Tolerance
		expected float64
		actual   float64
		want     bool
	}{
		{"exact equal", Exact, 1.5, 1.5, true},
		{"exact differ", Exact, 1.5, 1.5000001, false},
		{"unset equal", Empty, 2, 2, true},
		{"linear inside", MustLinear(0.1), 1.0, 1.05, true},
		{"linear boundary", MustLinear(0.5), 1.0, 1.5, true},
		{"linear outside", MustLinear(0.1), 1.0, 1.2, false},
		{"percent inside", MustPercent(5), 100, 105, true},
		{"percent outside", MustPercent(5), 100, 105.001, false},
		{"percent negative expected", MustPercent(10), -50, -54, true},
		{"percent zero expected", MustPercent(10), 0, 0.0001, false},
		{"ulps adjacent", MustUlps(1), 1.0, math.Nextafter(1.0, 2), true},
		{"ulps two apart", MustUlps(1), 1.0, math.Nextafter(math.Nextafter(1.0, 2), 2), false},
		{"nan nan exact", Exact, nan, nan, true},
		{"nan nan linear", MustLinear(1), nan, nan, true},
		{"nan vs number", MustLinear(1e300), nan, 1, false},
		{"number vs nan", MustLinear(0.0), 1.234, nan, false},
		{"inf inf", MustPercent(1), inf, inf, true},
		{"inf vs max", MustLinear(math.MaxFloat64), inf, math.MaxFloat64, false},
		{"inf vs negative inf", MustUlps(math.MaxInt64), inf, -inf, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.tol.WithinFloat64(tt.expected, tt.actual))
		})
	}
}

func TestULPDistanceAcrossZero(t *testing.T) {
	t.Parallel()
	tiny := math.SmallestNonzeroFloat64

	tests := []struct {
		name string
		a, b float64
		want uint64
	}{
		{"zeros", 0.0, math.Copysign(0, -1), 0},
		{"same", 3.25, 3.25, 0},
		{"denormal straddle", tiny, -tiny, 2},
		{"zero to denormal", 0, tiny, 1},
		{"negative zero to negative denormal", math.Copysign(0, -1), -tiny, 1},
		{"one neighbour", 1.0, math.Nextafter(1.0, 0), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ULPDistance64(tt.a, tt.b))
			assert.Equal(t, tt.want, ULPDistance64(tt.b, tt.a))
		})
	}

	tiny32 := math.Float32frombits(1)
	assert.Equal(t, uint64(2), ULPDistance32(tiny32, -tiny32))
	assert.Equal(t, uint64(1), ULPDistance32(1, math.Nextafter32(1, 2)))
	assert.True(t, MustUlps(2).WithinFloat32(tiny32, -tiny32))
	assert.False(t, MustUlps(1).WithinFloat32(tiny32, -tiny32))
}

func TestULPDistanceExtremes(t *testing.T) {
	d := ULPDistance64(-math.MaxFloat64, math.MaxFloat64)
	assert.Equal(t, uint64(2*0x7FEFFFFFFFFFFFFF), d)
}

func TestWithinDecimal(t *testing.T) {
	d := decimal.RequireFromString

	ok, err := MustLinear(d("0.01")).WithinDecimal(d("1.00"), d("1.01"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = MustLinear(0.01).WithinDecimal(d("1.00"), d("1.011"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = MustPercent(1).WithinDecimal(d("200"), d("202"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exact.WithinDecimal(d("1.0"), d("1.00"))
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = MustUlps(1).WithinDecimal(d("1"), d("1"))
	assert.True(t, errors.Is(err, errors.KindInvalidArgument))
}

func TestWithinTime(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	ok, err := MustLinear(time.Second).WithinTime(base, base.Add(900*time.Millisecond))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = MustLinear(time.Second).WithinTime(base, base.Add(-2*time.Second))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Empty.WithinTime(base, base.In(time.FixedZone("X", 3600)))
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = MustLinear(5).WithinTime(base, base)
	assert.Error(t, err)
}

func TestToleranceProperties(t *testing.T) {
	t.Run("linear is reflexive", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			x := rapid.Float64().Draw(t, "x")
			amount := rapid.Float64Range(0, 1e6).Draw(t, "amount")
			if !MustLinear(amount).WithinFloat64(x, x) {
				t.Fatalf("%v not within %v of itself", x, amount)
			}
		})
	})

	t.Run("linear boundary is inclusive", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			x := rapid.IntRange(-1000, 1000).Draw(t, "x")
			d := rapid.IntRange(0, 1000).Draw(t, "d")
			tol := MustLinear(d)
			if !tol.WithinFloat64(float64(x), float64(x+d)) {
				t.Fatalf("%d +/- %d should include %d", x, d, x+d)
			}
			if tol.WithinFloat64(float64(x), float64(x+d+1)) {
				t.Fatalf("%d +/- %d should exclude %d", x, d, x+d+1)
			}
		})
	})

	t.Run("ulp distance is symmetric", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			a := rapid.Float64().Draw(t, "a")
			b := rapid.Float64().Draw(t, "b")
			if ULPDistance64(a, b) != ULPDistance64(b, a) {
				t.Fatalf("asymmetric distance for %v, %v", a, b)
			}
		})
	})

	t.Run("next float is one ulp away", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			a := rapid.Float64Range(-1e300, 1e300).Draw(t, "a")
			next := math.Nextafter(a, math.Inf(1))
			if got := ULPDistance64(a, next); got != 1 {
				t.Fatalf("ULPDistance64(%v, %v) = %d, want 1", a, next, got)
			}
		})
	})
}
