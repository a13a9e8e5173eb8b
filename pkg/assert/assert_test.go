package assert

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	tassert "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreyAkinshin/assay/pkg/constraint"
	"github.com/AndreyAkinshin/assay/pkg/errors"
	"github.com/AndreyAkinshin/assay/pkg/has"
	"github.com/AndreyAkinshin/assay/pkg/is"
	"github.com/AndreyAkinshin/assay/pkg/throws"
	"github.com/AndreyAkinshin/assay/pkg/tolerance"
)

// recorder is a TestingT that records instead of failing.
type recorder struct {
	errors  []string
	stopped bool
}

func (r *recorder) Helper() {}

func (r *recorder) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *recorder) FailNow() { r.stopped = true }

func TestThatPasses(t *testing.T) {
	t.Parallel()
	r := &recorder{}
	That(r, 45, is.GreaterThan(40).And().LessThan(50))
	That(r, []int{1, 2, 3}, has.Exactly(3).Items())
	tassert.Empty(t, r.errors)
	tassert.False(t, r.stopped)
}

func TestThatFailsAndStops(t *testing.T) {
	t.Parallel()
	r := &recorder{}
	That(r, nil, is.Not().Null())
	require.Len(t, r.errors, 1)
	tassert.Equal(t, "assertion failed:\n  Expected: not null\n  But was:  null", r.errors[0])
	tassert.True(t, r.stopped)
}

func TestCheckContinues(t *testing.T) {
	t.Parallel()
	r := &recorder{}
	tassert.False(t, Check(r, 1, is.EqualTo(2)))
	tassert.True(t, Check(r, 2, is.EqualTo(2)))
	tassert.Len(t, r.errors, 1)
	tassert.False(t, r.stopped)
}

func TestEvaluateDistinguishesDefects(t *testing.T) {
	t.Parallel()
	err := Evaluate(1, is.EqualTo(2))
	tassert.True(t, errors.IsAssertion(err))

	err = Evaluate([]any{1, "a"}, is.Ordered())
	tassert.True(t, errors.IsInvalidComparison(err))
	tassert.NotContains(t, err.Error(), "Expected:")

	err = Evaluate(1, constraint.NewExpression().Not())
	tassert.True(t, errors.IsUsage(err))

	err = Evaluate(1, nil)
	tassert.True(t, errors.Is(err, errors.KindArgumentNull))
}

func TestDefectIsSingleLine(t *testing.T) {
	t.Parallel()
	r := &recorder{}
	That(r, "x", is.GreaterThan(1))
	require.Len(t, r.errors, 1)
	tassert.True(t, strings.HasPrefix(r.errors[0], "invalid assertion: "))
	tassert.NotContains(t, r.errors[0], "\n")
}

func TestAsserterDefaultTolerance(t *testing.T) {
	t.Parallel()
	tassert.Error(t, Evaluate(0.1+0.2, is.EqualTo(0.3)))

	a := New(WithDefaultTolerance(tolerance.MustLinear(1e-9)))
	tassert.NoError(t, a.Evaluate(0.1+0.2, is.EqualTo(0.3)))
	tassert.NoError(t, a.Evaluate([]float64{0.1 + 0.2}, has.All().EqualTo(0.3)))
}

func TestAsserterMaxLineLength(t *testing.T) {
	t.Parallel()
	tassert.Panics(t, func() { New(WithMaxLineLength(5)) })

	long := strings.Repeat("a", 100)
	err := New(WithMaxLineLength(40)).Evaluate(long+"b", is.EqualTo(long+"c"))
	require.Error(t, err)
	for _, line := range strings.Split(err.Error(), "\n") {
		if strings.HasPrefix(line, "  Expected:") || strings.HasPrefix(line, "  But was:") {
			tassert.LessOrEqual(t, len(line), 40, line)
		}
	}
}

func TestThrowsReturnsError(t *testing.T) {
	t.Parallel()
	r := &recorder{}
	err := Throws(r, func() error {
		_, err := os.Open("/definitely/not/here")
		return err
	}, constraint.ErrorIs(fs.ErrNotExist))
	tassert.Empty(t, r.errors)
	require.Error(t, err)

	var pathErr *fs.PathError
	tassert.True(t, stderrors.As(err, &pathErr))
}

func TestThrowsAs(t *testing.T) {
	t.Parallel()
	r := &recorder{}
	pathErr := ThrowsAs[*fs.PathError](r, func() error {
		_, err := os.Open("/definitely/not/here")
		return fmt.Errorf("loading: %w", err)
	})
	require.NotNil(t, pathErr)
	tassert.Equal(t, "open", pathErr.Op)

	pathErr = ThrowsAs[*fs.PathError](r, func() {})
	tassert.Nil(t, pathErr)
	tassert.True(t, r.stopped)
}

func TestDoesNotThrow(t *testing.T) {
	t.Parallel()
	r := &recorder{}
	DoesNotThrow(r, func() {})
	tassert.Empty(t, r.errors)

	DoesNotThrow(r, func() { panic("bad") })
	require.Len(t, r.errors, 1)
	tassert.Contains(t, r.errors[0], "<*constraint.PanicError: panic: bad>")
}

func TestFormatMessage(t *testing.T) {
	t.Parallel()
	tassert.Equal(t, "", formatMessage())
	tassert.Equal(t, "plain", formatMessage("plain"))
	tassert.Equal(t, "n=3", formatMessage("n=%d", 3))
	tassert.Equal(t, "42", formatMessage(42))
	tassert.Equal(t, "{A:1}", formatMessage(struct{ A int }{1}, "ignored"))
}

func TestFailureMessagesGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	tests := []struct {
		name       string
		actual     any
		constraint constraint.Constraint
		msg        []any
	}{
		{"user_message", 4, is.EqualTo(5), []any{"checking %s", "totals"}},
		{"all_items", []int{3, -1}, is.All().GreaterThan(0), nil},
		{"throws_wrong_error", func() error { return stderrors.New("boom") }, throws.TypeOf[*fs.PathError](), nil},
		{"throws_no_error", func() {}, throws.TypeOf[*fs.PathError](), nil},
		{"equivalent", []string{"c", "a", "d"}, is.EquivalentTo([]string{"a", "b", "c"}), nil},
		{"multiline", "alpha\nbeta\ndelta", is.EqualTo("alpha\nbeta\ngamma"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Evaluate(tt.actual, tt.constraint, tt.msg...)
			require.True(t, errors.IsAssertion(err), "got %v", err)
			g.Assert(t, tt.name, []byte(err.Error()+"\n"))
		})
	}
}
