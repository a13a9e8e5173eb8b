// Package assert evaluates constraints against actual values and reports
// failures to a test.
//
//	assert.That(t, total, is.EqualTo(42.0).Within(0.01))
//	err := assert.Throws(t, fn, throws.TypeOf[*fs.PathError]())
//
// An assertion failure is an *errors.AssayError of kind Assertion carrying
// the rendered Expected/But was message. A malformed assertion, such as an
// incomplete expression or values that cannot be ordered, is reported as a
// single diagnostic line instead.
package assert

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/AndreyAkinshin/assay/pkg/constraint"
	"github.com/AndreyAkinshin/assay/pkg/errors"
	"github.com/AndreyAkinshin/assay/pkg/message"
	"github.com/AndreyAkinshin/assay/pkg/tolerance"
)

// TestingT is the subset of testing.TB used to report failures.
type TestingT interface {
	Helper()
	Errorf(format string, args ...any)
	FailNow()
}

// Asserter evaluates assertions with call-site defaults.
type Asserter struct {
	settings      constraint.Settings
	maxLineLength int
}

// Option configures an Asserter.
type Option func(*Asserter)

// WithDefaultTolerance sets the tolerance used for floating point equality
// when an assertion gives none.
func WithDefaultTolerance(tol tolerance.Tolerance) Option {
	return func(a *Asserter) { a.settings.DefaultTolerance = tol }
}

// WithMaxLineLength sets the width that long values are clipped to.
func WithMaxLineLength(n int) Option {
	return func(a *Asserter) {
		if n <= message.PrefixLength+2 {
			panic(errors.InvalidArgument("maxLineLength", "line length must exceed %d, got %d", message.PrefixLength+2, n))
		}
		a.maxLineLength = n
	}
}

// New returns an Asserter.
func New(opts ...Option) *Asserter {
	a := &Asserter{maxLineLength: message.DefaultMaxLineLength}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var std = New()

// Evaluate matches actual against c. It returns nil on success, an
// Assertion error with the rendered message on mismatch, or the error that
// made the assertion invalid.
func (a *Asserter) Evaluate(actual any, c constraint.Constraint, msgAndArgs ...any) error {
	if c == nil {
		return errors.ArgumentNull("constraint", "constraint must not be null")
	}
	constraint.Configure(c, a.settings)
	ok, err := c.Matches(actual)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	w := message.NewWriterWidth(a.maxLineLength)
	if m := formatMessage(msgAndArgs...); m != "" {
		w.WriteLine(m)
	}
	constraint.WriteMessage(c, w)
	return errors.Assertion(strings.TrimRight(w.String(), "\n"))
}

// Check reports a failed assertion to t and returns false; the test
// continues.
func (a *Asserter) Check(t TestingT, actual any, c constraint.Constraint, msgAndArgs ...any) bool {
	t.Helper()
	if err := a.Evaluate(actual, c, msgAndArgs...); err != nil {
		report(t, err)
		return false
	}
	return true
}

// That reports a failed assertion to t and stops the test.
func (a *Asserter) That(t TestingT, actual any, c constraint.Constraint, msgAndArgs ...any) {
	t.Helper()
	if !a.Check(t, actual, c, msgAndArgs...) {
		t.FailNow()
	}
}

// Throws asserts that fn raises an error satisfying c, or any error when
// c is nil, and returns it. It stops the test otherwise.
func (a *Asserter) Throws(t TestingT, fn any, c constraint.Constraint, msgAndArgs ...any) error {
	t.Helper()
	tc := constraint.Throws(c)
	if !a.Check(t, fn, tc, msgAndArgs...) {
		t.FailNow()
		return nil
	}
	return tc.Raised()
}

// DoesNotThrow asserts that fn raises no error.
func (a *Asserter) DoesNotThrow(t TestingT, fn any, msgAndArgs ...any) {
	t.Helper()
	a.That(t, fn, constraint.ThrowsNothing(), msgAndArgs...)
}

// That asserts with the default Asserter.
func That(t TestingT, actual any, c constraint.Constraint, msgAndArgs ...any) {
	t.Helper()
	std.That(t, actual, c, msgAndArgs...)
}

// Check asserts with the default Asserter without stopping the test.
func Check(t TestingT, actual any, c constraint.Constraint, msgAndArgs ...any) bool {
	t.Helper()
	return std.Check(t, actual, c, msgAndArgs...)
}

// Evaluate evaluates with the default Asserter.
func Evaluate(actual any, c constraint.Constraint, msgAndArgs ...any) error {
	return std.Evaluate(actual, c, msgAndArgs...)
}

// Throws asserts with the default Asserter that fn raises an error.
func Throws(t TestingT, fn any, c constraint.Constraint, msgAndArgs ...any) error {
	t.Helper()
	return std.Throws(t, fn, c, msgAndArgs...)
}

// DoesNotThrow asserts with the default Asserter that fn raises no error.
func DoesNotThrow(t TestingT, fn any, msgAndArgs ...any) {
	t.Helper()
	std.DoesNotThrow(t, fn, msgAndArgs...)
}

// ThrowsAs asserts that fn raises an error whose chain holds an E and
// returns it.
func ThrowsAs[E error](t TestingT, fn any, msgAndArgs ...any) E {
	t.Helper()
	var target E
	raised := Throws(t, fn, constraint.ErrorAs(reflect.TypeFor[E]()), msgAndArgs...)
	if raised != nil {
		stderrors.As(raised, &target)
	}
	return target
}

func report(t TestingT, err error) {
	t.Helper()
	if errors.IsAssertion(err) {
		t.Errorf("assertion failed:\n%s", err.Error())
		return
	}
	t.Errorf("invalid assertion: %v", err)
}

// formatMessage renders a format string with its arguments, or a single
// value on its own. Values after a non-string first value are ignored.
func formatMessage(msgAndArgs ...any) string {
	switch len(msgAndArgs) {
	case 0:
		return ""
	case 1:
		if s, ok := msgAndArgs[0].(string); ok {
			return s
		}
		return fmt.Sprint(msgAndArgs[0])
	}
	if format, ok := msgAndArgs[0].(string); ok {
		return fmt.Sprintf(format, msgAndArgs[1:]...)
	}
	return fmt.Sprintf("%+v", msgAndArgs[0])
}
