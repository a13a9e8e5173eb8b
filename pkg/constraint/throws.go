package constraint

import (
	stderrors "errors"
	"fmt"
	"reflect"

	"github.com/AndreyAkinshin/assay/pkg/equality"
	"github.com/AndreyAkinshin/assay/pkg/errors"
	"github.com/AndreyAkinshin/assay/pkg/message"
)

// PanicError wraps a recovered panic value that is not an error.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Capture invokes fn and returns the error it raised: the last error
// result, or the recovered panic. fn must be a func with no parameters
// returning nothing or ending with an error result; otherwise err is an
// Argument error and fn is not called.
func Capture(fn any) (raised error, err error) {
	rv := reflect.ValueOf(fn)
	if !rv.IsValid() || rv.Kind() != reflect.Func {
		return nil, errors.Argument("actual", "the actual value must be a function, got %s", typeOrNull(fn))
	}
	if rv.IsNil() {
		return nil, errors.ArgumentNull("actual", "the actual function must not be null")
	}
	ft := rv.Type()
	if ft.NumIn() != 0 || (ft.NumOut() > 0 && ft.Out(ft.NumOut()-1) != errorType) {
		return nil, errors.Argument("actual", "the actual function must take no arguments and return nothing or an error, got %s", ft)
	}
	return invoke(rv), nil
}

func invoke(fn reflect.Value) (raised error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				raised = e
				return
			}
			raised = &PanicError{Value: r}
		}
	}()
	out := fn.Call(nil)
	if len(out) > 0 {
		if last := out[len(out)-1]; !last.IsNil() {
			raised = last.Interface().(error)
		}
	}
	return raised
}

func describeError(err error) string {
	return fmt.Sprintf("<%T: %s>", err, err.Error())
}

// ThrowsConstraint invokes the actual function and applies its operand to
// the raised error. Without an operand any error matches.
type ThrowsConstraint struct {
	prefix
	raised error
}

// Throws matches functions raising an error that satisfies c. A nil c
// accepts any error.
func Throws(c Constraint) *ThrowsConstraint {
	return &ThrowsConstraint{prefix: prefix{inner: c}}
}

// Raised returns the error captured by the last evaluation.
func (c *ThrowsConstraint) Raised() error { return c.raised }

func (c *ThrowsConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	raised, err := Capture(actual)
	c.raised = raised
	if err != nil {
		return false, err
	}
	if raised == nil {
		return false, nil
	}
	if c.inner == nil {
		return true, nil
	}
	return c.inner.Matches(raised)
}

func (c *ThrowsConstraint) WriteDescriptionTo(w *message.Writer) {
	if c.inner == nil {
		w.Write("an error")
		return
	}
	c.inner.WriteDescriptionTo(w)
}

// WriteActualValueTo distinguishes a function that raised nothing from one
// that raised the wrong error.
func (c *ThrowsConstraint) WriteActualValueTo(w *message.Writer) {
	switch c.inner.(type) {
	case nil, *TypeConstraint:
		if c.raised == nil {
			w.Write("no error")
			return
		}
		w.Write(describeError(c.raised))
	default:
		if c.raised == nil {
			w.Write("no error")
			return
		}
		c.inner.WriteActualValueTo(w)
	}
}

func (c *ThrowsConstraint) String() string {
	if c.inner == nil {
		return tag("throws")
	}
	return tag("throws", c.inner)
}

// ThrowsNothingConstraint matches functions that raise no error.
type ThrowsNothingConstraint struct {
	base
	raised error
}

// ThrowsNothing matches functions completing without an error.
func ThrowsNothing() *ThrowsNothingConstraint { return &ThrowsNothingConstraint{} }

func (c *ThrowsNothingConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	raised, err := Capture(actual)
	c.raised = raised
	if err != nil {
		return false, err
	}
	return raised == nil, nil
}

func (c *ThrowsNothingConstraint) WriteDescriptionTo(w *message.Writer) {
	w.Write("no error")
}

func (c *ThrowsNothingConstraint) WriteActualValueTo(w *message.Writer) {
	if c.raised == nil {
		w.Write("no error")
		return
	}
	w.Write(describeError(c.raised))
}

func (c *ThrowsNothingConstraint) String() string { return tag("throwsnothing") }

// ErrorIsConstraint matches errors whose chain contains a target error.
type ErrorIsConstraint struct {
	base
	target error
}

// ErrorIs matches errors for which errors.Is(err, target) holds.
func ErrorIs(target error) *ErrorIsConstraint {
	if target == nil {
		panic(errors.ArgumentNull("target", "target error must not be null"))
	}
	return &ErrorIsConstraint{target: target}
}

func (c *ErrorIsConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	err, ok := actual.(error)
	if !ok || equality.IsNull(actual) {
		return false, nil
	}
	return stderrors.Is(err, c.target), nil
}

func (c *ErrorIsConstraint) WriteDescriptionTo(w *message.Writer) {
	w.WritePredicate("error wrapping")
	w.Write(describeError(c.target))
}

func (c *ErrorIsConstraint) WriteActualValueTo(w *message.Writer) {
	if err, ok := c.actual.(error); ok && !equality.IsNull(c.actual) {
		w.Write(describeError(err))
		return
	}
	w.WriteActualValue(c.actual)
}

func (c *ErrorIsConstraint) String() string { return tag("erroris", c.target.Error()) }

// ErrorAsConstraint matches errors whose chain contains an error of a
// given type.
type ErrorAsConstraint struct {
	base
	target reflect.Type
}

// ErrorAs matches errors for which errors.As finds a value of type t. t
// must be an interface type or implement error.
func ErrorAs(t reflect.Type) *ErrorAsConstraint {
	if t == nil {
		panic(errors.ArgumentNull("type", "target type must not be null"))
	}
	if t.Kind() != reflect.Interface && !t.Implements(errorType) {
		panic(errors.InvalidArgument("type", "%s does not implement error", t))
	}
	return &ErrorAsConstraint{target: t}
}

func (c *ErrorAsConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	err, ok := actual.(error)
	if !ok || equality.IsNull(actual) {
		return false, nil
	}
	return stderrors.As(err, reflect.New(c.target).Interface()), nil
}

func (c *ErrorAsConstraint) WriteDescriptionTo(w *message.Writer) {
	w.WritePredicate("error as")
	w.WriteExpectedValue(c.target)
}

func (c *ErrorAsConstraint) WriteActualValueTo(w *message.Writer) {
	if err, ok := c.actual.(error); ok && !equality.IsNull(c.actual) {
		w.Write(describeError(err))
		return
	}
	w.WriteActualValue(c.actual)
}

func (c *ErrorAsConstraint) String() string { return tag("erroras", c.target) }
