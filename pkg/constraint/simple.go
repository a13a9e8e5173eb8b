package constraint

import (
	"reflect"

	"github.com/AndreyAkinshin/assay/pkg/equality"
	"github.com/AndreyAkinshin/assay/pkg/errors"
	"github.com/AndreyAkinshin/assay/pkg/message"
	"github.com/AndreyAkinshin/assay/pkg/numerics"
)

// NullConstraint matches nil and typed nil references.
type NullConstraint struct{ base }

// Null returns a constraint matching nil.
func Null() *NullConstraint { return &NullConstraint{} }

func (c *NullConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	return equality.IsNull(actual), nil
}

func (c *NullConstraint) WriteDescriptionTo(w *message.Writer) { w.Write("null") }
func (c *NullConstraint) String() string                       { return tag("null") }

// BoolConstraint matches a specific boolean value.
type BoolConstraint struct {
	base
	want bool
}

// True returns a constraint matching true.
func True() *BoolConstraint { return &BoolConstraint{want: true} }

// False returns a constraint matching false.
func False() *BoolConstraint { return &BoolConstraint{want: false} }

func (c *BoolConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	rv := reflect.ValueOf(actual)
	return rv.IsValid() && rv.Kind() == reflect.Bool && rv.Bool() == c.want, nil
}

func (c *BoolConstraint) WriteDescriptionTo(w *message.Writer) {
	w.WriteExpectedValue(c.want)
}

func (c *BoolConstraint) String() string {
	if c.want {
		return tag("true")
	}
	return tag("false")
}

// NaNConstraint matches a floating point NaN.
type NaNConstraint struct{ base }

// NaN returns a constraint matching NaN.
func NaN() *NaNConstraint { return &NaNConstraint{} }

func (c *NaNConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	return numerics.IsNaN(actual), nil
}

func (c *NaNConstraint) WriteDescriptionTo(w *message.Writer) { w.Write("NaN") }
func (c *NaNConstraint) String() string                       { return tag("nan") }

// EmptyConstraint matches an empty string, map, channel or collection.
type EmptyConstraint struct{ base }

// Empty returns a constraint matching empty values.
func Empty() *EmptyConstraint { return &EmptyConstraint{} }

func (c *EmptyConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	n, ok := equality.Len(actual)
	if !ok {
		return false, errors.Argument("actual", "the actual value must be a string or a collection, got %s", typeOrNull(actual))
	}
	return n == 0, nil
}

func (c *EmptyConstraint) WriteDescriptionTo(w *message.Writer) { w.Write("<empty>") }
func (c *EmptyConstraint) String() string                       { return tag("empty") }

// PredicateConstraint matches values accepted by a function.
type PredicateConstraint struct {
	base
	fn          reflect.Value
	operand     reflect.Type
	description string
}

// Predicate wraps fn, a func(T) bool, as a constraint. Actual values that
// are not assignable to T are an Argument error. An empty description
// reads as "value matching predicate".
func Predicate(fn any, description string) *PredicateConstraint {
	fv := reflect.ValueOf(fn)
	if !fv.IsValid() || fv.Kind() != reflect.Func || fv.IsNil() {
		panic(errors.ArgumentNull("predicate", "predicate must be a non-nil function"))
	}
	ft := fv.Type()
	if ft.NumIn() != 1 || ft.NumOut() != 1 || ft.Out(0).Kind() != reflect.Bool {
		panic(errors.InvalidArgument("predicate", "predicate must have the form func(T) bool, got %s", ft))
	}
	if description == "" {
		description = "predicate"
	}
	return &PredicateConstraint{fn: fv, operand: ft.In(0), description: description}
}

func (c *PredicateConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	var arg reflect.Value
	switch {
	case actual == nil:
		switch c.operand.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
			arg = reflect.Zero(c.operand)
		default:
			return false, errors.ArgumentNull("actual", "predicate expects %s, got null", c.operand)
		}
	case reflect.TypeOf(actual).AssignableTo(c.operand):
		arg = reflect.ValueOf(actual)
	default:
		return false, errors.Argument("actual", "predicate expects %s, got %T", c.operand, actual)
	}
	return c.fn.Call([]reflect.Value{arg})[0].Bool(), nil
}

func (c *PredicateConstraint) WriteDescriptionTo(w *message.Writer) {
	w.WritePredicate("value matching")
	w.Write(c.description)
}

func (c *PredicateConstraint) String() string { return tag("predicate", c.description) }

func typeOrNull(v any) string {
	if v == nil {
		return "null"
	}
	return reflect.TypeOf(v).String()
}
