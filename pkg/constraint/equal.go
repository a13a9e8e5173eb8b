package constraint

import (
	"reflect"

	"github.com/AndreyAkinshin/assay/pkg/errors"
	"github.com/AndreyAkinshin/assay/pkg/message"
	"github.com/AndreyAkinshin/assay/pkg/tolerance"
)

// EqualConstraint tests deep equality with an expected value.
type EqualConstraint struct {
	base
	equalityOptions
	expected     any
	noClip       bool
	withinCalled bool
}

// Equal returns a constraint matching values equal to expected.
func Equal(expected any) *EqualConstraint {
	return &EqualConstraint{expected: expected}
}

// Expected returns the expected value.
func (c *EqualConstraint) Expected() any { return c.expected }

// Within sets a linear tolerance. It panics when a tolerance was already
// set or the amount is invalid.
func (c *EqualConstraint) Within(amount any) *EqualConstraint {
	c.setWithin(amount)
	return c
}

// Percent reinterprets the pending Within amount as a percentage.
func (c *EqualConstraint) Percent() *EqualConstraint {
	c.setPercent()
	return c
}

// Ulps reinterprets the pending Within amount as units in the last place.
func (c *EqualConstraint) Ulps() *EqualConstraint {
	c.setUlps()
	return c
}

// IgnoreCase compares strings case-insensitively.
func (c *EqualConstraint) IgnoreCase() *EqualConstraint {
	c.setIgnoreCase()
	return c
}

// AsCollection compares arrays element-wise regardless of shape.
func (c *EqualConstraint) AsCollection() *EqualConstraint {
	c.setAsCollection()
	return c
}

// Using adds an external equality; see equality.Adapt for accepted forms.
func (c *EqualConstraint) Using(f any) *EqualConstraint {
	c.setUsing(f)
	return c
}

// NoClip disables clipping of long strings in failure messages.
func (c *EqualConstraint) NoClip() *EqualConstraint {
	c.setNoClip()
	return c
}

func (c *EqualConstraint) setWithin(amount any) {
	if c.withinCalled {
		panic(errors.InvalidOperation("Within modifier may appear only once in a constraint expression"))
	}
	tol, err := tolerance.NewLinear(amount)
	if err != nil {
		panic(err)
	}
	c.withinCalled = true
	c.comparer.Tolerance = tol
}

func (c *EqualConstraint) setPercent() {
	tol, err := c.comparer.Tolerance.Percent()
	if err != nil {
		panic(err)
	}
	c.comparer.Tolerance = tol
}

func (c *EqualConstraint) setUlps() {
	tol, err := c.comparer.Tolerance.Ulps()
	if err != nil {
		panic(err)
	}
	c.comparer.Tolerance = tol
}

func (c *EqualConstraint) setAsCollection() { c.comparer.AsCollection = true }
func (c *EqualConstraint) setNoClip()       { c.noClip = true }

func (c *EqualConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	return c.comparer.Equal(c.expected, actual)
}

func (c *EqualConstraint) WriteDescriptionTo(w *message.Writer) {
	w.WriteExpectedValue(c.expected)
	w.WriteTolerance(c.comparer.Tolerance)
	c.writeModifiers(w)
	if c.comparer.AsCollection {
		w.WriteModifier("as collection")
	}
}

// WriteMessageTo renders the difference between expected and actual,
// including the path into nested collections.
func (c *EqualConstraint) WriteMessageTo(w *message.Writer) {
	res, err := c.comparer.AreEqual(c.expected, c.actual)
	if err != nil {
		w.DisplayDifferences(c)
		return
	}
	w.DisplayEqualDifferences(c.expected, c.actual, message.EqualOptions{
		Tolerance:    c.comparer.Tolerance,
		IgnoreCase:   c.comparer.IgnoreCase,
		AsCollection: c.comparer.AsCollection,
		NoClip:       c.noClip,
	}, res.FailurePoints)
}

func (c *EqualConstraint) String() string { return tag("equal", c.expected) }

// SameAsConstraint tests reference identity: both values must be the same
// pointer, map, slice, channel or function of the same type.
type SameAsConstraint struct {
	base
	expected any
}

// SameAs returns a constraint matching the very same reference as expected.
func SameAs(expected any) *SameAsConstraint {
	return &SameAsConstraint{expected: expected}
}

func (c *SameAsConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	return sameReference(c.expected, actual), nil
}

func sameReference(x, y any) bool {
	if x == nil || y == nil {
		return false
	}
	xv, yv := reflect.ValueOf(x), reflect.ValueOf(y)
	if xv.Type() != yv.Type() {
		return false
	}
	switch xv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		return xv.Pointer() == yv.Pointer()
	case reflect.Slice:
		return xv.Pointer() == yv.Pointer() && xv.Len() == yv.Len()
	case reflect.Func:
		// Function values are comparable only to nil.
		return xv.IsNil() && yv.IsNil()
	}
	return false
}

func (c *SameAsConstraint) WriteDescriptionTo(w *message.Writer) {
	w.WritePredicate("same as")
	w.WriteExpectedValue(c.expected)
}

func (c *SameAsConstraint) String() string { return tag("sameas", c.expected) }
