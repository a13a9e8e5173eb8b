package constraint

import (
	"github.com/AndreyAkinshin/assay/pkg/errors"
	"github.com/AndreyAkinshin/assay/pkg/message"
)

type comparisonKind int

const (
	greaterThan comparisonKind = iota
	greaterThanOrEqual
	lessThan
	lessThanOrEqual
)

var comparisonNames = [...]struct{ predicate, tag string }{
	greaterThan:        {"greater than", "greaterthan"},
	greaterThanOrEqual: {"greater than or equal to", "greaterthanorequal"},
	lessThan:           {"less than", "lessthan"},
	lessThanOrEqual:    {"less than or equal to", "lessthanorequal"},
}

// ComparisonConstraint orders the actual value against an expected one.
// Null or mutually unordered operands are errors, not mismatches.
type ComparisonConstraint struct {
	base
	orderingOptions
	kind     comparisonKind
	expected any
}

// GreaterThan matches values greater than expected.
func GreaterThan(expected any) *ComparisonConstraint {
	return &ComparisonConstraint{kind: greaterThan, expected: expected}
}

// GreaterThanOrEqual matches values greater than or equal to expected.
func GreaterThanOrEqual(expected any) *ComparisonConstraint {
	return &ComparisonConstraint{kind: greaterThanOrEqual, expected: expected}
}

// LessThan matches values less than expected.
func LessThan(expected any) *ComparisonConstraint {
	return &ComparisonConstraint{kind: lessThan, expected: expected}
}

// LessThanOrEqual matches values less than or equal to expected.
func LessThanOrEqual(expected any) *ComparisonConstraint {
	return &ComparisonConstraint{kind: lessThanOrEqual, expected: expected}
}

// Using orders values with f; see equality.Adapt.
func (c *ComparisonConstraint) Using(f any) *ComparisonConstraint {
	c.setUsing(f)
	return c
}

func (c *ComparisonConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	r, err := c.compare(actual, c.expected)
	if err != nil {
		return false, err
	}
	switch c.kind {
	case greaterThan:
		return r > 0, nil
	case greaterThanOrEqual:
		return r >= 0, nil
	case lessThan:
		return r < 0, nil
	default:
		return r <= 0, nil
	}
}

func (c *ComparisonConstraint) WriteDescriptionTo(w *message.Writer) {
	w.WritePredicate(comparisonNames[c.kind].predicate)
	w.WriteExpectedValue(c.expected)
}

func (c *ComparisonConstraint) String() string {
	return tag(comparisonNames[c.kind].tag, c.expected)
}

// RangeConstraint matches values within an inclusive range.
type RangeConstraint struct {
	base
	orderingOptions
	from, to any
}

// Range matches values v with from <= v <= to. It panics when from sorts
// after to or the bounds cannot be ordered.
func Range(from, to any) *RangeConstraint {
	c := &RangeConstraint{from: from, to: to}
	c.checkBounds()
	return c
}

// Using orders values with f; see equality.Adapt.
func (c *RangeConstraint) Using(f any) *RangeConstraint {
	c.setUsing(f)
	return c
}

func (c *RangeConstraint) setUsing(f any) {
	c.orderingOptions.setUsing(f)
	c.checkBounds()
}

func (c *RangeConstraint) checkBounds() {
	r, err := c.compare(c.from, c.to)
	if err != nil {
		panic(err)
	}
	if r > 0 {
		panic(errors.InvalidArgument("from", "the from value %v must be less than or equal to the to value %v", c.from, c.to))
	}
}

func (c *RangeConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	lo, err := c.compare(actual, c.from)
	if err != nil {
		return false, err
	}
	hi, err := c.compare(actual, c.to)
	if err != nil {
		return false, err
	}
	return lo >= 0 && hi <= 0, nil
}

func (c *RangeConstraint) WriteDescriptionTo(w *message.Writer) {
	w.Writef("in range (%s,%s)", message.FormatValue(c.from), message.FormatValue(c.to))
}

func (c *RangeConstraint) String() string { return tag("range", c.from, c.to) }
