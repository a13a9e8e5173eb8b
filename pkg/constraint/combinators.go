package constraint

import "github.com/AndreyAkinshin/assay/pkg/message"

// AndConstraint succeeds when both operands succeed. The right operand is
// not evaluated when the left one fails.
type AndConstraint struct {
	base
	left, right Constraint
	failed      Constraint
}

// And combines two constraints that must both match.
func And(left, right Constraint) *AndConstraint {
	return &AndConstraint{left: left, right: right}
}

func (c *AndConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	c.failed = nil
	ok, err := c.left.Matches(actual)
	if err != nil {
		return false, err
	}
	if !ok {
		c.failed = c.left
		return false, nil
	}
	ok, err = c.right.Matches(actual)
	if err != nil {
		return false, err
	}
	if !ok {
		c.failed = c.right
	}
	return ok, nil
}

func (c *AndConstraint) WriteDescriptionTo(w *message.Writer) {
	c.left.WriteDescriptionTo(w)
	w.WriteConnector("and")
	c.right.WriteDescriptionTo(w)
}

// WriteActualValueTo defers to the operand that failed.
func (c *AndConstraint) WriteActualValueTo(w *message.Writer) {
	switch {
	case c.failed != nil:
		c.failed.WriteActualValueTo(w)
	default:
		c.left.WriteActualValueTo(w)
	}
}

func (c *AndConstraint) Configure(s Settings) {
	Configure(c.left, s)
	Configure(c.right, s)
}

func (c *AndConstraint) String() string { return tag("and", c.left, c.right) }

// OrConstraint succeeds when either operand succeeds.
type OrConstraint struct {
	base
	left, right Constraint
}

// Or combines two constraints of which at least one must match.
func Or(left, right Constraint) *OrConstraint {
	return &OrConstraint{left: left, right: right}
}

func (c *OrConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	ok, err := c.left.Matches(actual)
	if err != nil || ok {
		return ok, err
	}
	return c.right.Matches(actual)
}

func (c *OrConstraint) WriteDescriptionTo(w *message.Writer) {
	c.left.WriteDescriptionTo(w)
	w.WriteConnector("or")
	c.right.WriteDescriptionTo(w)
}

func (c *OrConstraint) Configure(s Settings) {
	Configure(c.left, s)
	Configure(c.right, s)
}

func (c *OrConstraint) String() string { return tag("or", c.left, c.right) }

// NotConstraint inverts its operand and prefixes its description with "not".
type NotConstraint struct {
	prefix
}

// Not negates c.
func Not(c Constraint) *NotConstraint {
	return &NotConstraint{prefix{inner: c}}
}

func (c *NotConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	ok, err := c.inner.Matches(actual)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func (c *NotConstraint) WriteDescriptionTo(w *message.Writer) {
	w.WritePredicate("not")
	c.inner.WriteDescriptionTo(w)
}

func (c *NotConstraint) WriteActualValueTo(w *message.Writer) {
	c.inner.WriteActualValueTo(w)
}

func (c *NotConstraint) String() string { return tag("not", c.inner) }
