package constraint

import "github.com/AndreyAkinshin/assay/pkg/errors"

// operator is a pending node of an Expression. Lower precedence binds
// tighter: an operator on the stack is reduced before a new one is pushed
// when its right precedence is lower than the new operator's left one.
type operator interface {
	name() string
	leftPrecedence() int
	rightPrecedence() int
	// setRightContext records what was appended directly after the operator.
	setRightContext(next any)
	reduce(stack *operandStack, intro Introspector) error
}

// selfResolving operators yield a constraint of their own when no operand
// follows them.
type selfResolving interface {
	operator
	selfResolving()
}

type operandStack []Constraint

func (s *operandStack) push(c Constraint) { *s = append(*s, c) }

func (s *operandStack) pop(op string) (Constraint, error) {
	n := len(*s)
	if n == 0 {
		return nil, errors.InvalidOperation("incomplete expression: %s is missing an operand", op)
	}
	c := (*s)[n-1]
	*s = (*s)[:n-1]
	return c, nil
}

type prefixOperator struct {
	label string
	wrap  func(Constraint) Constraint
}

func (o *prefixOperator) name() string          { return o.label }
func (o *prefixOperator) leftPrecedence() int   { return 1 }
func (o *prefixOperator) rightPrecedence() int  { return 1 }
func (o *prefixOperator) setRightContext(_ any) {}

func (o *prefixOperator) reduce(stack *operandStack, _ Introspector) error {
	c, err := stack.pop(o.label)
	if err != nil {
		return err
	}
	stack.push(o.wrap(c))
	return nil
}

type binaryKind int

const (
	andOperator binaryKind = iota
	orOperator
	withOperator
)

type binaryOperator struct {
	kind binaryKind
}

func (o *binaryOperator) name() string {
	switch o.kind {
	case orOperator:
		return "Or"
	case withOperator:
		return "With"
	}
	return "And"
}

func (o *binaryOperator) leftPrecedence() int {
	switch o.kind {
	case orOperator:
		return 3
	case withOperator:
		return 1
	}
	return 2
}

func (o *binaryOperator) rightPrecedence() int {
	switch o.kind {
	case orOperator:
		return 3
	case withOperator:
		return 4
	}
	return 2
}

func (o *binaryOperator) setRightContext(_ any) {}

func (o *binaryOperator) reduce(stack *operandStack, _ Introspector) error {
	right, err := stack.pop(o.name())
	if err != nil {
		return err
	}
	left, err := stack.pop(o.name())
	if err != nil {
		return err
	}
	if o.kind == orOperator {
		stack.push(Or(left, right))
	} else {
		stack.push(And(left, right))
	}
	return nil
}

// standsAlone reports whether a self-resolving operator received no operand.
func standsAlone(next any) bool {
	if next == nil {
		return true
	}
	_, binary := next.(*binaryOperator)
	return binary
}

type propertyOperator struct {
	property string
	next     any
}

func (o *propertyOperator) name() string             { return "Property(" + o.property + ")" }
func (o *propertyOperator) leftPrecedence() int      { return 1 }
func (o *propertyOperator) rightPrecedence() int     { return 1 }
func (o *propertyOperator) setRightContext(next any) { o.next = next }
func (o *propertyOperator) selfResolving()           {}

func (o *propertyOperator) reduce(stack *operandStack, intro Introspector) error {
	if standsAlone(o.next) {
		stack.push(PropertyExists(o.property).WithIntrospector(intro))
		return nil
	}
	c, err := stack.pop(o.name())
	if err != nil {
		return err
	}
	stack.push(Property(o.property, c).WithIntrospector(intro))
	return nil
}

type attributeOperator struct {
	marker string
	next   any
}

func (o *attributeOperator) name() string             { return "Attribute(" + o.marker + ")" }
func (o *attributeOperator) leftPrecedence() int      { return 1 }
func (o *attributeOperator) rightPrecedence() int     { return 1 }
func (o *attributeOperator) setRightContext(next any) { o.next = next }
func (o *attributeOperator) selfResolving()           {}

func (o *attributeOperator) reduce(stack *operandStack, intro Introspector) error {
	if standsAlone(o.next) {
		stack.push(AttributeExists(o.marker).WithIntrospector(intro))
		return nil
	}
	c, err := stack.pop(o.name())
	if err != nil {
		return err
	}
	stack.push(Attribute(o.marker, c).WithIntrospector(intro))
	return nil
}

// throwsOperator captures the rest of the expression as the constraint on
// the raised error.
type throwsOperator struct {
	next any
}

func (o *throwsOperator) name() string             { return "Throws" }
func (o *throwsOperator) leftPrecedence() int      { return 1 }
func (o *throwsOperator) rightPrecedence() int     { return 100 }
func (o *throwsOperator) setRightContext(next any) { o.next = next }
func (o *throwsOperator) selfResolving()           {}

func (o *throwsOperator) reduce(stack *operandStack, _ Introspector) error {
	if standsAlone(o.next) {
		stack.push(Throws(nil))
		return nil
	}
	c, err := stack.pop(o.name())
	if err != nil {
		return err
	}
	stack.push(Throws(c))
	return nil
}
