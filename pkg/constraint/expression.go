package constraint

import (
	"reflect"

	"github.com/AndreyAkinshin/assay/pkg/errors"
	"github.com/AndreyAkinshin/assay/pkg/message"
)

// State is the phase of an Expression under construction.
type State int

const (
	// StateEmpty holds before anything is appended.
	StateEmpty State = iota
	// StateAwaitingOperand holds while an operator waits for its operand.
	StateAwaitingOperand
	// StateComplete holds when the expression can be resolved.
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateAwaitingOperand:
		return "awaiting operand"
	case StateComplete:
		return "complete"
	}
	return "unknown"
}

// Expression builds a constraint tree from a fluent chain of operators,
// terminal constraints and modifiers:
//
//	NewExpression().Not().GreaterThan(40).And().LessThan(50)
//
// Misuse, such as a modifier with no preceding constraint or two adjacent
// constraints, panics immediately with an InvalidOperation *errors.AssayError.
// An Expression is itself a Constraint; it is resolved on first use.
type Expression struct {
	ops      []operator
	operands operandStack
	last     any
	intro    Introspector
	resolved Constraint
}

// NewExpression returns an empty expression.
func NewExpression() *Expression {
	return &Expression{intro: DefaultIntrospector}
}

// State reports the construction phase.
func (e *Expression) State() State {
	switch e.last.(type) {
	case nil:
		return StateEmpty
	case Constraint, selfResolving:
		return StateComplete
	}
	return StateAwaitingOperand
}

// WithIntrospector makes property, marker and By lookups go through intro.
func (e *Expression) WithIntrospector(intro Introspector) *Expression {
	if intro == nil {
		panic(errors.ArgumentNull("intro", "introspector must not be null"))
	}
	e.intro = intro
	for _, c := range e.operands {
		if ic, ok := c.(introspective); ok {
			ic.setIntrospector(intro)
		}
	}
	e.resolved = nil
	return e
}

func (e *Expression) appendOperator(op operator) *Expression {
	_, binary := op.(*binaryOperator)
	switch state := e.State(); {
	case binary && state != StateComplete:
		panic(errors.InvalidOperation("%s must follow a constraint, expression is %s", op.name(), state))
	case !binary:
		if c, ok := e.last.(Constraint); ok {
			panic(errors.InvalidOperation("%s cannot follow the constraint %s, join them with And or Or", op.name(), c))
		}
	}
	if binary {
		e.closeSelfResolving(op)
	}
	if _, ok := e.last.(operator); ok {
		e.ops[len(e.ops)-1].setRightContext(op)
	}
	e.reduceWhile(op.leftPrecedence())
	e.ops = append(e.ops, op)
	e.last = op
	e.resolved = nil
	return e
}

// closeSelfResolving completes a self-resolving operator that a binary
// operator follows. Throws receives an any-error operand so that the rest
// of the chain still constrains the raised error.
func (e *Expression) closeSelfResolving(next operator) {
	sr, ok := e.last.(selfResolving)
	if !ok {
		return
	}
	if _, throws := sr.(*throwsOperator); throws {
		e.appendConstraint(InstanceOf(errorType))
		return
	}
	sr.setRightContext(next)
	e.ops = e.ops[:len(e.ops)-1]
	if err := sr.reduce(&e.operands, e.intro); err != nil {
		panic(err)
	}
	e.last = e.operands[len(e.operands)-1]
}

func (e *Expression) reduceWhile(precedence int) {
	for len(e.ops) > 0 && e.ops[len(e.ops)-1].rightPrecedence() < precedence {
		top := e.ops[len(e.ops)-1]
		e.ops = e.ops[:len(e.ops)-1]
		if err := top.reduce(&e.operands, e.intro); err != nil {
			panic(err)
		}
	}
}

func (e *Expression) appendConstraint(c Constraint) *Expression {
	if c == nil {
		panic(errors.ArgumentNull("constraint", "constraint must not be null"))
	}
	if prev, ok := e.last.(Constraint); ok {
		panic(errors.InvalidOperation("constraint %s cannot follow the constraint %s, join them with And or Or", c, prev))
	}
	if _, ok := e.last.(operator); ok {
		e.ops[len(e.ops)-1].setRightContext(c)
	}
	e.operands.push(c)
	e.last = c
	e.resolved = nil
	return e
}

// Resolve reduces the expression to a single constraint. It fails with an
// InvalidOperation error while the expression is empty or an operator
// still awaits its operand. The expression stays usable afterwards.
func (e *Expression) Resolve() (Constraint, error) {
	if e.resolved != nil {
		return e.resolved, nil
	}
	switch state := e.State(); state {
	case StateEmpty:
		return nil, errors.InvalidOperation("incomplete expression: no constraint was given")
	case StateAwaitingOperand:
		return nil, errors.InvalidOperation("incomplete expression: %s requires an operand", e.last.(operator).name())
	}
	ops := append([]operator(nil), e.ops...)
	stack := append(operandStack(nil), e.operands...)
	for len(ops) > 0 {
		top := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if err := top.reduce(&stack, e.intro); err != nil {
			return nil, err
		}
	}
	if len(stack) != 1 {
		return nil, errors.InvalidOperation("incomplete expression: %d constraints were left unjoined", len(stack))
	}
	e.resolved = stack[0]
	return e.resolved, nil
}

// MustResolve is Resolve that panics on error.
func (e *Expression) MustResolve() Constraint {
	c, err := e.Resolve()
	if err != nil {
		panic(err)
	}
	return c
}

func (e *Expression) Matches(actual any) (bool, error) {
	c, err := e.Resolve()
	if err != nil {
		return false, err
	}
	return c.Matches(actual)
}

func (e *Expression) WriteDescriptionTo(w *message.Writer) {
	if c, err := e.Resolve(); err == nil {
		c.WriteDescriptionTo(w)
	}
}

func (e *Expression) WriteActualValueTo(w *message.Writer) {
	if c, err := e.Resolve(); err == nil {
		c.WriteActualValueTo(w)
	}
}

func (e *Expression) WriteMessageTo(w *message.Writer) {
	if c, err := e.Resolve(); err == nil {
		WriteMessage(c, w)
	}
}

func (e *Expression) Configure(s Settings) {
	if c, err := e.Resolve(); err == nil {
		Configure(c, s)
	}
}

func (e *Expression) String() string {
	c, err := e.Resolve()
	if err != nil {
		return "<unresolved>"
	}
	return c.String()
}

// Operators.

// Not negates the operand that follows.
func (e *Expression) Not() *Expression {
	return e.appendOperator(&prefixOperator{label: "Not", wrap: func(c Constraint) Constraint { return Not(c) }})
}

// All applies the operand to every item of a collection.
func (e *Expression) All() *Expression {
	return e.appendOperator(&prefixOperator{label: "All", wrap: func(c Constraint) Constraint { return AllItems(c) }})
}

// Some requires at least one item to satisfy the operand.
func (e *Expression) Some() *Expression {
	return e.appendOperator(&prefixOperator{label: "Some", wrap: func(c Constraint) Constraint { return SomeItems(c) }})
}

// None requires that no item satisfies the operand.
func (e *Expression) None() *Expression {
	return e.appendOperator(&prefixOperator{label: "None", wrap: func(c Constraint) Constraint { return NoItem(c) }})
}

// Exactly requires exactly n items to satisfy the operand.
func (e *Expression) Exactly(n int) *Expression {
	if n < 0 {
		panic(errors.InvalidArgument("count", "expected count must not be negative, got %d", n))
	}
	return e.appendOperator(&prefixOperator{label: "Exactly", wrap: func(c Constraint) Constraint { return ExactCount(n, c) }})
}

// Items reads naturally after Exactly and changes nothing.
func (e *Expression) Items() *Expression { return e }

// Length applies the operand to the length of the actual value.
func (e *Expression) Length() *Expression {
	return e.appendOperator(&prefixOperator{label: "Length", wrap: func(c Constraint) Constraint { return Length(c) }})
}

// Count applies the operand to the item count of the actual value.
func (e *Expression) Count() *Expression {
	return e.appendOperator(&prefixOperator{label: "Count", wrap: func(c Constraint) Constraint { return Count(c) }})
}

// Property applies the operand to the named property. Without an operand
// it requires the property to exist.
func (e *Expression) Property(name string) *Expression {
	if name == "" {
		panic(errors.InvalidArgument("name", "property name must not be empty"))
	}
	return e.appendOperator(&propertyOperator{property: name})
}

// Attribute applies the operand to the named marker. Without an operand it
// requires the marker to be present.
func (e *Expression) Attribute(name string) *Expression {
	if name == "" {
		panic(errors.InvalidArgument("name", "marker name must not be empty"))
	}
	return e.appendOperator(&attributeOperator{marker: name})
}

// Throws invokes the actual function and applies the rest of the
// expression to the raised error. Without an operand any error matches.
func (e *Expression) Throws() *Expression {
	return e.appendOperator(&throwsOperator{})
}

// And joins two constraints that must both match.
func (e *Expression) And() *Expression {
	return e.appendOperator(&binaryOperator{kind: andOperator})
}

// Or joins two constraints of which one must match. And binds tighter.
func (e *Expression) Or() *Expression {
	return e.appendOperator(&binaryOperator{kind: orOperator})
}

// With joins like And but keeps a preceding prefix applied to both sides.
func (e *Expression) With() *Expression {
	return e.appendOperator(&binaryOperator{kind: withOperator})
}

// Terminal constraints.

// Matching appends an arbitrary constraint.
func (e *Expression) Matching(c Constraint) *Expression { return e.appendConstraint(c) }

func (e *Expression) EqualTo(expected any) *Expression { return e.appendConstraint(Equal(expected)) }
func (e *Expression) SameAs(expected any) *Expression  { return e.appendConstraint(SameAs(expected)) }

func (e *Expression) GreaterThan(expected any) *Expression {
	return e.appendConstraint(GreaterThan(expected))
}

func (e *Expression) GreaterThanOrEqualTo(expected any) *Expression {
	return e.appendConstraint(GreaterThanOrEqual(expected))
}

func (e *Expression) LessThan(expected any) *Expression {
	return e.appendConstraint(LessThan(expected))
}

func (e *Expression) LessThanOrEqualTo(expected any) *Expression {
	return e.appendConstraint(LessThanOrEqual(expected))
}

// AtLeast is GreaterThanOrEqualTo.
func (e *Expression) AtLeast(expected any) *Expression { return e.GreaterThanOrEqualTo(expected) }

// AtMost is LessThanOrEqualTo.
func (e *Expression) AtMost(expected any) *Expression { return e.LessThanOrEqualTo(expected) }

func (e *Expression) InRange(from, to any) *Expression { return e.appendConstraint(Range(from, to)) }

func (e *Expression) Null() *Expression  { return e.appendConstraint(Null()) }
func (e *Expression) True() *Expression  { return e.appendConstraint(True()) }
func (e *Expression) False() *Expression { return e.appendConstraint(False()) }
func (e *Expression) NaN() *Expression   { return e.appendConstraint(NaN()) }
func (e *Expression) Empty() *Expression { return e.appendConstraint(Empty()) }

// Zero matches numeric zero of any type.
func (e *Expression) Zero() *Expression { return e.appendConstraint(Equal(0)) }

// Positive matches numbers greater than zero.
func (e *Expression) Positive() *Expression { return e.appendConstraint(GreaterThan(0)) }

// Negative matches numbers less than zero.
func (e *Expression) Negative() *Expression { return e.appendConstraint(LessThan(0)) }

func (e *Expression) Substring(s string) *Expression  { return e.appendConstraint(Substring(s)) }
func (e *Expression) StartsWith(s string) *Expression { return e.appendConstraint(StartsWith(s)) }
func (e *Expression) EndsWith(s string) *Expression   { return e.appendConstraint(EndsWith(s)) }

// MatchesRegex matches strings containing a match of pattern.
func (e *Expression) MatchesRegex(pattern string) *Expression {
	return e.appendConstraint(Regex(pattern))
}

func (e *Expression) TypeOf(t reflect.Type) *Expression     { return e.appendConstraint(ExactType(t)) }
func (e *Expression) InstanceOf(t reflect.Type) *Expression { return e.appendConstraint(InstanceOf(t)) }

func (e *Expression) AssignableFrom(t reflect.Type) *Expression {
	return e.appendConstraint(AssignableFrom(t))
}

func (e *Expression) AssignableTo(t reflect.Type) *Expression {
	return e.appendConstraint(AssignableTo(t))
}

func (e *Expression) Unique() *Expression { return e.appendConstraint(Unique()) }

func (e *Expression) Ordered() *Expression {
	return e.appendConstraint(Ordered().WithIntrospector(e.intro))
}

func (e *Expression) SubsetOf(expected any) *Expression {
	return e.appendConstraint(CollectionSubset(expected))
}

func (e *Expression) SupersetOf(expected any) *Expression {
	return e.appendConstraint(CollectionSuperset(expected))
}

func (e *Expression) EquivalentTo(expected any) *Expression {
	return e.appendConstraint(CollectionEquivalent(expected))
}

// Contains matches collections holding an item equal to expected.
func (e *Expression) Contains(expected any) *Expression {
	return e.appendConstraint(CollectionContains(expected))
}

// Member is Contains.
func (e *Expression) Member(expected any) *Expression { return e.Contains(expected) }

func (e *Expression) ContainsKey(key any) *Expression { return e.appendConstraint(MapContainsKey(key)) }

func (e *Expression) ContainsValue(value any) *Expression {
	return e.appendConstraint(MapContainsValue(value))
}

// Satisfies matches values accepted by fn, a func(T) bool.
func (e *Expression) Satisfies(fn any, description string) *Expression {
	return e.appendConstraint(Predicate(fn, description))
}

func (e *Expression) ErrorIs(target error) *Expression { return e.appendConstraint(ErrorIs(target)) }
func (e *Expression) ErrorAs(t reflect.Type) *Expression {
	return e.appendConstraint(ErrorAs(t))
}

// Modifiers.

func (e *Expression) lastConstraint(modifier string) Constraint {
	c, ok := e.last.(Constraint)
	if !ok {
		panic(errors.InvalidOperation("%s must follow a constraint, expression is %s", modifier, e.State()))
	}
	e.resolved = nil
	return c
}

func incompatible(modifier string, c Constraint) error {
	return errors.InvalidOperation("%s cannot be applied to %s", modifier, c)
}

// Within sets a linear tolerance on the preceding equality.
func (e *Expression) Within(amount any) *Expression {
	c := e.lastConstraint("Within")
	m, ok := c.(toleranceModifiable)
	if !ok {
		panic(incompatible("Within", c))
	}
	m.setWithin(amount)
	return e
}

// Percent turns the preceding Within amount into a percentage.
func (e *Expression) Percent() *Expression {
	c := e.lastConstraint("Percent")
	m, ok := c.(toleranceModifiable)
	if !ok {
		panic(incompatible("Percent", c))
	}
	m.setPercent()
	return e
}

// Ulps turns the preceding Within amount into units in the last place.
func (e *Expression) Ulps() *Expression {
	c := e.lastConstraint("Ulps")
	m, ok := c.(toleranceModifiable)
	if !ok {
		panic(incompatible("Ulps", c))
	}
	m.setUlps()
	return e
}

// IgnoreCase compares strings case-insensitively.
func (e *Expression) IgnoreCase() *Expression {
	c := e.lastConstraint("IgnoreCase")
	m, ok := c.(caseModifiable)
	if !ok {
		panic(incompatible("IgnoreCase", c))
	}
	m.setIgnoreCase()
	return e
}

// Using supplies an external equality or ordering; see equality.Adapt.
func (e *Expression) Using(f any) *Expression {
	c := e.lastConstraint("Using")
	m, ok := c.(usingModifiable)
	if !ok {
		panic(incompatible("Using", c))
	}
	m.setUsing(f)
	return e
}

// AsCollection compares arrays element-wise regardless of shape.
func (e *Expression) AsCollection() *Expression {
	c := e.lastConstraint("AsCollection")
	m, ok := c.(collectionModifiable)
	if !ok {
		panic(incompatible("AsCollection", c))
	}
	m.setAsCollection()
	return e
}

// NoClip disables clipping of long strings in the failure message.
func (e *Expression) NoClip() *Expression {
	c := e.lastConstraint("NoClip")
	m, ok := c.(clipModifiable)
	if !ok {
		panic(incompatible("NoClip", c))
	}
	m.setNoClip()
	return e
}

// Descending requires non-increasing order.
func (e *Expression) Descending() *Expression {
	c := e.lastConstraint("Descending")
	m, ok := c.(orderModifiable)
	if !ok {
		panic(incompatible("Descending", c))
	}
	m.setDescending()
	return e
}

// By orders items by the named property.
func (e *Expression) By(name string) *Expression {
	c := e.lastConstraint("By")
	m, ok := c.(orderModifiable)
	if !ok {
		panic(incompatible("By", c))
	}
	m.setBy(name)
	return e
}
