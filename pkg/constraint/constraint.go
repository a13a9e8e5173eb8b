// Package constraint implements the constraint tree evaluated by assertions.
//
// A Constraint decides whether an actual value matches, describes what it
// expects, and renders the actual value for a failure message. Leaf
// constraints test values; prefix constraints (Not, AllItems, Property,
// Throws, ...) wrap another constraint; And and Or combine two.
//
// Constraints cache the last actual value they evaluated so that a failure
// message can be written after Matches returns. An instance must therefore
// not be evaluated from several goroutines at once.
package constraint

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/AndreyAkinshin/assay/pkg/equality"
	"github.com/AndreyAkinshin/assay/pkg/message"
	"github.com/AndreyAkinshin/assay/pkg/tolerance"
)

// Constraint is a node of the constraint tree.
type Constraint interface {
	// Matches evaluates the constraint. A non-nil error reports a defect,
	// such as values that cannot be compared, rather than a mismatch.
	Matches(actual any) (bool, error)
	// WriteDescriptionTo writes what the constraint expects.
	WriteDescriptionTo(w *message.Writer)
	// WriteActualValueTo writes the last evaluated actual value.
	WriteActualValueTo(w *message.Writer)
	// String returns the tag form of the tree, e.g. <and <greaterthan 40> <lessthan 50>>.
	String() string
}

// MessageWriterTo is implemented by constraints that render a richer
// failure message than the canonical Expected/But was lines.
type MessageWriterTo interface {
	WriteMessageTo(w *message.Writer)
}

// Settings are call-site defaults threaded into a constraint tree before
// evaluation.
type Settings struct {
	// DefaultTolerance applies to floating point equality when no explicit
	// tolerance was given.
	DefaultTolerance tolerance.Tolerance
}

// Configurable is implemented by constraints that honour Settings.
type Configurable interface {
	Configure(s Settings)
}

// Configure applies s to c and, through composite constraints, to every
// descendant.
func Configure(c Constraint, s Settings) {
	if cc, ok := c.(Configurable); ok {
		cc.Configure(s)
	}
}

// WriteMessage writes the failure message of an evaluated constraint.
func WriteMessage(c Constraint, w *message.Writer) {
	if m, ok := c.(MessageWriterTo); ok {
		m.WriteMessageTo(w)
		return
	}
	w.DisplayDifferences(c)
}

// Description returns the description of c as a string.
func Description(c Constraint) string {
	w := message.NewWriter()
	c.WriteDescriptionTo(w)
	return w.String()
}

// base caches the actual value of the last evaluation.
type base struct {
	actual any
}

func (b *base) WriteActualValueTo(w *message.Writer) {
	w.WriteActualValue(b.actual)
}

// prefix is embedded by constraints wrapping a single operand.
type prefix struct {
	base
	inner Constraint
}

func (p *prefix) Configure(s Settings) {
	Configure(p.inner, s)
}

// writeOperand writes the description of a wrapped operand. A bare value
// reads as "equal to" after a prefix such as "some item".
func writeOperand(w *message.Writer, c Constraint) {
	if _, ok := c.(*EqualConstraint); ok {
		w.WritePredicate("equal to")
	}
	c.WriteDescriptionTo(w)
}

// ident is a tag argument written without quotes, such as a property name.
type ident string

// tag renders the string form <name arg...>.
func tag(name string, args ...any) string {
	var sb strings.Builder
	sb.WriteString("<")
	sb.WriteString(name)
	for _, arg := range args {
		sb.WriteString(" ")
		sb.WriteString(displayable(arg))
	}
	sb.WriteString(">")
	return sb.String()
}

func displayable(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return `"` + x + `"`
	case Constraint:
		return x.String()
	case reflect.Type:
		return x.String()
	}
	if equality.IsNull(v) {
		return "null"
	}
	return fmt.Sprint(v)
}
