package constraint

import (
	"reflect"

	"github.com/AndreyAkinshin/assay/pkg/errors"
	"github.com/AndreyAkinshin/assay/pkg/message"
)

type typeKind int

const (
	exactType typeKind = iota
	instanceOf
	assignableFrom
	assignableTo
)

var typeNames = [...]struct{ predicate, tag string }{
	exactType:      {"", "typeof"},
	instanceOf:     {"instance of", "instanceof"},
	assignableFrom: {"assignable from", "assignablefrom"},
	assignableTo:   {"assignable to", "assignableto"},
}

// TypeConstraint tests the dynamic type of the actual value. A nil actual
// has no type and never matches.
type TypeConstraint struct {
	base
	kind     typeKind
	expected reflect.Type
}

func newTypeConstraint(kind typeKind, t reflect.Type) *TypeConstraint {
	if t == nil {
		panic(errors.ArgumentNull("type", "expected type must not be null"))
	}
	return &TypeConstraint{kind: kind, expected: t}
}

// ExactType matches values whose dynamic type is exactly t.
func ExactType(t reflect.Type) *TypeConstraint { return newTypeConstraint(exactType, t) }

// InstanceOf matches values usable as a t: the dynamic type equals t or,
// for an interface t, implements it.
func InstanceOf(t reflect.Type) *TypeConstraint { return newTypeConstraint(instanceOf, t) }

// AssignableFrom matches values to whose type a t is assignable.
func AssignableFrom(t reflect.Type) *TypeConstraint { return newTypeConstraint(assignableFrom, t) }

// AssignableTo matches values whose type is assignable to t.
func AssignableTo(t reflect.Type) *TypeConstraint { return newTypeConstraint(assignableTo, t) }

func (c *TypeConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	if actual == nil {
		return false, nil
	}
	at := reflect.TypeOf(actual)
	switch c.kind {
	case exactType:
		return at == c.expected, nil
	case assignableFrom:
		return c.expected.AssignableTo(at), nil
	default:
		return at.AssignableTo(c.expected), nil
	}
}

func (c *TypeConstraint) WriteDescriptionTo(w *message.Writer) {
	if p := typeNames[c.kind].predicate; p != "" {
		w.WritePredicate(p)
	}
	w.WriteExpectedValue(c.expected)
}

// WriteActualValueTo writes the dynamic type of the actual value.
func (c *TypeConstraint) WriteActualValueTo(w *message.Writer) {
	if c.actual == nil {
		w.WriteActualValue(nil)
		return
	}
	w.WriteActualValue(reflect.TypeOf(c.actual))
}

func (c *TypeConstraint) String() string {
	return tag(typeNames[c.kind].tag, c.expected)
}
