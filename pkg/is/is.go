// Package is starts constraint expressions about the actual value itself:
//
//	assert.That(t, x, is.GreaterThan(40).And().LessThan(50))
//	assert.That(t, s, is.Not().Empty())
package is

import (
	"reflect"

	"github.com/AndreyAkinshin/assay/pkg/constraint"
)

func expr() *constraint.Expression { return constraint.NewExpression() }

// Not negates the constraint that follows.
func Not() *constraint.Expression { return expr().Not() }

// All applies the constraint that follows to every item.
func All() *constraint.Expression { return expr().All() }

func EqualTo(expected any) *constraint.Expression { return expr().EqualTo(expected) }
func SameAs(expected any) *constraint.Expression  { return expr().SameAs(expected) }

func GreaterThan(expected any) *constraint.Expression { return expr().GreaterThan(expected) }

func GreaterThanOrEqualTo(expected any) *constraint.Expression {
	return expr().GreaterThanOrEqualTo(expected)
}

func LessThan(expected any) *constraint.Expression { return expr().LessThan(expected) }

func LessThanOrEqualTo(expected any) *constraint.Expression {
	return expr().LessThanOrEqualTo(expected)
}

func AtLeast(expected any) *constraint.Expression { return expr().AtLeast(expected) }
func AtMost(expected any) *constraint.Expression  { return expr().AtMost(expected) }

// InRange matches values between from and to inclusive.
func InRange(from, to any) *constraint.Expression { return expr().InRange(from, to) }

func Null() *constraint.Expression     { return expr().Null() }
func True() *constraint.Expression     { return expr().True() }
func False() *constraint.Expression    { return expr().False() }
func NaN() *constraint.Expression      { return expr().NaN() }
func Empty() *constraint.Expression    { return expr().Empty() }
func Zero() *constraint.Expression     { return expr().Zero() }
func Positive() *constraint.Expression { return expr().Positive() }
func Negative() *constraint.Expression { return expr().Negative() }

// TypeOf matches values whose dynamic type is exactly T.
func TypeOf[T any]() *constraint.Expression { return expr().TypeOf(reflect.TypeFor[T]()) }

// InstanceOf matches values usable as a T.
func InstanceOf[T any]() *constraint.Expression { return expr().InstanceOf(reflect.TypeFor[T]()) }

func AssignableFrom[T any]() *constraint.Expression {
	return expr().AssignableFrom(reflect.TypeFor[T]())
}

func AssignableTo[T any]() *constraint.Expression {
	return expr().AssignableTo(reflect.TypeFor[T]())
}

func StartingWith(s string) *constraint.Expression { return expr().StartsWith(s) }
func EndingWith(s string) *constraint.Expression   { return expr().EndsWith(s) }

// MatchingRegex matches strings containing a match of pattern.
func MatchingRegex(pattern string) *constraint.Expression { return expr().MatchesRegex(pattern) }

func Unique() *constraint.Expression  { return expr().Unique() }
func Ordered() *constraint.Expression { return expr().Ordered() }

func SubsetOf(expected any) *constraint.Expression     { return expr().SubsetOf(expected) }
func SupersetOf(expected any) *constraint.Expression   { return expr().SupersetOf(expected) }
func EquivalentTo(expected any) *constraint.Expression { return expr().EquivalentTo(expected) }

// Satisfying matches values accepted by fn, a func(T) bool.
func Satisfying(fn any, description string) *constraint.Expression {
	return expr().Satisfies(fn, description)
}
