// Package throws starts constraint expressions about the error raised by a
// function. The actual value must be a func(), func() error or
// func() (T, error); returned errors and panics both count as raised.
//
//	assert.That(t, fn, throws.TypeOf[*fs.PathError]())
//	assert.That(t, fn, throws.Error().With().Property("Error").EqualTo("boom"))
package throws

import (
	"reflect"

	"github.com/AndreyAkinshin/assay/pkg/constraint"
)

var errorType = reflect.TypeFor[error]()

// Error matches functions raising any error. Chain With to constrain it.
func Error() *constraint.Expression {
	return constraint.NewExpression().Throws().InstanceOf(errorType)
}

// Nothing matches functions that raise no error.
func Nothing() *constraint.Expression {
	return constraint.NewExpression().Matching(constraint.ThrowsNothing())
}

// TypeOf matches functions raising an error of exactly type T.
func TypeOf[T error]() *constraint.Expression {
	return constraint.NewExpression().Throws().TypeOf(reflect.TypeFor[T]())
}

// InstanceOf matches functions raising an error usable as a T.
func InstanceOf[T error]() *constraint.Expression {
	return constraint.NewExpression().Throws().InstanceOf(reflect.TypeFor[T]())
}

// ErrorIs matches functions raising an error that wraps target.
func ErrorIs(target error) *constraint.Expression {
	return constraint.NewExpression().Throws().ErrorIs(target)
}

// ErrorAs matches functions raising an error whose chain holds a T.
func ErrorAs[T error]() *constraint.Expression {
	return constraint.NewExpression().Throws().ErrorAs(reflect.TypeFor[T]())
}

// Matching applies c to the raised error.
func Matching(c constraint.Constraint) *constraint.Expression {
	return constraint.NewExpression().Throws().Matching(c)
}
