// Package contains starts containment constraint expressions for
// collections, maps and strings.
package contains

import "github.com/AndreyAkinshin/assay/pkg/constraint"

// Item matches collections holding an item equal to expected.
func Item(expected any) *constraint.Expression {
	return constraint.NewExpression().Contains(expected)
}

// Substring matches strings containing s.
func Substring(s string) *constraint.Expression {
	return constraint.NewExpression().Substring(s)
}

// Key matches maps with a key equal to key.
func Key(key any) *constraint.Expression {
	return constraint.NewExpression().ContainsKey(key)
}

// Value matches maps with a value equal to value.
func Value(value any) *constraint.Expression {
	return constraint.NewExpression().ContainsValue(value)
}
