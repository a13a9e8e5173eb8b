// Package has starts constraint expressions about the members, items and
// properties of the actual value:
//
//	assert.That(t, users, has.Some().Property("Admin").True())
package has

import "github.com/AndreyAkinshin/assay/pkg/constraint"

func expr() *constraint.Expression { return constraint.NewExpression() }

func All() *constraint.Expression  { return expr().All() }
func Some() *constraint.Expression { return expr().Some() }
func None() *constraint.Expression { return expr().None() }

// Exactly requires n items to satisfy the constraint that follows.
func Exactly(n int) *constraint.Expression { return expr().Exactly(n) }

// One requires exactly one item to satisfy the constraint that follows.
func One() *constraint.Expression { return expr().Exactly(1) }

// Property applies the constraint that follows to the named property, or
// requires the property to exist when nothing follows.
func Property(name string) *constraint.Expression { return expr().Property(name) }

// Attribute applies the constraint that follows to the named marker, or
// requires the marker when nothing follows.
func Attribute(name string) *constraint.Expression { return expr().Attribute(name) }

func Length() *constraint.Expression { return expr().Length() }
func Count() *constraint.Expression  { return expr().Count() }

// Member matches collections containing expected.
func Member(expected any) *constraint.Expression { return expr().Member(expected) }

// Key matches maps with a key equal to key.
func Key(key any) *constraint.Expression { return expr().ContainsKey(key) }

// Value matches maps with a value equal to value.
func Value(value any) *constraint.Expression { return expr().ContainsValue(value) }
