package constraint

import (
	"reflect"

	"github.com/AndreyAkinshin/assay/pkg/equality"
	"github.com/AndreyAkinshin/assay/pkg/errors"
	"github.com/AndreyAkinshin/assay/pkg/message"
)

func collectionItems(actual any) ([]any, error) {
	items, ok := equality.Items(actual)
	if !ok {
		if equality.IsNull(actual) {
			return nil, errors.ArgumentNull("actual", "the actual value must be a collection, got null")
		}
		return nil, errors.Argument("actual", "the actual value must be a collection, got %T", actual)
	}
	return items, nil
}

// AllItemsConstraint applies its operand to every item of a collection.
type AllItemsConstraint struct {
	prefix
	failIndex int
	failItem  any
}

// AllItems matches collections whose items all satisfy c.
func AllItems(c Constraint) *AllItemsConstraint {
	return &AllItemsConstraint{prefix: prefix{inner: c}, failIndex: -1}
}

func (c *AllItemsConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	c.failIndex, c.failItem = -1, nil
	items, err := collectionItems(actual)
	if err != nil {
		return false, err
	}
	for i, item := range items {
		ok, err := c.inner.Matches(item)
		if err != nil {
			return false, err
		}
		if !ok {
			c.failIndex, c.failItem = i, item
			return false, nil
		}
	}
	return true, nil
}

func (c *AllItemsConstraint) WriteDescriptionTo(w *message.Writer) {
	w.WritePredicate("all items")
	writeOperand(w, c.inner)
}

// WriteMessageTo appends the first item that did not match.
func (c *AllItemsConstraint) WriteMessageTo(w *message.Writer) {
	w.DisplayDifferences(c)
	if c.failIndex >= 0 {
		w.WriteMessageLine(0, "First non-matching item at index [%d]:  %s", c.failIndex, message.FormatValue(c.failItem))
	}
}

func (c *AllItemsConstraint) String() string { return tag("all", c.inner) }

// SomeItemsConstraint applies its operand to the items of a collection
// until one matches.
type SomeItemsConstraint struct{ prefix }

// SomeItems matches collections with at least one item satisfying c.
func SomeItems(c Constraint) *SomeItemsConstraint {
	return &SomeItemsConstraint{prefix{inner: c}}
}

func (c *SomeItemsConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	n, err := countMatches(c.inner, actual, 1)
	return n > 0, err
}

func (c *SomeItemsConstraint) WriteDescriptionTo(w *message.Writer) {
	w.WritePredicate("some item")
	writeOperand(w, c.inner)
}

func (c *SomeItemsConstraint) String() string { return tag("some", c.inner) }

// NoItemConstraint requires that no item of a collection satisfies its
// operand.
type NoItemConstraint struct{ prefix }

// NoItem matches collections without any item satisfying c.
func NoItem(c Constraint) *NoItemConstraint {
	return &NoItemConstraint{prefix{inner: c}}
}

func (c *NoItemConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	n, err := countMatches(c.inner, actual, 1)
	return n == 0 && err == nil, err
}

func (c *NoItemConstraint) WriteDescriptionTo(w *message.Writer) {
	w.WritePredicate("no item")
	writeOperand(w, c.inner)
}

func (c *NoItemConstraint) String() string { return tag("none", c.inner) }

// countMatches counts items satisfying c, stopping once limit is reached.
// A negative limit counts every item; a nil c counts items.
func countMatches(c Constraint, actual any, limit int) (int, error) {
	items, err := collectionItems(actual)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, item := range items {
		if c != nil {
			ok, err := c.Matches(item)
			if err != nil {
				return 0, err
			}
			if !ok {
				continue
			}
		}
		n++
		if limit >= 0 && n >= limit {
			break
		}
	}
	return n, nil
}

// ExactCountConstraint requires exactly n items to satisfy its operand.
// Without an operand it counts every item.
type ExactCountConstraint struct {
	prefix
	expected int
	count    int
}

// ExactCount matches collections with exactly n items satisfying c. A nil
// c matches collections of exactly n items. Zero means no item matches.
func ExactCount(n int, c Constraint) *ExactCountConstraint {
	if n < 0 {
		panic(errors.InvalidArgument("count", "expected count must not be negative, got %d", n))
	}
	return &ExactCountConstraint{prefix: prefix{inner: c}, expected: n}
}

func (c *ExactCountConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	n, err := countMatches(c.inner, actual, -1)
	c.count = n
	return n == c.expected && err == nil, err
}

func (c *ExactCountConstraint) WriteDescriptionTo(w *message.Writer) {
	switch c.expected {
	case 0:
		w.Write("no item")
	case 1:
		w.Write("exactly one item")
	default:
		w.Writef("exactly %d items", c.expected)
	}
	if c.inner != nil {
		w.Write(" ")
		writeOperand(w, c.inner)
	}
}

// WriteMessageTo reports how many items matched.
func (c *ExactCountConstraint) WriteMessageTo(w *message.Writer) {
	w.DisplayDifferences(c)
	if c.inner != nil {
		w.WriteMessageLine(0, "Matching items: %d", c.count)
	}
}

func (c *ExactCountConstraint) String() string {
	if c.inner == nil {
		return tag("exactcount", c.expected)
	}
	return tag("exactcount", c.expected, c.inner)
}

// ContainsConstraint matches collections containing an item equal to the
// expected value.
type ContainsConstraint struct {
	base
	equalityOptions
	expected any
}

// CollectionContains matches collections containing expected.
func CollectionContains(expected any) *ContainsConstraint {
	return &ContainsConstraint{expected: expected}
}

// IgnoreCase compares string items case-insensitively.
func (c *ContainsConstraint) IgnoreCase() *ContainsConstraint {
	c.setIgnoreCase()
	return c
}

// Using adds an external equality; see equality.Adapt.
func (c *ContainsConstraint) Using(f any) *ContainsConstraint {
	c.setUsing(f)
	return c
}

func (c *ContainsConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	items, err := collectionItems(actual)
	if err != nil {
		return false, err
	}
	for _, item := range items {
		ok, err := c.comparer.Equal(c.expected, item)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (c *ContainsConstraint) WriteDescriptionTo(w *message.Writer) {
	w.WritePredicate("collection containing")
	w.WriteExpectedValue(c.expected)
	c.writeModifiers(w)
}

func (c *ContainsConstraint) String() string { return tag("contains", c.expected) }

type setRelation int

const (
	equivalent setRelation = iota
	subset
	superset
)

var setNames = [...]struct{ predicate, tag string }{
	equivalent: {"equivalent to", "equivalent"},
	subset:     {"subset of", "subsetof"},
	superset:   {"superset of", "supersetof"},
}

// SetConstraint compares two collections as multisets: equivalence,
// subset or superset, under the configured equality.
type SetConstraint struct {
	base
	equalityOptions
	relation setRelation
	expected any
	result   equality.Equivalence
}

func newSetConstraint(r setRelation, expected any) *SetConstraint {
	if _, err := collectionItems(expected); err != nil {
		panic(errors.InvalidArgument("expected", "%s", err.Error()))
	}
	return &SetConstraint{relation: r, expected: expected}
}

// CollectionEquivalent matches collections holding the same items as
// expected in any order, with equal multiplicities.
func CollectionEquivalent(expected any) *SetConstraint {
	return newSetConstraint(equivalent, expected)
}

// CollectionSubset matches collections whose items all occur in expected.
func CollectionSubset(expected any) *SetConstraint {
	return newSetConstraint(subset, expected)
}

// CollectionSuperset matches collections containing every item of expected.
func CollectionSuperset(expected any) *SetConstraint {
	return newSetConstraint(superset, expected)
}

// IgnoreCase compares string items case-insensitively.
func (c *SetConstraint) IgnoreCase() *SetConstraint {
	c.setIgnoreCase()
	return c
}

// Using adds an external equality; see equality.Adapt.
func (c *SetConstraint) Using(f any) *SetConstraint {
	c.setUsing(f)
	return c
}

func (c *SetConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	c.result = equality.Equivalence{}
	items, err := collectionItems(actual)
	if err != nil {
		return false, err
	}
	expected, _ := equality.Items(c.expected)
	_, res, err := c.comparer.Equivalent(expected, items)
	if err != nil {
		return false, err
	}
	c.result = res
	switch c.relation {
	case subset:
		return len(res.Extra) == 0, nil
	case superset:
		return len(res.Missing) == 0, nil
	default:
		return len(res.Missing) == 0 && len(res.Extra) == 0, nil
	}
}

func (c *SetConstraint) WriteDescriptionTo(w *message.Writer) {
	w.WritePredicate(setNames[c.relation].predicate)
	w.WriteExpectedValue(c.expected)
	c.writeModifiers(w)
}

// WriteMessageTo lists the items without a counterpart.
func (c *SetConstraint) WriteMessageTo(w *message.Writer) {
	w.DisplayDifferences(c)
	if c.relation != subset && len(c.result.Missing) > 0 {
		w.WriteMessageLine(0, "Missing (%d): %s", len(c.result.Missing), message.FormatCollection(c.result.Missing, 0, message.DefaultMaxItems))
	}
	if c.relation != superset && len(c.result.Extra) > 0 {
		w.WriteMessageLine(0, "Extra (%d): %s", len(c.result.Extra), message.FormatCollection(c.result.Extra, 0, message.DefaultMaxItems))
	}
}

func (c *SetConstraint) String() string {
	return tag(setNames[c.relation].tag, c.expected)
}

// OrderedConstraint matches collections sorted ascending, or descending
// when requested, optionally by a property of each item.
type OrderedConstraint struct {
	base
	orderingOptions
	descending bool
	by         string
	intro      Introspector
	breakIndex int
	breakItem  any
}

// Ordered matches sorted collections.
func Ordered() *OrderedConstraint {
	return &OrderedConstraint{intro: DefaultIntrospector, breakIndex: -1}
}

// Descending requires non-increasing order.
func (c *OrderedConstraint) Descending() *OrderedConstraint {
	c.setDescending()
	return c
}

// By orders items by the named property.
func (c *OrderedConstraint) By(name string) *OrderedConstraint {
	c.setBy(name)
	return c
}

// Using orders items with f; see equality.Adapt.
func (c *OrderedConstraint) Using(f any) *OrderedConstraint {
	c.setUsing(f)
	return c
}

// WithIntrospector reads By properties through intro.
func (c *OrderedConstraint) WithIntrospector(intro Introspector) *OrderedConstraint {
	c.intro = intro
	return c
}

func (c *OrderedConstraint) setDescending() {
	if c.descending {
		panic(errors.InvalidOperation("Descending modifier may appear only once"))
	}
	c.descending = true
}

func (c *OrderedConstraint) setBy(name string) {
	if c.by != "" {
		panic(errors.InvalidOperation("By modifier may appear only once, already ordered by %q", c.by))
	}
	if name == "" {
		panic(errors.InvalidArgument("name", "property name must not be empty"))
	}
	c.by = name
}

func (c *OrderedConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	c.breakIndex, c.breakItem = -1, nil
	items, err := collectionItems(actual)
	if err != nil {
		return false, err
	}
	keys := items
	if c.by != "" {
		keys = make([]any, len(items))
		for i, item := range items {
			v, ok := c.intro.Property(item, c.by)
			if !ok {
				return false, errors.Argument("actual", "item at index %d has no property %q", i, c.by)
			}
			keys[i] = v
		}
	}
	i, err := equality.CheckOrdered(keys, c.compare, c.descending)
	if err != nil {
		return false, err
	}
	if i >= 0 {
		c.breakIndex, c.breakItem = i, items[i]
		return false, nil
	}
	return true, nil
}

func (c *OrderedConstraint) WriteDescriptionTo(w *message.Writer) {
	w.Write("collection ordered")
	if c.by != "" {
		w.Write(" by ")
		w.WriteExpectedValue(c.by)
	}
	if c.descending {
		w.WriteModifier("descending")
	}
}

// WriteMessageTo appends the item that breaks the order.
func (c *OrderedConstraint) WriteMessageTo(w *message.Writer) {
	w.DisplayDifferences(c)
	if c.breakIndex >= 0 {
		w.WriteMessageLine(0, "Ordering breaks at index [%d]:  %s", c.breakIndex, message.FormatValue(c.breakItem))
	}
}

func (c *OrderedConstraint) String() string {
	switch {
	case c.by != "" && c.descending:
		return tag("orderedby", ident(c.by), ident("descending"))
	case c.by != "":
		return tag("orderedby", ident(c.by))
	case c.descending:
		return tag("ordered", ident("descending"))
	}
	return tag("ordered")
}

// UniqueConstraint matches collections without duplicate items.
type UniqueConstraint struct {
	base
	equalityOptions
	duplicates []any
}

// Unique matches collections whose items are pairwise distinct.
func Unique() *UniqueConstraint { return &UniqueConstraint{} }

// IgnoreCase compares string items case-insensitively.
func (c *UniqueConstraint) IgnoreCase() *UniqueConstraint {
	c.setIgnoreCase()
	return c
}

// Using adds an external equality; see equality.Adapt.
func (c *UniqueConstraint) Using(f any) *UniqueConstraint {
	c.setUsing(f)
	return c
}

func (c *UniqueConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	c.duplicates = nil
	items, err := collectionItems(actual)
	if err != nil {
		return false, err
	}
	seen := make([]bool, len(items))
	for i := range items {
		if seen[i] {
			continue
		}
		dup := false
		for j := i + 1; j < len(items); j++ {
			if seen[j] {
				continue
			}
			eq, err := c.comparer.Equal(items[i], items[j])
			if err != nil {
				return false, err
			}
			if eq {
				seen[j], dup = true, true
			}
		}
		if dup {
			c.duplicates = append(c.duplicates, items[i])
		}
	}
	return len(c.duplicates) == 0, nil
}

func (c *UniqueConstraint) WriteDescriptionTo(w *message.Writer) {
	w.Write("all items unique")
	c.writeModifiers(w)
}

// WriteMessageTo lists the duplicated items.
func (c *UniqueConstraint) WriteMessageTo(w *message.Writer) {
	w.DisplayDifferences(c)
	if len(c.duplicates) > 0 {
		w.WriteMessageLine(0, "Not unique items: %s", message.FormatCollection(c.duplicates, 0, message.DefaultMaxItems))
	}
}

func (c *UniqueConstraint) String() string { return tag("uniqueitems") }

// MapConstraint matches maps containing a key or a value equal to the
// expected one.
type MapConstraint struct {
	base
	equalityOptions
	expected any
	values   bool
}

// MapContainsKey matches maps with a key equal to key.
func MapContainsKey(key any) *MapConstraint {
	return &MapConstraint{expected: key}
}

// MapContainsValue matches maps with a value equal to value.
func MapContainsValue(value any) *MapConstraint {
	return &MapConstraint{expected: value, values: true}
}

// IgnoreCase compares string keys or values case-insensitively.
func (c *MapConstraint) IgnoreCase() *MapConstraint {
	c.setIgnoreCase()
	return c
}

// Using adds an external equality; see equality.Adapt.
func (c *MapConstraint) Using(f any) *MapConstraint {
	c.setUsing(f)
	return c
}

func (c *MapConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	rv := reflect.ValueOf(actual)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Map {
		if equality.IsNull(actual) {
			return false, errors.ArgumentNull("actual", "the actual value must be a map, got null")
		}
		return false, errors.Argument("actual", "the actual value must be a map, got %T", actual)
	}
	iter := rv.MapRange()
	for iter.Next() {
		v := iter.Key()
		if c.values {
			v = iter.Value()
		}
		ok, err := c.comparer.Equal(c.expected, v.Interface())
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (c *MapConstraint) WriteDescriptionTo(w *message.Writer) {
	if c.values {
		w.WritePredicate("map containing value")
	} else {
		w.WritePredicate("map containing key")
	}
	w.WriteExpectedValue(c.expected)
	c.writeModifiers(w)
}

func (c *MapConstraint) String() string {
	if c.values {
		return tag("containsvalue", c.expected)
	}
	return tag("containskey", c.expected)
}
