package cases

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AndreyAkinshin/assay/pkg/constraint"
	"github.com/AndreyAkinshin/assay/pkg/errors"
)

type step = func(*constraint.Expression) *constraint.Expression

var prefixKeys = map[string]step{
	"not":    (*constraint.Expression).Not,
	"all":    (*constraint.Expression).All,
	"some":   (*constraint.Expression).Some,
	"none":   (*constraint.Expression).None,
	"length": (*constraint.Expression).Length,
	"count":  (*constraint.Expression).Count,
}

var flagKeys = map[string]step{
	"null":     (*constraint.Expression).Null,
	"true":     (*constraint.Expression).True,
	"false":    (*constraint.Expression).False,
	"nan":      (*constraint.Expression).NaN,
	"empty":    (*constraint.Expression).Empty,
	"zero":     (*constraint.Expression).Zero,
	"positive": (*constraint.Expression).Positive,
	"negative": (*constraint.Expression).Negative,
	"unique":   (*constraint.Expression).Unique,
	"ordered":  (*constraint.Expression).Ordered,
}

var valueKeys = map[string]func(*constraint.Expression, any) *constraint.Expression{
	"equalTo":              (*constraint.Expression).EqualTo,
	"greaterThan":          (*constraint.Expression).GreaterThan,
	"greaterThanOrEqualTo": (*constraint.Expression).GreaterThanOrEqualTo,
	"lessThan":             (*constraint.Expression).LessThan,
	"lessThanOrEqualTo":    (*constraint.Expression).LessThanOrEqualTo,
	"atLeast":              (*constraint.Expression).AtLeast,
	"atMost":               (*constraint.Expression).AtMost,
	"contains":             (*constraint.Expression).Contains,
	"containsKey":          (*constraint.Expression).ContainsKey,
	"containsValue":        (*constraint.Expression).ContainsValue,
	"subsetOf":             (*constraint.Expression).SubsetOf,
	"supersetOf":           (*constraint.Expression).SupersetOf,
	"equivalentTo":         (*constraint.Expression).EquivalentTo,
}

var stringKeys = map[string]func(*constraint.Expression, string) *constraint.Expression{
	"substring":  (*constraint.Expression).Substring,
	"startsWith": (*constraint.Expression).StartsWith,
	"endsWith":   (*constraint.Expression).EndsWith,
	"matches":    (*constraint.Expression).MatchesRegex,
}

var typeKeys = map[string]func(*constraint.Expression, reflect.Type) *constraint.Expression{
	"typeOf":     (*constraint.Expression).TypeOf,
	"instanceOf": (*constraint.Expression).InstanceOf,
}

// TypeNames maps the type names accepted by typeOf and instanceOf to the
// Go types case values decode to.
var TypeNames = map[string]reflect.Type{
	"bool":     reflect.TypeFor[bool](),
	"int":      reflect.TypeFor[int](),
	"int64":    reflect.TypeFor[int64](),
	"uint64":   reflect.TypeFor[uint64](),
	"float64":  reflect.TypeFor[float64](),
	"string":   reflect.TypeFor[string](),
	"decimal":  reflect.TypeFor[decimal.Decimal](),
	"time":     reflect.TypeFor[time.Time](),
	"duration": reflect.TypeFor[time.Duration](),
	"list":     reflect.TypeFor[[]any](),
	"map":      reflect.TypeFor[map[string]any](),
	"error":    reflect.TypeFor[error](),
}

// Modifiers in the order they are applied.
var modifierKeys = []string{"within", "percent", "ulps", "ignoreCase", "asCollection", "noClip", "descending", "by"}

// Keys that complete an operator rather than stand alone.
var operandKeys = map[string]string{"items": "exactly", "is": "property"}

// Build turns a constraint document into a constraint. Misuse of the
// builder, such as a modifier that does not fit its constraint, is returned
// as an error rather than a panic.
func Build(doc map[string]any) (c constraint.Constraint, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok && isAssayError(e) {
				c, err = nil, e
				return
			}
			panic(r)
		}
	}()
	return build(doc)
}

func isAssayError(err error) bool {
	_, ok := errors.KindOf(err)
	return ok
}

func build(doc map[string]any) (constraint.Constraint, error) {
	key, err := operatorKey(doc)
	if err != nil {
		return nil, err
	}
	for k, op := range operandKeys {
		if _, ok := doc[k]; ok && key != op {
			return nil, invalid("%q is only allowed with %q", k, op)
		}
	}

	e := constraint.NewExpression().WithIntrospector(DocumentIntrospector)
	v := doc[key]

	switch {
	case prefixKeys[key] != nil:
		inner, err := buildChild(key, v)
		if err != nil {
			return nil, err
		}
		prefixKeys[key](e).Matching(inner)
	case flagKeys[key] != nil:
		if v != true {
			return nil, invalid("%q must be true", key)
		}
		flagKeys[key](e)
	case valueKeys[key] != nil:
		valueKeys[key](e, v)
	case stringKeys[key] != nil:
		s, ok := v.(string)
		if !ok {
			return nil, invalid("%q takes a string, got %T", key, v)
		}
		stringKeys[key](e, s)
	case typeKeys[key] != nil:
		name, _ := v.(string)
		t, ok := TypeNames[name]
		if !ok {
			return nil, invalid("%q takes a type name, got %v", key, v)
		}
		typeKeys[key](e, t)
	default:
		if err := buildSpecial(e, key, doc); err != nil {
			return nil, err
		}
	}

	if err := applyModifiers(e, doc); err != nil {
		return nil, err
	}
	return e.Resolve()
}

func buildSpecial(e *constraint.Expression, key string, doc map[string]any) error {
	v := doc[key]
	switch key {
	case "inRange":
		bounds, ok := v.([]any)
		if !ok || len(bounds) != 2 {
			return invalid("%q takes [from, to]", key)
		}
		e.InRange(bounds[0], bounds[1])
	case "exactly":
		n, ok := v.(int)
		if !ok || n < 0 {
			return invalid("%q takes a non-negative integer, got %v", key, v)
		}
		items, ok := doc["items"]
		if !ok {
			e.Matching(constraint.ExactCount(n, nil))
			return nil
		}
		inner, err := buildChild("items", items)
		if err != nil {
			return err
		}
		e.Exactly(n).Matching(inner)
	case "property":
		name, ok := v.(string)
		if !ok || name == "" {
			return invalid("%q takes a property name", key)
		}
		e.Property(name)
		if is, ok := doc["is"]; ok {
			inner, err := buildChild("is", is)
			if err != nil {
				return err
			}
			e.Matching(inner)
		}
	case "and", "or":
		list, ok := v.([]any)
		if !ok || len(list) < 2 {
			return invalid("%q takes a list of at least two constraints", key)
		}
		for i, item := range list {
			inner, err := buildChild(fmt.Sprintf("%s[%d]", key, i), item)
			if err != nil {
				return err
			}
			if i > 0 {
				if key == "and" {
					e.And()
				} else {
					e.Or()
				}
			}
			e.Matching(inner)
		}
	}
	return nil
}

func buildChild(key string, v any) (constraint.Constraint, error) {
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, invalid("%q takes a constraint, got %T", key, v)
	}
	c, err := build(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return c, nil
}

// operatorKey returns the single key of doc that names a constraint or an
// operator.
func operatorKey(doc map[string]any) (string, error) {
	var found []string
	for k := range doc {
		if isOperatorKey(k) {
			found = append(found, k)
		} else if !isModifierKey(k) && operandKeys[k] == "" {
			return "", invalid("unknown key %q", k)
		}
	}
	sort.Strings(found)
	switch len(found) {
	case 0:
		return "", invalid("no constraint given")
	case 1:
		return found[0], nil
	}
	return "", invalid("one constraint per document, got %s; join them with and/or", strings.Join(found, ", "))
}

func isOperatorKey(k string) bool {
	switch k {
	case "inRange", "exactly", "property", "and", "or":
		return true
	}
	return prefixKeys[k] != nil || flagKeys[k] != nil || valueKeys[k] != nil ||
		stringKeys[k] != nil || typeKeys[k] != nil
}

func isModifierKey(k string) bool {
	for _, m := range modifierKeys {
		if k == m {
			return true
		}
	}
	return false
}

func applyModifiers(e *constraint.Expression, doc map[string]any) error {
	for _, key := range modifierKeys {
		v, ok := doc[key]
		if !ok {
			continue
		}
		switch key {
		case "within":
			e.Within(v)
		case "by":
			name, ok := v.(string)
			if !ok {
				return invalid("%q takes a property name", key)
			}
			e.By(name)
		default:
			on, ok := v.(bool)
			if !ok {
				return invalid("%q takes a boolean, got %T", key, v)
			}
			if !on {
				continue
			}
			switch key {
			case "percent":
				e.Percent()
			case "ulps":
				e.Ulps()
			case "ignoreCase":
				e.IgnoreCase()
			case "asCollection":
				e.AsCollection()
			case "noClip":
				e.NoClip()
			case "descending":
				e.Descending()
			}
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.InvalidOperation(format, args...)
}
