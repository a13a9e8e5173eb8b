package constraint

import (
	"reflect"

	"github.com/AndreyAkinshin/assay/pkg/equality"
	"github.com/AndreyAkinshin/assay/pkg/errors"
	"github.com/AndreyAkinshin/assay/pkg/message"
)

// Introspector reads properties and declarative markers of values. It is
// the only way constraints look inside arbitrary objects, so tests can
// substitute their own.
type Introspector interface {
	// Property returns the named property of obj.
	Property(obj any, name string) (any, bool)
	// HasMarker reports whether obj carries the named marker.
	HasMarker(obj any, name string) bool
	// Marker returns the named marker of obj.
	Marker(obj any, name string) (any, bool)
}

// Marked is implemented by values that declare markers. A marker is named
// by its type name, e.g. Deprecated for a value of type Deprecated or
// *Deprecated.
type Marked interface {
	Markers() []any
}

// DefaultIntrospector reads exported struct fields and niladic methods, and
// markers declared through Marked.
var DefaultIntrospector Introspector = reflectIntrospector{}

type reflectIntrospector struct{}

// Property resolves a method first, so pointer-receiver methods are found
// through a pointer, then an exported field of the dereferenced struct. A
// method may return (T) or (T, error); a non-nil error means not found.
func (reflectIntrospector) Property(obj any, name string) (any, bool) {
	if equality.IsNull(obj) || name == "" {
		return nil, false
	}
	rv := reflect.ValueOf(obj)
	for {
		indirect := rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface
		if indirect && rv.IsNil() {
			return nil, false
		}
		if v, ok := callGetter(rv, name); ok {
			return v, true
		}
		if !indirect {
			break
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false
	}
	sf, ok := rv.Type().FieldByName(name)
	if !ok || !sf.IsExported() {
		return nil, false
	}
	f, err := rv.FieldByIndexErr(sf.Index)
	if err != nil {
		return nil, false
	}
	return valueOrNil(f), true
}

func callGetter(rv reflect.Value, name string) (any, bool) {
	m := rv.MethodByName(name)
	if !m.IsValid() {
		return nil, false
	}
	mt := m.Type()
	if mt.NumIn() != 0 {
		return nil, false
	}
	switch mt.NumOut() {
	case 1:
		return valueOrNil(m.Call(nil)[0]), true
	case 2:
		if mt.Out(1) != errorType {
			return nil, false
		}
		out := m.Call(nil)
		if !out[1].IsNil() {
			return nil, false
		}
		return valueOrNil(out[0]), true
	}
	return nil, false
}

func valueOrNil(v reflect.Value) any {
	if v.Kind() == reflect.Interface && v.IsNil() {
		return nil
	}
	return v.Interface()
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func (r reflectIntrospector) HasMarker(obj any, name string) bool {
	_, ok := r.Marker(obj, name)
	return ok
}

func (reflectIntrospector) Marker(obj any, name string) (any, bool) {
	m, ok := obj.(Marked)
	if !ok || equality.IsNull(obj) {
		return nil, false
	}
	for _, marker := range m.Markers() {
		if marker == nil {
			continue
		}
		t := reflect.TypeOf(marker)
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t.Name() == name || t.String() == name {
			return marker, true
		}
	}
	return nil, false
}

// PropertyConstraint applies its operand to a named property of the actual
// value. A missing property is an Argument error.
type PropertyConstraint struct {
	prefix
	name  string
	intro Introspector
	value any
	found bool
}

// Property matches values whose named property satisfies c.
func Property(name string, c Constraint) *PropertyConstraint {
	return &PropertyConstraint{prefix: prefix{inner: c}, name: name, intro: DefaultIntrospector}
}

// WithIntrospector reads the property through intro.
func (c *PropertyConstraint) WithIntrospector(intro Introspector) *PropertyConstraint {
	c.intro = intro
	return c
}

func (c *PropertyConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	v, ok := c.intro.Property(actual, c.name)
	c.value, c.found = v, ok
	if !ok {
		if equality.IsNull(actual) {
			return false, errors.ArgumentNull("actual", "cannot read property %s of null", c.name)
		}
		return false, errors.Argument("actual", "property %s was not found on %T", c.name, actual)
	}
	return c.inner.Matches(v)
}

func (c *PropertyConstraint) WriteDescriptionTo(w *message.Writer) {
	w.WritePredicate("property " + c.name)
	writeOperand(w, c.inner)
}

func (c *PropertyConstraint) WriteActualValueTo(w *message.Writer) {
	if c.found {
		c.inner.WriteActualValueTo(w)
		return
	}
	w.WriteActualValue(c.actual)
}

func (c *PropertyConstraint) String() string { return tag("property", ident(c.name), c.inner) }

// PropertyExistsConstraint matches values exposing a named property.
type PropertyExistsConstraint struct {
	base
	name  string
	intro Introspector
}

// PropertyExists matches values that have the named property.
func PropertyExists(name string) *PropertyExistsConstraint {
	return &PropertyExistsConstraint{name: name, intro: DefaultIntrospector}
}

// WithIntrospector reads the property through intro.
func (c *PropertyExistsConstraint) WithIntrospector(intro Introspector) *PropertyExistsConstraint {
	c.intro = intro
	return c
}

func (c *PropertyExistsConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	if equality.IsNull(actual) {
		return false, errors.ArgumentNull("actual", "cannot read property %s of null", c.name)
	}
	_, ok := c.intro.Property(actual, c.name)
	return ok, nil
}

func (c *PropertyExistsConstraint) WriteDescriptionTo(w *message.Writer) {
	w.Write("property " + c.name)
}

// WriteActualValueTo writes the type of the actual value.
func (c *PropertyExistsConstraint) WriteActualValueTo(w *message.Writer) {
	w.WriteActualValue(reflect.TypeOf(c.actual))
}

func (c *PropertyExistsConstraint) String() string { return tag("propertyexists", ident(c.name)) }

// LengthConstraint applies its operand to the length of a string, map,
// channel or collection.
type LengthConstraint struct {
	prefix
	name string
}

// Length matches values whose length satisfies c.
func Length(c Constraint) *LengthConstraint {
	return &LengthConstraint{prefix: prefix{inner: c}, name: "Length"}
}

// Count matches collections whose item count satisfies c.
func Count(c Constraint) *LengthConstraint {
	return &LengthConstraint{prefix: prefix{inner: c}, name: "Count"}
}

func (c *LengthConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	n, ok := equality.Len(actual)
	if !ok {
		return false, errors.Argument("actual", "%s has no %s", typeOrNull(actual), c.name)
	}
	return c.inner.Matches(n)
}

func (c *LengthConstraint) WriteDescriptionTo(w *message.Writer) {
	w.WritePredicate("property " + c.name)
	writeOperand(w, c.inner)
}

func (c *LengthConstraint) WriteActualValueTo(w *message.Writer) {
	c.inner.WriteActualValueTo(w)
}

func (c *LengthConstraint) String() string {
	return tag("property", ident(c.name), c.inner)
}

// AttributeConstraint applies its operand to a named marker of the actual
// value. A missing marker is an Argument error.
type AttributeConstraint struct {
	prefix
	name  string
	intro Introspector
}

// Attribute matches values carrying the named marker, which satisfies c.
func Attribute(name string, c Constraint) *AttributeConstraint {
	return &AttributeConstraint{prefix: prefix{inner: c}, name: name, intro: DefaultIntrospector}
}

// WithIntrospector reads markers through intro.
func (c *AttributeConstraint) WithIntrospector(intro Introspector) *AttributeConstraint {
	c.intro = intro
	return c
}

func (c *AttributeConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	m, ok := c.intro.Marker(actual, c.name)
	if !ok {
		return false, errors.Argument("actual", "marker %s was not found on %s", c.name, typeOrNull(actual))
	}
	return c.inner.Matches(m)
}

func (c *AttributeConstraint) WriteDescriptionTo(w *message.Writer) {
	w.WritePredicate("attribute " + c.name)
	writeOperand(w, c.inner)
}

func (c *AttributeConstraint) WriteActualValueTo(w *message.Writer) {
	c.inner.WriteActualValueTo(w)
}

func (c *AttributeConstraint) String() string { return tag("attribute", ident(c.name), c.inner) }

// AttributeExistsConstraint matches values carrying a named marker.
type AttributeExistsConstraint struct {
	base
	name  string
	intro Introspector
}

// AttributeExists matches values carrying the named marker.
func AttributeExists(name string) *AttributeExistsConstraint {
	return &AttributeExistsConstraint{name: name, intro: DefaultIntrospector}
}

// WithIntrospector reads markers through intro.
func (c *AttributeExistsConstraint) WithIntrospector(intro Introspector) *AttributeExistsConstraint {
	c.intro = intro
	return c
}

func (c *AttributeExistsConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	return c.intro.HasMarker(actual, c.name), nil
}

func (c *AttributeExistsConstraint) WriteDescriptionTo(w *message.Writer) {
	w.Write("type with attribute " + c.name)
}

// WriteActualValueTo writes the type of the actual value.
func (c *AttributeExistsConstraint) WriteActualValueTo(w *message.Writer) {
	if c.actual == nil {
		w.WriteActualValue(nil)
		return
	}
	w.WriteActualValue(reflect.TypeOf(c.actual))
}

func (c *AttributeExistsConstraint) String() string { return tag("attributeexists", ident(c.name)) }

// introspective is implemented by constraints whose introspector the
// builder can replace.
type introspective interface {
	setIntrospector(intro Introspector)
}

func (c *PropertyConstraint) setIntrospector(intro Introspector)        { c.intro = intro }
func (c *PropertyExistsConstraint) setIntrospector(intro Introspector)  { c.intro = intro }
func (c *AttributeConstraint) setIntrospector(intro Introspector)       { c.intro = intro }
func (c *AttributeExistsConstraint) setIntrospector(intro Introspector) { c.intro = intro }
func (c *OrderedConstraint) setIntrospector(intro Introspector)         { c.intro = intro }
