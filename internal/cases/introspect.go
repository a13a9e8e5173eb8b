package cases

import "github.com/AndreyAkinshin/assay/pkg/constraint"

// DocumentIntrospector reads properties of decoded mappings by key and
// falls back to constraint.DefaultIntrospector for Go values.
var DocumentIntrospector constraint.Introspector = documentIntrospector{}

type documentIntrospector struct{}

func (documentIntrospector) Property(obj any, name string) (any, bool) {
	if m, ok := obj.(map[string]any); ok {
		v, ok := m[name]
		return v, ok
	}
	return constraint.DefaultIntrospector.Property(obj, name)
}

func (documentIntrospector) HasMarker(obj any, name string) bool {
	return constraint.DefaultIntrospector.HasMarker(obj, name)
}

func (documentIntrospector) Marker(obj any, name string) (any, bool) {
	return constraint.DefaultIntrospector.Marker(obj, name)
}
