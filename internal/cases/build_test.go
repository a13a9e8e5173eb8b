package cases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreyAkinshin/assay/pkg/constraint"
	"github.com/AndreyAkinshin/assay/pkg/errors"
)

type doc = map[string]any

func TestBuildMatchesDirectConstruction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  doc
		want constraint.Constraint
	}{
		{"equal", doc{"equalTo": 5}, constraint.Equal(5)},
		{"not", doc{"not": doc{"equalTo": 5}}, constraint.Not(constraint.Equal(5))},
		{"and", doc{"and": []any{doc{"greaterThan": 40}, doc{"lessThan": 50}}},
			constraint.And(constraint.GreaterThan(40), constraint.LessThan(50))},
		{"or of three", doc{"or": []any{doc{"null": true}, doc{"empty": true}, doc{"zero": true}}},
			constraint.NewExpression().Null().Or().Empty().Or().Zero()},
		{"all", doc{"all": doc{"positive": true}}, constraint.AllItems(constraint.GreaterThan(0))},
		{"none", doc{"none": doc{"negative": true}}, constraint.NoItem(constraint.LessThan(0))},
		{"length", doc{"length": doc{"atMost": 3}}, constraint.Length(constraint.LessThanOrEqual(3))},
		{"exactly", doc{"exactly": 2}, constraint.ExactCount(2, nil)},
		{"exactly items", doc{"exactly": 2, "items": doc{"zero": true}}, constraint.ExactCount(2, constraint.Equal(0))},
		{"property exists", doc{"property": "Name"}, constraint.PropertyExists("Name")},
		{"property", doc{"property": "Name", "is": doc{"equalTo": "x"}}, constraint.Property("Name", constraint.Equal("x"))},
		{"range", doc{"inRange": []any{1, 5}}, constraint.Range(1, 5)},
		{"regex", doc{"matches": "^a+$"}, constraint.Regex("^a+$")},
		{"type", doc{"typeOf": "decimal"}, constraint.ExactType(TypeNames["decimal"])},
		{"ordered", doc{"ordered": true, "descending": true}, constraint.Ordered().Descending()},
		{"ordered by", doc{"ordered": true, "by": "name"}, constraint.Ordered().By("name")},
		{"equivalent", doc{"equivalentTo": []any{1, 2}}, constraint.CollectionEquivalent([]any{1, 2})},
		{"key", doc{"containsKey": "a"}, constraint.MapContainsKey("a")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, err := Build(tt.doc)
			require.NoError(t, err)
			assert.Equal(t, tt.want.String(), c.String())
			assert.Equal(t, constraint.Description(tt.want), constraint.Description(c))
		})
	}
}

func TestBuildModifiers(t *testing.T) {
	t.Parallel()

	c, err := Build(doc{"equalTo": 100, "within": 5, "percent": true})
	require.NoError(t, err)
	assert.Equal(t, "100 +/- 5 Percent", constraint.Description(c))

	c, err = Build(doc{"equalTo": "HELLO", "ignoreCase": true})
	require.NoError(t, err)
	ok, err := c.Matches("hello")
	require.NoError(t, err)
	assert.True(t, ok)

	c, err = Build(doc{"equalTo": 1, "ignoreCase": false})
	require.NoError(t, err)
	assert.Equal(t, constraint.Equal(1).String(), c.String())
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  doc
		want string
	}{
		{"empty", doc{}, "no constraint given"},
		{"two constraints", doc{"zero": true, "null": true}, "one constraint per document, got null, zero"},
		{"unknown key", doc{"equals": 1}, `unknown key "equals"`},
		{"false flag", doc{"null": false}, `"null" must be true`},
		{"items without exactly", doc{"zero": true, "items": doc{"zero": true}}, `"items" is only allowed with "exactly"`},
		{"non-string", doc{"substring": 3}, `"substring" takes a string`},
		{"unknown type", doc{"typeOf": "complex"}, "takes a type name"},
		{"bad range", doc{"inRange": []any{1}}, "takes [from, to]"},
		{"single and", doc{"and": []any{doc{"zero": true}}}, "at least two"},
		{"nested", doc{"not": doc{"nan": 1}}, `not: "nan" must be true`},
		{"child not a document", doc{"all": 3}, `"all" takes a constraint`},
		{"modifier misfit", doc{"positive": true, "ignoreCase": true}, "IgnoreCase cannot be applied"},
		{"modifier not boolean", doc{"equalTo": "a", "ignoreCase": "yes"}, "takes a boolean"},
		{"negative tolerance", doc{"equalTo": 1.0, "within": -1}, "must be non-negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, err := Build(tt.doc)
			require.Error(t, err, "built %v", c)
			assert.Contains(t, err.Error(), tt.want)
			_, isAssay := errors.KindOf(err)
			assert.True(t, isAssay, "error %v should be an AssayError", err)
		})
	}
}

func TestDocumentIntrospector(t *testing.T) {
	t.Parallel()

	v, ok := DocumentIntrospector.Property(map[string]any{"a": nil}, "a")
	assert.True(t, ok)
	assert.Nil(t, v)

	_, ok = DocumentIntrospector.Property(map[string]any{}, "a")
	assert.False(t, ok)

	v, ok = DocumentIntrospector.Property(struct{ Name string }{"ada"}, "Name")
	assert.True(t, ok)
	assert.Equal(t, "ada", v)

	assert.False(t, DocumentIntrospector.HasMarker(map[string]any{}, "Deprecated"))
}
