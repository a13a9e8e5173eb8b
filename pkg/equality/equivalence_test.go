package equality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEquivalent(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		expected []any
		actual   []any
		want     bool
		missing  []any
		extra    []any
	}{
		{"same order", []any{1, 2, 3}, []any{1, 2, 3}, true, nil, nil},
		{"permuted", []any{1, 2, 3}, []any{3, 1, 2}, true, nil, nil},
		{"duplicates match in count", []any{1, 2, 2}, []any{2, 1, 2}, true, nil, nil},
		{"duplicates differ in count", []any{1, 2, 2}, []any{1, 1, 2}, false, []any{2}, []any{1}},
		{"extra item", []any{1}, []any{1, 4}, false, nil, []any{4}},
		{"mixed numeric types", []any{1, 2.0}, []any{2, 1.0}, true, nil, nil},
		{"both empty", []any{}, []any{}, true, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := &Comparer{}
			ok, eq, err := c.Equivalent(tt.expected, tt.actual)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, tt.missing, eq.Missing)
			assert.Equal(t, tt.extra, eq.Extra)
		})
	}
}

// Pairing 1 with 2 first leaves 2 without a partner; the augmenting search
// must find the full matching.
func TestEquivalentNeedsAugmentingPath(t *testing.T) {
	c := &Comparer{IgnoreCase: true}
	ok, _, err := c.Equivalent([]any{"a", "A"}, []any{"A", "a"})
	require.NoError(t, err)
	assert.True(t, ok)

	eq, _, err := Adapt(func(x, y int) bool { return x <= y })
	require.NoError(t, err)
	c = &Comparer{Using: []EqualFunc{eq}}
	ok, _, err = c.Equivalent([]any{1, 2}, []any{2, 1})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEquivalenceProperties(t *testing.T) {
	t.Run("permutation is equivalent", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			xs := rapid.SliceOfN(rapid.IntRange(0, 5), 0, 12).Draw(t, "xs")
			ys := rapid.Permutation(xs).Draw(t, "ys")
			ok, _, err := (&Comparer{}).Equivalent(toAny(xs), toAny(ys))
			if err != nil {
				t.Fatal(err)
			}
			if !ok {
				t.Fatalf("%v should be equivalent to %v", xs, ys)
			}
		})
	})

	t.Run("equivalence matches counting", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			xs := rapid.SliceOfN(rapid.IntRange(0, 3), 0, 8).Draw(t, "xs")
			ys := rapid.SliceOfN(rapid.IntRange(0, 3), 0, 8).Draw(t, "ys")
			ok, _, err := (&Comparer{}).Equivalent(toAny(xs), toAny(ys))
			if err != nil {
				t.Fatal(err)
			}
			if want := sameCounts(xs, ys); ok != want {
				t.Fatalf("Equivalent(%v, %v) = %v, want %v", xs, ys, ok, want)
			}
		})
	})
}

func toAny(xs []int) []any {
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}

func sameCounts(xs, ys []int) bool {
	counts := map[int]int{}
	for _, x := range xs {
		counts[x]++
	}
	for _, y := range ys {
		counts[y]--
	}
	for _, n := range counts {
		if n != 0 {
			return false
		}
	}
	return true
}
