package equality

// Match pairs each item of xs with a distinct equal item of ys using
// maximum bipartite matching. It returns the indices left unpaired on
// either side. Duplicates must therefore match in count, not just in
// presence.
func (c *Comparer) Match(xs, ys []any) (unmatchedX, unmatchedY []int, err error) {
	adj := make([][]int, len(xs))
	for i := range xs {
		for j := range ys {
			eq, err := c.Equal(xs[i], ys[j])
			if err != nil {
				return nil, nil, err
			}
			if eq {
				adj[i] = append(adj[i], j)
			}
		}
	}

	owner := make([]int, len(ys))
	for j := range owner {
		owner[j] = -1
	}
	for i := range xs {
		seen := make([]bool, len(ys))
		if !augment(i, adj, owner, seen) {
			unmatchedX = append(unmatchedX, i)
		}
	}
	for j, i := range owner {
		if i < 0 {
			unmatchedY = append(unmatchedY, j)
		}
	}
	return unmatchedX, unmatchedY, nil
}

func augment(i int, adj [][]int, owner []int, seen []bool) bool {
	for _, j := range adj[i] {
		if seen[j] {
			continue
		}
		seen[j] = true
		if owner[j] < 0 || augment(owner[j], adj, owner, seen) {
			owner[j] = i
			return true
		}
	}
	return false
}

// Equivalence is the outcome of an unordered comparison.
type Equivalence struct {
	Missing []any // expected items with no counterpart in actual
	Extra   []any // actual items with no counterpart in expected
}

// Equivalent reports whether there is a bijection between expected and
// actual under c.
func (c *Comparer) Equivalent(expected, actual []any) (bool, Equivalence, error) {
	ux, uy, err := c.Match(expected, actual)
	if err != nil {
		return false, Equivalence{}, err
	}
	var eq Equivalence
	for _, i := range ux {
		eq.Missing = append(eq.Missing, expected[i])
	}
	for _, j := range uy {
		eq.Extra = append(eq.Extra, actual[j])
	}
	return len(ux) == 0 && len(uy) == 0, eq, nil
}
