package equality

import (
	"golang.org/x/text/cases"
)

// Fold returns the Unicode case folding of s.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// StringsEqual compares two strings, optionally under case folding.
func StringsEqual(x, y string, ignoreCase bool) bool {
	if x == y {
		return true
	}
	return ignoreCase && Fold(x) == Fold(y)
}

// MismatchIndex returns the rune index at which expected and actual first
// differ, starting the scan at start. When one string is a prefix of the
// other the index is the shorter length. Equal strings yield -1.
func MismatchIndex(expected, actual string, start int, ignoreCase bool) int {
	e, a := []rune(expected), []rune(actual)
	n := min(len(e), len(a))
	for i := max(start, 0); i < n; i++ {
		if e[i] == a[i] {
			continue
		}
		if ignoreCase && Fold(string(e[i])) == Fold(string(a[i])) {
			continue
		}
		return i
	}
	if len(e) != len(a) {
		return n
	}
	return -1
}
