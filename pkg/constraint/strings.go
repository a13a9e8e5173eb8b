package constraint

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/AndreyAkinshin/assay/pkg/equality"
	"github.com/AndreyAkinshin/assay/pkg/errors"
	"github.com/AndreyAkinshin/assay/pkg/message"
)

type stringKind int

const (
	substring stringKind = iota
	startsWith
	endsWith
	regex
)

var stringNames = [...]struct{ predicate, tag string }{
	substring:  {"String containing", "substring"},
	startsWith: {"String starting with", "startswith"},
	endsWith:   {"String ending with", "endswith"},
	regex:      {"String matching", "regex"},
}

// StringConstraint tests a string actual value against an expected
// fragment or pattern. A nil actual does not match; any other non-string is
// an Argument error.
type StringConstraint struct {
	base
	kind       stringKind
	expected   string
	ignoreCase bool
	re         *regexp.Regexp
}

// Substring matches strings containing expected.
func Substring(expected string) *StringConstraint {
	return &StringConstraint{kind: substring, expected: expected}
}

// StartsWith matches strings beginning with expected.
func StartsWith(expected string) *StringConstraint {
	return &StringConstraint{kind: startsWith, expected: expected}
}

// EndsWith matches strings ending with expected.
func EndsWith(expected string) *StringConstraint {
	return &StringConstraint{kind: endsWith, expected: expected}
}

// Regex matches strings containing a match of pattern. It panics when the
// pattern does not compile.
func Regex(pattern string) *StringConstraint {
	c := &StringConstraint{kind: regex, expected: pattern}
	c.compile()
	return c
}

// IgnoreCase compares case-insensitively.
func (c *StringConstraint) IgnoreCase() *StringConstraint {
	c.setIgnoreCase()
	return c
}

func (c *StringConstraint) setIgnoreCase() {
	c.ignoreCase = true
	if c.kind == regex {
		c.compile()
	}
}

func (c *StringConstraint) compile() {
	pattern := c.expected
	if c.ignoreCase {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		panic(errors.InvalidArgument("pattern", "invalid regular expression %q: %v", c.expected, err))
	}
	c.re = re
}

func (c *StringConstraint) Matches(actual any) (bool, error) {
	c.actual = actual
	if actual == nil {
		return false, nil
	}
	rv := reflect.ValueOf(actual)
	if rv.Kind() != reflect.String {
		return false, errors.Argument("actual", "the actual value must be a string, got %T", actual)
	}
	s := rv.String()
	if c.kind == regex {
		return c.re.MatchString(s), nil
	}
	want := c.expected
	if c.ignoreCase {
		s, want = equality.Fold(s), equality.Fold(want)
	}
	switch c.kind {
	case startsWith:
		return strings.HasPrefix(s, want), nil
	case endsWith:
		return strings.HasSuffix(s, want), nil
	default:
		return strings.Contains(s, want), nil
	}
}

func (c *StringConstraint) WriteDescriptionTo(w *message.Writer) {
	w.WritePredicate(stringNames[c.kind].predicate)
	w.WriteExpectedValue(c.expected)
	if c.ignoreCase {
		w.WriteModifier("ignoring case")
	}
}

func (c *StringConstraint) String() string {
	return tag(stringNames[c.kind].tag, c.expected)
}
