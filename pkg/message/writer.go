// Package message renders constraint descriptions and failure messages.
//
// A Writer accumulates the text of one failure message. The canonical
// shape of an assertion failure is two lines indented by two spaces:
//
//	Expected: <description>
//	But was:  <actual value>
//
// optionally preceded by header lines (string lengths, collection types,
// the index of the first difference) and followed by a caret line that
// points at the first differing character of two strings.
package message

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/AndreyAkinshin/assay/pkg/equality"
	"github.com/AndreyAkinshin/assay/pkg/tolerance"
)

const (
	// PrefixExpected starts the expected line.
	PrefixExpected = "  Expected: "
	// PrefixActual starts the actual line. It is padded to the width of
	// PrefixExpected so that both values start in the same column.
	PrefixActual = "  But was:  "
	// PrefixLength is the width of both prefixes.
	PrefixLength = len(PrefixExpected)

	// DefaultMaxLineLength is the line width used to clip long strings.
	DefaultMaxLineLength = 78
)

// Describer is the part of a constraint a Writer needs to render the
// canonical Expected/But was lines.
type Describer interface {
	WriteDescriptionTo(w *Writer)
	WriteActualValueTo(w *Writer)
}

// Writer accumulates message text.
type Writer struct {
	sb            strings.Builder
	maxLineLength int
}

// NewWriter returns a Writer clipping at DefaultMaxLineLength.
func NewWriter() *Writer {
	return &Writer{maxLineLength: DefaultMaxLineLength}
}

// NewWriterWidth returns a Writer clipping at the given line length.
// Non-positive widths select the default.
func NewWriterWidth(maxLineLength int) *Writer {
	if maxLineLength <= 0 {
		maxLineLength = DefaultMaxLineLength
	}
	return &Writer{maxLineLength: maxLineLength}
}

// MaxLineLength returns the configured line width.
func (w *Writer) MaxLineLength() int { return w.maxLineLength }

// String returns the accumulated text.
func (w *Writer) String() string { return w.sb.String() }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return w.sb.Len() }

// Write appends s.
func (w *Writer) Write(s string) { w.sb.WriteString(s) }

// Writef appends formatted text.
func (w *Writer) Writef(format string, args ...any) { fmt.Fprintf(&w.sb, format, args...) }

// WriteLine appends s and a newline.
func (w *Writer) WriteLine(s string) {
	w.sb.WriteString(s)
	w.sb.WriteByte('\n')
}

// WriteMessageLine writes an indented line. Level 0 is indented by two
// spaces and each further level by two more.
func (w *Writer) WriteMessageLine(level int, format string, args ...any) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	w.Write(strings.Repeat("  ", level+1))
	w.WriteLine(EscapeNullCharacters(msg))
}

// WritePredicate writes a predicate such as "greater than" followed by a space.
func (w *Writer) WritePredicate(s string) { w.Write(s + " ") }

// WriteConnector writes a connector such as "and" surrounded by spaces.
func (w *Writer) WriteConnector(s string) { w.Write(" " + s + " ") }

// WriteModifier writes a modifier such as "ignoring case" after a comma.
func (w *Writer) WriteModifier(s string) { w.Write(", " + s) }

// WriteValue writes v as a typed literal.
func (w *Writer) WriteValue(v any) { w.Write(FormatValue(v)) }

// WriteExpectedValue writes the expected value of a constraint.
func (w *Writer) WriteExpectedValue(v any) { w.WriteValue(v) }

// WriteActualValue writes the value under test.
func (w *Writer) WriteActualValue(v any) { w.WriteValue(v) }

// WriteCollectionElements writes up to limit items starting at start.
func (w *Writer) WriteCollectionElements(items []any, start, limit int) {
	w.Write(FormatCollection(items, start, limit))
}

// WriteTolerance writes " +/- amount", with the mode appended for
// non-linear tolerances. Unset and exact tolerances write nothing.
func (w *Writer) WriteTolerance(tol tolerance.Tolerance) {
	switch tol.Mode() {
	case tolerance.ModeLinear:
		w.Write(" +/- " + FormatValue(tol.Value()))
	case tolerance.ModePercent, tolerance.ModeUlps:
		w.Write(" +/- " + FormatValue(tol.Value()) + " " + tol.Mode().String())
	}
}

// DisplayDifferences writes the canonical Expected/But was lines for d.
func (w *Writer) DisplayDifferences(d Describer) {
	w.Write(PrefixExpected)
	d.WriteDescriptionTo(w)
	w.WriteLine("")
	w.Write(PrefixActual)
	d.WriteActualValueTo(w)
	w.WriteLine("")
}

// DisplayValueDifferences writes Expected/But was lines for two values.
func (w *Writer) DisplayValueDifferences(expected, actual any, tol tolerance.Tolerance) {
	w.Write(PrefixExpected)
	w.WriteExpectedValue(expected)
	w.WriteTolerance(tol)
	w.WriteLine("")
	w.Write(PrefixActual)
	w.WriteActualValue(actual)
	w.WriteLine("")
}

// DisplayStringDifferences writes two strings, clipped around the mismatch
// when clipping is set, followed by a caret line under the first
// difference. A negative mismatch writes no caret line.
func (w *Writer) DisplayStringDifferences(expected, actual string, mismatch int, ignoreCase, clipping bool) {
	maxDisplay := w.maxLineLength - PrefixLength - 2

	// Escapes widen the text, so clip what will be displayed.
	expected = EscapeControlChars(expected)
	actual = EscapeControlChars(actual)
	if mismatch >= 0 {
		mismatch = equality.MismatchIndex(expected, actual, 0, ignoreCase)
	}

	if clipping {
		expected, actual = ClipExpectedAndActual(expected, actual, maxDisplay, mismatch)
		if mismatch >= 0 {
			mismatch = equality.MismatchIndex(expected, actual, 0, ignoreCase)
		}
	}

	w.Write(PrefixExpected)
	w.Write(`"` + expected + `"`)
	if ignoreCase {
		w.WriteModifier("ignoring case")
	}
	w.WriteLine("")
	w.Write(PrefixActual)
	w.WriteLine(`"` + actual + `"`)
	if mismatch >= 0 {
		w.writeCaretLine(mismatch)
	}
}

func (w *Writer) writeCaretLine(mismatch int) {
	// Two leading blanks, then dashes up to the column after the opening quote.
	w.WriteLine("  " + strings.Repeat("-", PrefixLength+mismatch-2+1) + "^")
}

// WriteUnifiedDiff appends a line diff of two multi-line strings.
func (w *Writer) WriteUnifiedDiff(expected, actual string) {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "Expected",
		ToFile:   "Actual",
		Context:  2,
	})
	if err != nil || diff == "" {
		return
	}
	w.WriteMessageLine(0, "Diff:")
	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		w.WriteMessageLine(1, "%s", line)
	}
}

// EqualOptions carries the comparison settings that shape an equality
// failure message.
type EqualOptions struct {
	Tolerance    tolerance.Tolerance
	IgnoreCase   bool
	AsCollection bool
	NoClip       bool
}

// DisplayEqualDifferences explains why expected and actual differ, using
// the failure points recorded by equality.Comparer.AreEqual.
func (w *Writer) DisplayEqualDifferences(expected, actual any, opts EqualOptions, points []equality.FailurePoint) {
	w.displayDifferences(expected, actual, opts, points, 0)
}

func (w *Writer) displayDifferences(expected, actual any, opts EqualOptions, points []equality.FailurePoint, depth int) {
	es, eok := stringValue(expected)
	as, aok := stringValue(actual)
	switch {
	case eok && aok:
		w.displayStringDifferences(es, as, opts)
	case equality.IsCollection(expected) && equality.IsCollection(actual):
		w.displayCollectionDifferences(expected, actual, opts, points, depth)
	default:
		w.DisplayValueDifferences(expected, actual, opts.Tolerance)
	}
}

func (w *Writer) displayStringDifferences(expected, actual string, opts EqualOptions) {
	mismatch := equality.MismatchIndex(expected, actual, 0, opts.IgnoreCase)
	el, al := len([]rune(expected)), len([]rune(actual))
	if el == al {
		w.WriteMessageLine(0, "String lengths are both %d. Strings differ at index %d.", el, mismatch)
	} else {
		w.WriteMessageLine(0, "Expected string length %d but was %d. Strings differ at index %d.", el, al, mismatch)
	}
	w.DisplayStringDifferences(expected, actual, mismatch, opts.IgnoreCase, !opts.NoClip)
	if strings.Contains(expected, "\n") || strings.Contains(actual, "\n") {
		w.WriteUnifiedDiff(expected, actual)
	}
}

func (w *Writer) displayCollectionDifferences(expected, actual any, opts EqualOptions, points []equality.FailurePoint, depth int) {
	w.displayTypesAndSizes(expected, actual, depth)

	if len(points) <= depth {
		return
	}
	fp := points[depth]
	w.displayFailurePoint(expected, actual, fp, depth)

	switch {
	case fp.ExpectedHasData && fp.ActualHasData:
		w.displayDifferences(fp.ExpectedValue, fp.ActualValue, opts, points, depth+1)
	case fp.ActualHasData:
		w.Write("  Extra:    ")
		w.WriteCollectionElements(positionalItems(actual), fp.Position, 3)
		w.WriteLine("")
	default:
		w.Write("  Missing:  ")
		w.WriteCollectionElements(positionalItems(expected), fp.Position, 3)
		w.WriteLine("")
	}
}

func (w *Writer) displayTypesAndSizes(expected, actual any, depth int) {
	se, sa := typeAndSize(expected), typeAndSize(actual)
	if se == sa {
		w.WriteMessageLine(depth, "Expected and actual are both %s", se)
	} else {
		w.WriteMessageLine(depth, "Expected is %s, actual is %s", se, sa)
	}
}

func (w *Writer) displayFailurePoint(expected, actual any, fp equality.FailurePoint, depth int) {
	xd, yd := equality.ShapeOf(expected), equality.ShapeOf(actual)

	useOneIndex := max(len(xd), 1) == max(len(yd), 1)
	for r := 1; useOneIndex && r < len(xd); r++ {
		if xd[r] != yd[r] {
			useOneIndex = false
		}
	}

	ei := equality.Unravel(fp.Position, xd)
	if useOneIndex {
		w.WriteMessageLine(depth, "Values differ at index %s", FormatIndices(ei))
		return
	}
	ai := equality.Unravel(fp.Position, yd)
	w.WriteMessageLine(depth, "Values differ at expected index %s, actual index %s", FormatIndices(ei), FormatIndices(ai))
}

// typeAndSize renders a collection type, with the element count for
// slices; array types already carry their dimensions.
func typeAndSize(v any) string {
	s := TypeName(v)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		s += fmt.Sprintf(" with %d elements", rv.Len())
	}
	return s
}

// positionalItems enumerates v the way equality assigns positions: arrays
// row-major over all dimensions, everything else in iteration order.
func positionalItems(v any) []any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Array || rv.Kind() == reflect.Slice {
		return equality.Flatten(v)
	}
	items, _ := equality.Items(v)
	return items
}

func stringValue(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}
