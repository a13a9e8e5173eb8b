package message

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AndreyAkinshin/assay/pkg/equality"
)

const (
	// Ellipsis marks clipped text.
	Ellipsis = "..."

	// DefaultMaxItems is how many collection elements FormatValue shows.
	DefaultMaxItems = 10

	// DateTimeLayout renders time.Time literals.
	DateTimeLayout = "2006-01-02 15:04:05.000"

	emptyCollection = "<empty>"
	nullLiteral     = "null"
	maxFormatDepth  = 6
)

var (
	stringerType = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
	errorType    = reflect.TypeOf((*error)(nil)).Elem()
)

// FormatValue renders v as a typed literal: integers bare, float32 with an
// f suffix, float64 with d, decimals with m, strings quoted and escaped,
// collections as < a, b, c >.
func FormatValue(v any) string {
	return formatValue(v, 0)
}

func formatValue(v any, depth int) string {
	if equality.IsNull(v) {
		return nullLiteral
	}
	if depth > maxFormatDepth {
		return Ellipsis
	}

	switch x := v.(type) {
	case decimal.Decimal:
		return x.String() + "m"
	case reflect.Type:
		return "<" + x.String() + ">"
	case time.Time:
		return x.Format(DateTimeLayout)
	case bool:
		return strconv.FormatBool(x)
	}

	rv := reflect.ValueOf(v)
	t := rv.Type()
	if t.Kind() != reflect.String && (t.Implements(stringerType) || t.Implements(errorType)) {
		return fmt.Sprintf("<%v>", v)
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return FormatFloat(rv.Float(), 32)
	case reflect.Float64:
		return FormatFloat(rv.Float(), 64)
	case reflect.String:
		return `"` + EscapeControlChars(rv.String()) + `"`
	case reflect.Map:
		return formatMap(rv, depth)
	case reflect.Pointer:
		return formatValue(rv.Elem().Interface(), depth+1)
	}

	if items, ok := equality.Items(v); ok {
		return formatCollection(items, 0, DefaultMaxItems, depth)
	}
	return fmt.Sprintf("<%v>", v)
}

// FormatFloat renders a float literal of the given bit size. NaN and the
// infinities print without a suffix.
func FormatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	suffix := "d"
	if bits == 32 {
		suffix = "f"
	}
	abs := math.Abs(f)
	var s string
	if abs == 0 || abs >= 1e-4 && abs < 1e15 {
		s = strconv.FormatFloat(f, 'f', -1, bits)
	} else {
		s = strconv.FormatFloat(f, 'g', -1, bits)
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s + suffix
}

// FormatCollection renders up to limit items of a collection, starting at
// index start.
func FormatCollection(items []any, start, limit int) string {
	return formatCollection(items, start, limit, 0)
}

func formatCollection(items []any, start, limit, depth int) string {
	var sb strings.Builder
	count := 0
	for i := max(start, 0); i < len(items); i++ {
		count++
		if count > limit {
			break
		}
		if count == 1 {
			sb.WriteString("< ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(formatValue(items[i], depth+1))
	}
	if count == 0 {
		return emptyCollection
	}
	if count > limit {
		sb.WriteString(Ellipsis)
	}
	sb.WriteString(" >")
	return sb.String()
}

func formatMap(rv reflect.Value, depth int) string {
	if rv.Len() == 0 {
		return emptyCollection
	}
	entries := make([]string, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		entries = append(entries, "["+formatValue(iter.Key().Interface(), depth+1)+", "+formatValue(iter.Value().Interface(), depth+1)+"]")
	}
	sort.Strings(entries)
	if len(entries) > DefaultMaxItems {
		return "< " + strings.Join(entries[:DefaultMaxItems], ", ") + Ellipsis + " >"
	}
	return "< " + strings.Join(entries, ", ") + " >"
}

// EscapeControlChars replaces control characters with their escape
// sequences. Characters without a short escape, and the Unicode line
// separators, render as \xXXXX.
func EscapeControlChars(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case 0:
			sb.WriteString(`\0`)
		case '\a':
			sb.WriteString(`\a`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\v':
			sb.WriteString(`\v`)
		case '\u0085', '\u2028', '\u2029':
			fmt.Fprintf(&sb, `\x%04X`, r)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\x%04X`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	return sb.String()
}

// EscapeNullCharacters replaces NUL characters, which many terminals drop.
func EscapeNullCharacters(s string) string {
	return strings.ReplaceAll(s, "\x00", `\0`)
}

// TypeName renders the type of v as <T>.
func TypeName(v any) string {
	if v == nil {
		return "<" + nullLiteral + ">"
	}
	return "<" + reflect.TypeOf(v).String() + ">"
}

// FormatIndices renders coordinates as [i,j,...].
func FormatIndices(idx []int) string {
	parts := make([]string, len(idx))
	for i, n := range idx {
		parts[i] = strconv.Itoa(n)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// ClipString returns at most maxLen runes of s starting at clipStart,
// marking each truncated end with an ellipsis.
func ClipString(s string, maxLen, clipStart int) string {
	runes := []rune(s)
	clipLen := maxLen
	var sb strings.Builder

	if clipStart > 0 {
		clipLen -= len(Ellipsis)
		sb.WriteString(Ellipsis)
	}
	if clipStart > len(runes) {
		clipStart = len(runes)
	}

	switch {
	case len(runes)-clipStart > clipLen:
		clipLen -= len(Ellipsis)
		sb.WriteString(string(runes[clipStart : clipStart+max(clipLen, 0)]))
		sb.WriteString(Ellipsis)
	case clipStart > 0:
		sb.WriteString(string(runes[clipStart:]))
	default:
		sb.WriteString(s)
	}
	return sb.String()
}

// ClipExpectedAndActual clips two strings to a common window of maxLen runes.
// When the tails fit the window ends at the longer string's end; otherwise
// it is centred on the mismatch so the differing character stays visible.
func ClipExpectedAndActual(expected, actual string, maxLen, mismatch int) (string, string) {
	longest := max(len([]rune(expected)), len([]rune(actual)))
	if longest <= maxLen {
		return expected, actual
	}

	clipLen := maxLen - len(Ellipsis)
	clipStart := longest - clipLen
	if clipStart > mismatch {
		clipStart = max(0, mismatch-clipLen/2)
	}
	return ClipString(expected, maxLen, clipStart), ClipString(actual, maxLen, clipStart)
}
