// Package equality implements deep, tolerance-aware equality between
// arbitrary Go values, plus multiset equivalence and ordering checks.
//
// Beyond pass/fail, AreEqual records the failure points along the path to
// the first difference inside collections so that a message writer can
// explain where two values diverge.
package equality

import (
	"reflect"
	"time"

	"github.com/AndreyAkinshin/assay/pkg/errors"
	"github.com/AndreyAkinshin/assay/pkg/numerics"
	"github.com/AndreyAkinshin/assay/pkg/tolerance"
)

// EqualFunc is a caller-supplied equality. ok is false when the function
// does not apply to the operand types, in which case the built-in rules run.
type EqualFunc func(x, y any) (equal, ok bool)

// Comparer holds the options of an equality comparison.
type Comparer struct {
	// IgnoreCase compares strings under Unicode case folding.
	IgnoreCase bool
	// AsCollection compares arrays element-wise, ignoring their shape.
	AsCollection bool
	// Tolerance applies to numeric and time values.
	Tolerance tolerance.Tolerance
	// FloatTolerance applies to comparisons involving a binary float when
	// Tolerance is unset.
	FloatTolerance tolerance.Tolerance
	// Using lists external equalities, tried in order before the built-in rules.
	Using []EqualFunc
}

// FailurePoint describes where two collections first differ.
type FailurePoint struct {
	// Position is the flat, row-major index of the difference.
	Position        int
	ExpectedValue   any
	ActualValue     any
	ExpectedHasData bool
	ActualHasData   bool
}

// Result is the outcome of AreEqual. FailurePoints run from the outermost
// collection inwards, one per nesting level.
type Result struct {
	Equal         bool
	FailurePoints []FailurePoint
}

// AreEqual compares expected with actual and records failure points.
func (c *Comparer) AreEqual(expected, actual any) (Result, error) {
	s := newState(c)
	eq, err := s.equal(expected, actual)
	if err != nil {
		return Result{}, err
	}
	if eq {
		return Result{Equal: true}, nil
	}
	return Result{FailurePoints: s.points}, nil
}

// Equal reports whether x and y are equal under c.
func (c *Comparer) Equal(x, y any) (bool, error) {
	return newState(c).equal(x, y)
}

// AreEqual compares two values with the default options.
func AreEqual(expected, actual any) (Result, error) {
	return (&Comparer{}).AreEqual(expected, actual)
}

type visit struct {
	x, y   uintptr
	xt, yt reflect.Type
	xl, yl int
}

// maxSequenceDepth bounds the nesting of enumerated sequences. Sequences
// without an identity cannot be checked for cycles any other way.
const maxSequenceDepth = 512

type state struct {
	c        *Comparer
	points   []FailurePoint
	visiting map[visit]bool
	seqDepth int
}

func newState(c *Comparer) *state {
	if c == nil {
		c = &Comparer{}
	}
	return &state{c: c, visiting: make(map[visit]bool)}
}

// enter marks the pair as under comparison. It returns false when the pair
// is already on the stack; such a revisit is treated as equal.
func (s *state) enter(xv, yv reflect.Value) (visit, bool) {
	v := visit{x: xv.Pointer(), y: yv.Pointer(), xt: xv.Type(), yt: yv.Type()}
	if xv.Kind() == reflect.Slice {
		v.xl, v.yl = xv.Len(), yv.Len()
	}
	if s.visiting[v] {
		return v, false
	}
	s.visiting[v] = true
	return v, true
}

func (s *state) leave(v visit) {
	delete(s.visiting, v)
}

var timeType = reflect.TypeOf(time.Time{})

func (s *state) equal(x, y any) (bool, error) {
	xNull, yNull := IsNull(x), IsNull(y)
	if xNull && yNull {
		return true, nil
	}
	if xNull || yNull {
		return false, nil
	}

	for _, f := range s.c.Using {
		if eq, ok := f(x, y); ok {
			return eq, nil
		}
	}

	if numerics.IsNumeric(x) && numerics.IsNumeric(y) {
		tol := s.c.Tolerance
		if tol.IsUnset() && (numerics.IsFloat(x) || numerics.IsFloat(y)) {
			tol = s.c.FloatTolerance
		}
		return numerics.Equal(x, y, tol)
	}

	xv, yv := reflect.ValueOf(x), reflect.ValueOf(y)

	if xv.Kind() == reflect.String && yv.Kind() == reflect.String {
		return StringsEqual(xv.String(), yv.String(), s.c.IgnoreCase), nil
	}

	if xv.Type() == timeType && yv.Type() == timeType {
		return s.c.Tolerance.WithinTime(x.(time.Time), y.(time.Time))
	}

	if eq, ok := callEqualMethod(xv, yv); ok {
		return eq, nil
	}

	if xv.Kind() == reflect.Pointer && yv.Kind() == reflect.Pointer {
		if xv.Pointer() == yv.Pointer() && xv.Type() == yv.Type() {
			return true, nil
		}
		v, ok := s.enter(xv, yv)
		if !ok {
			return true, nil
		}
		defer s.leave(v)
		return s.equal(xv.Elem().Interface(), yv.Elem().Interface())
	}

	if isList(xv) && isList(yv) {
		if s.c.AsCollection {
			return s.listsEqual(xv, yv, Flatten(x), Flatten(y))
		}
		if xv.Kind() == reflect.Array && yv.Kind() == reflect.Array {
			return s.arraysEqual(xv, yv)
		}
		return s.listsEqual(xv, yv, listItems(xv), listItems(yv))
	}

	if xv.Kind() == reflect.Map && yv.Kind() == reflect.Map {
		return s.mapsEqual(xv, yv)
	}

	if xs, ok := Items(x); ok {
		if ys, ok := Items(y); ok {
			return s.sequencesEqual(x, y, xs, ys)
		}
	}

	if xv.Type() != yv.Type() {
		return false, nil
	}
	if xv.Kind() == reflect.Struct && exportedOnly(xv.Type()) {
		return s.structsEqual(xv, yv)
	}
	return reflect.DeepEqual(x, y), nil
}

// arraysEqual compares fixed arrays of equal rank and inner dimensions
// element by element in row-major order. Arrays whose rank or inner
// dimensions differ are unequal without a failure point.
func (s *state) arraysEqual(xv, yv reflect.Value) (bool, error) {
	xd, yd := Shape(xv.Type()), Shape(yv.Type())
	if len(xd) != len(yd) {
		return false, nil
	}
	for r := 1; r < len(xd); r++ {
		if xd[r] != yd[r] {
			return false, nil
		}
	}
	return s.compareItems(flattenValue(xv, len(xd)), flattenValue(yv, len(yd)))
}

func (s *state) listsEqual(xv, yv reflect.Value, xs, ys []any) (bool, error) {
	if xv.Kind() == reflect.Slice && yv.Kind() == reflect.Slice {
		v, ok := s.enter(xv, yv)
		if !ok {
			return true, nil
		}
		defer s.leave(v)
	}
	return s.compareItems(xs, ys)
}

// sequencesEqual compares enumerated sequences. A pair of sequences that is
// already being compared further up is treated as equal, so sequences that
// yield themselves terminate.
func (s *state) sequencesEqual(x, y any, xs, ys []any) (bool, error) {
	xid, xok := sequenceIdentity(x)
	yid, yok := sequenceIdentity(y)
	if xok && yok {
		v := visit{x: xid, y: yid, xt: reflect.TypeOf(x), yt: reflect.TypeOf(y)}
		if s.visiting[v] {
			return true, nil
		}
		s.visiting[v] = true
		defer s.leave(v)
	}
	if s.seqDepth >= maxSequenceDepth {
		return false, errors.InvalidOperation("sequences nest deeper than %d levels", maxSequenceDepth)
	}
	s.seqDepth++
	defer func() { s.seqDepth-- }()
	return s.compareItems(xs, ys)
}

func (s *state) compareItems(xs, ys []any) (bool, error) {
	mark := len(s.points)
	n := min(len(xs), len(ys))
	for i := 0; i < n; i++ {
		eq, err := s.equal(xs[i], ys[i])
		if err != nil {
			return false, err
		}
		if !eq {
			s.insertPoint(mark, FailurePoint{
				Position:        i,
				ExpectedValue:   xs[i],
				ActualValue:     ys[i],
				ExpectedHasData: true,
				ActualHasData:   true,
			})
			return false, nil
		}
		s.points = s.points[:mark]
	}
	if len(xs) == len(ys) {
		return true, nil
	}
	fp := FailurePoint{Position: n}
	if len(xs) > n {
		fp.ExpectedHasData = true
		fp.ExpectedValue = xs[n]
	}
	if len(ys) > n {
		fp.ActualHasData = true
		fp.ActualValue = ys[n]
	}
	s.insertPoint(mark, fp)
	return false, nil
}

func (s *state) insertPoint(at int, fp FailurePoint) {
	s.points = append(s.points, FailurePoint{})
	copy(s.points[at+1:], s.points[at:])
	s.points[at] = fp
}

func (s *state) mapsEqual(xv, yv reflect.Value) (bool, error) {
	if xv.Len() != yv.Len() {
		return false, nil
	}
	v, ok := s.enter(xv, yv)
	if !ok {
		return true, nil
	}
	defer s.leave(v)

	mark := len(s.points)
	defer func() { s.points = s.points[:mark] }()

	sameKeys := xv.Type().Key() == yv.Type().Key()
	iter := xv.MapRange()
	for iter.Next() {
		var yval reflect.Value
		if sameKeys {
			yval = yv.MapIndex(iter.Key())
		} else {
			k, err := s.findKey(yv, iter.Key().Interface())
			if err != nil {
				return false, err
			}
			if k.IsValid() {
				yval = yv.MapIndex(k)
			}
		}
		if !yval.IsValid() {
			return false, nil
		}
		eq, err := s.equal(iter.Value().Interface(), yval.Interface())
		if err != nil || !eq {
			return false, err
		}
	}
	return true, nil
}

func (s *state) findKey(m reflect.Value, key any) (reflect.Value, error) {
	for _, k := range m.MapKeys() {
		eq, err := s.equal(key, k.Interface())
		if err != nil {
			return reflect.Value{}, err
		}
		if eq {
			return k, nil
		}
	}
	return reflect.Value{}, nil
}

func (s *state) structsEqual(xv, yv reflect.Value) (bool, error) {
	mark := len(s.points)
	defer func() { s.points = s.points[:mark] }()
	for i := 0; i < xv.NumField(); i++ {
		eq, err := s.equal(xv.Field(i).Interface(), yv.Field(i).Interface())
		if err != nil || !eq {
			return false, err
		}
	}
	return true, nil
}

// callEqualMethod invokes x.Equal(y) when x has a method of the form
// Equal(T) bool and y is assignable to T.
func callEqualMethod(xv, yv reflect.Value) (equal, ok bool) {
	m := xv.MethodByName("Equal")
	if !m.IsValid() {
		return false, false
	}
	mt := m.Type()
	if mt.NumIn() != 1 || mt.NumOut() != 1 || mt.Out(0).Kind() != reflect.Bool {
		return false, false
	}
	if !yv.Type().AssignableTo(mt.In(0)) {
		return false, false
	}
	return m.Call([]reflect.Value{yv})[0].Bool(), true
}

func exportedOnly(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		if !t.Field(i).IsExported() {
			return false
		}
	}
	return true
}

// IsNull reports whether v is nil or a nil pointer, slice, map, channel,
// function or interface.
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}
