package equality

import (
	"reflect"
	"strings"
	"time"

	"github.com/AndreyAkinshin/assay/pkg/errors"
	"github.com/AndreyAkinshin/assay/pkg/numerics"
)

// CompareFunc orders two values: negative when x sorts before y, zero when
// they are equivalent, positive otherwise. Values without an ordering yield
// an error.
type CompareFunc func(x, y any) (int, error)

// Compare is the default ordering. It covers numbers of any type, strings,
// time.Time and types with a method Compare(T) int.
func Compare(x, y any) (int, error) {
	if IsNull(x) || IsNull(y) {
		return 0, errors.ArgumentNull("actual", "cannot compare %s with %s", describe(x), describe(y))
	}
	if numerics.IsNumeric(x) && numerics.IsNumeric(y) {
		return numerics.Compare(x, y)
	}
	xv, yv := reflect.ValueOf(x), reflect.ValueOf(y)
	if xv.Kind() == reflect.String && yv.Kind() == reflect.String {
		return strings.Compare(xv.String(), yv.String()), nil
	}
	if xt, ok := x.(time.Time); ok {
		if yt, ok := y.(time.Time); ok {
			return xt.Compare(yt), nil
		}
	}
	if m := xv.MethodByName("Compare"); m.IsValid() {
		mt := m.Type()
		if mt.NumIn() == 1 && mt.NumOut() == 1 && mt.Out(0).Kind() == reflect.Int && yv.Type().AssignableTo(mt.In(0)) {
			return int(m.Call([]reflect.Value{yv})[0].Int()), nil
		}
	}
	return 0, errors.Argument("actual", "%T and %T have no ordering between them", x, y)
}

func describe(v any) string {
	if IsNull(v) {
		return "null"
	}
	return reflect.TypeOf(v).String()
}

// CheckOrdered reports the index of the first item that breaks ascending
// order, or descending order when descending is set, and -1 when items are
// sorted. A nil element is an ArgumentNull error; items without an ordering
// between them are an Argument error.
func CheckOrdered(items []any, cmp CompareFunc, descending bool) (int, error) {
	if cmp == nil {
		cmp = Compare
	}
	for i := range items {
		if IsNull(items[i]) {
			return -1, errors.ArgumentNull("actual", "null element at index %d", i)
		}
		if i == 0 {
			continue
		}
		r, err := cmp(items[i-1], items[i])
		if err != nil {
			if _, ok := errors.KindOf(err); ok {
				return -1, err
			}
			return -1, &errors.AssayError{Kind: errors.KindArgument, Param: "actual", Message: err.Error(), Cause: err}
		}
		if descending {
			r = -r
		}
		if r > 0 {
			return i, nil
		}
	}
	return -1, nil
}

// Adapt converts a caller-supplied comparison into an EqualFunc and, when
// it defines an order, a CompareFunc. Accepted forms are EqualFunc,
// CompareFunc, func(T, T) bool for equality and func(T, T) int for
// ordering. Operands not assignable to T fall through to the built-in rules.
func Adapt(f any) (EqualFunc, CompareFunc, error) {
	switch fn := f.(type) {
	case nil:
		return nil, nil, errors.ArgumentNull("comparer", "comparer must not be null")
	case EqualFunc:
		return fn, nil, nil
	case func(x, y any) (bool, bool):
		return fn, nil, nil
	case CompareFunc:
		return equalFromCompare(fn), fn, nil
	case func(x, y any) (int, error):
		return equalFromCompare(fn), fn, nil
	}

	fv := reflect.ValueOf(f)
	ft := fv.Type()
	if ft.Kind() != reflect.Func || ft.NumIn() != 2 || ft.In(0) != ft.In(1) || ft.NumOut() != 1 {
		return nil, nil, errors.InvalidArgument("comparer", "unsupported comparer %T", f)
	}
	operand := ft.In(0)
	call := func(x, y any) (reflect.Value, bool) {
		xv, ok := operandValue(x, operand)
		if !ok {
			return reflect.Value{}, false
		}
		yv, ok := operandValue(y, operand)
		if !ok {
			return reflect.Value{}, false
		}
		return fv.Call([]reflect.Value{xv, yv})[0], true
	}

	switch ft.Out(0).Kind() {
	case reflect.Bool:
		eq := func(x, y any) (bool, bool) {
			r, ok := call(x, y)
			if !ok {
				return false, false
			}
			return r.Bool(), true
		}
		return eq, nil, nil
	case reflect.Int:
		cmp := func(x, y any) (int, error) {
			r, ok := call(x, y)
			if !ok {
				return Compare(x, y)
			}
			return int(r.Int()), nil
		}
		eq := func(x, y any) (bool, bool) {
			r, ok := call(x, y)
			if !ok {
				return false, false
			}
			return r.Int() == 0, true
		}
		return eq, cmp, nil
	}
	return nil, nil, errors.InvalidArgument("comparer", "unsupported comparer %T", f)
}

func equalFromCompare(cmp func(x, y any) (int, error)) EqualFunc {
	return func(x, y any) (bool, bool) {
		r, err := cmp(x, y)
		if err != nil {
			return false, false
		}
		return r == 0, true
	}
}

func operandValue(v any, t reflect.Type) (reflect.Value, bool) {
	if v == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
			return reflect.Zero(t), true
		}
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(t) {
		return reflect.Value{}, false
	}
	return rv, true
}
