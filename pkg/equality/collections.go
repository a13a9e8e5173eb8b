package equality

import (
	"reflect"
	"unsafe"
)

func isList(v reflect.Value) bool {
	return v.Kind() == reflect.Slice || v.Kind() == reflect.Array
}

func listItems(v reflect.Value) []any {
	items := make([]any, v.Len())
	for i := range items {
		items[i] = v.Index(i).Interface()
	}
	return items
}

// Shape returns the dimensions of a nested fixed-size array type, outermost
// first. [2][3]int has shape [2 3] and rank 2. Slices and non-array types
// have no shape.
func Shape(t reflect.Type) []int {
	var dims []int
	for t != nil && t.Kind() == reflect.Array {
		dims = append(dims, t.Len())
		t = t.Elem()
	}
	return dims
}

// ShapeOf returns the shape of v's type, or nil for non-arrays.
func ShapeOf(v any) []int {
	if v == nil {
		return nil
	}
	return Shape(reflect.TypeOf(v))
}

// Unravel converts a flat row-major position into coordinates of the given
// shape. A nil or one-dimensional shape yields [pos]. The outermost
// coordinate is not bounded by dims[0], so positions past the end of a
// shorter array name the row they would occupy.
func Unravel(pos int, dims []int) []int {
	if len(dims) <= 1 {
		return []int{pos}
	}
	idx := make([]int, len(dims))
	for r := len(dims) - 1; r > 0; r-- {
		if dims[r] == 0 {
			return []int{pos}
		}
		idx[r] = pos % dims[r]
		pos /= dims[r]
	}
	idx[0] = pos
	return idx
}

// Flatten returns the leaf items of an array in row-major order, descending
// through every nested fixed-array dimension. Slices yield their items.
func Flatten(v any) []any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		return listItems(rv)
	}
	return flattenValue(rv, len(Shape(rv.Type())))
}

func flattenValue(v reflect.Value, rank int) []any {
	if rank <= 1 {
		return listItems(v)
	}
	var items []any
	for i := 0; i < v.Len(); i++ {
		items = append(items, flattenValue(v.Index(i), rank-1)...)
	}
	return items
}

// Items enumerates a collection: a slice, an array, a sequence function of
// the form func(yield func(T) bool), or a value with an All method returning
// such a function. Non-nil pointers are followed. Sequences must be finite.
func Items(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return listItems(rv), true
	case reflect.Func:
		return enumerate(rv)
	}
	if m := rv.MethodByName("All"); m.IsValid() && m.Type().NumIn() == 0 && m.Type().NumOut() == 1 {
		if items, ok := enumerate(m.Call(nil)[0]); ok {
			return items, true
		}
	}
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		return Items(rv.Elem().Interface())
	}
	return nil, false
}

// IsCollection reports whether Items can enumerate v.
func IsCollection(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return true
	case reflect.Func:
		return isSeqType(rv.Type())
	}
	if m := rv.MethodByName("All"); m.IsValid() && m.Type().NumIn() == 0 && m.Type().NumOut() == 1 {
		if isSeqType(m.Type().Out(0)) {
			return true
		}
	}
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		return IsCollection(rv.Elem().Interface())
	}
	return false
}

// Len returns the length of a string, map, channel or collection.
func Len(v any) (int, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Map, reflect.Chan, reflect.Slice, reflect.Array:
		return rv.Len(), true
	}
	if items, ok := Items(v); ok {
		return len(items), true
	}
	return 0, false
}

func isSeqType(t reflect.Type) bool {
	if t.Kind() != reflect.Func || t.NumIn() != 1 || t.NumOut() != 0 {
		return false
	}
	yt := t.In(0)
	return yt.Kind() == reflect.Func && yt.NumIn() == 1 && yt.NumOut() == 1 && yt.Out(0).Kind() == reflect.Bool
}

func enumerate(fn reflect.Value) ([]any, bool) {
	if !isSeqType(fn.Type()) || fn.IsNil() {
		return nil, false
	}
	yt := fn.Type().In(0)
	more := reflect.ValueOf(true).Convert(yt.Out(0))
	items := []any{}
	yield := reflect.MakeFunc(yt, func(args []reflect.Value) []reflect.Value {
		items = append(items, valueOf(args[0]))
		return []reflect.Value{more}
	})
	fn.Call([]reflect.Value{yield})
	return items, true
}

// sequenceIdentity returns an address identifying the sequence v, when it
// has one.
func sequenceIdentity(v any) (uintptr, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func:
		return funcIdentity(v), true
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.UnsafePointer:
		return rv.Pointer(), true
	}
	return 0, false
}

// funcIdentity returns the address of the closure behind a func value.
// reflect.Value.Pointer reports the code pointer instead, which every
// closure created from one literal shares. Func values are pointer-shaped,
// so the interface data word is the closure itself.
func funcIdentity(fn any) uintptr {
	return uintptr((*[2]unsafe.Pointer)(unsafe.Pointer(&fn))[1])
}

func valueOf(v reflect.Value) any {
	if v.Kind() == reflect.Interface && v.IsNil() {
		return nil
	}
	return v.Interface()
}
