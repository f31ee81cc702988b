package executor

import (
	"reflect"
)

// valuesEqual compares a decoded expectation against a capability result.
// Scenario expectations decode numbers as float64, while capability
// functions return whatever Go numeric type they were written with, so both
// sides are normalized before the deep comparison.
func valuesEqual(want, got any) bool {
	return reflect.DeepEqual(normalize(want), normalize(got))
}

// normalize converts a value into a canonical comparison shape: all numbers
// become float64, slices become []any, and string-keyed maps become
// map[string]any, recursively.
func normalize(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]any, rv.Len())
		for _, key := range rv.MapKeys() {
			out[key.String()] = normalize(rv.MapIndex(key).Interface())
		}
		return out
	case reflect.Interface, reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())
	}
	return v
}
