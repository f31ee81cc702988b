package facade

import (
	"context"
	"fmt"
	"reflect"
)

var (
	ctxType  = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType  = reflect.TypeOf((*error)(nil)).Elem()
	selfType = reflect.TypeOf(Self(nil))
)

// invoke calls a resolved capability function through reflection.
//
// Parameter convention: an optional leading context.Context receives the call
// context, an optional Self parameter (next) receives the resolved object one
// level up the capability path, and the remaining parameters are filled from
// args with assignability or conversion. Result convention: a trailing error
// is split off; zero remaining results yield nil, one yields that value,
// several yield a []any.
func invoke(ctx context.Context, path string, fn reflect.Value, owner map[string]any, args []any) (any, error) {
	ft := fn.Type()
	in := make([]reflect.Value, 0, ft.NumIn())

	next := 0
	if ft.NumIn() > next && ft.In(next) == ctxType {
		in = append(in, reflect.ValueOf(ctx))
		next++
	}
	if ft.NumIn() > next && ft.In(next) == selfType {
		in = append(in, reflect.ValueOf(Self(owner)))
		next++
	}

	fixed := ft.NumIn()
	if ft.IsVariadic() {
		fixed--
	}
	want := fixed - next

	argIdx := 0
	for i := next; i < fixed; i++ {
		if argIdx >= len(args) {
			return nil, fmt.Errorf("capability %q expects %d arguments, got %d", path, want, len(args))
		}
		v, err := coerce(args[argIdx], ft.In(i))
		if err != nil {
			return nil, fmt.Errorf("capability %q argument %d: %w", path, argIdx+1, err)
		}
		in = append(in, v)
		argIdx++
	}
	if ft.IsVariadic() {
		elem := ft.In(ft.NumIn() - 1).Elem()
		for ; argIdx < len(args); argIdx++ {
			v, err := coerce(args[argIdx], elem)
			if err != nil {
				return nil, fmt.Errorf("capability %q argument %d: %w", path, argIdx+1, err)
			}
			in = append(in, v)
		}
	} else if argIdx < len(args) {
		return nil, fmt.Errorf("capability %q expects %d arguments, got %d", path, want, len(args))
	}

	out := fn.Call(in)

	if n := len(out); n > 0 && ft.Out(n-1) == errType {
		if e := out[n-1].Interface(); e != nil {
			return nil, e.(error)
		}
		out = out[:n-1]
	}
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	default:
		vals := make([]any, len(out))
		for i, v := range out {
			vals[i] = v.Interface()
		}
		return vals, nil
	}
}

// coerce adapts a caller-supplied argument to the parameter type expected by
// the capability function.
func coerce(arg any, t reflect.Type) (reflect.Value, error) {
	if arg == nil {
		switch t.Kind() {
		case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot use nil as %s", t)
	}
	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	// reflect treats number->string as a rune conversion; reject it instead
	// of producing garbage.
	if t.Kind() == reflect.String && v.Kind() != reflect.String {
		return reflect.Value{}, fmt.Errorf("cannot use %T as %s", arg, t)
	}
	if v.Type().ConvertibleTo(t) {
		return v.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %T as %s", arg, t)
}

// kindOf names the run-time kind of a value for error messages.
func kindOf(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.ValueOf(v).Kind().String()
}
