package facade

import (
	"fmt"
	"reflect"
)

// resolveImpl validates an implementation object and normalizes it into the
// resolved map used for dispatch: nested namespaces become map[string]any,
// struct capabilities become their bound function values.
func resolveImpl(c *core, impl any) (map[string]any, error) {
	if impl == nil {
		return nil, fmt.Errorf("%s: implementation must not be nil", c.displayName)
	}
	switch v := impl.(type) {
	case Impl:
		return resolveMap(c, "", v)
	case map[string]any:
		return resolveMap(c, "", v)
	}
	rv := reflect.ValueOf(impl)
	switch {
	case rv.Kind() == reflect.Ptr && rv.Type().Elem().Kind() == reflect.Struct:
		if rv.IsNil() {
			return nil, fmt.Errorf("%s: implementation must not be nil", c.displayName)
		}
		return resolveStruct(c, "", rv)
	case rv.Kind() == reflect.Struct:
		// Copy onto the heap so pointer-receiver methods are reachable.
		pv := reflect.New(rv.Type())
		pv.Elem().Set(rv)
		return resolveStruct(c, "", pv)
	}
	return nil, fmt.Errorf("%s: implementation must be a map or struct, got %s", c.displayName, kindOf(impl))
}

// resolveMap normalizes a map-shaped implementation. Every present value
// must be a function or a nested implementation; anything else fails with a
// NotAFunctionError naming the offending dotted key.
func resolveMap(c *core, prefix string, m map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for name, v := range m {
		key := joinKey(prefix, name)
		if v == nil {
			return nil, &NotAFunctionError{Facade: c.displayName, Key: key, Kind: "nil"}
		}
		rv := reflect.ValueOf(v)
		switch {
		case rv.Kind() == reflect.Func:
			out[name] = v
		case isNestedImpl(rv):
			nested, err := resolveNested(c, key, rv)
			if err != nil {
				return nil, err
			}
			out[name] = nested
		default:
			return nil, &NotAFunctionError{Facade: c.displayName, Key: key, Kind: kindOf(v)}
		}
	}
	return out, nil
}

// resolveStruct normalizes a struct-shaped implementation given a pointer to
// it. Exported func fields and exported methods become capabilities; exported
// struct and implementation-map fields become nested namespaces; any other
// exported member is an interface-shaped extra and is filtered out.
func resolveStruct(c *core, prefix string, pv reflect.Value) (map[string]any, error) {
	out := make(map[string]any)
	elem := pv.Elem()
	t := elem.Type()

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		fv := elem.Field(i)
		key := joinKey(prefix, f.Name)
		switch fv.Kind() {
		case reflect.Func:
			if !fv.IsNil() {
				out[f.Name] = fv.Interface()
			}
		case reflect.Struct:
			nested, err := resolveStruct(c, key, fv.Addr())
			if err != nil {
				return nil, err
			}
			out[f.Name] = nested
		case reflect.Ptr:
			if fv.Type().Elem().Kind() == reflect.Struct && !fv.IsNil() {
				nested, err := resolveStruct(c, key, fv)
				if err != nil {
					return nil, err
				}
				out[f.Name] = nested
			}
		case reflect.Map:
			if m, ok := fv.Interface().(Impl); ok {
				nested, err := resolveMap(c, key, m)
				if err != nil {
					return nil, err
				}
				out[f.Name] = nested
			} else if m, ok := fv.Interface().(map[string]any); ok {
				nested, err := resolveMap(c, key, m)
				if err != nil {
					return nil, err
				}
				out[f.Name] = nested
			}
		}
	}

	pt := pv.Type()
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		if !m.IsExported() {
			continue
		}
		if _, exists := out[m.Name]; exists {
			continue
		}
		out[m.Name] = pv.Method(i).Interface()
	}

	return out, nil
}

// resolveNested dispatches a nested implementation value to the matching
// resolver. Callers have already checked isNestedImpl.
func resolveNested(c *core, key string, rv reflect.Value) (map[string]any, error) {
	switch v := rv.Interface().(type) {
	case Impl:
		return resolveMap(c, key, v)
	case map[string]any:
		return resolveMap(c, key, v)
	}
	if rv.Kind() == reflect.Ptr {
		return resolveStruct(c, key, rv)
	}
	pv := reflect.New(rv.Type())
	pv.Elem().Set(rv)
	return resolveStruct(c, key, pv)
}

func isNestedImpl(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Map:
		switch rv.Interface().(type) {
		case Impl, map[string]any:
			return true
		}
		return false
	case reflect.Struct:
		return true
	case reflect.Ptr:
		return !rv.IsNil() && rv.Type().Elem().Kind() == reflect.Struct
	}
	return false
}

func joinKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// ValidateImpl checks an implementation object against the shape rules
// enforced at mount time, using label in any error produced. It is intended
// for callers that validate implementation catalogs ahead of mounting.
func ValidateImpl(label string, impl any) error {
	_, err := resolveImpl(&core{displayName: label}, impl)
	return err
}
