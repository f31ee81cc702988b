package facade

import (
	"context"
	"reflect"
	"strings"
	"sync"
)

// Handle is a callable node in a facade's dispatch tree. Handles are created
// lazily and memoized: Get returns the identical *Handle for the same name on
// every access, so handles can be stored, passed around, and compared by
// reference. A handle carries no binding state of its own; all resolution
// happens at call time against the binding carried by the call's context.
type Handle struct {
	c    *core
	path []string

	mu       sync.Mutex
	children map[string]*Handle
}

// Get returns the child handle for the given capability name. Any name is
// answered with a handle; whether the capability exists is checked only when
// the handle is called.
func (h *Handle) Get(name string) *Handle {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.children == nil {
		h.children = make(map[string]*Handle)
	}
	child, ok := h.children[name]
	if !ok {
		path := make([]string, len(h.path)+1)
		copy(path, h.path)
		path[len(h.path)] = name
		child = &Handle{c: h.c, path: path}
		h.children[name] = child
	}
	return child
}

// At descends through the given names and returns the resulting handle.
// h.At("nested", "useABoolean") is shorthand for h.Get("nested").Get("useABoolean").
func (h *Handle) At(names ...string) *Handle {
	cur := h
	for _, name := range names {
		cur = cur.Get(name)
	}
	return cur
}

// Path returns the dotted capability path this handle addresses. The tree
// root has an empty path.
func (h *Handle) Path() string {
	return strings.Join(h.path, ".")
}

// Call dispatches the capability this handle addresses against the nearest
// binding carried by ctx. The resolved function is invoked with args (see
// package documentation for parameter and result conventions) and its result
// is returned unchanged. Errors and panics from the invoked implementation
// propagate unmodified.
func (h *Handle) Call(ctx context.Context, args ...any) (any, error) {
	b := h.c.current(ctx)
	if b == nil {
		return nil, &NoBindingError{Facade: h.c.displayName, Path: h.Path()}
	}

	var owner map[string]any
	cur := any(b.snapshot())
	for i, name := range h.path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, &MissingCapabilityError{Facade: h.c.displayName, Path: strings.Join(h.path[:i+1], ".")}
		}
		v, ok := m[name]
		if !ok || v == nil {
			return nil, &MissingCapabilityError{Facade: h.c.displayName, Path: strings.Join(h.path[:i+1], ".")}
		}
		owner, cur = m, v
	}

	fn := reflect.ValueOf(cur)
	if fn.Kind() != reflect.Func {
		return nil, &NotCallableError{Facade: h.c.displayName, Path: h.Path(), Kind: kindOf(cur)}
	}
	return invoke(ctx, h.Path(), fn, owner, args)
}
