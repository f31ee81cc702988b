package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/vk/capscope/internal/ctxlog"
	"github.com/vk/capscope/internal/facade"
)

// Module is the interface all built-in implementation packages satisfy to be
// compiled into the binary.
type Module interface {
	Register(r *Registry)
}

// RegisteredImpl holds the compiled Go parts of a named implementation.
type RegisteredImpl struct {
	// New builds a fresh implementation object for each mount.
	New func() any
	// Partial marks implementations that only make sense as override layers
	// (they replace a subset of some full implementation's capabilities).
	Partial bool
	// Description is a short human-readable summary for diagnostics.
	Description string
}

// Registry holds all registered implementations for one application
// instance.
type Registry struct {
	impls map[string]*RegisteredImpl
}

// New creates and initializes an empty Registry.
func New() *Registry {
	return &Registry{impls: make(map[string]*RegisteredImpl)}
}

// RegisterImpl registers an implementation constructor under name.
// Registering the same name twice is a programmer error and panics.
func (r *Registry) RegisterImpl(name string, impl *RegisteredImpl) {
	if _, exists := r.impls[name]; exists {
		panic(fmt.Sprintf("implementation with name '%s' already registered", name))
	}
	if impl.New == nil {
		panic(fmt.Sprintf("implementation '%s' registered without a constructor", name))
	}
	slog.Debug("Registering implementation.", "name", name, "partial", impl.Partial)
	r.impls[name] = impl
}

// Impl looks up a registered implementation by name.
func (r *Registry) Impl(name string) (*RegisteredImpl, bool) {
	impl, ok := r.impls[name]
	return impl, ok
}

// Names returns the sorted names of all registered implementations.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.impls))
	for name := range r.impls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate constructs every registered implementation once and checks it
// against the facade shape rules, collecting all failures into one error.
func (r *Registry) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	var errs []string
	for _, name := range r.Names() {
		impl := r.impls[name].New()
		if err := facade.ValidateImpl(name, impl); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	logger.Debug("Registry validation passed.", "implementations", len(r.impls))
	return nil
}
