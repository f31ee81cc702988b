package facade

import "context"

// Impl is a map-shaped capability implementation. Every present value must
// be a function or a nested implementation (another Impl, map[string]any,
// struct, or pointer to struct); this is enforced when the implementation
// is mounted.
type Impl map[string]any

// Self is the resolved implementation object one level up the dispatched
// capability path. A map-based capability function may declare a Self
// parameter (after the optional context.Context parameter) to receive it,
// which lets the function delegate to sibling capabilities through the same
// resolved object the dispatcher used, overrides included.
type Self map[string]any

// Option configures a facade at construction time.
type Option func(*settings)

type settings struct {
	displayName string
	strict      bool
}

// WithDisplayName sets the label used verbatim in every error message and
// diagnostic produced by the facade. The default is "Facade".
func WithDisplayName(name string) Option {
	return func(s *settings) { s.displayName = name }
}

// WithStrict enables or disables the identity-stability check applied when
// a root binding is updated on a later pass. Strict is the default.
func WithStrict(strict bool) Option {
	return func(s *settings) { s.strict = strict }
}

// core is the state shared by a facade's handle tree and its Provider. Its
// pointer identity is what makes two facades independent: the binding a
// context carries is keyed by the owning core.
type core struct {
	displayName string
	strict      bool
}

// bindingKey is the context key for a facade's binding. Embedding the core
// pointer keeps distinct facades from ever colliding in the same context.
type bindingKey struct{ c *core }

// New constructs a facade and returns its dispatch handle tree root together
// with the Provider used to bind implementations into a scope.
func New(opts ...Option) (*Handle, *Provider) {
	s := settings{displayName: "Facade", strict: true}
	for _, opt := range opts {
		opt(&s)
	}
	c := &core{displayName: s.displayName, strict: s.strict}
	return &Handle{c: c}, &Provider{c: c}
}

// current returns the nearest live binding for this facade visible at ctx,
// or nil when none is mounted or the nearest one has been torn down.
func (c *core) current(ctx context.Context) *binding {
	b, _ := ctx.Value(bindingKey{c}).(*binding)
	if b == nil || b.isClosed() {
		return nil
	}
	return b
}
