package facade

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/vk/capscope/internal/ctxlog"
)

// Provider binds implementations of one facade into execution scopes.
type Provider struct {
	c *core
}

// Scope is a mounted binding together with the context subtree it governs.
// Closing a scope tears its binding down, along with every override scope
// mounted beneath it.
type Scope struct {
	c *core
	b *binding

	ctx context.Context

	mu       sync.Mutex
	children []*Scope
	closed   bool
}

// Context returns the context carrying this scope's binding. Capability
// calls made with this context (or any context derived from it) dispatch to
// the scope's implementation.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Close tears down the scope's binding and every override scope mounted
// beneath it. Capability calls made through a closed scope's context fail
// with a NoBindingError. Close is idempotent.
func (s *Scope) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	children := s.children
	s.children = nil
	s.mu.Unlock()

	for _, child := range children {
		child.Close()
	}
	s.b.close()
}

// Update supplies a new implementation for a root scope on a later execution
// pass. Under strict mode the new implementation must have the same identity
// as the one previously mounted; otherwise the binding's resolved map is
// replaced wholesale and every subsequent call observes the new behavior.
// Existing handle references stay valid either way.
func (s *Scope) Update(impl any) error {
	if !s.b.root {
		return fmt.Errorf("%s: only root bindings can be updated", s.c.displayName)
	}
	if s.b.isClosed() {
		return fmt.Errorf("%s: cannot update a binding after its scope was torn down", s.c.displayName)
	}
	ident := identityOf(impl)
	if s.c.strict && !s.b.ident.equal(ident) {
		return &StrictModeViolationError{Facade: s.c.displayName}
	}
	resolved, err := resolveImpl(s.c, impl)
	if err != nil {
		return err
	}
	provenance := rootProvenance(s.c, resolved)

	s.b.mu.Lock()
	s.b.resolved = resolved
	s.b.provenance = provenance
	s.b.ident = ident
	s.b.mu.Unlock()
	return nil
}

func (s *Scope) addChild(child *Scope) {
	s.mu.Lock()
	s.children = append(s.children, child)
	s.mu.Unlock()
}

// Mount binds impl as the root implementation for the subtree rooted at the
// returned scope's context. It fails with an AlreadyBoundError when ctx
// already carries a binding for this facade, and with a NotAFunctionError
// when impl contains a value that is neither a function nor a nested
// implementation.
func (p *Provider) Mount(ctx context.Context, impl any) (*Scope, error) {
	if p.c.current(ctx) != nil {
		return nil, &AlreadyBoundError{Facade: p.c.displayName}
	}
	resolved, err := resolveImpl(p.c, impl)
	if err != nil {
		return nil, err
	}

	b := &binding{
		c:          p.c,
		root:       true,
		resolved:   resolved,
		provenance: rootProvenance(p.c, resolved),
		ident:      identityOf(impl),
	}
	s := &Scope{c: p.c, b: b}
	b.scope = s
	s.ctx = context.WithValue(ctx, bindingKey{p.c}, b)

	ctxlog.FromContext(ctx).Debug("Mounted facade provider.", "facade", p.c.displayName, "capabilities", len(resolved))
	return s, nil
}

// With mounts impl, runs fn with the bound context, and tears the scope down
// when fn returns. It is the callback form of Mount for hosts that scope a
// provider to a single function body.
func (p *Provider) With(ctx context.Context, impl any, fn func(ctx context.Context) error) error {
	s, err := p.Mount(ctx, impl)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s.Context())
}

// Override layers partial over the nearest enclosing binding for this
// facade. Every top-level key in partial must already be provided by the
// enclosing binding; each replaced key's provenance chain is extended with
// tag. Keys not mentioned in partial are inherited unchanged.
func (p *Provider) Override(ctx context.Context, partial any, tag string) (*Scope, error) {
	parent := p.c.current(ctx)
	if parent == nil {
		return nil, &NoRootBindingError{Facade: p.c.displayName, Tag: tag}
	}
	layer, err := resolveImpl(p.c, partial)
	if err != nil {
		return nil, err
	}

	resolved, provenance := parent.layered()
	for name := range layer {
		if _, ok := resolved[name]; !ok {
			return nil, &UnknownOverrideKeyError{Facade: p.c.displayName, Tag: tag, Key: name}
		}
	}
	for name, v := range layer {
		resolved[name] = v
		provenance[name] = append(provenance[name], tag)
	}

	b := &binding{
		c:          p.c,
		resolved:   resolved,
		provenance: provenance,
		ident:      identityOf(partial),
	}
	s := &Scope{c: p.c, b: b}
	b.scope = s
	s.ctx = context.WithValue(ctx, bindingKey{p.c}, b)
	parent.scope.addChild(s)

	ctxlog.FromContext(ctx).Debug("Mounted facade override.", "facade", p.c.displayName, "tag", tag, "replaced", len(layer))
	return s, nil
}

// WithOverride is the callback form of Override, mirroring With.
func (p *Provider) WithOverride(ctx context.Context, partial any, tag string, fn func(ctx context.Context) error) error {
	s, err := p.Override(ctx, partial, tag)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s.Context())
}

// Bound reports whether a live binding for this facade is visible at ctx.
func (p *Provider) Bound(ctx context.Context) bool {
	return p.c.current(ctx) != nil
}

// Provenance returns, per top-level capability name, the ordered chain of
// tags that produced the capability's current resolution: the facade's
// display name for the root binding, then each override tag in application
// order. It fails with a NoBindingError outside a mounted provider.
func (p *Provider) Provenance(ctx context.Context) (map[string][]string, error) {
	b := p.c.current(ctx)
	if b == nil {
		return nil, &NoBindingError{Facade: p.c.displayName}
	}
	return b.provenanceCopy(), nil
}

// FormatProvenance renders a provenance map as a deterministic,
// human-readable report with one "name: tag -> tag" line per capability.
func FormatProvenance(provenance map[string][]string) string {
	names := make([]string, 0, len(provenance))
	for name := range provenance {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(strings.Join(provenance[name], " -> "))
		sb.WriteString("\n")
	}
	return sb.String()
}

func rootProvenance(c *core, resolved map[string]any) map[string][]string {
	provenance := make(map[string][]string, len(resolved))
	for name := range resolved {
		provenance[name] = []string{c.displayName}
	}
	return provenance
}
