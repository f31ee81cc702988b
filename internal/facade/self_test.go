package facade

import (
	"context"
	"strings"
	"testing"
)

// Cross-capability delegation: a capability calls a sibling through the
// resolved object it receives as Self, so the delegation target is whatever
// the current binding resolves, overrides included.
func TestSelf_SiblingDelegation(t *testing.T) {
	impl := Impl{
		"line": func(text string) string { return text },
		"banner": func(self Self, text string) (string, error) {
			line, ok := self["line"].(func(string) string)
			if !ok {
				t.Fatalf("self[line] has unexpected type %T", self["line"])
			}
			return line("== " + text + " =="), nil
		},
	}
	root, ctx := mount(t, impl)

	got, err := root.Get("banner").Call(ctx, "hello")
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got != "== hello ==" {
		t.Errorf("banner = %v, want == hello ==", got)
	}
}

func TestSelf_DelegationSeesOverride(t *testing.T) {
	root, provider := New()
	scope, err := provider.Mount(context.Background(), Impl{
		"line": func(text string) string { return text },
		"banner": func(self Self, text string) string {
			return self["line"].(func(string) string)(text)
		},
	})
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	defer scope.Close()

	over, err := provider.Override(scope.Context(), Impl{
		"line": func(text string) string { return strings.ToUpper(text) },
	}, "loud")
	if err != nil {
		t.Fatalf("Override: %v", err)
	}
	defer over.Close()

	// Dispatching banner under the override must delegate to the overridden
	// line, not the root one.
	got, err := root.Get("banner").Call(over.Context(), "quiet")
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got != "QUIET" {
		t.Errorf("banner under override = %v, want QUIET", got)
	}
}

// Struct implementations delegate through bound methods: the receiver is the
// implementation object itself.
type delegatingImpl struct{ suffix string }

func (d *delegatingImpl) Inner(text string) string { return text + d.suffix }
func (d *delegatingImpl) Outer(text string) string { return d.Inner("(" + text + ")") }

func TestSelf_StructMethodDelegation(t *testing.T) {
	root, ctx := mount(t, &delegatingImpl{suffix: "!"})

	got, err := root.Get("Outer").Call(ctx, "x")
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got != "(x)!" {
		t.Errorf("Outer = %v, want (x)!", got)
	}
}

func TestSelf_NestedOwnerIsNamespaceObject(t *testing.T) {
	impl := Impl{
		"top": func() string { return "top" },
		"ns": Impl{
			"sibling": func() string { return "sib" },
			"caller": func(self Self) string {
				// Self is the object one level up the walked path: the
				// namespace, not the implementation root.
				if _, hasTop := self["top"]; hasTop {
					return "saw-top"
				}
				return self["sibling"].(func() string)()
			},
		},
	}
	root, ctx := mount(t, impl)

	got, err := root.At("ns", "caller").Call(ctx)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got != "sib" {
		t.Errorf("ns.caller = %v, want sib", got)
	}
}
