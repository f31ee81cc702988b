package facade

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestProvider_AlreadyBound(t *testing.T) {
	_, provider := New(WithDisplayName("Session"))
	scope, err := provider.Mount(context.Background(), Impl{"a": func() {}})
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	defer scope.Close()

	// A second root for the same facade is illegal regardless of content,
	// even an empty implementation.
	_, err = provider.Mount(scope.Context(), Impl{})

	var abe *AlreadyBoundError
	if !errors.As(err, &abe) {
		t.Fatalf("err = %v, want AlreadyBoundError", err)
	}
	if !strings.Contains(err.Error(), "Session") {
		t.Errorf("error message %q missing display name", err.Error())
	}
}

func TestProvider_DistinctFacadesNest(t *testing.T) {
	rootA, providerA := New(WithDisplayName("A"))
	rootB, providerB := New(WithDisplayName("B"))

	scopeA, err := providerA.Mount(context.Background(), Impl{"who": func() string { return "a" }})
	if err != nil {
		t.Fatalf("Mount A: %v", err)
	}
	defer scopeA.Close()

	// Each facade defines its own binding namespace, so a root for B inside
	// A's subtree is legal.
	scopeB, err := providerB.Mount(scopeA.Context(), Impl{"who": func() string { return "b" }})
	if err != nil {
		t.Fatalf("Mount B inside A: %v", err)
	}
	defer scopeB.Close()

	if got, _ := rootA.Get("who").Call(scopeB.Context()); got != "a" {
		t.Errorf("A.who = %v, want a", got)
	}
	if got, _ := rootB.Get("who").Call(scopeB.Context()); got != "b" {
		t.Errorf("B.who = %v, want b", got)
	}
}

func TestProvider_BindTimeValidation(t *testing.T) {
	cases := []struct {
		name     string
		impl     any
		wantKey  string
		wantKind string
	}{
		{"string value", Impl{"a": "nope"}, "a", "string"},
		{"number value", Impl{"a": 7}, "a", "int"},
		{"nil value", Impl{"a": nil}, "a", "nil"},
		{"nested offender", Impl{"ns": Impl{"b": 1.5}}, "ns.b", "float64"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, provider := New(WithDisplayName("Session"))

			_, err := provider.Mount(context.Background(), tc.impl)

			var nfe *NotAFunctionError
			if !errors.As(err, &nfe) {
				t.Fatalf("err = %v, want NotAFunctionError", err)
			}
			if nfe.Key != tc.wantKey || nfe.Kind != tc.wantKind {
				t.Errorf("NotAFunctionError = %+v, want Key=%q Kind=%q", nfe, tc.wantKey, tc.wantKind)
			}
		})
	}
}

func TestProvider_With(t *testing.T) {
	root, provider := New()

	var inside any
	err := provider.With(context.Background(), Impl{"a": func() string { return "in" }}, func(ctx context.Context) error {
		v, err := root.Get("a").Call(ctx)
		inside = v
		return err
	})
	if err != nil {
		t.Fatalf("With: %v", err)
	}
	if inside != "in" {
		t.Errorf("call inside With = %v, want in", inside)
	}
}

func TestProvider_WithPropagatesCallbackError(t *testing.T) {
	_, provider := New()

	want := fmt.Errorf("callback failed")
	err := provider.With(context.Background(), Impl{}, func(ctx context.Context) error {
		return want
	})
	if !errors.Is(err, want) {
		t.Errorf("With err = %v, want %v", err, want)
	}
}

func TestProvider_Bound(t *testing.T) {
	_, provider := New()

	if provider.Bound(context.Background()) {
		t.Error("Bound = true outside any provider")
	}

	scope, err := provider.Mount(context.Background(), Impl{})
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if !provider.Bound(scope.Context()) {
		t.Error("Bound = false inside provider")
	}

	scope.Close()
	if provider.Bound(scope.Context()) {
		t.Error("Bound = true after teardown")
	}
}

// structImpl exercises the struct implementation shape: exported methods and
// func fields become capabilities, nested structs become namespaces, plain
// data fields are filtered out.
type structImpl struct {
	Greet  func(name string) string
	Nested nestedImpl
	Label  string // not a function: filtered, never an error

	prefix string
}

type nestedImpl struct {
	Flag func() bool
}

func (s *structImpl) Shout(text string) string {
	return s.prefix + strings.ToUpper(text)
}

func TestProvider_StructImplementation(t *testing.T) {
	impl := &structImpl{
		Greet:  func(name string) string { return "hi " + name },
		Nested: nestedImpl{Flag: func() bool { return true }},
		Label:  "ignored",
		prefix: ">> ",
	}
	root, ctx := mount(t, impl)

	if got, err := root.Get("Greet").Call(ctx, "ada"); err != nil || got != "hi ada" {
		t.Errorf("Greet = %v, %v; want hi ada", got, err)
	}
	if got, err := root.Get("Shout").Call(ctx, "quiet"); err != nil || got != ">> QUIET" {
		t.Errorf("Shout = %v, %v; want >> QUIET", got, err)
	}
	if got, err := root.At("Nested", "Flag").Call(ctx); err != nil || got != true {
		t.Errorf("Nested.Flag = %v, %v; want true", got, err)
	}

	// The filtered data field is not a capability.
	_, err := root.Get("Label").Call(ctx)
	var mce *MissingCapabilityError
	if !errors.As(err, &mce) {
		t.Errorf("Label err = %v, want MissingCapabilityError", err)
	}
}

func TestValidateImpl(t *testing.T) {
	if err := ValidateImpl("Catalog", Impl{"ok": func() {}}); err != nil {
		t.Errorf("ValidateImpl(valid) = %v, want nil", err)
	}

	err := ValidateImpl("Catalog", Impl{"bad": 3})
	var nfe *NotAFunctionError
	if !errors.As(err, &nfe) {
		t.Fatalf("ValidateImpl(invalid) = %v, want NotAFunctionError", err)
	}
	if nfe.Facade != "Catalog" {
		t.Errorf("Facade label = %q, want Catalog", nfe.Facade)
	}
}
