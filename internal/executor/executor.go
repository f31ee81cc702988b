// Package executor runs a loaded scenario model: it constructs the declared
// facades, mounts registered implementations, dispatches capability calls
// through handles, and applies override layers in source order.
package executor

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/vk/capscope/internal/config"
	"github.com/vk/capscope/internal/ctxlog"
	"github.com/vk/capscope/internal/facade"
	"github.com/vk/capscope/internal/registry"
)

// Executor drives facades through one scenario run.
type Executor struct {
	registry *registry.Registry
	decoder  config.Decoder
	outW     io.Writer
	facades  map[string]*scenarioFacade
}

// scenarioFacade pairs a declared facade with its live handle tree and
// provider for the duration of a run.
type scenarioFacade struct {
	def      *config.FacadeDefinition
	root     *facade.Handle
	provider *facade.Provider
}

// New creates an Executor over the given implementation registry and value
// decoder. Scenario output (provenance reports) is written to outW.
func New(reg *registry.Registry, decoder config.Decoder, outW io.Writer) *Executor {
	return &Executor{registry: reg, decoder: decoder, outW: outW}
}

// Run executes the scenario model sequentially. The first failing step
// aborts the run.
func (e *Executor) Run(ctx context.Context, model *config.Model) error {
	logger := ctxlog.FromContext(ctx)

	e.facades = make(map[string]*scenarioFacade, len(model.Facades))
	for name, def := range model.Facades {
		root, provider := facade.New(
			facade.WithDisplayName(def.DisplayName),
			facade.WithStrict(def.Strict),
		)
		e.facades[name] = &scenarioFacade{def: def, root: root, provider: provider}
	}
	logger.Debug("Facades constructed.", "count", len(e.facades))

	for _, mount := range model.Mounts {
		if err := e.runMount(ctx, mount); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) runMount(ctx context.Context, mount *config.Mount) error {
	logger := ctxlog.FromContext(ctx).With("facade", mount.Facade, "implementation", mount.Implementation)

	f, ok := e.facades[mount.Facade]
	if !ok {
		return fmt.Errorf("mount refers to undeclared facade %q", mount.Facade)
	}
	impl, err := e.lookupImpl(mount.Implementation, false)
	if err != nil {
		return err
	}

	logger.Info("▶️ Mounting implementation.")
	err = f.provider.With(ctx, impl.New(), func(ctx context.Context) error {
		return e.runSteps(ctx, f, mount.Steps)
	})
	if err != nil {
		return fmt.Errorf("mount of %q on facade %q failed: %w", mount.Implementation, mount.Facade, err)
	}
	logger.Info("✅ Mount finished.")
	return nil
}

func (e *Executor) runSteps(ctx context.Context, f *scenarioFacade, steps []config.Step) error {
	for _, step := range steps {
		switch s := step.(type) {
		case *config.CallStep:
			if err := e.runCall(ctx, f, s); err != nil {
				return err
			}
		case *config.OverrideStep:
			if err := e.runOverride(ctx, f, s); err != nil {
				return err
			}
		case *config.ProvenanceStep:
			if err := e.runProvenance(ctx, f); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown scenario step type %T", step)
		}
	}
	return nil
}

func (e *Executor) runCall(ctx context.Context, f *scenarioFacade, step *config.CallStep) error {
	logger := ctxlog.FromContext(ctx).With("capability", step.Capability)

	var args []any
	if step.Args != nil {
		decoded, err := e.decoder.Decode(step.Args)
		if err != nil {
			return fmt.Errorf("failed to decode args for call %q: %w", step.Capability, err)
		}
		list, ok := decoded.([]any)
		if !ok {
			return fmt.Errorf("args for call %q must be a list, got %T", step.Capability, decoded)
		}
		args = list
	}

	handle := f.root.At(strings.Split(step.Capability, ".")...)
	result, err := handle.Call(ctx, args...)
	if err != nil {
		return err
	}
	logger.Info("Call finished.", "result", result)

	if step.Expect != nil {
		want, err := e.decoder.Decode(step.Expect)
		if err != nil {
			return fmt.Errorf("failed to decode expect for call %q: %w", step.Capability, err)
		}
		if !valuesEqual(want, result) {
			return fmt.Errorf("call %q returned %v, expected %v", step.Capability, result, want)
		}
	}
	return nil
}

func (e *Executor) runOverride(ctx context.Context, f *scenarioFacade, step *config.OverrideStep) error {
	logger := ctxlog.FromContext(ctx).With("facade", f.def.Name, "tag", step.Tag)

	impl, err := e.lookupImpl(step.Implementation, true)
	if err != nil {
		return err
	}

	logger.Info("▶️ Applying override layer.")
	err = f.provider.WithOverride(ctx, impl.New(), step.Tag, func(ctx context.Context) error {
		return e.runSteps(ctx, f, step.Steps)
	})
	if err != nil {
		return fmt.Errorf("override %q on facade %q failed: %w", step.Tag, f.def.Name, err)
	}
	logger.Info("✅ Override layer finished.")
	return nil
}

func (e *Executor) runProvenance(ctx context.Context, f *scenarioFacade) error {
	provenance, err := f.provider.Provenance(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.outW, "--- provenance (%s) ---\n%s", f.def.Name, facade.FormatProvenance(provenance))
	return err
}

// lookupImpl resolves a registered implementation name, enforcing that
// partial override layers are not mounted as roots.
func (e *Executor) lookupImpl(name string, forOverride bool) (*registry.RegisteredImpl, error) {
	impl, ok := e.registry.Impl(name)
	if !ok {
		return nil, fmt.Errorf("unknown implementation %q; registered: %s", name, strings.Join(e.registry.Names(), ", "))
	}
	if impl.Partial && !forOverride {
		return nil, fmt.Errorf("implementation %q is a partial override layer and cannot be mounted as a root", name)
	}
	return impl, nil
}
