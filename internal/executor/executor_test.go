package executor_test

import (
	"bytes"
	"context"
	"testing"

	hcllib "github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/require"
	"github.com/vk/capscope/internal/config"
	"github.com/vk/capscope/internal/executor"
	"github.com/vk/capscope/internal/hcl"
	"github.com/vk/capscope/internal/registry"
	"github.com/vk/capscope/internal/testutil"
)

// expr parses literal HCL expression source for step arguments.
func expr(t *testing.T, src string) hcllib.Expression {
	t.Helper()
	parsed, diags := hclsyntax.ParseExpression([]byte(src), "test.hcl", hcllib.InitialPos)
	require.False(t, diags.HasErrors(), "parse diagnostics: %s", diags.Error())
	return parsed
}

// newModel builds a single-facade model around the given mount steps.
func newModel(implementation string, steps ...config.Step) *config.Model {
	return &config.Model{
		Facades: map[string]*config.FacadeDefinition{
			"session": {Name: "session", DisplayName: "Session", Strict: true},
		},
		Mounts: []*config.Mount{
			{Facade: "session", Implementation: implementation, Steps: steps},
		},
	}
}

// newExecutor wires an executor over the given test modules, capturing
// scenario output in the returned buffer.
func newExecutor(t *testing.T, modules ...registry.Module) (*executor.Executor, *bytes.Buffer) {
	t.Helper()
	reg := registry.New()
	for _, mod := range modules {
		mod.Register(reg)
	}
	require.NoError(t, reg.Validate(context.Background()))

	var out bytes.Buffer
	return executor.New(reg, hcl.NewConverter(), &out), &out
}

func TestExecutor_CallWithArgsAndExpect(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	recorder := &testutil.RecorderModule{}
	exec, _ := newExecutor(t, recorder)
	model := newModel("recorder",
		&config.CallStep{Capability: "sum", Args: expr(t, `[1, 2]`), Expect: expr(t, `3`)},
		&config.CallStep{Capability: "note", Args: expr(t, `["done"]`)},
	)

	// --- Act ---
	err := exec.Run(context.Background(), model)

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, []string{"sum(1, 2)", "note(done)"}, recorder.Entries())
}

func TestExecutor_NestedCapabilityCall(t *testing.T) {
	t.Parallel()

	recorder := &testutil.RecorderModule{}
	exec, _ := newExecutor(t, recorder)
	model := newModel("recorder",
		&config.CallStep{Capability: "tagged.note", Args: expr(t, `["deep"]`)},
	)

	err := exec.Run(context.Background(), model)

	require.NoError(t, err)
	require.Equal(t, []string{"tagged.note(deep)"}, recorder.Entries())
}

func TestExecutor_ExpectMismatchFails(t *testing.T) {
	t.Parallel()

	exec, _ := newExecutor(t, &testutil.RecorderModule{})
	model := newModel("recorder",
		&config.CallStep{Capability: "sum", Args: expr(t, `[1, 2]`), Expect: expr(t, `4`)},
	)

	err := exec.Run(context.Background(), model)

	require.Error(t, err)
	require.Contains(t, err.Error(), `call "sum" returned 3, expected 4`)
}

func TestExecutor_UnknownImplementationFails(t *testing.T) {
	t.Parallel()

	exec, _ := newExecutor(t, &testutil.RecorderModule{}, &testutil.NoOpModule{})
	model := newModel("absent")

	err := exec.Run(context.Background(), model)

	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown implementation "absent"`)
	require.Contains(t, err.Error(), "noop, recorder", "error should list registered names sorted")
}

func TestExecutor_UndeclaredFacadeFails(t *testing.T) {
	t.Parallel()

	exec, _ := newExecutor(t, &testutil.NoOpModule{})
	model := &config.Model{
		Facades: map[string]*config.FacadeDefinition{},
		Mounts:  []*config.Mount{{Facade: "ghost", Implementation: "noop"}},
	}

	err := exec.Run(context.Background(), model)

	require.Error(t, err)
	require.Contains(t, err.Error(), `mount refers to undeclared facade "ghost"`)
}

func TestExecutor_PartialCannotBeMountedAsRoot(t *testing.T) {
	t.Parallel()

	partial := &testutil.SimpleModule{
		Name: "quiet_layer",
		Impl: &registry.RegisteredImpl{
			New:     func() any { return map[string]any{"note": func(string) {}} },
			Partial: true,
		},
	}
	exec, _ := newExecutor(t, partial)
	model := newModel("quiet_layer")

	err := exec.Run(context.Background(), model)

	require.Error(t, err)
	require.Contains(t, err.Error(), `implementation "quiet_layer" is a partial override layer`)
}

func TestExecutor_OverrideAppliesInsideBlockOnly(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	recorder := &testutil.RecorderModule{}
	var overridden []string
	quietLayer := &testutil.SimpleModule{
		Name: "recorder_quiet",
		Impl: &registry.RegisteredImpl{
			New: func() any {
				return map[string]any{
					"note": func(text string) {
						overridden = append(overridden, text)
					},
				}
			},
			Partial: true,
		},
	}
	exec, _ := newExecutor(t, recorder, quietLayer)
	model := newModel("recorder",
		&config.CallStep{Capability: "note", Args: expr(t, `["before"]`)},
		&config.OverrideStep{
			Tag:            "quiet",
			Implementation: "recorder_quiet",
			Steps: []config.Step{
				&config.CallStep{Capability: "note", Args: expr(t, `["inside"]`)},
				&config.CallStep{Capability: "sum", Args: expr(t, `[2, 3]`), Expect: expr(t, `5`)},
			},
		},
		&config.CallStep{Capability: "note", Args: expr(t, `["after"]`)},
	)

	// --- Act ---
	err := exec.Run(context.Background(), model)

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, []string{"inside"}, overridden, "only the call inside the override block should hit the layer")
	require.Equal(t, []string{"note(before)", "sum(2, 3)", "note(after)"}, recorder.Entries(),
		"non-overridden capabilities fall through to the base implementation")
}

func TestExecutor_ProvenanceReportWritten(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	recorder := &testutil.RecorderModule{}
	quietLayer := &testutil.SimpleModule{
		Name: "recorder_quiet",
		Impl: &registry.RegisteredImpl{
			New:     func() any { return map[string]any{"note": func(string) {}} },
			Partial: true,
		},
	}
	exec, out := newExecutor(t, recorder, quietLayer)
	model := newModel("recorder",
		&config.OverrideStep{
			Tag:            "quiet",
			Implementation: "recorder_quiet",
			Steps: []config.Step{
				&config.ProvenanceStep{},
			},
		},
	)

	// --- Act ---
	err := exec.Run(context.Background(), model)

	// --- Assert ---
	require.NoError(t, err)
	report := out.String()
	require.Contains(t, report, "--- provenance (session) ---")
	require.Contains(t, report, "note: Session -> quiet")
	require.Contains(t, report, "sum: Session")
}
