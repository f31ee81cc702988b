package app_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/capscope/internal/facade"
	"github.com/vk/capscope/internal/registry"
	"github.com/vk/capscope/internal/testutil"
)

func TestApp_FullScenarioRun(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	scenario := `
		facade "session" {
			display_name = "Session"
		}

		mount "session" {
			implementation = "recorder"

			call "note" {
				args = ["start"]
			}

			call "sum" {
				args   = [4, 5]
				expect = 9
			}

			override {
				tag            = "quiet"
				implementation = "recorder_quiet"

				call "note" {
					args = ["muted"]
				}

				provenance {}
			}

			call "note" {
				args = ["end"]
			}
		}
	`
	recorder := &testutil.RecorderModule{}
	var muted []string
	quietLayer := &testutil.SimpleModule{
		Name: "recorder_quiet",
		Impl: &registry.RegisteredImpl{
			New: func() any {
				return facade.Impl{
					"note": func(text string) { muted = append(muted, text) },
				}
			},
			Partial: true,
		},
	}

	// --- Act ---
	result := testutil.RunScenarioTest(t, scenario, recorder, quietLayer)

	// --- Assert ---
	require.NoError(t, result.Err)
	require.Equal(t, []string{"note(start)", "sum(4, 5)", "note(end)"}, recorder.Entries())
	require.Equal(t, []string{"muted"}, muted)
	require.Contains(t, result.Output, "--- provenance (session) ---")
	require.Contains(t, result.Output, "note: Session -> quiet")
}

func TestApp_MissingCapabilityFailsWithDottedPath(t *testing.T) {
	t.Parallel()

	scenario := `
		facade "session" {
			display_name = "Session"
		}

		mount "session" {
			implementation = "recorder"

			call "tagged.absent" {}
		}
	`

	result := testutil.RunScenarioTest(t, scenario, &testutil.RecorderModule{})

	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "tagged.absent")
	require.Contains(t, result.Err.Error(), "Session")
}

func TestApp_BadScenarioPathPanicsAtStartup(t *testing.T) {
	t.Parallel()

	// An unparsable scenario is a startup failure, not a run failure.
	result := testutil.RunScenarioTest(t, `mount "x" {`, &testutil.NoOpModule{})

	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "application startup panicked")
	require.Contains(t, result.Err.Error(), "failed to load scenario")
}

func TestApp_InvalidRegisteredImplPanicsAtStartup(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	broken := &testutil.SimpleModule{
		Name: "broken",
		Impl: &registry.RegisteredImpl{
			New: func() any {
				return facade.Impl{"value": 42}
			},
		},
	}
	scenario := `
		facade "session" {}

		mount "session" {
			implementation = "broken"
		}
	`

	// --- Act ---
	result := testutil.RunScenarioTest(t, scenario, broken)

	// --- Assert ---
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "application startup panicked")
	require.Contains(t, result.Err.Error(), "registry validation failed")
	require.Contains(t, result.Err.Error(), `"value"`)
}

func TestApp_EmptyScenarioIsANoOp(t *testing.T) {
	t.Parallel()

	result := testutil.RunScenarioTest(t, `facade "session" {}`, &testutil.NoOpModule{})

	require.NoError(t, result.Err)
	require.Contains(t, result.Output, "no mounts")
}
