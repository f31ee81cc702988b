// Package testutil provides a standardized harness for system tests that
// drive the application end-to-end from scenario text.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/capscope/internal/app"
	"github.com/vk/capscope/internal/hcl"
	"github.com/vk/capscope/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of a system test run.
type HarnessResult struct {
	Output string
	Err    error
	App    *app.App
}

// RunScenarioTest writes the scenario to a temporary file, builds an App
// over it with the given test modules, and runs it to completion using a
// default background context.
func RunScenarioTest(t *testing.T, scenario string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return RunScenarioTestWithContext(context.Background(), t, scenario, modules...)
}

// RunScenarioTestWithContext is RunScenarioTest with a caller-provided
// context.
func RunScenarioTestWithContext(ctx context.Context, t *testing.T, scenario string, modules ...registry.Module) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	scenarioPath := filepath.Join(tmpDir, "main.hcl")
	require.NoError(t, os.WriteFile(scenarioPath, []byte(scenario), 0644))

	appConfig := &app.Config{
		ScenarioPath: scenarioPath,
		LogFormat:    "text",
		LogLevel:     "debug",
	}

	outBuffer := &SafeBuffer{}

	// app.NewApp panics on startup errors; convert those back into an
	// error the test can assert on.
	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				if os.Getenv("CAPSCOPE_TEST_LOGS") == "true" {
					t.Logf("--- HARNESS RECOVERED PANIC ---\n%q", fmt.Sprintf("%v", r))
				}
				panicErr = r
			}
		}()
		testApp = app.NewApp(outBuffer, appConfig, hcl.NewLoader(), modules...)
	}()

	if panicErr != nil {
		return &HarnessResult{
			Output: outBuffer.String(),
			Err:    fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}

	runErr := testApp.Run(ctx)

	if os.Getenv("CAPSCOPE_TEST_LOGS") == "true" {
		t.Logf("--- HARNESS OUTPUT ---\n%s", outBuffer.String())
	}

	return &HarnessResult{
		Output: outBuffer.String(),
		Err:    runErr,
		App:    testApp,
	}
}
