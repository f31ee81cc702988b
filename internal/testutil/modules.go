package testutil

import (
	"fmt"
	"sync"

	"github.com/vk/capscope/internal/facade"
	"github.com/vk/capscope/internal/registry"
)

// SimpleModule is a test helper for easily creating a mock module that
// registers a single implementation.
type SimpleModule struct {
	Name string
	Impl *registry.RegisteredImpl
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	if m.Name != "" && m.Impl != nil {
		r.RegisterImpl(m.Name, m.Impl)
	}
}

// RecorderModule registers a "recorder" implementation whose capabilities
// append to an in-memory log, so tests can assert on call order and
// arguments.
type RecorderModule struct {
	mu      sync.Mutex
	entries []string
}

// Entries returns a copy of the recorded capability calls.
func (m *RecorderModule) Entries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.entries...)
}

func (m *RecorderModule) record(format string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, fmt.Sprintf(format, args...))
}

// Register registers the "recorder" implementation.
func (m *RecorderModule) Register(r *registry.Registry) {
	r.RegisterImpl("recorder", &registry.RegisteredImpl{
		New: func() any {
			return facade.Impl{
				"note": func(text string) {
					m.record("note(%s)", text)
				},
				"sum": func(a, b float64) float64 {
					m.record("sum(%v, %v)", a, b)
					return a + b
				},
				"tagged": facade.Impl{
					"note": func(text string) {
						m.record("tagged.note(%s)", text)
					},
				},
			}
		},
		Description: "Records capability calls for assertions.",
	})
}

// NoOpModule registers a single "noop" implementation with one capability
// that does nothing. It's useful for tests that should fail before
// execution begins but still need a registry that passes validation.
type NoOpModule struct{}

// Register registers the "noop" implementation.
func (m *NoOpModule) Register(r *registry.Registry) {
	r.RegisterImpl("noop", &registry.RegisteredImpl{
		New: func() any {
			return facade.Impl{
				"run": func() {},
			}
		},
		Description: "Does nothing.",
	})
}
