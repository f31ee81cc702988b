// Package clock provides time capabilities. It is struct-shaped: the
// exported methods of Clock become the mounted capabilities.
package clock

import (
	"time"

	"github.com/vk/capscope/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Clock reads the current time from a source function, so tests can pin it.
type Clock struct {
	source func() time.Time
}

// New builds a Clock backed by the system time.
func New() *Clock {
	return &Clock{source: time.Now}
}

// NewAt builds a Clock backed by the given source function.
func NewAt(source func() time.Time) *Clock {
	return &Clock{source: source}
}

// Now returns the current time in UTC, RFC 3339 formatted.
func (c *Clock) Now() string {
	return c.source().UTC().Format(time.RFC3339)
}

// Unix returns the current time as seconds since the Unix epoch.
func (c *Clock) Unix() float64 {
	return float64(c.source().Unix())
}

// Register registers the implementation with the application registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterImpl("clock", &registry.RegisteredImpl{
		New:         func() any { return New() },
		Description: "Reads the current system time.",
	})
}
