// Package envvars provides process environment lookup capabilities.
package envvars

import (
	"os"
	"strings"

	"github.com/vk/capscope/internal/facade"
	"github.com/vk/capscope/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// New builds the envvars implementation.
func New() facade.Impl {
	return facade.Impl{
		"get": func(name string) (string, bool) {
			return os.LookupEnv(name)
		},
		"all": func() map[string]string {
			envMap := make(map[string]string)
			for _, e := range os.Environ() {
				pair := strings.SplitN(e, "=", 2)
				if len(pair) == 2 {
					envMap[pair[0]] = pair[1]
				}
			}
			return envMap
		},
	}
}

// Register registers the implementation with the application registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterImpl("envvars", &registry.RegisteredImpl{
		New:         func() any { return New() },
		Description: "Reads variables from the process environment.",
	})
}
