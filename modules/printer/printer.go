// Package printer provides writer-backed text capabilities, plus a partial
// override layer that shouts every line.
package printer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vk/capscope/internal/facade"
	"github.com/vk/capscope/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// New builds the printer implementation writing to w.
func New(w io.Writer) facade.Impl {
	return facade.Impl{
		"line": func(text string) error {
			_, err := fmt.Fprintln(w, text)
			return err
		},
		// banner delegates to the sibling 'line' capability through its
		// Self parameter, so an override layer replacing 'line' also
		// changes how banners render.
		"banner": func(self facade.Self, text string) error {
			line := self["line"].(func(string) error)
			rule := strings.Repeat("=", len(text)+4)
			if err := line(rule); err != nil {
				return err
			}
			if err := line("| " + text + " |"); err != nil {
				return err
			}
			return line(rule)
		},
	}
}

// NewLoud builds the partial override layer. It only replaces 'line'; the
// base implementation keeps providing 'banner'.
func NewLoud(w io.Writer) facade.Impl {
	return facade.Impl{
		"line": func(text string) error {
			_, err := fmt.Fprintln(w, strings.ToUpper(text)+"!")
			return err
		},
	}
}

// Register registers the implementations with the application registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterImpl("printer", &registry.RegisteredImpl{
		New:         func() any { return New(os.Stdout) },
		Description: "Writes text lines and banners to standard output.",
	})
	r.RegisterImpl("printer_loud", &registry.RegisteredImpl{
		New:         func() any { return NewLoud(os.Stdout) },
		Partial:     true,
		Description: "Override layer that uppercases every printed line.",
	})
}
