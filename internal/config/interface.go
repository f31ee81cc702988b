package config

import (
	"context"

	"github.com/hashicorp/hcl/v2"
)

// Loader is the interface for a format-specific scenario loader.
type Loader interface {
	// Load reads a scenario from a file or directory path, translates it
	// into the format-agnostic model, and returns a matching Decoder.
	Load(ctx context.Context, path string) (*Model, Decoder, error)
}

// Decoder evaluates a scenario expression into its native Go value, bridging
// the configuration format's value system and the capability functions'
// parameter types.
type Decoder interface {
	Decode(expr hcl.Expression) (any, error)
}
