package config

import "context"

// Loader is the interface for a format-specific declaration loader.
type Loader interface {
	// Load reads the declaration from the given files or directories and
	// translates it into the format-agnostic model. Expressions are fully
	// evaluated; the model holds plain values only.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
