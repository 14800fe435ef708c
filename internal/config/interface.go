package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads all build files under the given workspace root, translates
	// them into the format-agnostic model, and validates label uniqueness.
	Load(ctx context.Context, root string) (*Model, error)
}
