package config

import "context"

// Loader is the interface for a format-specific experiment loader. Load
// reads the definition at path (a file or a directory of files), translates
// it into the format-agnostic model, and validates it.
type Loader interface {
	Load(ctx context.Context, path string) (*Experiment, error)
}
