package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// Root is the workspace root containing build files.
	Root string
	// Query is the expression to evaluate against the target graph.
	Query string
	// OutputFile redirects query output to a file when non-empty,
	// resolved against WorkDir.
	OutputFile string
	// LoadAnalysis, when non-empty, loads analysis values from a snapshot
	// instead of analyzing. SaveAnalysis writes one after analyzing.
	LoadAnalysis string
	SaveAnalysis string

	Workers   int
	LogFormat string
	LogLevel  string
	// WorkDir is the command's working directory, used to resolve
	// OutputFile.
	WorkDir string
}

// NewConfig validates the required fields and returns the config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Root == "" {
		return nil, errors.New("Root is a required configuration field and cannot be empty")
	}
	if cfg.Query == "" {
		return nil, errors.New("Query is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
