package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/hsbindgen/internal/generator"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestPaths []string // .hcl files or directories
	OutDir        string   // root of the generated modules
	OnError       string   // "fail" or "skip"
	DryRun        bool     // print modules instead of writing them

	LogFormat   string // "text" (default) or "json"
	LogLevel    string // "debug", "info" (default), "warn" or "error"
	WorkerCount int
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ManifestPaths) == 0 {
		return nil, errors.New("at least one manifest path is required")
	}
	if cfg.OutDir == "" && !cfg.DryRun {
		return nil, errors.New("OutDir is a required configuration field unless running dry")
	}
	policy, err := generator.ParsePolicy(cfg.OnError)
	if err != nil {
		return nil, err
	}
	cfg.OnError = string(policy)

	if cfg.WorkerCount < 0 {
		return nil, fmt.Errorf("worker count must not be negative, got %d", cfg.WorkerCount)
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = generator.DefaultWorkers
	}

	if err := normalizeLogging(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
