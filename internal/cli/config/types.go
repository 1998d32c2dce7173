// Package config provides configuration management for the taskerslab CLI.
//
// The generation parameters are the shared intconfig.GenerationConfig; this
// package adds the CLI-only settings and the layered loader.
package config

import (
	intconfig "github.com/leapstack-labs/taskerslab/internal/config"
)

// GenerationConfig is an alias for the shared generation parameters.
type GenerationConfig = intconfig.GenerationConfig

// Config holds all CLI configuration options.
type Config struct {
	GenerationConfig `koanf:",squash"`

	StatePath    string `koanf:"state_path"`
	NoState      bool   `koanf:"no_state"`
	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`
	LogLevel     string `koanf:"log_level"`

	// ProjectRoot is the directory relative paths were resolved against.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultStateFile = ".taskerslab/state.db"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel  = "warn"
	EnvPrefix        = "TASKERSLAB_"
)
