package app

import (
	"errors"
	"fmt"

	"github.com/kraken-build/krakenw/internal/buildenv"
)

// Version is the version of the CLI. It becomes the implied requirement
// installed into every managed environment and is recorded in lock files.
const Version = "0.1.0"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ProjectDir string
	BuildDir   string

	// Command is "run" or "env"; EnvCommand selects the env subcommand.
	Command    string
	EnvCommand string
	Targets    []string

	LogFormat string
	LogLevel  string

	// InstallerCommand overrides the package installer binary.
	InstallerCommand string

	// Argv are the original command-line arguments, replayed verbatim when
	// re-executing inside the environment.
	Argv []string

	// Environ is the process environment captured once at startup; the
	// dispatcher builds the child environment from it.
	Environ []string

	Settings buildenv.Settings
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ProjectDir == "" {
		return nil, errors.New("ProjectDir is a required configuration field and cannot be empty")
	}
	if cfg.BuildDir == "" {
		return nil, errors.New("BuildDir is a required configuration field and cannot be empty")
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}
	return &cfg, nil
}
