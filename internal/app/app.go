package app

import (
	"io"
	"log/slog"

	"github.com/kraken-build/krakenw/internal/buildenv"
	"github.com/kraken-build/krakenw/internal/engine"
	"github.com/kraken-build/krakenw/internal/lockfile"
	"github.com/kraken-build/krakenw/internal/pkginst"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	store     lockfile.Store
	installer *buildenv.Installer
	engine    engine.Engine
	desc      buildenv.Descriptor
}

// NewApp is the constructor for the main application. The package installer
// and build-graph engine are injected collaborators; production wiring lives
// in cmd/krakenw, tests pass fakes.
func NewApp(outW io.Writer, config *Config, store lockfile.Store, packages pkginst.Installer, eng engine.Engine) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, outW)
	return &App{
		outW:      outW,
		logger:    logger,
		config:    config,
		store:     store,
		installer: buildenv.NewInstaller(store, packages, Version),
		engine:    eng,
		desc:      buildenv.NewDescriptor(config.ProjectDir, config.BuildDir),
	}
}

// Descriptor returns the environment descriptor. This is primarily for testing.
func (a *App) Descriptor() buildenv.Descriptor {
	return a.desc
}
