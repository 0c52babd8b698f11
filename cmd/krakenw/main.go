package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/kraken-build/krakenw/internal/app"
	"github.com/kraken-build/krakenw/internal/buildenv"
	"github.com/kraken-build/krakenw/internal/cli"
	"github.com/kraken-build/krakenw/internal/engine"
	"github.com/kraken-build/krakenw/internal/lockfile"
	"github.com/kraken-build/krakenw/internal/pkginst"
	"github.com/kraken-build/krakenw/internal/reqspec"
)

// main is the entrypoint for the krakenw binary.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	code, err := run(os.Stdout, os.Args[1:])
	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		var malformed *reqspec.MalformedError
		if errors.As(err, &malformed) {
			os.Exit(2)
		}
		if code == 0 {
			code = 1
		}
	}
	os.Exit(code)
}

// run encapsulates the main application logic for easier testing and error
// handling.
func run(outW io.Writer, args []string) (int, error) {
	config, shouldExit, err := cli.Parse(args, os.Getenv, os.Environ(), outW)
	if err != nil {
		return 0, err
	}
	if shouldExit {
		return 0, nil
	}

	// Production collaborators: the exec-backed package installer and the
	// in-process script engine rooted at the environment's package dir.
	desc := buildenv.NewDescriptor(config.ProjectDir, config.BuildDir)
	packages := pkginst.NewExecInstaller(config.InstallerCommand)
	scriptEngine := &engine.ScriptEngine{GoPath: desc.PackagesDir(), Stdout: os.Stdout, Stderr: os.Stderr}

	application := app.NewApp(outW, config, lockfile.NewDiskStore(), packages, scriptEngine)
	return application.Run(context.Background())
}
