// Package cli parses the command line and the recognized environment
// variables into the application's configuration. It is the only place the
// process environment is read; every other component receives the explicit
// config struct.
package cli

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"github.com/kraken-build/krakenw/internal/app"
	"github.com/kraken-build/krakenw/internal/buildenv"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const usage = `krakenw - build environment manager.

Ensures an isolated environment with the build script's declared
requirements, then runs the build inside it.

Usage:
  krakenw [options] run [target...]
  krakenw [options] env <status|install|upgrade|lock|remove>

Options:
`

// Parse processes command-line arguments and the recognized environment
// variables. It returns a populated app.Config, a boolean indicating if the
// program should exit cleanly, or an ExitError.
func Parse(args []string, getenv func(string) string, environ []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("krakenw", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, usage)
		flagSet.PrintDefaults()
	}

	projectDirFlag := flagSet.String("p", ".", "Root project directory.")
	buildDirFlag := flagSet.String("b", "build", "Build directory to write to.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Logging level. Options: 'debug', 'info', 'warn', 'error'.")
	installerFlag := flagSet.String("installer", "", "Package installer command to delegate to.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		flagSet.Usage()
		return nil, true, nil
	}

	command := rest[0]
	var envCommand string
	var targets []string
	switch command {
	case "run":
		targets = rest[1:]
	case "env":
		if len(rest) != 2 {
			return nil, false, &ExitError{Code: 2, Message: "usage: krakenw env <status|install|upgrade|lock|remove>"}
		}
		envCommand = rest[1]
		switch envCommand {
		case "status", "install", "upgrade", "lock", "remove":
		default:
			return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown env command %q", envCommand)}
		}
	default:
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q", command)}
	}

	// A relative build directory is anchored to the project, not the cwd.
	buildDir := *buildDirFlag
	if !filepath.IsAbs(buildDir) {
		buildDir = filepath.Join(*projectDirFlag, buildDir)
	}

	config, err := app.NewConfig(app.Config{
		ProjectDir:       *projectDirFlag,
		BuildDir:         buildDir,
		Command:          command,
		EnvCommand:       envCommand,
		Targets:          targets,
		LogFormat:        *logFormatFlag,
		LogLevel:         *logLevelFlag,
		InstallerCommand: *installerFlag,
		Argv:             append([]string(nil), args...),
		Environ:          environ,
		Settings: buildenv.Settings{
			Managed:                       getenv("KRAKEN_MANAGED") == "1",
			AlwaysUpdateLocalRequirements: getenv("KRAKEN_ALWAYS_UPDATE_LOCAL_REQUIREMENTS") == "1",
			Develop:                       getenv("KRAKEN_DEVELOP") == "1",
			DevelopRoot:                   getenv("KRAKEN_DEVELOP_ROOT"),
		},
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return config, false, nil
}
