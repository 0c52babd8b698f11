package pkginst

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/kraken-build/krakenw/internal/ctxlog"
)

// DefaultCommand is the installer binary invoked when none is configured.
const DefaultCommand = "kraken-pkg"

// ExecInstaller shells out to an external installer binary. The contract is
// verb-based:
//
//	<cmd> install --target DIR [--index-url U] [--extra-index-url U]... TOKEN...
//	<cmd> freeze  --target DIR
//
// Both verbs print one "name==version" line per installed package on stdout.
type ExecInstaller struct {
	// Command is the installer binary. Empty means DefaultCommand.
	Command string
}

// NewExecInstaller returns an installer running the given command.
func NewExecInstaller(command string) *ExecInstaller {
	if command == "" {
		command = DefaultCommand
	}
	return &ExecInstaller{Command: command}
}

func (e *ExecInstaller) Install(ctx context.Context, targetDir string, tokens []string, flags IndexFlags) (Resolved, error) {
	args := []string{"install", "--target", targetDir}
	if flags.IndexURL != "" {
		args = append(args, "--index-url", flags.IndexURL)
	}
	for _, extra := range flags.ExtraIndexURLs {
		args = append(args, "--extra-index-url", extra)
	}
	args = append(args, tokens...)
	return e.run(ctx, args)
}

func (e *ExecInstaller) Freeze(ctx context.Context, targetDir string) (Resolved, error) {
	return e.run(ctx, []string{"freeze", "--target", targetDir})
}

func (e *ExecInstaller) run(ctx context.Context, args []string) (Resolved, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("invoking package installer", "command", e.Command, "args", args)

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, e.Command, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("installer %s %s: %w", e.Command, args[0], err)
	}
	return parseResolved(stdout.String())
}

// parseResolved reads the installer's "name==version" stdout lines.
func parseResolved(output string) (Resolved, error) {
	resolved := Resolved{}
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, version, ok := strings.Cut(line, "==")
		if !ok || name == "" || version == "" {
			return nil, fmt.Errorf("installer produced malformed line %q", line)
		}
		resolved[name] = version
	}
	return resolved, nil
}
