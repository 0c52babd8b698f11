// Package dispatch re-executes the requested command inside the isolated
// environment. The child inherits the original arguments and standard
// streams, runs with KRAKEN_MANAGED=1 so it treats itself as the target
// environment, and its exit status is propagated verbatim.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/kraken-build/krakenw/internal/buildenv"
	"github.com/kraken-build/krakenw/internal/ctxlog"
)

// managedMarker is set in the child environment so the re-executed CLI
// short-circuits probing and runs in place.
const managedMarker = "KRAKEN_MANAGED=1"

// Reexec launches the environment's own CLI binary with argv and blocks
// until it exits. Interrupt and termination signals received by the parent
// are forwarded to the child so it can clean up; the parent then returns
// the child's exit code (signal-derived when the child was killed).
func Reexec(ctx context.Context, desc buildenv.Descriptor, argv []string, env []string) (int, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Info("dispatching into build environment", "binary", desc.CLIPath(), "args", argv)

	cmd := exec.Command(desc.CLIPath(), argv...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(append([]string(nil), env...), managedMarker)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("launch %s: %w", desc.CLIPath(), err)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case sig := <-signals:
				// Best effort; the child may already be gone.
				_ = cmd.Process.Signal(sig)
			case <-done:
				return
			}
		}
	}()

	err := cmd.Wait()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitCode(exitErr), nil
	}
	return 0, fmt.Errorf("wait for %s: %w", desc.CLIPath(), err)
}

// exitCode maps a child exit state to the code this process should exit
// with, using the shell convention 128+signal for signal deaths.
func exitCode(err *exec.ExitError) int {
	if status, ok := err.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return 128 + int(status.Signal())
	}
	return err.ExitCode()
}
