package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/kraken-build/krakenw/internal/buildenv"
	"github.com/kraken-build/krakenw/internal/ctxlog"
	"github.com/kraken-build/krakenw/internal/dispatch"
	"github.com/kraken-build/krakenw/internal/lockfile"
	"github.com/kraken-build/krakenw/internal/reqspec"
)

// Run executes the configured command and returns the process exit code.
func (a *App) Run(ctx context.Context) (int, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	switch a.config.Command {
	case "env":
		return a.runEnvCommand(ctx)
	default:
		return a.runBuild(ctx)
	}
}

// extractSpec recomputes the requirement spec from the current project
// contents, with the implied CLI requirement appended.
func (a *App) extractSpec() (*reqspec.Spec, error) {
	spec, err := reqspec.ExtractForProject(a.config.ProjectDir)
	if err != nil {
		return nil, err
	}
	return spec.WithImplied(Version, a.config.Settings.Develop, a.config.Settings.DevelopRoot)
}

// EnsureEnvironment probes the environment and installs it when the probe
// calls for it. The returned result carries the dispatch decision the
// caller should act on.
func (a *App) EnsureEnvironment(ctx context.Context) (buildenv.Result, error) {
	logger := ctxlog.FromContext(ctx)

	spec, err := a.extractSpec()
	if err != nil {
		return buildenv.Result{}, err
	}
	result := buildenv.Probe(ctx, spec, a.desc, a.store, a.config.Settings)
	logger.Debug("environment probed", "decision", result.Decision.String(), "reason", string(result.Reason))

	if result.Decision == buildenv.InstallThenRun {
		logger.Info("installing build environment", "path", a.desc.Path, "reason", string(result.Reason))
		if _, err := a.installer.Install(ctx, spec, a.desc, a.installMode(result.Reason)); err != nil {
			return result, err
		}
	}
	return result, nil
}

// installMode picks the install mode for a probe reason. A
// local-requirement refresh re-resolves instead of replaying the lock.
func (a *App) installMode(reason buildenv.Reason) buildenv.Mode {
	if reason == buildenv.ReasonLocalRefresh {
		return buildenv.ModeUpgrade
	}
	return buildenv.ModeFresh
}

// runBuild ensures the environment and then runs the build: in-process when
// this process already is the environment, via re-exec otherwise.
func (a *App) runBuild(ctx context.Context) (int, error) {
	result, err := a.EnsureEnvironment(ctx)
	if err != nil {
		return 1, err
	}

	if result.Decision == buildenv.RunInPlace {
		// Even in managed mode the search-path additions must be applied:
		// the operator may have set KRAKEN_MANAGED=1 by hand.
		spec, err := a.extractSpec()
		if err != nil {
			return 1, err
		}
		return a.engine.Execute(ctx, reqspec.ScriptPath(a.config.ProjectDir), spec.SearchPaths, a.config.Targets)
	}

	return dispatch.Reexec(ctx, a.desc, a.config.Argv, a.config.Environ)
}

// runEnvCommand handles the `krakenw env <cmd>` surface.
func (a *App) runEnvCommand(ctx context.Context) (int, error) {
	if a.config.Settings.Managed {
		return 1, errors.New("env commands cannot be used inside a managed environment")
	}

	switch a.config.EnvCommand {
	case "status":
		return a.envStatus(ctx)
	case "install":
		if _, err := a.EnsureEnvironment(ctx); err != nil {
			return 1, err
		}
		return 0, nil
	case "upgrade":
		return a.envInstall(ctx, buildenv.ModeUpgrade)
	case "lock":
		return a.envInstall(ctx, buildenv.ModeLockOnly)
	case "remove":
		if err := a.installer.Remove(ctx, a.desc); err != nil {
			return 1, err
		}
		ctxlog.FromContext(ctx).Info("build environment removed", "path", a.desc.Path)
		return 0, nil
	}
	return 1, fmt.Errorf("unknown env command %q", a.config.EnvCommand)
}

func (a *App) envInstall(ctx context.Context, mode buildenv.Mode) (int, error) {
	spec, err := a.extractSpec()
	if err != nil {
		return 1, err
	}
	if _, err := a.installer.Install(ctx, spec, a.desc, mode); err != nil {
		return 1, err
	}
	return 0, nil
}

func (a *App) envStatus(ctx context.Context) (int, error) {
	spec, err := a.extractSpec()
	if err != nil {
		return 1, err
	}

	envNote := ""
	if !a.desc.Exists() {
		envNote = " (does not exist)"
	}
	envFingerprint, ok := a.desc.Fingerprint()
	if !ok {
		envFingerprint = "none"
	}

	lockFingerprint := "none"
	lock, err := a.store.Load(a.desc.LockPath)
	switch {
	case err == nil:
		lockFingerprint = lock.Fingerprint
	case errors.Is(err, lockfile.ErrNotFound):
	default:
		lockFingerprint = fmt.Sprintf("unreadable (%v)", err)
	}

	fmt.Fprintf(a.outW, " environment path: %s%s\n", a.desc.Path, envNote)
	fmt.Fprintf(a.outW, " environment hash: %s\n", envFingerprint)
	fmt.Fprintf(a.outW, "requirements hash: %s\n", spec.Fingerprint())
	fmt.Fprintf(a.outW, "    lockfile hash: %s\n", lockFingerprint)
	return 0, nil
}
