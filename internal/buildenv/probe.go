package buildenv

import (
	"context"
	"errors"

	"github.com/kraken-build/krakenw/internal/ctxlog"
	"github.com/kraken-build/krakenw/internal/lockfile"
	"github.com/kraken-build/krakenw/internal/reqspec"
)

// Decision is the typed outcome of probing the environment. It is derived
// on every invocation and never persisted.
type Decision int

const (
	// RunInPlace executes the build graph in the current process.
	RunInPlace Decision = iota

	// InstallThenRun (re)installs the environment before dispatching.
	InstallThenRun

	// ReexecIntoEnvironment re-executes the command inside the environment.
	ReexecIntoEnvironment
)

func (d Decision) String() string {
	switch d {
	case RunInPlace:
		return "run-in-place"
	case InstallThenRun:
		return "install-then-run"
	case ReexecIntoEnvironment:
		return "reexec-into-environment"
	}
	return "unknown"
}

// Reason explains why an InstallThenRun decision was reached.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonMissing        Reason = "missing"
	ReasonStale          Reason = "stale"
	ReasonLockUnreadable Reason = "lock-unreadable"
	ReasonLocalRefresh   Reason = "local-requirement-refresh"
)

// Settings are the operator overrides affecting probe and install behavior.
// They are captured once at process start from the environment variables
// KRAKEN_MANAGED, KRAKEN_ALWAYS_UPDATE_LOCAL_REQUIREMENTS, KRAKEN_DEVELOP
// and KRAKEN_DEVELOP_ROOT; no component reads the process environment
// directly.
type Settings struct {
	// Managed means the current process already runs inside the target
	// environment. Probing and installing are bypassed entirely.
	Managed bool

	// AlwaysUpdateLocalRequirements forces a reinstall whenever the spec
	// contains a requirement resolved from a local path, even if the lock
	// fingerprint matches. Local paths can change contents without changing
	// the spec text.
	AlwaysUpdateLocalRequirements bool

	// Develop installs the CLI from DevelopRoot instead of the published
	// package.
	Develop bool

	// DevelopRoot is the local CLI project directory used in develop mode.
	DevelopRoot string
}

// Result is a dispatch decision plus its staleness reason.
type Result struct {
	Decision Decision
	Reason   Reason
}

// Probe computes the dispatch decision for the given spec and environment.
// Priority order: operator override first, then missing state, then
// staleness, then the local-requirement exception, so reinstall reasons
// never stack.
func Probe(ctx context.Context, spec *reqspec.Spec, desc Descriptor, store lockfile.Store, settings Settings) Result {
	logger := ctxlog.FromContext(ctx)

	if settings.Managed {
		return Result{Decision: RunInPlace}
	}

	if !desc.Exists() {
		return Result{Decision: InstallThenRun, Reason: ReasonMissing}
	}

	lock, err := store.Load(desc.LockPath)
	switch {
	case errors.Is(err, lockfile.ErrNotFound):
		return Result{Decision: InstallThenRun, Reason: ReasonStale}
	case err != nil:
		logger.Warn("lock file is unreadable, treating environment as stale", "path", desc.LockPath, "error", err)
		return Result{Decision: InstallThenRun, Reason: ReasonLockUnreadable}
	case lock.Fingerprint != spec.Fingerprint():
		return Result{Decision: InstallThenRun, Reason: ReasonStale}
	}

	if settings.AlwaysUpdateLocalRequirements && spec.HasLocalRequirements() {
		return Result{Decision: InstallThenRun, Reason: ReasonLocalRefresh}
	}

	return Result{Decision: ReexecIntoEnvironment}
}
