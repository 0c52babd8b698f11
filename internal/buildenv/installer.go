package buildenv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/kraken-build/krakenw/internal/ctxlog"
	"github.com/kraken-build/krakenw/internal/lockfile"
	"github.com/kraken-build/krakenw/internal/pkginst"
	"github.com/kraken-build/krakenw/internal/reqspec"
)

// Mode selects the installer behavior.
type Mode int

const (
	// ModeFresh creates or refreshes the environment, reusing the lock file
	// when its fingerprint matches the spec.
	ModeFresh Mode = iota

	// ModeUpgrade ignores any existing lock and re-resolves from the spec.
	ModeUpgrade

	// ModeLockOnly rewrites the lock from the environment's current resolved
	// state; the environment must already exist.
	ModeLockOnly
)

// ErrEnvMissing is returned for lock-only operations without an environment.
var ErrEnvMissing = errors.New("build environment does not exist")

// InstallError wraps a failure reported by the installation collaborator.
// The environment has been rolled back to absent when this is returned.
type InstallError struct {
	Err error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("environment installation failed: %v", e.Err)
}

func (e *InstallError) Unwrap() error { return e.Err }

// Installer creates, upgrades and removes build environments.
type Installer struct {
	store       lockfile.Store
	packages    pkginst.Installer
	toolVersion string
}

// NewInstaller wires the installer to its lock store and package-install
// collaborator.
func NewInstaller(store lockfile.Store, packages pkginst.Installer, toolVersion string) *Installer {
	return &Installer{store: store, packages: packages, toolVersion: toolVersion}
}

// Install materializes the environment for spec according to mode and
// persists the resulting lock file. On collaborator failure the environment
// directory is removed so the next probe sees it as absent.
func (i *Installer) Install(ctx context.Context, spec *reqspec.Spec, desc Descriptor, mode Mode) (*lockfile.File, error) {
	logger := ctxlog.FromContext(ctx)

	if mode == ModeLockOnly {
		return i.lockOnly(ctx, spec, desc)
	}

	tokens := spec.Requirements
	if mode == ModeFresh {
		if pinned, ok := i.pinnedTokens(spec, desc); ok {
			logger.Info("installing from lock file", "path", desc.LockPath)
			tokens = pinned
		}
	}

	for _, dir := range []string{desc.Path, desc.PackagesDir(), desc.BinDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create environment directory: %w", err)
		}
	}
	// Drop the marker before mutating so an interrupted install reads as
	// absent, not as a fresh environment.
	if err := os.Remove(desc.fingerprintPath()); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("invalidate environment: %w", err)
	}

	flags := pkginst.IndexFlags{IndexURL: spec.IndexURL, ExtraIndexURLs: spec.ExtraIndexURLs}
	resolved, err := i.packages.Install(ctx, desc.PackagesDir(), tokens, flags)
	if err != nil {
		logger.Error("package installation failed, rolling environment back", "error", err)
		if rmErr := os.RemoveAll(desc.Path); rmErr != nil {
			logger.Warn("environment rollback incomplete", "path", desc.Path, "error", rmErr)
		}
		return nil, &InstallError{Err: err}
	}

	lock := i.newLock(spec, resolved)
	if err := i.store.Save(desc.LockPath, lock); err != nil {
		return nil, err
	}
	if err := desc.writeFingerprint(spec.Fingerprint()); err != nil {
		return nil, fmt.Errorf("write environment fingerprint: %w", err)
	}
	logger.Info("environment installed", "path", desc.Path, "packages", len(resolved))
	return lock, nil
}

// lockOnly rewrites the lock from the collaborator's frozen state without
// touching the environment.
func (i *Installer) lockOnly(ctx context.Context, spec *reqspec.Spec, desc Descriptor) (*lockfile.File, error) {
	if !desc.Exists() {
		return nil, ErrEnvMissing
	}
	resolved, err := i.packages.Freeze(ctx, desc.PackagesDir())
	if err != nil {
		return nil, fmt.Errorf("freeze environment: %w", err)
	}
	lock := i.newLock(spec, resolved)
	if err := i.store.Save(desc.LockPath, lock); err != nil {
		return nil, err
	}
	return lock, nil
}

// Remove deletes the environment and its lock file. Removing an absent
// environment succeeds and changes nothing.
func (i *Installer) Remove(ctx context.Context, desc Descriptor) error {
	if err := os.RemoveAll(desc.Path); err != nil {
		return fmt.Errorf("remove environment: %w", err)
	}
	return i.store.Delete(desc.LockPath)
}

// pinnedTokens returns exact-version tokens from the existing lock file when
// its fingerprint matches the spec.
func (i *Installer) pinnedTokens(spec *reqspec.Spec, desc Descriptor) ([]string, bool) {
	lock, err := i.store.Load(desc.LockPath)
	if err != nil || lock.Fingerprint != spec.Fingerprint() {
		return nil, false
	}
	names := make([]string, 0, len(lock.Pinned))
	for name := range lock.Pinned {
		names = append(names, name)
	}
	sort.Strings(names)
	tokens := make([]string, 0, len(names))
	for _, name := range names {
		tokens = append(tokens, name+"=="+lock.Pinned[name])
	}
	return tokens, true
}

func (i *Installer) newLock(spec *reqspec.Spec, resolved pkginst.Resolved) *lockfile.File {
	return &lockfile.File{
		Version:      lockfile.CurrentVersion,
		Fingerprint:  spec.Fingerprint(),
		Requirements: append([]string(nil), spec.Requirements...),
		Metadata:     lockfile.NewMetadata(i.toolVersion),
		Pinned:       map[string]string(resolved),
	}
}
