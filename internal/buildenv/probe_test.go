package buildenv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraken-build/krakenw/internal/lockfile"
	"github.com/kraken-build/krakenw/internal/reqspec"
)

func testDescriptor(t *testing.T) Descriptor {
	t.Helper()
	dir := t.TempDir()
	return NewDescriptor(dir, filepath.Join(dir, "build"))
}

// materialize creates a fully installed environment for spec: directory,
// fingerprint marker and matching lock file.
func materialize(t *testing.T, desc Descriptor, store lockfile.Store, spec *reqspec.Spec) {
	t.Helper()
	require.NoError(t, os.MkdirAll(desc.PackagesDir(), 0755))
	require.NoError(t, desc.writeFingerprint(spec.Fingerprint()))
	require.NoError(t, store.Save(desc.LockPath, &lockfile.File{
		Version:      lockfile.CurrentVersion,
		Fingerprint:  spec.Fingerprint(),
		Requirements: spec.Requirements,
		Metadata:     lockfile.NewMetadata("0.1.0"),
		Pinned:       map[string]string{"pkg-a": "1.0"},
	}))
}

func TestProbeManagedAlwaysRunsInPlace(t *testing.T) {
	ctx := context.Background()
	store := lockfile.NewDiskStore()
	spec := &reqspec.Spec{Requirements: []string{"pkg-a==1.0"}}

	// Nothing exists at all; the override still wins.
	desc := testDescriptor(t)
	result := Probe(ctx, spec, desc, store, Settings{Managed: true})
	assert.Equal(t, RunInPlace, result.Decision)
	assert.Equal(t, ReasonNone, result.Reason)

	// Same with a stale environment in place.
	desc = testDescriptor(t)
	materialize(t, desc, store, &reqspec.Spec{Requirements: []string{"other==2.0"}})
	result = Probe(ctx, spec, desc, store, Settings{Managed: true})
	assert.Equal(t, RunInPlace, result.Decision)
}

func TestProbeMissingEnvironment(t *testing.T) {
	store := lockfile.NewDiskStore()
	spec := &reqspec.Spec{Requirements: []string{"pkg-a==1.0"}}
	result := Probe(context.Background(), spec, testDescriptor(t), store, Settings{})
	assert.Equal(t, InstallThenRun, result.Decision)
	assert.Equal(t, ReasonMissing, result.Reason)
}

func TestProbeMissingLock(t *testing.T) {
	store := lockfile.NewDiskStore()
	spec := &reqspec.Spec{Requirements: []string{"pkg-a==1.0"}}
	desc := testDescriptor(t)
	require.NoError(t, os.MkdirAll(desc.PackagesDir(), 0755))
	require.NoError(t, desc.writeFingerprint(spec.Fingerprint()))

	result := Probe(context.Background(), spec, desc, store, Settings{})
	assert.Equal(t, InstallThenRun, result.Decision)
	assert.Equal(t, ReasonStale, result.Reason)
}

func TestProbeUnreadableLock(t *testing.T) {
	store := lockfile.NewDiskStore()
	spec := &reqspec.Spec{Requirements: []string{"pkg-a==1.0"}}
	desc := testDescriptor(t)
	materialize(t, desc, store, spec)
	require.NoError(t, os.WriteFile(desc.LockPath, []byte("version: 99\n"), 0644))

	result := Probe(context.Background(), spec, desc, store, Settings{})
	assert.Equal(t, InstallThenRun, result.Decision)
	assert.Equal(t, ReasonLockUnreadable, result.Reason)
}

func TestProbeFingerprintMismatch(t *testing.T) {
	store := lockfile.NewDiskStore()
	desc := testDescriptor(t)
	materialize(t, desc, store, &reqspec.Spec{Requirements: []string{"pkg-a==1.0"}})

	changed := &reqspec.Spec{Requirements: []string{"pkg-a==2.0"}}
	result := Probe(context.Background(), changed, desc, store, Settings{})
	assert.Equal(t, InstallThenRun, result.Decision)
	assert.Equal(t, ReasonStale, result.Reason)
}

func TestProbeLocalRequirementRefresh(t *testing.T) {
	store := lockfile.NewDiskStore()
	spec := &reqspec.Spec{Requirements: []string{"pkg-a==1.0", "tool@./vendor/tool"}}
	desc := testDescriptor(t)
	materialize(t, desc, store, spec)

	// Fingerprint matches, but the local path may have changed contents.
	result := Probe(context.Background(), spec, desc, store, Settings{AlwaysUpdateLocalRequirements: true})
	assert.Equal(t, InstallThenRun, result.Decision)
	assert.Equal(t, ReasonLocalRefresh, result.Reason)

	// Without the override the environment is fresh.
	result = Probe(context.Background(), spec, desc, store, Settings{})
	assert.Equal(t, ReexecIntoEnvironment, result.Decision)
}

func TestProbeLocalRefreshRequiresLocalRequirement(t *testing.T) {
	store := lockfile.NewDiskStore()
	spec := &reqspec.Spec{Requirements: []string{"pkg-a==1.0"}}
	desc := testDescriptor(t)
	materialize(t, desc, store, spec)

	result := Probe(context.Background(), spec, desc, store, Settings{AlwaysUpdateLocalRequirements: true})
	assert.Equal(t, ReexecIntoEnvironment, result.Decision)
}

func TestProbeFreshEnvironment(t *testing.T) {
	store := lockfile.NewDiskStore()
	spec := &reqspec.Spec{Requirements: []string{"pkg-a==1.0"}}
	desc := testDescriptor(t)
	materialize(t, desc, store, spec)

	result := Probe(context.Background(), spec, desc, store, Settings{})
	assert.Equal(t, ReexecIntoEnvironment, result.Decision)
	assert.Equal(t, ReasonNone, result.Reason)
}
