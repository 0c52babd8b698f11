// Package testutil provides the shared harness for application-level tests:
// a temporary project tree, fake collaborators and captured log output.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kraken-build/krakenw/internal/app"
	"github.com/kraken-build/krakenw/internal/buildenv"
	"github.com/kraken-build/krakenw/internal/engine"
	"github.com/kraken-build/krakenw/internal/lockfile"
	"github.com/kraken-build/krakenw/internal/pkginst"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Project is a temporary project wired to fake collaborators.
type Project struct {
	App       *app.App
	Config    *app.Config
	Installer *pkginst.Fake
	Engine    *engine.Fake
	Store     lockfile.Store
	Out       *SafeBuffer

	ProjectDir string
	BuildDir   string
}

// Descriptor returns the project's environment descriptor.
func (p *Project) Descriptor() buildenv.Descriptor {
	return p.App.Descriptor()
}

// NewProject writes the given files into a fresh project directory and
// builds an App around it. The configure callback may adjust the config
// before the App is constructed; files keys are project-relative paths.
func NewProject(t *testing.T, files map[string]string, configure func(*app.Config)) *Project {
	t.Helper()

	projectDir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(projectDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	cfg := app.Config{
		ProjectDir: projectDir,
		BuildDir:   filepath.Join(projectDir, "build"),
		Command:    "run",
		LogFormat:  "text",
		LogLevel:   "debug",
	}
	if configure != nil {
		configure(&cfg)
	}
	config, err := app.NewConfig(cfg)
	require.NoError(t, err)

	out := &SafeBuffer{}
	installer := &pkginst.Fake{}
	eng := &engine.Fake{}
	store := lockfile.NewDiskStore()

	return &Project{
		App:        app.NewApp(out, config, store, installer, eng),
		Config:     config,
		Installer:  installer,
		Engine:     eng,
		Store:      store,
		Out:        out,
		ProjectDir: projectDir,
		BuildDir:   config.BuildDir,
	}
}
