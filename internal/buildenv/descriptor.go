package buildenv

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/kraken-build/krakenw/internal/fsutil"
	"github.com/kraken-build/krakenw/internal/lockfile"
)

// fingerprintMarker is written into the environment directory after a
// successful install. Its presence is what makes an environment "exist";
// a directory without it is treated as absent.
const fingerprintMarker = ".fingerprint"

// Descriptor identifies a project's isolated build environment instance.
type Descriptor struct {
	// Path is the environment directory, <build-dir>/.kraken/venv.
	Path string

	// LockPath is the project's lock file, kept in the project root so it
	// can be checked into version control.
	LockPath string
}

// NewDescriptor returns the descriptor for a project and build directory.
func NewDescriptor(projectDir, buildDir string) Descriptor {
	return Descriptor{
		Path:     filepath.Join(buildDir, ".kraken", "venv"),
		LockPath: filepath.Join(projectDir, lockfile.Filename),
	}
}

// Exists reports whether a fully installed environment is present.
func (d Descriptor) Exists() bool {
	return fsutil.DirExists(d.Path) && fsutil.FileExists(d.fingerprintPath())
}

func (d Descriptor) fingerprintPath() string {
	return filepath.Join(d.Path, fingerprintMarker)
}

// Fingerprint returns the requirement fingerprint the environment was built
// from, or ok=false when the environment is absent.
func (d Descriptor) Fingerprint() (string, bool) {
	data, ok, err := fsutil.ReadFileIfExists(d.fingerprintPath())
	if err != nil || !ok {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}

func (d Descriptor) writeFingerprint(fingerprint string) error {
	return os.WriteFile(d.fingerprintPath(), []byte(fingerprint+"\n"), 0644)
}

// PackagesDir is where the installer collaborator materializes packages.
func (d Descriptor) PackagesDir() string {
	return filepath.Join(d.Path, "packages")
}

// BinDir holds the executables installed into the environment, including
// the CLI itself.
func (d Descriptor) BinDir() string {
	return filepath.Join(d.Path, "bin")
}

// CLIPath is the environment's own CLI binary, the re-exec target.
func (d Descriptor) CLIPath() string {
	return filepath.Join(d.BinDir(), "krakenw")
}
