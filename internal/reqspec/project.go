package reqspec

import (
	"errors"
	"path/filepath"

	"github.com/kraken-build/krakenw/internal/fsutil"
)

// ErrNoBuildScript is returned when a project contains neither a build
// script nor a requirements file.
var ErrNoBuildScript = errors.New("project has no build script and no requirements file")

// ExtractForProject extracts the requirement spec for the project rooted at
// projectDir. A kraken.hcl requirements file takes precedence over the
// build script's comment header.
func ExtractForProject(projectDir string) (*Spec, error) {
	if reqFile := filepath.Join(projectDir, RequirementsFilename); fsutil.FileExists(reqFile) {
		return ParseHCLFile(reqFile)
	}
	if script := filepath.Join(projectDir, ScriptFilename); fsutil.FileExists(script) {
		return ExtractFromScript(script)
	}
	return nil, ErrNoBuildScript
}

// ScriptPath returns the path of the project's root build script.
func ScriptPath(projectDir string) string {
	return filepath.Join(projectDir, ScriptFilename)
}
