// Package pkginst is the boundary to the package-installation collaborator.
// The environment installer hands it requirement tokens and index flags and
// gets back the exact resolved versions; how packages are actually fetched
// and materialized is out of scope for the environment manager.
package pkginst

import (
	"context"
	"strings"
)

// Resolved maps package names to the exact version the installer resolved.
type Resolved map[string]string

// IndexFlags carry the package index selection of a requirement spec.
type IndexFlags struct {
	IndexURL       string
	ExtraIndexURLs []string
}

// Installer installs requirement tokens into a target directory and reports
// the resolved versions.
type Installer interface {
	// Install resolves and installs the given requirement tokens into
	// targetDir. It returns the exact versions that ended up installed.
	Install(ctx context.Context, targetDir string, tokens []string, flags IndexFlags) (Resolved, error)

	// Freeze reports the exact versions currently installed in targetDir
	// without modifying anything.
	Freeze(ctx context.Context, targetDir string) (Resolved, error)
}

// PackageName extracts the package name from a requirement token, i.e. the
// prefix before any version constraint or local-path reference.
func PackageName(token string) string {
	if idx := strings.IndexAny(token, "=<>!@"); idx >= 0 {
		return token[:idx]
	}
	return token
}
