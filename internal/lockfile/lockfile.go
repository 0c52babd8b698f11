// Package lockfile persists the exact resolved requirement versions of a
// build environment as a versioned YAML document. The document is written
// with stable key ordering so it stays human-diffable and safe to check
// into version control.
package lockfile

import (
	"errors"
	"fmt"
	"time"
)

// Filename is the fixed name of the lock file in the project root.
const Filename = "kraken.lock"

// CurrentVersion is the schema version written by this tool. Loading a
// document with any other version fails instead of misinterpreting it.
const CurrentVersion = 1

// timeFormat pins the created_at encoding so the field round-trips exactly.
const timeFormat = time.RFC3339

// ErrNotFound is returned by Load when no lock file exists at the path.
var ErrNotFound = errors.New("lock file not found")

// IncompatibleFormatError is returned when a lock file carries an
// unrecognized schema version.
type IncompatibleFormatError struct {
	Path    string
	Version int
}

func (e *IncompatibleFormatError) Error() string {
	return fmt.Sprintf("incompatible lock file format: %s has schema version %d, expected %d", e.Path, e.Version, CurrentVersion)
}

// Metadata records provenance for a lock file.
type Metadata struct {
	CreatedAt   string `yaml:"created_at"`
	ToolVersion string `yaml:"tool_version"`
}

// NewMetadata returns metadata for a lock file created now.
func NewMetadata(toolVersion string) Metadata {
	return Metadata{
		CreatedAt:   time.Now().UTC().Format(timeFormat),
		ToolVersion: toolVersion,
	}
}

// File is the full content of a lock file.
type File struct {
	// Version is the schema version marker.
	Version int `yaml:"version"`

	// Fingerprint identifies the requirement spec the environment was
	// populated from.
	Fingerprint string `yaml:"fingerprint"`

	// Requirements are the requirement tokens the environment was resolved
	// from, in declaration order.
	Requirements []string `yaml:"requirements"`

	Metadata Metadata `yaml:"metadata"`

	// Pinned maps package names to the exact resolved version. Key order is
	// irrelevant for correctness; the YAML encoder sorts keys on write.
	Pinned map[string]string `yaml:"pinned"`
}
