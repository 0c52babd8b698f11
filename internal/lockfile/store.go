package lockfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Store is the persistence boundary for lock files. Modeling it as an
// interface keeps the probe and installer testable against an in-memory
// implementation.
type Store interface {
	Load(path string) (*File, error)
	Save(path string, file *File) error
	Exists(path string) bool
	Delete(path string) error
}

// DiskStore persists lock files on the local filesystem.
type DiskStore struct{}

// NewDiskStore returns the filesystem-backed store.
func NewDiskStore() *DiskStore {
	return &DiskStore{}
}

// Load reads and validates the lock file at path. It returns ErrNotFound
// when no file exists and IncompatibleFormatError for unknown schema
// versions.
func (s *DiskStore) Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read lock file %s: %w", path, err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse lock file %s: %w", path, err)
	}
	if file.Version != CurrentVersion {
		return nil, &IncompatibleFormatError{Path: path, Version: file.Version}
	}
	return &file, nil
}

// Save writes the lock file atomically: the document is written to a
// uniquely named temp file in the same directory and then renamed over the
// destination, so a concurrent reader never observes a partial write. This
// is the only protection against racing invocations; installs themselves
// are not coordinated.
func (s *DiskStore) Save(path string, file *File) error {
	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode lock file: %w", err)
	}

	tmp := filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()[:8]))
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write lock file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write lock file: %w", err)
	}
	return nil
}

// Exists reports whether a lock file is present at path.
func (s *DiskStore) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Delete removes the lock file. Deleting a lock file that does not exist is
// not an error.
func (s *DiskStore) Delete(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete lock file %s: %w", path, err)
	}
	return nil
}
