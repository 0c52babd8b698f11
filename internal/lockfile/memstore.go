package lockfile

import "sync"

// MemStore is an ephemeral, thread-safe in-memory implementation of Store,
// used to test the probe and installer without touching the filesystem.
type MemStore struct {
	mu    sync.Mutex
	files map[string]*File
}

// NewMemStore returns a new, empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{files: make(map[string]*File)}
}

func (s *MemStore) Load(path string) (*File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, ok := s.files[path]
	if !ok {
		return nil, ErrNotFound
	}
	if file.Version != CurrentVersion {
		return nil, &IncompatibleFormatError{Path: path, Version: file.Version}
	}
	copy := *file
	return &copy, nil
}

func (s *MemStore) Save(path string, file *File) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *file
	s.files[path] = &copy
	return nil
}

func (s *MemStore) Exists(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[path]
	return ok
}

func (s *MemStore) Delete(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	return nil
}
