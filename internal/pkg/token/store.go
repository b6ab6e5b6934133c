package token

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store persists an opaque bearer credential across process restarts.
// Clear is idempotent. Expiry is the credential's own concern and is not
// enforced at this layer.
type Store interface {
	Save(credential string) error
	Load() (string, bool)
	Clear() error
}

// FileStore keeps the credential in a single file under a fixed path,
// the terminal-client analogue of the browser's cookie slot.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Save(credential string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(credential), 0o600)
}

func (s *FileStore) Load() (string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	credential := strings.TrimSpace(string(data))
	if credential == "" {
		return "", false
	}
	return credential, true
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemoryStore is an in-memory Store for tests and ephemeral sessions
type MemoryStore struct {
	mu         sync.Mutex
	credential string
	present    bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = credential
	s.present = true
	return nil
}

func (s *MemoryStore) Load() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential, s.present
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = ""
	s.present = false
	return nil
}
