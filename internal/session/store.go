package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TokenStore persists the raw bearer token across process restarts.
type TokenStore interface {
	// Load returns the stored token, or "" when none is stored.
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileStore keeps the token in a single file under a well-known path.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// MemoryStore is a TokenStore for tests.
type MemoryStore struct {
	token string
}

func NewMemoryStore(token string) *MemoryStore { return &MemoryStore{token: token} }

func (s *MemoryStore) Load() (string, error) { return s.token, nil }
func (s *MemoryStore) Save(t string) error   { s.token = t; return nil }
func (s *MemoryStore) Clear() error          { s.token = ""; return nil }
