package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps the credential in a 0600 file inside a session-scoped
// runtime directory, so it is gone when the login session ends
type FileStore struct {
	path string

	mu     sync.Mutex
	loaded bool
	data   fileData
}

type fileData struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

// NewFileStore creates a store backed by path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the credential file location
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) load() {
	if s.loaded {
		return
	}
	s.loaded = true

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var d fileData
	if err := json.Unmarshal(raw, &d); err != nil {
		return
	}
	s.data = d
}

// Token implements ports.SessionStore
func (s *FileStore) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	return s.data.Token, s.data.Token != ""
}

// Username implements ports.SessionStore
func (s *FileStore) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	return s.data.Username
}

// Save implements ports.SessionStore
func (s *FileStore) Save(username, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	d := fileData{Username: username, Token: token}
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write session file: %w", err)
	}

	s.data = d
	s.loaded = true
	return nil
}

// Clear implements ports.SessionStore
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = fileData{}
	s.loaded = true
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// MemoryStore keeps the credential for the lifetime of the process
type MemoryStore struct {
	mu       sync.RWMutex
	username string
	token    string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Token implements ports.SessionStore
func (m *MemoryStore) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != ""
}

// Username implements ports.SessionStore
func (m *MemoryStore) Username() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.username
}

// Save implements ports.SessionStore
func (m *MemoryStore) Save(username, token string) error {
	m.mu.Lock()
	m.username, m.token = username, token
	m.mu.Unlock()
	return nil
}

// Clear implements ports.SessionStore
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	m.username, m.token = "", ""
	m.mu.Unlock()
	return nil
}
