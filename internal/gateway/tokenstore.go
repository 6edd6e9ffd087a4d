package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// TokenKey is the fixed key the admin bearer token is stored under.
const TokenKey = "tripmarket.adminToken"

// TokenStore keeps the admin token in a small JSON file so the console can
// skip login on the next start. It is also a TokenSource.
type TokenStore struct {
	path string

	mu    sync.RWMutex
	token string
}

// NewTokenStore returns a store backed by path. Call Load to read any saved
// token.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Load reads the saved token. A missing file is not an error.
func (s *TokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("token store: read: %w", err)
	}
	var kv map[string]string
	if err := json.Unmarshal(data, &kv); err != nil {
		return "", fmt.Errorf("token store: parse %s: %w", s.path, err)
	}
	s.mu.Lock()
	s.token = kv[TokenKey]
	s.mu.Unlock()
	return kv[TokenKey], nil
}

// Save persists token and makes it the current one.
func (s *TokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("token store: mkdir: %w", err)
	}
	data, err := json.Marshal(map[string]string{TokenKey: token})
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("token store: write: %w", err)
	}
	s.token = token
	return nil
}

// Clear forgets the token (logout).
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("token store: remove: %w", err)
	}
	return nil
}

// Token returns the current token.
func (s *TokenStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}
