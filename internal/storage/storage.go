// Package storage provides the durable local mirror of session state.
// It plays the role browser localStorage plays for the web client: a
// string-keyed blob store that survives restarts. In-memory state is
// authoritative during a session; this mirror is only the recovery
// source across runs.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// Well-known keys.
const (
	KeyUser      = "user"
	KeyCartItems = "cartItems"
)

// Store is a durable string-keyed blob store.
type Store interface {
	// Get returns the stored value for key, if any.
	Get(key string) ([]byte, bool)

	// Set stores value under key and flushes to durable storage.
	Set(key string, value []byte) error

	// Delete removes key and flushes to durable storage.
	Delete(key string) error
}

// fileStore keeps all keys in a single JSON document on disk.
type fileStore struct {
	path   string
	mu     sync.Mutex
	data   map[string]json.RawMessage
	logger zerolog.Logger
}

// NewFileStore opens (or creates) the state file at path. A missing or
// malformed file resets to an empty store; corruption is never allowed
// to fail client start-up.
func NewFileStore(path string, logger zerolog.Logger) Store {
	s := &fileStore{
		path:   path,
		data:   make(map[string]json.RawMessage),
		logger: logger.With().Str("component", "storage").Logger(),
	}
	s.load()
	return s
}

// load reads the state file. Parse failures reset to empty state.
func (s *fileStore) load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("cannot read state file, starting empty")
		}
		return
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(raw, &data); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("state file is corrupt, resetting to empty")
		return
	}

	s.data = data
	s.logger.Debug().Int("keys", len(data)).Msg("state file loaded")
}

// Get returns the stored value for key, if any.
func (s *fileStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.data[key]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true
}

// Set stores value under key and flushes to disk.
func (s *fileStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !json.Valid(value) {
		return fmt.Errorf("value for key %q is not valid JSON", key)
	}

	s.data[key] = json.RawMessage(value)
	return s.flush()
}

// Delete removes key and flushes to disk.
func (s *fileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.flush()
}

// flush writes the whole document atomically (write temp, then rename).
// Callers must hold s.mu.
func (s *fileStore) flush() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialise state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close state file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	return nil
}
