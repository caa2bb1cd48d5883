package storage

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/vueland/vuebot/internal/rfc"
)

// Store persists the latest RFC generation to a single YAML file
type Store struct {
	path string
}

// NewStore creates a new storage instance writing to path
func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

// Save replaces the persisted generation. The file is written atomically so
// a crash never leaves a truncated cache behind.
func (s *Store) Save(generation *Generation) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := yaml.Marshal(generation)
	if err != nil {
		return fmt.Errorf("failed to marshal generation: %w", err)
	}

	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// Load reads the persisted generation. A missing file is not an error and
// yields nil; an unreadable or corrupt file wraps rfc.ErrCacheUnavailable.
func (s *Store) Load() (*Generation, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to read cache file: %w", rfc.ErrCacheUnavailable, err)
	}

	var generation Generation
	if err := yaml.Unmarshal(data, &generation); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal cache file: %w", rfc.ErrCacheUnavailable, err)
	}

	return &generation, nil
}

// Delete removes the persisted generation
func (s *Store) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete cache file: %w", err)
	}
	return nil
}

// Path returns the cache file path
func (s *Store) Path() string {
	return s.path
}
