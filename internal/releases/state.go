package releases

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// maxRemembered is the number of versions kept per repository
const maxRemembered = 100

// State records the versions already seen for each watched repository
type State struct {
	Repositories map[string]*RepositoryState `yaml:"repositories"`
}

// RepositoryState holds the seen versions of one repository, newest first
type RepositoryState struct {
	Versions  []string  `yaml:"versions"`
	CheckedAt time.Time `yaml:"checked_at"`
}

// Seen reports whether version was already recorded for repository
func (s *State) Seen(repository, version string) bool {
	repo, ok := s.Repositories[repository]
	if !ok || repo == nil {
		return false
	}
	for _, seen := range repo.Versions {
		if seen == version {
			return true
		}
	}
	return false
}

// Known reports whether repository was checked before
func (s *State) Known(repository string) bool {
	_, ok := s.Repositories[repository]
	return ok
}

// Record marks version as seen
func (s *State) Record(repository, version string, now time.Time) {
	if s.Repositories == nil {
		s.Repositories = map[string]*RepositoryState{}
	}
	repo := s.Repositories[repository]
	if repo == nil {
		repo = &RepositoryState{}
		s.Repositories[repository] = repo
	}
	repo.CheckedAt = now
	if version == "" || s.Seen(repository, version) {
		return
	}
	repo.Versions = append([]string{version}, repo.Versions...)
	if len(repo.Versions) > maxRemembered {
		repo.Versions = repo.Versions[:maxRemembered]
	}
}

// StateStore persists State to a YAML file
type StateStore struct {
	path string
}

func NewStateStore(path string) *StateStore {
	return &StateStore{path: path}
}

// Load reads the state; a missing file yields an empty state
func (s *StateStore) Load() (*State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &State{Repositories: map[string]*RepositoryState{}}, nil
		}
		return nil, fmt.Errorf("failed to read release state: %w", err)
	}

	var state State
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal release state: %w", err)
	}
	if state.Repositories == nil {
		state.Repositories = map[string]*RepositoryState{}
	}
	// A hand-edited file may leave a repository without a body
	for repository, repo := range state.Repositories {
		if repo == nil {
			delete(state.Repositories, repository)
		}
	}
	return &state, nil
}

// Save writes the state atomically
func (s *StateStore) Save(state *State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal release state: %w", err)
	}

	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write release state: %w", err)
	}
	return nil
}
