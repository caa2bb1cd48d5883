package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vueland/vuebot/internal/rfc"
)

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nested", "rfcs.yaml"))

	merged := time.Date(2019, 2, 1, 12, 0, 0, 0, time.UTC)
	generation := &Generation{
		Repository: "vuejs/rfcs",
		FetchedAt:  time.Date(2019, 2, 2, 8, 30, 0, 0, time.UTC),
		Items: []rfc.RFC{
			{
				Number:    23,
				Title:     "Attribute fallthrough",
				Body:      "Allow attributes to fall through.",
				Author:    "yyx990803",
				State:     rfc.StateMerged,
				Labels:    []rfc.Label{{Name: "core", Color: "c2e0c6"}},
				URL:       "https://github.com/vuejs/rfcs/pull/23",
				CreatedAt: time.Date(2019, 1, 15, 10, 0, 0, 0, time.UTC),
				UpdatedAt: merged,
				MergedAt:  &merged,
			},
		},
	}

	if err := store.Save(generation); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if diff := cmp.Diff(generation, loaded); diff != "" {
		t.Errorf("loaded generation differs (-saved +loaded):\n%s", diff)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "rfcs.yaml"))

	generation, err := store.Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if generation != nil {
		t.Errorf("expected nil generation, got %v", generation)
	}
}

func TestStoreLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rfcs.yaml")
	if err := os.WriteFile(path, []byte("items: [unterminated"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	_, err := NewStore(path).Load()
	if !errors.Is(err, rfc.ErrCacheUnavailable) {
		t.Errorf("expected ErrCacheUnavailable, got %v", err)
	}
}

func TestStoreDelete(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "rfcs.yaml"))
	if err := store.Save(&Generation{Repository: "vuejs/rfcs"}); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	if err := store.Delete(); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	if err := store.Delete(); err != nil {
		t.Errorf("deleting a missing file should succeed, got %v", err)
	}
	if _, err := os.Stat(store.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected cache file to be gone, got %v", err)
	}
}

func TestGenerationAge(t *testing.T) {
	fetched := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	generation := &Generation{FetchedAt: fetched}
	if age := generation.Age(fetched.Add(90 * time.Minute)); age != 90*time.Minute {
		t.Errorf("expected 1h30m, got %s", age)
	}
}
