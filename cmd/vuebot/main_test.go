package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vueland/vuebot/internal/config"
	"github.com/vueland/vuebot/internal/rfc"
	"github.com/vueland/vuebot/internal/rfc/compare"
	"github.com/vueland/vuebot/internal/rfc/storage"
)

type fakeRFCService struct{}

func (fakeRFCService) GetAll(ctx context.Context, force bool) ([]rfc.RFC, error) {
	return nil, nil
}

func (fakeRFCService) Search(ctx context.Context, query string, threshold float64) ([]rfc.Match, error) {
	return nil, nil
}

func (fakeRFCService) Refresh(ctx context.Context) (compare.Report, error) {
	return compare.Report{}, nil
}

func (fakeRFCService) CacheTTLHuman() string {
	return "6 hours"
}

func (fakeRFCService) Current() *storage.Generation {
	return nil
}

func (fakeRFCService) ListByState(ctx context.Context, state string) ([]rfc.RFC, error) {
	return nil, nil
}

func TestNewRegistry(t *testing.T) {
	tests := []struct {
		name         string
		development  bool
		expectedCmds []string
	}{
		{
			name:         "production",
			expectedCmds: []string{"rfc", "rfcs", "library", "api", "etiquette", "sharing", "help"},
		},
		{
			name:         "development",
			development:  true,
			expectedCmds: []string{"rfc", "rfcs", "library", "api", "etiquette", "sharing", "help", "error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Discord.Development = tt.development

			registry, err := newRegistry(cfg, fakeRFCService{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var names []string
			for _, command := range registry.Commands() {
				names = append(names, command.Name)
			}
			if diff := cmp.Diff(tt.expectedCmds, names); diff != "" {
				t.Errorf("unexpected commands (-want +got):\n%s", diff)
			}

			enabled := map[string]bool{}
			for _, job := range registry.Jobs() {
				enabled[job.Name] = job.Enabled
			}
			if diff := cmp.Diff(map[string]bool{"test": false, "mass-mention": true}, enabled); diff != "" {
				t.Errorf("unexpected jobs (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewRegistryResolvesAliases(t *testing.T) {
	registry, err := newRegistry(config.Default(), fakeRFCService{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for alias, name := range map[string]string{
		"list-rfcs": "rfcs",
		"LIB":       "library",
		"docs":      "api",
		"howtoask":  "etiquette",
		"share":     "sharing",
		"commands":  "help",
	} {
		command, ok := registry.Command(alias)
		if !ok {
			t.Errorf("alias %q is not registered", alias)
			continue
		}
		if command.Name != name {
			t.Errorf("alias %q resolves to %q, expected %q", alias, command.Name, name)
		}
	}
	if _, ok := registry.Command("error"); ok {
		t.Errorf("error command must only be registered in development")
	}
}

func TestPrintReport(t *testing.T) {
	report := compare.Report{
		New:     []rfc.RFC{{Number: 41, Title: "Teleport"}},
		Removed: []rfc.RFC{{Number: 2, Title: "Old idea"}},
		Changed: map[int][]compare.Change{
			29: {{Field: "state", OldValue: "open", NewValue: "merged"}},
			23: {{Field: "title", OldValue: "Attrs", NewValue: "Attribute fallthrough"}},
		},
	}

	var out bytes.Buffer
	printReport(&out, report)

	expected := `  + #41 Teleport
  - #2 Old idea
  ~ #23
      title: "Attrs" -> "Attribute fallthrough"
  ~ #29
      state: "open" -> "merged"
`
	if diff := cmp.Diff(expected, out.String()); diff != "" {
		t.Errorf("unexpected report (-want +got):\n%s", diff)
	}
}

func TestPrintRFCs(t *testing.T) {
	items := []rfc.RFC{
		{Number: 23, Title: "Attribute fallthrough", Author: "yyx990803", State: rfc.StateMerged, Labels: []rfc.Label{{Name: "core"}, {Name: "3.x"}}},
		{Number: 1, Title: "Initial placeholder", Author: "yyx990803", State: rfc.StateClosed},
	}

	var out bytes.Buffer
	printRFCs(&out, items)

	expected := "  #23    merged  Attribute fallthrough (yyx990803) [core, 3.x]\n" +
		"  #1     closed  Initial placeholder (yyx990803)\n"
	if diff := cmp.Diff(expected, out.String()); diff != "" {
		t.Errorf("unexpected output (-want +got):\n%s", diff)
	}
}

func TestRunUntilDoneWaitsForWorkers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	var stopped atomic.Bool
	worker := func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		stopped.Store(true)
	}

	done := make(chan struct{})
	go func() {
		runUntilDone(ctx, worker)
		close(done)
	}()

	<-started
	select {
	case <-done:
		t.Fatalf("expected to block until the context is done")
	case <-time.After(20 * time.Millisecond):
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("expected to return after the context is done")
	}
	if !stopped.Load() {
		t.Errorf("expected the worker to finish before returning")
	}
}

func TestRunUntilDoneWithoutWorkers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		runUntilDone(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("expected to return once the context is done")
	}
}

func TestPlainFooter(t *testing.T) {
	fetched := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	generation := &storage.Generation{Repository: "vuejs/rfcs", FetchedAt: fetched}

	tests := []struct {
		name     string
		now      time.Time
		expected string
	}{
		{
			name:     "fresh",
			now:      fetched.Add(90*time.Minute + 10*time.Second),
			expected: "4 RFCs from vuejs/rfcs, fetched 1h30m0s ago",
		},
		{
			name:     "stale",
			now:      fetched.Add(7 * time.Hour),
			expected: "4 RFCs from vuejs/rfcs, fetched 7h0m0s ago (older than the 6h0m0s cache TTL, run with --refresh)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.expected, plainFooter(4, generation, 6*time.Hour, tt.now)); diff != "" {
				t.Errorf("unexpected footer (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRemoveCache(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Path = filepath.Join(t.TempDir(), "rfcs.yaml")
	store := newStore(cfg)
	if store.Path() != cfg.Cache.Path {
		t.Fatalf("expected store at %s, got %s", cfg.Cache.Path, store.Path())
	}

	generation := &storage.Generation{Repository: "vuejs/rfcs", FetchedAt: time.Now().UTC()}
	if err := store.Save(generation); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := removeCache(store); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(cfg.Cache.Path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected the cache file to be removed, got %v", err)
	}
	if err := removeCache(store); err != nil {
		t.Errorf("removing a missing cache should succeed, got %v", err)
	}
}
