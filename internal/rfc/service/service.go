package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/vueland/vuebot/internal/rfc"
	"github.com/vueland/vuebot/internal/rfc/compare"
	"github.com/vueland/vuebot/internal/rfc/storage"
)

// DefaultTTL is how long a fetched generation is served before it is refreshed
const DefaultTTL = 6 * time.Hour

// refreshKey is the singleflight key shared by every refresh
const refreshKey = "refresh"

// Fetcher retrieves the complete RFC collection from the remote repository
type Fetcher interface {
	FetchRFCs(ctx context.Context) ([]rfc.RFC, error)
}

// Store persists the current generation between runs
type Store interface {
	Load() (*storage.Generation, error)
	Save(generation *storage.Generation) error
}

// Options configures a Service
type Options struct {
	Repository string
	TTL        time.Duration
	Now        func() time.Time
	Logger     *logrus.Entry
}

// Service is the RFC cache manager. It serves the current generation while
// it is fresh and replaces it wholesale when it expires or a refresh is forced.
type Service struct {
	fetcher    Fetcher
	store      Store
	repository string
	ttl        time.Duration
	now        func() time.Time
	logger     *logrus.Entry

	mu      sync.RWMutex
	current *storage.Generation

	group singleflight.Group
}

// refreshResult is what one coalesced fetch produces for all of its callers
type refreshResult struct {
	generation *storage.Generation
	report     compare.Report
}

// NewService creates a new service instance
func NewService(fetcher Fetcher, store Store, opts Options) *Service {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Service{
		fetcher:    fetcher,
		store:      store,
		repository: opts.Repository,
		ttl:        opts.TTL,
		now:        opts.Now,
		logger:     opts.Logger.WithField("component", "rfc-cache"),
	}
}

// Load restores the persisted generation. An unavailable cache is logged and
// ignored so the first access fetches from the remote instead.
func (s *Service) Load() error {
	generation, err := s.store.Load()
	if err != nil {
		if errors.Is(err, rfc.ErrCacheUnavailable) {
			s.logger.WithError(err).Warn("Ignoring unusable RFC cache")
			return nil
		}
		return fmt.Errorf("failed to load RFC cache: %w", err)
	}
	if generation == nil {
		return nil
	}
	if s.repository != "" && generation.Repository != s.repository {
		s.logger.WithFields(logrus.Fields{
			"cached":     generation.Repository,
			"repository": s.repository,
		}).Info("Ignoring RFC cache of a different repository")
		return nil
	}

	s.mu.Lock()
	s.current = generation
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"rfcs":       len(generation.Items),
		"fetched_at": generation.FetchedAt,
	}).Debug("Loaded RFC cache")
	return nil
}

// GetAll returns the current RFC collection, fetching a new generation when
// forced, when nothing is cached or when the cached one has expired. While a
// generation is fresh every call returns the very same slice.
func (s *Service) GetAll(ctx context.Context, force bool) ([]rfc.RFC, error) {
	if !force {
		if items, ok := s.fresh(); ok {
			return items, nil
		}
	}

	result, err := s.refresh(ctx)
	if err != nil {
		return nil, err
	}
	return result.generation.Items, nil
}

// Refresh forces a new generation and reports how it differs from the previous one
func (s *Service) Refresh(ctx context.Context) (compare.Report, error) {
	result, err := s.refresh(ctx)
	if err != nil {
		return compare.Report{}, err
	}
	return result.report, nil
}

// Current returns the generation held in memory, or nil when nothing was fetched yet
func (s *Service) Current() *storage.Generation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// TTL returns how long a generation stays fresh
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// CacheTTLHuman renders the TTL for users, e.g. "6 hours"
func (s *Service) CacheTTLHuman() string {
	now := s.now()
	return strings.TrimSpace(humanize.RelTime(now, now.Add(s.ttl), "", ""))
}

// FilterBy filters items, or the whole cached collection when items is nil
func (s *Service) FilterBy(ctx context.Context, field, value string, items []rfc.RFC) ([]rfc.RFC, error) {
	if items == nil {
		var err error
		if items, err = s.GetAll(ctx, false); err != nil {
			return nil, err
		}
	}
	return rfc.FilterBy(field, value, items)
}

// Search runs a fuzzy search over the cached collection
func (s *Service) Search(ctx context.Context, query string, threshold float64) ([]rfc.Match, error) {
	items, err := s.GetAll(ctx, false)
	if err != nil {
		return nil, err
	}
	return rfc.Search(query, items, threshold), nil
}

// ListByState returns the cached RFCs in the given state, or all of them for "all"
func (s *Service) ListByState(ctx context.Context, state string) ([]rfc.RFC, error) {
	if state == "" {
		state = rfc.StateAll
	}
	return s.FilterBy(ctx, string(rfc.FieldState), state, nil)
}

func (s *Service) fresh() ([]rfc.RFC, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil || s.now().Sub(s.current.FetchedAt) >= s.ttl {
		return nil, false
	}
	return s.current.Items, true
}

// refresh joins the fetch in flight or starts a new one. The shared fetch
// ignores cancellation; each caller stops waiting when its own context ends.
func (s *Service) refresh(ctx context.Context) (refreshResult, error) {
	ch := s.group.DoChan(refreshKey, func() (any, error) {
		return s.fetch(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return refreshResult{}, fmt.Errorf("%w: %w", rfc.ErrFetchFailed, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return refreshResult{}, res.Err
		}
		return res.Val.(refreshResult), nil
	}
}

func (s *Service) fetch(ctx context.Context) (refreshResult, error) {
	logger := s.logger.WithField("repository", s.repository)
	started := s.now()

	items, err := s.fetcher.FetchRFCs(ctx)
	if err != nil {
		if !errors.Is(err, rfc.ErrFetchFailed) {
			err = fmt.Errorf("%w: %w", rfc.ErrFetchFailed, err)
		}
		logger.WithError(err).Error("Failed to refresh RFC cache")
		return refreshResult{}, err
	}

	previous := s.Current()
	fetchedAt := s.now()
	var previousItems []rfc.RFC
	if previous != nil {
		previousItems = previous.Items
		if !fetchedAt.After(previous.FetchedAt) {
			fetchedAt = previous.FetchedAt.Add(time.Nanosecond)
		}
	}

	generation := &storage.Generation{
		Repository: s.repository,
		FetchedAt:  fetchedAt,
		Items:      items,
	}
	if err := s.store.Save(generation); err != nil {
		logger.WithError(err).Warn("Failed to persist RFC cache, serving it from memory only")
	}

	s.mu.Lock()
	s.current = generation
	s.mu.Unlock()

	report := compare.CompareGenerations(items, previousItems)
	logger.WithFields(logrus.Fields{
		"rfcs":     len(items),
		"changes":  compare.Summary(report),
		"duration": s.now().Sub(started).Round(time.Millisecond),
	}).Info("Refreshed RFC cache")

	return refreshResult{generation: generation, report: report}, nil
}
