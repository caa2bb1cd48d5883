// Package releases announces new releases of watched repositories.
package releases

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/vueland/vuebot/internal/bot"
)

const (
	DefaultFeedBaseURL = "https://github.com"
	DefaultInterval    = 30 * time.Minute
)

// Release is a single published version
type Release struct {
	Repository string
	Version    string
	URL        string
	Published  time.Time
}

// Sender posts announcements
type Sender interface {
	SendEmbed(ctx context.Context, channelID string, embed bot.Embed) (string, error)
}

type Options struct {
	Repositories []string
	ChannelID    string
	// FeedBaseURL is the host serving <repository>/releases.atom
	FeedBaseURL string
	Interval    time.Duration
	Format      func(Release) bot.Embed
	Store       *StateStore
	Now         func() time.Time
	Logger      *logrus.Entry
}

// Announcer polls release feeds and posts versions it has not seen before.
// The first check of a repository only records its current releases.
type Announcer struct {
	opts   Options
	sender Sender
	parser *gofeed.Parser
	logger *logrus.Entry

	// mu serializes checks so state updates never interleave
	mu sync.Mutex
}

func NewAnnouncer(sender Sender, opts Options) (*Announcer, error) {
	if opts.ChannelID == "" {
		return nil, errors.New("releases: an announcement channel is required")
	}
	if opts.Format == nil {
		return nil, errors.New("releases: a format function is required")
	}
	if opts.Store == nil {
		return nil, errors.New("releases: a state store is required")
	}
	if opts.FeedBaseURL == "" {
		opts.FeedBaseURL = DefaultFeedBaseURL
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Announcer{
		opts:   opts,
		sender: sender,
		parser: gofeed.NewParser(),
		logger: logger.WithField("component", "releases"),
	}, nil
}

// FeedURL returns the Atom feed of a repository's releases
func (a *Announcer) FeedURL(repository string) (string, error) {
	return url.JoinPath(a.opts.FeedBaseURL, repository, "releases.atom")
}

// Run checks every interval until ctx is done
func (a *Announcer) Run(ctx context.Context) {
	ticker := time.NewTicker(a.opts.Interval)
	defer ticker.Stop()

	for {
		if _, err := a.Check(ctx); err != nil {
			a.logger.WithError(err).Warn("Release check failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Check polls every repository once and returns the releases it announced
func (a *Announcer) Check(ctx context.Context) ([]Release, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	state, err := a.opts.Store.Load()
	if err != nil {
		return nil, err
	}

	var announced []Release
	var errs []error
	for _, repository := range a.opts.Repositories {
		releases, err := a.fetch(ctx, repository)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		firstCheck := !state.Known(repository)
		// Feeds list the newest release first, announce oldest first
		for i := len(releases) - 1; i >= 0; i-- {
			release := releases[i]
			if state.Seen(repository, release.Version) {
				continue
			}
			if !firstCheck {
				if _, err := a.sender.SendEmbed(ctx, a.opts.ChannelID, a.opts.Format(release)); err != nil {
					errs = append(errs, fmt.Errorf("failed to announce %s %s: %w", repository, release.Version, err))
					continue
				}
				announced = append(announced, release)
				a.logger.WithFields(logrus.Fields{"repository": repository, "version": release.Version}).Info("Announced release")
			}
			state.Record(repository, release.Version, a.opts.Now())
		}
		state.Record(repository, "", a.opts.Now())
		if firstCheck {
			a.logger.WithFields(logrus.Fields{"repository": repository, "releases": len(releases)}).Info("Recorded existing releases")
		}
	}

	if err := a.opts.Store.Save(state); err != nil {
		errs = append(errs, err)
	}
	return announced, utilerrors.NewAggregate(errs)
}

func (a *Announcer) fetch(ctx context.Context, repository string) ([]Release, error) {
	feedURL, err := a.FeedURL(repository)
	if err != nil {
		return nil, fmt.Errorf("invalid feed URL for %s: %w", repository, err)
	}
	feed, err := a.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch releases of %s: %w", repository, err)
	}

	releases := make([]Release, 0, len(feed.Items))
	for _, item := range feed.Items {
		release := Release{
			Repository: repository,
			Version:    versionOf(item),
			URL:        item.Link,
		}
		switch {
		case item.UpdatedParsed != nil:
			release.Published = *item.UpdatedParsed
		case item.PublishedParsed != nil:
			release.Published = *item.PublishedParsed
		}
		if release.Version == "" {
			continue
		}
		releases = append(releases, release)
	}
	return releases, nil
}

// versionOf prefers the tag in a ".../releases/tag/<tag>" link over the title
func versionOf(item *gofeed.Item) string {
	if link, err := url.Parse(item.Link); err == nil && strings.Contains(link.Path, "/releases/tag/") {
		return path.Base(link.Path)
	}
	return strings.TrimSpace(item.Title)
}
