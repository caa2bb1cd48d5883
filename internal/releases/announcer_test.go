package releases

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vueland/vuebot/internal/bot"
)

func atomFeed(repository string, versions ...string) string {
	var entries strings.Builder
	for _, version := range versions {
		fmt.Fprintf(&entries, `
  <entry>
    <id>tag:github.com,2008:Repository/1/%[2]s</id>
    <updated>2026-10-01T10:00:00Z</updated>
    <link rel="alternate" type="text/html" href="https://github.com/%[1]s/releases/tag/%[2]s"/>
    <title>%[2]s</title>
  </entry>`, repository, version)
	}
	return `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <id>tag:github.com,2008:https://github.com/` + repository + `/releases</id>
  <title>Release notes from ` + repository + `</title>
  <updated>2026-10-01T10:00:00Z</updated>` + entries.String() + `
</feed>`
}

type feedServer struct {
	lock  sync.Mutex
	feeds map[string][]string
}

func (f *feedServer) set(repository string, versions ...string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.feeds[repository] = versions
}

func (f *feedServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.lock.Lock()
	defer f.lock.Unlock()
	repository := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/"), "/releases.atom")
	versions, ok := f.feeds[repository]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/atom+xml")
	_, _ = w.Write([]byte(atomFeed(repository, versions...)))
}

type fakeSender struct {
	sent []bot.Embed
	err  error
}

func (f *fakeSender) SendEmbed(_ context.Context, _ string, embed bot.Embed) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, embed)
	return fmt.Sprintf("msg-%d", len(f.sent)), nil
}

func newTestAnnouncer(t *testing.T, sender Sender, repositories ...string) (*Announcer, *feedServer) {
	t.Helper()
	feeds := &feedServer{feeds: map[string][]string{}}
	server := httptest.NewServer(feeds)
	t.Cleanup(server.Close)

	announcer, err := NewAnnouncer(sender, Options{
		Repositories: repositories,
		ChannelID:    "announcements",
		FeedBaseURL:  server.URL,
		Format: func(r Release) bot.Embed {
			return bot.Embed{Title: r.Repository + " " + r.Version, URL: r.URL}
		},
		Store: NewStateStore(filepath.Join(t.TempDir(), "releases.yaml")),
		Now:   func() time.Time { return time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return announcer, feeds
}

func titles(embeds []bot.Embed) []string {
	var result []string
	for _, embed := range embeds {
		result = append(result, embed.Title)
	}
	return result
}

func TestCheckAnnouncesOnlyUnseenVersions(t *testing.T) {
	sender := &fakeSender{}
	announcer, feeds := newTestAnnouncer(t, sender, "vuejs/core")
	feeds.set("vuejs/core", "v3.5.1", "v3.5.0")

	announced, err := announcer.Check(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(announced) != 0 || len(sender.sent) != 0 {
		t.Fatalf("first check must only record releases, announced %v", titles(sender.sent))
	}

	feeds.set("vuejs/core", "v3.5.3", "v3.5.2", "v3.5.1", "v3.5.0")
	announced, err = announcer.Check(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"vuejs/core v3.5.2", "vuejs/core v3.5.3"}, titles(sender.sent)); diff != "" {
		t.Errorf("unexpected announcements (-want +got):\n%s", diff)
	}
	if len(announced) != 2 {
		t.Fatalf("expected two announced releases, got %+v", announced)
	}
	if announced[0].URL != "https://github.com/vuejs/core/releases/tag/v3.5.2" {
		t.Errorf("unexpected release URL %q", announced[0].URL)
	}
	if announced[0].Published.IsZero() {
		t.Errorf("expected the publish time to be parsed")
	}

	if _, err := announcer.Check(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.sent) != 2 {
		t.Errorf("expected no repeated announcements, got %v", titles(sender.sent))
	}
}

func TestCheckRetriesFailedAnnouncements(t *testing.T) {
	sender := &fakeSender{}
	announcer, feeds := newTestAnnouncer(t, sender, "vuejs/router")
	feeds.set("vuejs/router", "v4.0.0")
	if _, err := announcer.Check(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	feeds.set("vuejs/router", "v4.1.0", "v4.0.0")
	sender.err = errors.New("discord is down")
	if _, err := announcer.Check(context.Background()); err == nil {
		t.Fatalf("expected the send failure to be reported")
	}

	sender.err = nil
	if _, err := announcer.Check(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"vuejs/router v4.1.0"}, titles(sender.sent)); diff != "" {
		t.Errorf("unexpected announcements (-want +got):\n%s", diff)
	}
}

func TestCheckContinuesAfterFeedFailure(t *testing.T) {
	sender := &fakeSender{}
	announcer, feeds := newTestAnnouncer(t, sender, "vuejs/missing", "vuejs/pinia")
	feeds.set("vuejs/pinia", "v2.0.0")
	if _, err := announcer.Check(context.Background()); err == nil {
		t.Fatalf("expected the missing feed to be reported")
	}

	feeds.set("vuejs/pinia", "v2.1.0", "v2.0.0")
	if _, err := announcer.Check(context.Background()); err == nil {
		t.Fatalf("expected the missing feed to be reported")
	}
	if diff := cmp.Diff([]string{"vuejs/pinia v2.1.0"}, titles(sender.sent)); diff != "" {
		t.Errorf("unexpected announcements (-want +got):\n%s", diff)
	}
}

func TestNewAnnouncerValidation(t *testing.T) {
	store := NewStateStore(filepath.Join(t.TempDir(), "state.yaml"))
	format := func(Release) bot.Embed { return bot.Embed{} }

	tests := []struct {
		name string
		opts Options
	}{
		{name: "no channel", opts: Options{Format: format, Store: store}},
		{name: "no format", opts: Options{ChannelID: "c", Store: store}},
		{name: "no store", opts: Options{ChannelID: "c", Format: format}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewAnnouncer(&fakeSender{}, tt.opts); err == nil {
				t.Errorf("expected an error")
			}
		})
	}

	announcer, err := NewAnnouncer(&fakeSender{}, Options{ChannelID: "c", Format: format, Store: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	feedURL, err := announcer.FeedURL("vuejs/core")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if feedURL != "https://github.com/vuejs/core/releases.atom" {
		t.Errorf("unexpected feed URL %q", feedURL)
	}
}
