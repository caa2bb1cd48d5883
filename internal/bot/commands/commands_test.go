package commands_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vueland/vuebot/internal/bot"
	"github.com/vueland/vuebot/internal/bot/bottest"
)

const (
	userID    = "user"
	channelID = "channel"
	guildID   = "guild"
)

func discardLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

type harness struct {
	t          *testing.T
	dispatcher *bot.Dispatcher
	session    *bottest.Session
}

func newHarness(t *testing.T, commands ...*bot.Command) *harness {
	t.Helper()
	registry := bot.NewRegistry()
	if err := registry.Register(commands...); err != nil {
		t.Fatalf("failed to register commands: %v", err)
	}
	session := bottest.NewSession("bot")
	return &harness{
		t:       t,
		session: session,
		dispatcher: bot.NewDispatcher(session, registry, bot.DispatcherOptions{
			Prefix: "!",
			Logger: discardLogger(),
		}),
	}
}

func (h *harness) send(content string) bottest.Sent {
	h.t.Helper()
	h.dispatcher.Handle(context.Background(), bot.Message{
		ID:        "msg",
		ChannelID: channelID,
		GuildID:   guildID,
		Author:    bot.User{ID: userID, Username: "evan", DisplayName: "Evan"},
		Content:   content,
	})
	return h.session.Last(h.t)
}

func (h *harness) sendDirect(content string) bottest.Sent {
	h.t.Helper()
	h.dispatcher.Handle(context.Background(), bot.Message{
		ID:        "msg",
		ChannelID: "dm",
		Author:    bot.User{ID: userID, Username: "evan"},
		Content:   content,
	})
	return h.session.Last(h.t)
}

func expectText(t *testing.T, sent bottest.Sent, expected string) {
	t.Helper()
	if sent.Text != expected {
		t.Errorf("expected text %q, got %+v", expected, sent)
	}
}

func expectEmbed(t *testing.T, sent bottest.Sent) bot.Embed {
	t.Helper()
	if sent.Embed == nil {
		t.Fatalf("expected an embed, got %+v", sent)
	}
	return *sent.Embed
}

func expectPagination(t *testing.T, sent bottest.Sent) bot.Pagination {
	t.Helper()
	if sent.Pagination == nil {
		t.Fatalf("expected a paginated display, got %+v", sent)
	}
	return *sent.Pagination
}

// eventually polls until check succeeds or a few seconds have passed
func eventually(t *testing.T, check func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if check() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func hasField(embed bot.Embed, name, substring string) bool {
	for _, field := range embed.Fields {
		if field.Name == name && strings.Contains(field.Value, substring) {
			return true
		}
	}
	return false
}
