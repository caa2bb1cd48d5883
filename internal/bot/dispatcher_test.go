package bot_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	"github.com/vueland/vuebot/internal/bot"
	"github.com/vueland/vuebot/internal/bot/bottest"
)

type recorder struct {
	calls []*bot.Request
	err   error
}

func (r *recorder) run(_ context.Context, req *bot.Request) error {
	r.calls = append(r.calls, req)
	return r.err
}

func newDispatcher(t *testing.T, commands []*bot.Command, jobs []*bot.Job) (*bot.Dispatcher, *bottest.Session) {
	t.Helper()
	registry := bot.NewRegistry()
	if err := registry.Register(commands...); err != nil {
		t.Fatalf("failed to register commands: %v", err)
	}
	if err := registry.RegisterJobs(jobs...); err != nil {
		t.Fatalf("failed to register jobs: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	session := bottest.NewSession("bot")
	return bot.NewDispatcher(session, registry, bot.DispatcherOptions{
		Prefix: "!",
		Owners: []string{"owner"},
		Logger: logrus.NewEntry(logger),
	}), session
}

func message(author, content string) bot.Message {
	return bot.Message{
		ID:        "msg",
		ChannelID: "channel",
		GuildID:   "guild",
		Author:    bot.User{ID: author, Username: author},
		Content:   content,
	}
}

func TestDispatcherRunsCommand(t *testing.T) {
	rec := &recorder{}
	dispatcher, session := newDispatcher(t, []*bot.Command{{Name: "rfc", Aliases: []string{"rfcs"}, Run: rec.run}}, nil)

	dispatcher.Handle(context.Background(), message("user", `!RFC  label:core --state="open"`))

	if len(rec.calls) != 1 {
		t.Fatalf("expected the command to run once, got %d", len(rec.calls))
	}
	req := rec.calls[0]
	expected := bot.Args{Positional: []string{"label:core"}, Flags: map[string]string{"state": "open"}}
	if diff := cmp.Diff(expected, req.Args); diff != "" {
		t.Errorf("unexpected args (-want +got):\n%s", diff)
	}
	if req.Prefix != "!" || req.Command.Name != "rfc" {
		t.Errorf("unexpected request %+v", req)
	}
	if len(session.Sent()) != 0 {
		t.Errorf("expected nothing to be sent, got %+v", session.Sent())
	}
}

func TestDispatcherIgnores(t *testing.T) {
	tests := []struct {
		name string
		msg  bot.Message
	}{
		{name: "own message", msg: message("bot", "!rfc")},
		{name: "no prefix", msg: message("user", "rfc #23")},
		{name: "prefix only", msg: message("user", "! rfc")},
		{name: "unknown command", msg: message("user", "!nope")},
		{name: "other bot", msg: func() bot.Message {
			msg := message("other-bot", "!rfc")
			msg.Author.Bot = true
			return msg
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			dispatcher, session := newDispatcher(t, []*bot.Command{{Name: "rfc", Run: rec.run}}, nil)

			dispatcher.Handle(context.Background(), tt.msg)

			if len(rec.calls) != 0 {
				t.Errorf("expected the command not to run")
			}
			if len(session.Sent()) != 0 {
				t.Errorf("expected nothing to be sent, got %+v", session.Sent())
			}
		})
	}
}

func TestDispatcherRunsEnabledJobs(t *testing.T) {
	var ran []string
	job := func(name string, enabled bool, accept string) *bot.Job {
		return &bot.Job{
			Name:          name,
			Enabled:       enabled,
			ShouldExecute: func(msg bot.Message) bool { return strings.Contains(msg.Content, accept) },
			Run: func(context.Context, bot.Session, bot.Message) error {
				ran = append(ran, name)
				return errors.New("ignored")
			},
		}
	}
	dispatcher, _ := newDispatcher(t, nil, []*bot.Job{
		job("matching", true, "hello"),
		job("disabled", false, "hello"),
		job("not-matching", true, "bye"),
	})

	dispatcher.Handle(context.Background(), message("user", "hello there"))
	dispatcher.Handle(context.Background(), message("bot", "hello from myself"))

	if diff := cmp.Diff([]string{"matching"}, ran); diff != "" {
		t.Errorf("unexpected jobs run (-want +got):\n%s", diff)
	}
}

func TestDispatcherGuildOnly(t *testing.T) {
	rec := &recorder{}
	dispatcher, session := newDispatcher(t, []*bot.Command{{Name: "etiquette", GuildOnly: true, Run: rec.run}}, nil)

	msg := message("user", "!etiquette")
	msg.GuildID = ""
	dispatcher.Handle(context.Background(), msg)

	if len(rec.calls) != 0 {
		t.Errorf("expected the command not to run in a direct message")
	}
	if text := session.Last(t).Text; !strings.Contains(text, "only be used in a server") {
		t.Errorf("unexpected reply %q", text)
	}
}

func TestDispatcherOwnerOnly(t *testing.T) {
	rec := &recorder{}
	dispatcher, session := newDispatcher(t, []*bot.Command{{Name: "error", OwnerOnly: true, Run: rec.run}}, nil)

	dispatcher.Handle(context.Background(), message("user", "!error"))
	if len(rec.calls) != 0 {
		t.Errorf("expected the command to be refused")
	}
	if text := session.Last(t).Text; text != "<@user>, that command can only be used by the bot owners." {
		t.Errorf("unexpected reply %q", text)
	}

	dispatcher.Handle(context.Background(), message("owner", "!error"))
	if len(rec.calls) != 1 {
		t.Errorf("expected the owner to run the command")
	}
	if !dispatcher.IsOwner("owner") || dispatcher.IsOwner("user") {
		t.Errorf("unexpected owner check")
	}
}

func TestDispatcherReportsFailures(t *testing.T) {
	rec := &recorder{err: errors.New("boom")}
	dispatcher, session := newDispatcher(t, []*bot.Command{{Name: "rfc", Run: rec.run}}, nil)

	dispatcher.Handle(context.Background(), message("user", "!rfc #23"))
	if text := session.Last(t).Text; text != "Sorry, an unspecified error occurred!" {
		t.Errorf("unexpected reply %q", text)
	}

	dispatcher.Handle(context.Background(), message("user", `!rfc "unterminated`))
	if text := session.Last(t).Text; !strings.Contains(text, "unterminated quote") {
		t.Errorf("unexpected reply %q", text)
	}
	if len(rec.calls) != 1 {
		t.Errorf("expected the command not to run with unreadable arguments")
	}
}
