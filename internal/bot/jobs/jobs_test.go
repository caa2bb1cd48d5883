package jobs

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vueland/vuebot/internal/bot"
	"github.com/vueland/vuebot/internal/bot/bottest"
)

func mentions(ids ...string) []bot.User {
	var users []bot.User
	for _, id := range ids {
		users = append(users, bot.User{ID: id})
	}
	return users
}

func TestMassMentionShouldExecute(t *testing.T) {
	job := NewMassMention(0)

	tests := []struct {
		name     string
		msg      bot.Message
		expected bool
	}{
		{
			name:     "few mentions",
			msg:      bot.Message{GuildID: "g", Author: bot.User{ID: "a"}, Mentions: mentions("1", "2")},
			expected: false,
		},
		{
			name:     "five distinct users",
			msg:      bot.Message{GuildID: "g", Author: bot.User{ID: "a"}, Mentions: mentions("1", "2", "3", "4", "5")},
			expected: true,
		},
		{
			name:     "repeated users count once",
			msg:      bot.Message{GuildID: "g", Author: bot.User{ID: "a"}, Mentions: mentions("1", "1", "2", "2", "3")},
			expected: false,
		},
		{
			name:     "self mention does not count",
			msg:      bot.Message{GuildID: "g", Author: bot.User{ID: "a"}, Mentions: mentions("a", "1", "2", "3", "4")},
			expected: false,
		},
		{
			name:     "roles count",
			msg:      bot.Message{GuildID: "g", Author: bot.User{ID: "a"}, Mentions: mentions("1", "2", "3"), MentionRoles: []string{"r1", "r2"}},
			expected: true,
		},
		{
			name:     "direct messages are ignored",
			msg:      bot.Message{Author: bot.User{ID: "a"}, Mentions: mentions("1", "2", "3", "4", "5")},
			expected: false,
		},
		{
			name:     "bots are ignored",
			msg:      bot.Message{GuildID: "g", Author: bot.User{ID: "a", Bot: true}, Mentions: mentions("1", "2", "3", "4", "5")},
			expected: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := job.ShouldExecute(tt.msg); got != tt.expected {
				t.Errorf("expected %t, got %t", tt.expected, got)
			}
		})
	}
}

func TestMassMentionRun(t *testing.T) {
	session := bottest.NewSession("bot")
	msg := bot.Message{ID: "m", ChannelID: "c", GuildID: "g", Author: bot.User{ID: "a"}}

	if err := NewMassMention(3).Run(context.Background(), session, msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"c/m"}, session.Deleted()); diff != "" {
		t.Errorf("unexpected deletions (-want +got):\n%s", diff)
	}
	if text := session.Last(t).Text; text != "<@a>, please do not mention that many people at once." {
		t.Errorf("unexpected warning %q", text)
	}
}

func TestTestJob(t *testing.T) {
	if NewTest(false).Enabled {
		t.Errorf("expected the test job to be disabled")
	}
	session := bottest.NewSession("bot")
	job := NewTest(true)
	if err := job.Run(context.Background(), session, bot.Message{ChannelID: "c", Author: bot.User{ID: "a"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text := session.Last(t).Text; text != "<@a>, [TestTask] Executed!" {
		t.Errorf("unexpected reply %q", text)
	}
}
