// Package jobs holds the message-triggered tasks that run alongside commands.
package jobs

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/vueland/vuebot/internal/bot"
)

// DefaultMassMentionThreshold is the number of distinct mentions that
// counts as mass mentioning
const DefaultMassMentionThreshold = 5

// NewTest creates a job that replies to every message. It is disabled
// unless explicitly enabled.
func NewTest(enabled bool) *bot.Job {
	return &bot.Job{
		Name:          "test",
		Description:   "Move along, move along.",
		Enabled:       enabled,
		ShouldExecute: func(bot.Message) bool { return true },
		Run: func(ctx context.Context, session bot.Session, msg bot.Message) error {
			_, err := session.SendText(ctx, msg.ChannelID, msg.Author.Mention()+", [TestTask] Executed!")
			return err
		},
	}
}

// NewMassMention creates a job removing guild messages that mention at least
// threshold distinct users or roles, warning the author instead
func NewMassMention(threshold int) *bot.Job {
	if threshold <= 0 {
		threshold = DefaultMassMentionThreshold
	}
	return &bot.Job{
		Name:        "mass-mention",
		Description: "Remove messages mentioning too many members at once.",
		Enabled:     true,
		ShouldExecute: func(msg bot.Message) bool {
			return !msg.IsDirect() && !msg.Author.Bot && mentionCount(msg) >= threshold
		},
		Run: func(ctx context.Context, session bot.Session, msg bot.Message) error {
			if err := session.DeleteMessage(ctx, msg.ChannelID, msg.ID); err != nil {
				return fmt.Errorf("failed to remove mass mention: %w", err)
			}
			_, err := session.SendText(ctx, msg.ChannelID, msg.Author.Mention()+", please do not mention that many people at once.")
			return err
		},
	}
}

// mentionCount counts distinct mentioned users other than the author, plus
// mentioned roles
func mentionCount(msg bot.Message) int {
	users := sets.New[string]()
	for _, user := range msg.Mentions {
		users.Insert(user.ID)
	}
	users.Delete(msg.Author.ID)
	return users.Len() + sets.New[string](msg.MentionRoles...).Len()
}
