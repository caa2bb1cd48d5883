package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vueland/vuebot/internal/bot"
	"github.com/vueland/vuebot/internal/render"
)

func userLacksPermission(permission bot.Permission) string {
	return fmt.Sprintf("Sorry but you lack the permissions required (%s) to perform that action.", render.InlineCode(permission.String()))
}

func botLacksPermission(permission bot.Permission) string {
	return fmt.Sprintf("Sorry but I lack the permissions required (%s) to perform that action.", render.InlineCode(permission.String()))
}

func invalidQuery(prefix, command string) string {
	return fmt.Sprintf("You must specify a valid query.\n\nFor more information consult the help command - %s.", render.InlineCode(prefix+"help "+command))
}

func invalidFilter(value string, valid []string) string {
	return fmt.Sprintf("You specified an invalid filter (%s), valid filters are: %s.", render.InlineCode(value), strings.Join(valid, ", "))
}

// Cleanup controls how long invocations and bot responses stay in a channel.
// Zero durations keep messages.
type Cleanup struct {
	InvocationAfter time.Duration
	ResponseAfter   time.Duration
}

// deleteAfter removes a message once the delay has passed
func deleteAfter(session bot.Session, logger *logrus.Entry, channelID, messageID string, delay time.Duration) {
	if delay <= 0 || messageID == "" {
		return
	}
	time.AfterFunc(delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := session.DeleteMessage(ctx, channelID, messageID); err != nil {
			logger.WithError(err).WithField("message", messageID).Debug("Failed to clean up message")
		}
	})
}
