package commands

import (
	"context"
	"fmt"

	"github.com/vueland/vuebot/internal/bot"
	"github.com/vueland/vuebot/internal/info"
	"github.com/vueland/vuebot/internal/render"
)

// NewEtiquette creates the command explaining how to ask questions
func NewEtiquette(topic info.Topic, cleanup Cleanup) *bot.Command {
	return newInfoCommand(topic, cleanup, &bot.Command{
		Name:        "etiquette",
		Aliases:     []string{"howtoask", "asking"},
		Description: "Explain the etiquette of asking questions.",
		Examples:    []string{"etiquette", "etiquette user", "etiquette @user"},
	})
}

// NewSharing creates the command explaining how to share code
func NewSharing(topic info.Topic, cleanup Cleanup) *bot.Command {
	return newInfoCommand(topic, cleanup, &bot.Command{
		Name:        "sharing",
		Aliases:     []string{"share", "code"},
		Description: "Explain how to share code.",
		Examples:    []string{"sharing", "sharing user", "sharing @user"},
	})
}

// newInfoCommand posts the topic in the channel, or sends it to a member by
// direct message when one is named
func newInfoCommand(topic info.Topic, cleanup Cleanup, command *bot.Command) *bot.Command {
	command.Group = "informational"
	command.Usage = "[member]"
	command.GuildOnly = true
	command.Run = func(ctx context.Context, req *bot.Request) error {
		pages := render.InfoPages(&req.Message, topic)
		defer deleteAfter(req.Session, req.Logger, req.Message.ChannelID, req.Message.ID, cleanup.InvocationAfter)

		query := req.Args.Text()
		if query == "" {
			return req.SendPages(ctx, req.Message.ChannelID, pages, nil)
		}

		member, err := req.Session.FindMember(ctx, req.Message.GuildID, query)
		if err != nil {
			return err
		}
		if member == nil {
			return req.Reply(ctx, fmt.Sprintf("I couldn't find a member matching %s.", render.InlineCode(query)))
		}

		channelID, err := req.Session.DirectChannel(ctx, member.ID)
		if err != nil {
			return err
		}
		if len(pages) == 1 {
			if _, err := req.Session.SendEmbed(ctx, channelID, pages[0]); err != nil {
				return err
			}
		} else if err := req.Session.SendPaginated(ctx, channelID, bot.Pagination{Pages: pages, OwnerID: member.ID}); err != nil {
			return err
		}

		id, err := req.Session.SendText(ctx, req.Message.ChannelID,
			fmt.Sprintf("%s, okay, I sent %s a DM about that as requested.", req.Message.Author.Mention(), member.Name()))
		if err != nil {
			return err
		}
		deleteAfter(req.Session, req.Logger, req.Message.ChannelID, id, cleanup.ResponseAfter)
		return nil
	}
	return command
}
