package commands

import (
	"context"

	"github.com/vueland/vuebot/internal/bot"
	"github.com/vueland/vuebot/internal/library"
	"github.com/vueland/vuebot/internal/render"
)

// NewLibrary creates the library lookup command
func NewLibrary(catalogue *library.Catalogue, cleanup Cleanup) *bot.Command {
	return &bot.Command{
		Name:        "library",
		Aliases:     []string{"lib", "l"},
		Group:       "documentation",
		Description: "Look up a tool, library or framework by name.",
		Usage:       "<name>",
		Examples:    []string{"library quasar", "library vuetify", "library nuxt"},
		Run: func(ctx context.Context, req *bot.Request) error {
			name := req.Args.Text()
			if name == "" {
				return req.Reply(ctx, "enter a tool, library or framework to look up.")
			}

			embed, exact := libraryResponse(&req.Message, catalogue, name)
			id, err := req.Session.SendEmbed(ctx, req.Message.ChannelID, embed)
			if err != nil {
				return err
			}
			deleteAfter(req.Session, req.Logger, req.Message.ChannelID, req.Message.ID, cleanup.InvocationAfter)
			if !exact {
				deleteAfter(req.Session, req.Logger, req.Message.ChannelID, id, cleanup.ResponseAfter)
			}
			return nil
		},
	}
}

// libraryResponse picks the embed for a lookup and reports whether the
// name matched a library exactly
func libraryResponse(msg *bot.Message, catalogue *library.Catalogue, name string) (bot.Embed, bool) {
	if lib, ok := catalogue.Get(name); ok {
		return render.LibraryPage(msg, lib), true
	}
	switch matches := catalogue.FindPossibleMatches(name); len(matches) {
	case 0:
		return render.LibraryNotFound(msg, name), false
	case 1:
		return render.LibraryPage(msg, matches[0]), false
	default:
		return render.LibraryDisambiguation(msg, name, matches), false
	}
}
