package commands

import (
	"context"

	"github.com/vueland/vuebot/internal/apidocs"
	"github.com/vueland/vuebot/internal/bot"
	"github.com/vueland/vuebot/internal/render"
)

// NewAPI creates the API reference lookup command
func NewAPI(index *apidocs.Index) *bot.Command {
	return &bot.Command{
		Name:        "api",
		Aliases:     []string{"doc", "docs"},
		Group:       "documentation",
		Description: "Look up an entry of the Vue API reference.",
		Usage:       "<name>",
		Examples:    []string{"api ref", "api v-model", "api keep-alive"},
		Run: func(ctx context.Context, req *bot.Request) error {
			name := req.Args.Text()
			if name == "" {
				return req.Reply(ctx, "enter an API to look up.")
			}
			if entry, ok := index.Get(name); ok {
				return req.SendEmbed(ctx, render.APIPage(&req.Message, entry))
			}
			switch entries := index.Find(name); len(entries) {
			case 0:
				return req.SendEmbed(ctx, render.APINotFound(&req.Message, name))
			case 1:
				return req.SendEmbed(ctx, render.APIPage(&req.Message, entries[0]))
			default:
				return req.SendEmbed(ctx, render.APIDisambiguation(&req.Message, name, entries))
			}
		},
	}
}
