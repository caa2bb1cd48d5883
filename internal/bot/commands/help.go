package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/vueland/vuebot/internal/bot"
	"github.com/vueland/vuebot/internal/render"
)

// NewHelp creates the help command listing every registered command
func NewHelp() *bot.Command {
	return &bot.Command{
		Name:        "help",
		Aliases:     []string{"commands"},
		Group:       "util",
		Description: "List the available commands, or show how to use one.",
		Usage:       "[command]",
		Examples:    []string{"help", "help rfc"},
		Run: func(ctx context.Context, req *bot.Request) error {
			name, _ := req.Args.Shift()
			if name == "" {
				return req.SendEmbed(ctx, helpOverview(req))
			}
			command, ok := req.Registry.Command(name)
			if !ok {
				text := fmt.Sprintf("there is no %s command.", render.InlineCode(name))
				if suggestion := req.Registry.Suggest(name); suggestion != "" {
					text += fmt.Sprintf(" Did you mean %s?", render.InlineCode(suggestion))
				}
				return req.Reply(ctx, text)
			}
			return req.SendEmbed(ctx, commandHelp(req, command))
		},
	}
}

func helpOverview(req *bot.Request) bot.Embed {
	embed := render.VueTemplate(&req.Message, render.TemplateOptions{Title: "Commands"})
	embed.Description = fmt.Sprintf("Use %s to learn more about a command.", render.InlineCode(req.Prefix+"help <command>"))

	groups, grouped := req.Registry.Groups()
	for _, group := range groups {
		var lines []string
		for _, command := range grouped[group] {
			lines = append(lines, fmt.Sprintf("%s - %s", render.InlineCode(req.Prefix+command.Name), command.Description))
		}
		name := group
		if name == "" {
			name = "other"
		}
		embed = embed.AddField(render.UppercaseFirst(name), strings.Join(lines, "\n"), false)
	}
	return embed
}

func commandHelp(req *bot.Request, command *bot.Command) bot.Embed {
	embed := render.VueTemplate(&req.Message, render.TemplateOptions{Title: "Command " + render.InlineCode(command.Name), NoLogo: true})
	embed.Description = command.Description

	usage := req.Prefix + command.Name
	if command.Usage != "" {
		usage += " " + command.Usage
	}
	embed = embed.AddField("Usage", render.InlineCode(usage), false)
	if len(command.Aliases) > 0 {
		aliases := make([]string, 0, len(command.Aliases))
		for _, alias := range command.Aliases {
			aliases = append(aliases, render.InlineCode(alias))
		}
		embed = embed.AddField("Aliases", strings.Join(aliases, ", "), true)
	}
	if command.GuildOnly {
		embed = embed.AddField("Availability", "Servers only", true)
	}
	if len(command.Examples) > 0 {
		examples := make([]string, 0, len(command.Examples))
		for _, example := range command.Examples {
			examples = append(examples, "• "+render.InlineCode(req.Prefix+example))
		}
		embed = embed.AddField("Examples", strings.Join(examples, "\n"), false)
	}
	return embed
}
