package render

import (
	"fmt"
	"strings"

	"github.com/vueland/vuebot/internal/bot"
	"github.com/vueland/vuebot/internal/library"
)

const (
	// LibraryDataURL is where new libraries are submitted
	LibraryDataURL = "https://github.com/vueland/vuebot/tree/main/internal/library/data"

	zeroWidthSpace = "\u200b"
)

// LibraryPage renders a library card
func LibraryPage(msg *bot.Message, lib library.Library) bot.Embed {
	embed := VueTemplate(msg, TemplateOptions{Title: UppercaseFirst(lib.Name), NoLogo: true})
	embed.URL = lib.Links.Home()
	embed.Description = lib.Description
	embed.Color = lib.Color
	embed.Thumbnail = lib.Icon
	if lib.Author != nil {
		embed.Author = &bot.EmbedAuthor{Name: lib.Author.Name, IconURL: lib.Author.Avatar}
	}
	if msg != nil {
		embed.Footer = "Requested by " + msg.Author.Name()
	}

	for _, field := range lib.Fields {
		name := field.Name
		if name == "" {
			name = zeroWidthSpace
		}
		embed = embed.AddField(name, field.Value, false)
	}
	if len(lib.Tags) > 0 {
		tags := make([]string, 0, len(lib.Tags))
		for _, tag := range lib.Tags {
			tags = append(tags, InlineCode(tag))
		}
		embed = embed.AddField("Tags", strings.Join(tags, " "), false)
	}
	var links []string
	for _, link := range lib.Links.All() {
		links = append(links, fmt.Sprintf("[%s](%s)", UppercaseFirst(link.Name), link.URL))
	}
	embed = embed.AddField("Links", strings.Join(links, " | "), true)
	if lib.License != "" {
		embed = embed.AddField("License", lib.License, true)
	}
	return embed
}

// LibraryDisambiguation lists the libraries a lookup might have meant
func LibraryDisambiguation(msg *bot.Message, query string, libs []library.Library) bot.Embed {
	embed := VueTemplate(msg, TemplateOptions{Title: "Library Lookup - " + InlineCode(query), NoLogo: true})
	embed.Description = "Sorry, I couldn't find an exact match for your query."
	embed.Color = WarningColor

	names := make([]string, 0, min(len(libs), library.MaxSuggestions))
	for _, lib := range libs[:min(len(libs), library.MaxSuggestions)] {
		names = append(names, InlineCode(lib.Name))
	}
	return embed.AddField("Did you mean?", strings.Join(names, ", "), false)
}

// LibraryNotFound explains how to get a missing library listed
func LibraryNotFound(msg *bot.Message, query string) bot.Embed {
	embed := VueTemplate(msg, TemplateOptions{Title: "Library Lookup - " + InlineCode(query), NoLogo: true})
	embed.Color = ErrorColor
	embed.Description = "Sorry, I couldn't find any library matching your query."
	return embed.AddField(
		"Missing a library?",
		fmt.Sprintf("Open a pull request adding it to the [library data](%s).", LibraryDataURL),
		false,
	)
}
