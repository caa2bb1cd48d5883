package render

import (
	"strings"

	"github.com/vueland/vuebot/internal/apidocs"
	"github.com/vueland/vuebot/internal/bot"
)

const maxAPISuggestions = 25

// APIPage renders an API reference entry
func APIPage(msg *bot.Message, entry apidocs.Entry) bot.Embed {
	embed := VueTemplate(msg, TemplateOptions{Title: entry.Title})
	embed.URL = entry.Link
	embed.Description = Truncate(entry.Description, DescriptionLimit)
	if entry.Category != "" {
		embed.Footer = entry.Category
	}
	return embed
}

// APIDisambiguation lists the entries a lookup might have meant
func APIDisambiguation(msg *bot.Message, query string, entries []apidocs.Entry) bot.Embed {
	embed := VueTemplate(msg, TemplateOptions{Title: "API Lookup - " + InlineCode(query), NoLogo: true})
	embed.Description = "Sorry, I couldn't find an exact match for your query."
	embed.Color = InfoColor

	ids := make([]string, 0, min(len(entries), maxAPISuggestions))
	for _, entry := range entries[:min(len(entries), maxAPISuggestions)] {
		ids = append(ids, InlineCode(entry.ID))
	}
	return embed.AddField("Did you mean?", strings.Join(ids, ", "), false)
}

// APINotFound is shown when nothing in the API index matches
func APINotFound(msg *bot.Message, query string) bot.Embed {
	embed := VueTemplate(msg, TemplateOptions{Title: "API Lookup - " + InlineCode(query), NoLogo: true})
	embed.Description = "Sorry, I couldn't find anything in the API reference matching your query."
	embed.Color = ErrorColor
	return embed
}
