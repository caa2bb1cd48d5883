package render

import (
	"fmt"

	"github.com/vueland/vuebot/internal/bot"
	"github.com/vueland/vuebot/internal/info"
)

// InfoPages renders a topic, one embed per page
func InfoPages(msg *bot.Message, topic info.Topic) []bot.Embed {
	pages := make([]bot.Embed, 0, len(topic.Pages))
	for i, page := range topic.Pages {
		embed := VueTemplate(msg, TemplateOptions{Title: topic.Title + " - " + page.Title})
		embed.Description = Truncate(page.Description, DescriptionLimit)
		embed.URL = page.URL
		embed.Footer = fmt.Sprintf("Page %d of %d", i+1, len(topic.Pages))
		pages = append(pages, embed)
	}
	return pages
}
