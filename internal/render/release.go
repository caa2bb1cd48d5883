package render

import (
	"github.com/vueland/vuebot/internal/bot"
	"github.com/vueland/vuebot/internal/releases"
)

// ReleaseAnnouncement renders a new release for the announcement channel
func ReleaseAnnouncement(release releases.Release) bot.Embed {
	embed := VueTemplate(nil, TemplateOptions{Title: release.Repository + " " + release.Version})
	embed.URL = release.URL
	embed.Description = "A new version of " + InlineCode(release.Repository) + " has been released."
	if !release.Published.IsZero() {
		embed.Footer = "Published " + release.Published.UTC().Format(dateLayout)
	}
	return embed
}
