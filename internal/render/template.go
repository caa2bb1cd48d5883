package render

import (
	"github.com/vueland/vuebot/internal/bot"
)

const (
	VueColor     = 0x42b883
	ErrorColor   = 0xe74c3c
	InfoColor    = 0x3498db
	WarningColor = 0xe67e22

	// LogoURL is the Vue logo shown as the thumbnail of branded embeds
	LogoURL = "https://vuejs.org/images/logo.png"

	// DescriptionLimit is the longest description an embed may carry
	DescriptionLimit = 4096
)

// TemplateOptions customizes a Vue-branded embed
type TemplateOptions struct {
	Title    string
	NoLogo   bool
	NoAuthor bool
}

// VueTemplate creates a Vue-branded embed. Unless disabled it names the
// user who requested it, as "You" in direct messages.
func VueTemplate(msg *bot.Message, opts TemplateOptions) bot.Embed {
	embed := bot.Embed{
		Title: opts.Title,
		Color: VueColor,
	}
	if !opts.NoLogo {
		embed.Thumbnail = LogoURL
	}
	if !opts.NoAuthor && msg != nil {
		name := msg.Author.Name()
		if msg.IsDirect() {
			name = "You"
		}
		embed.Author = &bot.EmbedAuthor{Name: name + " requested:", IconURL: msg.Author.AvatarURL}
	}
	return embed
}
