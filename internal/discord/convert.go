package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/vueland/vuebot/internal/bot"
)

func convertUser(user *discordgo.User, member *discordgo.Member) bot.User {
	if user == nil {
		return bot.User{}
	}
	converted := bot.User{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.GlobalName,
		AvatarURL:   user.AvatarURL(""),
		Bot:         user.Bot,
	}
	if member != nil && member.Nick != "" {
		converted.DisplayName = member.Nick
	}
	return converted
}

func convertMessage(msg *discordgo.Message) bot.Message {
	converted := bot.Message{
		ID:              msg.ID,
		ChannelID:       msg.ChannelID,
		GuildID:         msg.GuildID,
		Author:          convertUser(msg.Author, msg.Member),
		Content:         msg.Content,
		MentionRoles:    msg.MentionRoles,
		MentionEveryone: msg.MentionEveryone,
	}
	for _, user := range msg.Mentions {
		converted.Mentions = append(converted.Mentions, convertUser(user, nil))
	}
	return converted
}

func convertEmbed(embed bot.Embed) *discordgo.MessageEmbed {
	converted := &discordgo.MessageEmbed{
		URL:         embed.URL,
		Title:       embed.Title,
		Description: embed.Description,
		Color:       embed.Color,
	}
	if embed.Author != nil {
		converted.Author = &discordgo.MessageEmbedAuthor{Name: embed.Author.Name, IconURL: embed.Author.IconURL}
	}
	if embed.Thumbnail != "" {
		converted.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: embed.Thumbnail}
	}
	if embed.Footer != "" {
		converted.Footer = &discordgo.MessageEmbedFooter{Text: embed.Footer}
	}
	for _, field := range embed.Fields {
		converted.Fields = append(converted.Fields, &discordgo.MessageEmbedField{
			Name:   field.Name,
			Value:  field.Value,
			Inline: field.Inline,
		})
	}
	return converted
}
