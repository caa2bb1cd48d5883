package bot

import (
	"context"
	"time"
)

// User is a chat user as seen by commands
type User struct {
	ID          string
	Username    string
	DisplayName string
	AvatarURL   string
	Bot         bool
}

// Name returns the name the user is shown with in the current context
func (u User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// Mention returns the chat markup that pings the user
func (u User) Mention() string {
	return "<@" + u.ID + ">"
}

// Message is an incoming chat message
type Message struct {
	ID              string
	ChannelID       string
	GuildID         string
	Author          User
	Content         string
	Mentions        []User
	MentionRoles    []string
	MentionEveryone bool
}

// IsDirect reports whether the message was sent in a direct message channel
func (m Message) IsDirect() bool {
	return m.GuildID == ""
}

// Embed is a rich message card
type Embed struct {
	Title       string
	Description string
	URL         string
	Color       int
	Author      *EmbedAuthor
	Thumbnail   string
	Footer      string
	Fields      []EmbedField
}

type EmbedAuthor struct {
	Name    string
	IconURL string
}

type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// AddField appends a field and returns the embed for chaining
func (e Embed) AddField(name, value string, inline bool) Embed {
	e.Fields = append(append([]EmbedField(nil), e.Fields...), EmbedField{Name: name, Value: value, Inline: inline})
	return e
}

// Pagination is a set of embeds browsed one page at a time
type Pagination struct {
	Pages []Embed
	// Info is an optional page explaining the controls
	Info *Embed
	// OwnerID is the only user allowed to turn pages, empty allows everyone
	OwnerID string
	// Timeout is how long the controls stay active
	Timeout time.Duration
}

// Permission is a chat permission bit
type Permission int64

const (
	PermissionAttachFiles   Permission = 1 << 15
	PermissionAdministrator Permission = 1 << 3
)

func (p Permission) String() string {
	switch p {
	case PermissionAttachFiles:
		return "ATTACH_FILES"
	case PermissionAdministrator:
		return "ADMINISTRATOR"
	}
	return "UNKNOWN"
}

// Session is what commands and jobs need from the chat connection
type Session interface {
	// BotUserID returns the ID of the bot's own user
	BotUserID() string
	SendText(ctx context.Context, channelID, text string) (string, error)
	SendEmbed(ctx context.Context, channelID string, embed Embed) (string, error)
	SendFile(ctx context.Context, channelID, name, contentType string, data []byte) error
	SendPaginated(ctx context.Context, channelID string, pagination Pagination) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	// DirectChannel opens (or reuses) the direct message channel with a user
	DirectChannel(ctx context.Context, userID string) (string, error)
	HasPermission(ctx context.Context, userID, channelID string, permission Permission) (bool, error)
	// FindMember looks up a guild member by mention, ID or name; nil when there is no match
	FindMember(ctx context.Context, guildID, query string) (*User, error)
}
