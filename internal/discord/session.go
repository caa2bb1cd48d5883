// Package discord connects the bot to Discord.
package discord

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/vueland/vuebot/internal/bot"
)

// Intents are the gateway events the bot subscribes to
const Intents = discordgo.IntentGuildMessages |
	discordgo.IntentDirectMessages |
	discordgo.IntentMessageContent |
	discordgo.IntentGuildMessageReactions |
	discordgo.IntentDirectMessageReactions

var mentionPattern = regexp.MustCompile(`^<@!?(\d+)>$|^(\d{15,21})$`)

// Session is a bot.Session backed by a Discord gateway connection
type Session struct {
	session   *discordgo.Session
	paginator *paginator
	logger    *logrus.Entry
}

var _ bot.Session = &Session{}

// NewSession creates a session for the bot token. It does not connect.
func NewSession(token string, logger *logrus.Entry) (*Session, error) {
	if token == "" {
		return nil, errors.New("a Discord bot token is required")
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	logger = logger.WithField("component", "discord")

	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	dg.Identify.Intents = Intents

	s := &Session{
		session:   dg,
		paginator: newPaginator(dg, logger),
		logger:    logger,
	}
	dg.AddHandler(func(_ *discordgo.Session, r *discordgo.MessageReactionAdd) {
		if r.UserID == s.BotUserID() {
			return
		}
		s.paginator.react(context.Background(), r.MessageID, r.UserID, r.Emoji.Name)
	})
	dg.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		s.logger.WithFields(logrus.Fields{"user": r.User.Username, "guilds": len(r.Guilds)}).Info("Connected to Discord")
	})
	return s, nil
}

// OnMessage registers handler for every message the bot can see. Each
// message is handled on its own goroutine with a context derived from ctx.
func (s *Session) OnMessage(ctx context.Context, handler func(context.Context, bot.Message)) {
	s.session.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Message == nil || m.Author == nil {
			return
		}
		handler(ctx, convertMessage(m.Message))
	})
}

// Open connects to the gateway
func (s *Session) Open() error {
	if err := s.session.Open(); err != nil {
		return fmt.Errorf("failed to connect to Discord: %w", err)
	}
	return nil
}

// Close disconnects from the gateway
func (s *Session) Close() error {
	return s.session.Close()
}

func (s *Session) BotUserID() string {
	if s.session.State == nil || s.session.State.User == nil {
		return ""
	}
	return s.session.State.User.ID
}

func (s *Session) SendText(ctx context.Context, channelID, text string) (string, error) {
	msg, err := s.session.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	return msg.ID, nil
}

func (s *Session) SendEmbed(ctx context.Context, channelID string, embed bot.Embed) (string, error) {
	msg, err := s.session.ChannelMessageSendEmbed(channelID, convertEmbed(embed), discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to send embed: %w", err)
	}
	return msg.ID, nil
}

func (s *Session) SendFile(ctx context.Context, channelID, name, contentType string, data []byte) error {
	_, err := s.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Files: []*discordgo.File{{Name: name, ContentType: contentType, Reader: bytes.NewReader(data)}},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to send file: %w", err)
	}
	return nil
}

// SendPaginated sends the first page and adds the reaction controls. The
// controls stay active until stopped or unused for the pagination timeout.
func (s *Session) SendPaginated(ctx context.Context, channelID string, pagination bot.Pagination) error {
	if len(pagination.Pages) == 0 {
		return errors.New("nothing to paginate")
	}
	if pagination.Timeout <= 0 {
		pagination.Timeout = DefaultPaginationTimeout
	}

	state := pageState{pages: pagination.Pages, info: pagination.Info}
	msg, err := s.session.ChannelMessageSendEmbed(channelID, convertEmbed(state.embed()), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to send embed: %w", err)
	}

	s.paginator.track(&display{
		channelID: channelID,
		messageID: msg.ID,
		ownerID:   pagination.OwnerID,
		direct:    s.isDirect(ctx, channelID),
		state:     state,
		timeout:   pagination.Timeout,
	})
	for _, emoji := range state.controls() {
		if !s.paginator.active(msg.ID) {
			break
		}
		if err := s.session.MessageReactionAdd(channelID, msg.ID, emoji, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("failed to add pagination controls: %w", err)
		}
	}
	return nil
}

func (s *Session) isDirect(ctx context.Context, channelID string) bool {
	channel, err := s.session.State.Channel(channelID)
	if err != nil {
		if channel, err = s.session.Channel(channelID, discordgo.WithContext(ctx)); err != nil {
			return false
		}
	}
	return channel.Type == discordgo.ChannelTypeDM || channel.Type == discordgo.ChannelTypeGroupDM
}

func (s *Session) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if err := s.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

func (s *Session) DirectChannel(ctx context.Context, userID string) (string, error) {
	channel, err := s.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to open direct message channel: %w", err)
	}
	return channel.ID, nil
}

// HasPermission reports whether the user holds permission in the channel.
// Administrators hold every permission.
func (s *Session) HasPermission(ctx context.Context, userID, channelID string, permission bot.Permission) (bool, error) {
	permissions, err := s.session.UserChannelPermissions(userID, channelID, discordgo.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("failed to read permissions: %w", err)
	}
	return hasPermission(permissions, permission), nil
}

func hasPermission(permissions int64, permission bot.Permission) bool {
	if permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return permissions&int64(permission) == int64(permission)
}

// FindMember resolves a mention, a user ID or a name search within a guild
func (s *Session) FindMember(ctx context.Context, guildID, query string) (*bot.User, error) {
	if guildID == "" || query == "" {
		return nil, nil
	}

	if id := memberID(query); id != "" {
		member, err := s.session.GuildMember(guildID, id, discordgo.WithContext(ctx))
		if err != nil {
			var restErr *discordgo.RESTError
			if errors.As(err, &restErr) && restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownMember {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to look up member: %w", err)
		}
		user := convertUser(member.User, member)
		return &user, nil
	}

	members, err := s.session.GuildMembersSearch(guildID, query, 1, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to search members: %w", err)
	}
	if len(members) == 0 {
		return nil, nil
	}
	user := convertUser(members[0].User, members[0])
	return &user, nil
}

// memberID extracts the user ID from a mention or a bare ID
func memberID(query string) string {
	match := mentionPattern.FindStringSubmatch(query)
	if match == nil {
		return ""
	}
	if match[1] != "" {
		return match[1]
	}
	return match[2]
}
