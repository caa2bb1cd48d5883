// Package bottest provides an in-memory bot.Session for tests.
package bottest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/vueland/vuebot/internal/bot"
)

// Sent is one message sent through the Session
type Sent struct {
	ChannelID  string
	Text       string
	Embed      *bot.Embed
	Pagination *bot.Pagination
	FileName   string
	FileData   []byte
}

// Session records everything sent through it
type Session struct {
	BotID string
	// Permissions maps a user ID to the permissions it holds everywhere
	Permissions map[string]bot.Permission
	// Members are the users FindMember can return
	Members []bot.User
	// Err, when set, is returned by every send
	Err error

	mu      sync.Mutex
	sent    []Sent
	deleted []string
	nextID  int
}

var _ bot.Session = &Session{}

// NewSession creates a session whose bot user has the given ID
func NewSession(botID string) *Session {
	return &Session{BotID: botID, Permissions: map[string]bot.Permission{}}
}

func (s *Session) BotUserID() string {
	return s.BotID
}

func (s *Session) record(sent Sent) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	s.nextID++
	s.sent = append(s.sent, sent)
	return fmt.Sprintf("m%d", s.nextID), nil
}

func (s *Session) SendText(_ context.Context, channelID, text string) (string, error) {
	return s.record(Sent{ChannelID: channelID, Text: text})
}

func (s *Session) SendEmbed(_ context.Context, channelID string, embed bot.Embed) (string, error) {
	return s.record(Sent{ChannelID: channelID, Embed: &embed})
}

func (s *Session) SendFile(_ context.Context, channelID, name, _ string, data []byte) error {
	_, err := s.record(Sent{ChannelID: channelID, FileName: name, FileData: data})
	return err
}

func (s *Session) SendPaginated(_ context.Context, channelID string, pagination bot.Pagination) error {
	_, err := s.record(Sent{ChannelID: channelID, Pagination: &pagination})
	return err
}

func (s *Session) DeleteMessage(_ context.Context, channelID, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, channelID+"/"+messageID)
	return nil
}

func (s *Session) DirectChannel(_ context.Context, userID string) (string, error) {
	return "dm-" + userID, nil
}

func (s *Session) HasPermission(_ context.Context, userID, _ string, permission bot.Permission) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	held := s.Permissions[userID]
	return held&bot.PermissionAdministrator != 0 || held&permission == permission, nil
}

func (s *Session) FindMember(_ context.Context, _ string, query string) (*bot.User, error) {
	query = strings.Trim(query, "<@!>")
	for _, member := range s.Members {
		if member.ID == query || strings.EqualFold(member.Username, query) || strings.EqualFold(member.DisplayName, query) {
			found := member
			return &found, nil
		}
	}
	return nil, nil
}

// Sent returns everything sent so far
func (s *Session) Sent() []Sent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Sent(nil), s.sent...)
}

// Last returns the most recent message sent, failing the test when there is none
func (s *Session) Last(t testing.TB) Sent {
	t.Helper()
	sent := s.Sent()
	if len(sent) == 0 {
		t.Fatalf("expected a message to be sent")
	}
	return sent[len(sent)-1]
}

// Deleted returns the "channel/message" IDs of deleted messages
func (s *Session) Deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}
