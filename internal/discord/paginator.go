package discord

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/vueland/vuebot/internal/bot"
)

// DefaultPaginationTimeout is how long pagination controls stay active
// without being used
const DefaultPaginationTimeout = 2 * time.Minute

const (
	emojiFirst    = "⏮"
	emojiPrevious = "◀"
	emojiNext     = "▶"
	emojiLast     = "⏭"
	emojiStop     = "⏹"
	emojiInfo     = "ℹ"
)

// pageState is the position within a paginated display
type pageState struct {
	pages       []bot.Embed
	info        *bot.Embed
	current     int
	showingInfo bool
}

// controls returns the reactions offered for this display
func (p *pageState) controls() []string {
	var emojis []string
	if len(p.pages) > 1 {
		emojis = append(emojis, emojiFirst, emojiPrevious, emojiNext, emojiLast)
	}
	emojis = append(emojis, emojiStop)
	if p.info != nil {
		emojis = append(emojis, emojiInfo)
	}
	return emojis
}

// apply moves according to a control reaction. It reports whether the
// shown embed changed and whether the display should stop.
func (p *pageState) apply(emoji string) (changed, stop bool) {
	previous, previousInfo := p.current, p.showingInfo
	switch emoji {
	case emojiFirst:
		p.current, p.showingInfo = 0, false
	case emojiPrevious:
		p.current, p.showingInfo = max(p.current-1, 0), false
	case emojiNext:
		p.current, p.showingInfo = min(p.current+1, len(p.pages)-1), false
	case emojiLast:
		p.current, p.showingInfo = len(p.pages)-1, false
	case emojiInfo:
		if p.info == nil {
			return false, false
		}
		p.showingInfo = !p.showingInfo
	case emojiStop:
		return false, true
	default:
		return false, false
	}
	return p.current != previous || p.showingInfo != previousInfo, false
}

// embed returns the embed currently shown, with the page number in the footer
func (p *pageState) embed() bot.Embed {
	if p.showingInfo {
		return *p.info
	}
	page := p.pages[p.current]
	if page.Footer == "" && len(p.pages) > 1 {
		page.Footer = fmt.Sprintf("Page %d of %d", p.current+1, len(p.pages))
	}
	return page
}

// reactionAPI is the part of the Discord API the paginator drives
type reactionAPI interface {
	ChannelMessageEditEmbed(channelID, messageID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	MessageReactionRemove(channelID, messageID, emojiID, userID string, options ...discordgo.RequestOption) error
	MessageReactionsRemoveAll(channelID, messageID string, options ...discordgo.RequestOption) error
}

type display struct {
	channelID string
	messageID string
	ownerID   string
	direct    bool
	state     pageState
	timeout   time.Duration
	timer     *time.Timer
}

// paginator tracks active paginated displays by message ID
type paginator struct {
	api    reactionAPI
	logger *logrus.Entry

	lock     sync.Mutex
	displays map[string]*display
}

func newPaginator(api reactionAPI, logger *logrus.Entry) *paginator {
	return &paginator{
		api:      api,
		logger:   logger,
		displays: map[string]*display{},
	}
}

func (p *paginator) track(d *display) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.displays[d.messageID] = d
	d.timer = time.AfterFunc(d.timeout, func() { p.expire(d.messageID) })
}

func (p *paginator) active(messageID string) bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	_, ok := p.displays[messageID]
	return ok
}

// expire stops a display and removes its controls
func (p *paginator) expire(messageID string) {
	p.lock.Lock()
	d, ok := p.displays[messageID]
	if ok {
		delete(p.displays, messageID)
		d.timer.Stop()
	}
	p.lock.Unlock()
	if !ok || d.direct {
		return
	}
	if err := p.api.MessageReactionsRemoveAll(d.channelID, d.messageID); err != nil {
		p.logger.WithError(err).WithField("message", messageID).Debug("Failed to remove pagination controls")
	}
}

// react handles a reaction added by userID to messageID
func (p *paginator) react(ctx context.Context, messageID, userID, emoji string) {
	p.lock.Lock()
	d, ok := p.displays[messageID]
	if !ok {
		p.lock.Unlock()
		return
	}
	allowed := d.ownerID == "" || d.ownerID == userID
	var changed, stop bool
	var embed bot.Embed
	if allowed {
		changed, stop = d.state.apply(emoji)
		embed = d.state.embed()
		d.timer.Reset(d.timeout)
	}
	p.lock.Unlock()

	if stop {
		p.expire(messageID)
		return
	}
	// Reactions can only be removed from others in guild channels
	if !d.direct {
		if err := p.api.MessageReactionRemove(d.channelID, messageID, emoji, userID, discordgo.WithContext(ctx)); err != nil {
			p.logger.WithError(err).Debug("Failed to remove reaction")
		}
	}
	if !changed {
		return
	}
	if _, err := p.api.ChannelMessageEditEmbed(d.channelID, messageID, convertEmbed(embed), discordgo.WithContext(ctx)); err != nil {
		p.logger.WithError(err).WithField("message", messageID).Warn("Failed to turn page")
	}
}
