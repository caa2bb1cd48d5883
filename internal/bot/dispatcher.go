package bot

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/sets"
)

const (
	// DefaultCommandTimeout bounds a single command invocation
	DefaultCommandTimeout = 30 * time.Second

	genericErrorMessage = "Sorry, an unspecified error occurred!"
	guildOnlyMessage    = "that command can only be used in a server."
	ownerOnlyMessage    = "that command can only be used by the bot owners."
)

// DispatcherOptions configures a Dispatcher
type DispatcherOptions struct {
	Prefix         string
	Owners         []string
	CommandTimeout time.Duration
	Logger         *logrus.Entry
}

// Dispatcher routes incoming messages to jobs and commands
type Dispatcher struct {
	session  Session
	registry *Registry
	prefix   string
	owners   sets.Set[string]
	timeout  time.Duration
	logger   *logrus.Entry
}

// NewDispatcher creates a dispatcher for the commands and jobs in registry
func NewDispatcher(session Session, registry *Registry, opts DispatcherOptions) *Dispatcher {
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = DefaultCommandTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Dispatcher{
		session:  session,
		registry: registry,
		prefix:   opts.Prefix,
		owners:   sets.New[string](opts.Owners...),
		timeout:  opts.CommandTimeout,
		logger:   opts.Logger.WithField("component", "dispatcher"),
	}
}

// IsOwner reports whether the user is one of the bot owners
func (d *Dispatcher) IsOwner(userID string) bool {
	return d.owners.Has(userID)
}

// Handle processes one message: the enabled jobs that accept it run first,
// then the command it invokes, if any. The bot's own messages are ignored
// and other bots cannot invoke commands.
func (d *Dispatcher) Handle(ctx context.Context, msg Message) {
	if msg.Author.ID == d.session.BotUserID() {
		return
	}

	d.runJobs(ctx, msg)

	if msg.Author.Bot {
		return
	}
	name, rest, ok := d.parseInvocation(msg.Content)
	if !ok {
		return
	}
	command, ok := d.registry.Command(name)
	if !ok {
		d.logger.WithField("command", name).Debug("Ignoring unknown command")
		return
	}
	d.runCommand(ctx, msg, command, rest)
}

func (d *Dispatcher) runJobs(ctx context.Context, msg Message) {
	for _, job := range d.registry.Jobs() {
		if !job.Enabled || !job.ShouldExecute(msg) {
			continue
		}
		logger := d.logger.WithFields(logrus.Fields{"job": job.Name, "message": msg.ID})
		logger.Debug("Running job")
		if err := job.Run(ctx, d.session, msg); err != nil {
			logger.WithError(err).Error("Job failed")
		}
	}
}

func (d *Dispatcher) runCommand(ctx context.Context, msg Message, command *Command, rest string) {
	logger := d.logger.WithFields(logrus.Fields{
		"command": command.Name,
		"user":    msg.Author.ID,
		"channel": msg.ChannelID,
	})

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req := &Request{
		Session:  d.session,
		Message:  msg,
		Command:  command,
		Prefix:   d.prefix,
		Registry: d.registry,
		Logger:   logger,
	}

	if command.GuildOnly && msg.IsDirect() {
		d.reply(ctx, req, guildOnlyMessage)
		return
	}
	if command.OwnerOnly && !d.IsOwner(msg.Author.ID) {
		d.reply(ctx, req, ownerOnlyMessage)
		return
	}

	args, err := ParseArgs(rest)
	if err != nil {
		d.reply(ctx, req, "I could not read those arguments: "+err.Error()+".")
		return
	}
	req.Args = args

	logger.Debug("Running command")
	if err := command.Run(ctx, req); err != nil {
		logger.WithError(err).Error("Command failed")
		if _, err := d.session.SendText(ctx, msg.ChannelID, genericErrorMessage); err != nil {
			logger.WithError(err).Warn("Failed to report command failure")
		}
	}
}

func (d *Dispatcher) reply(ctx context.Context, req *Request, text string) {
	if err := req.Reply(ctx, text); err != nil {
		req.Logger.WithError(err).Warn("Failed to reply")
	}
}

// parseInvocation splits "<prefix><name> <rest>" into name and rest
func (d *Dispatcher) parseInvocation(content string) (string, string, bool) {
	content = strings.TrimSpace(content)
	if d.prefix == "" || !strings.HasPrefix(content, d.prefix) {
		return "", "", false
	}
	content = strings.TrimPrefix(content, d.prefix)
	name, rest := content, ""
	if i := strings.IndexFunc(content, unicode.IsSpace); i >= 0 {
		name, rest = content[:i], content[i:]
	}
	if name == "" {
		return "", "", false
	}
	return name, strings.TrimSpace(rest), true
}
