package bot

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/sets"
)

// Command is a chat command invoked with the configured prefix
type Command struct {
	// Name is the command name as typed by the user (e.g., "rfc")
	Name string
	// Aliases are alternative names that invoke the same command
	Aliases []string
	// Group is the help section the command is listed under
	Group string
	// Description is a one-line description shown in the help listing
	Description string
	// Usage shows the arguments, without the prefix and name
	Usage string
	// Examples are shown in the command's help, without the prefix
	Examples []string
	// GuildOnly commands refuse to run in direct messages
	GuildOnly bool
	// OwnerOnly commands can only be run by the bot owners
	OwnerOnly bool

	Run func(ctx context.Context, req *Request) error
}

// Names returns the command name followed by its aliases
func (c *Command) Names() []string {
	return append([]string{c.Name}, c.Aliases...)
}

// Request is a single command invocation
type Request struct {
	Session  Session
	Message  Message
	Command  *Command
	Args     Args
	Prefix   string
	Registry *Registry
	Logger   *logrus.Entry
}

// Send sends text to the channel the command was invoked in
func (r *Request) Send(ctx context.Context, text string) error {
	_, err := r.Session.SendText(ctx, r.Message.ChannelID, text)
	return err
}

// Reply sends text addressed to the invoking user
func (r *Request) Reply(ctx context.Context, text string) error {
	return r.Send(ctx, r.Message.Author.Mention()+", "+text)
}

// SendEmbed sends an embed to the channel the command was invoked in
func (r *Request) SendEmbed(ctx context.Context, embed Embed) error {
	_, err := r.Session.SendEmbed(ctx, r.Message.ChannelID, embed)
	return err
}

// SendPages sends embeds as a single embed or a paginated display
// controlled by the invoking user
func (r *Request) SendPages(ctx context.Context, channelID string, pages []Embed, info *Embed) error {
	if len(pages) == 1 && info == nil {
		_, err := r.Session.SendEmbed(ctx, channelID, pages[0])
		return err
	}
	return r.Session.SendPaginated(ctx, channelID, Pagination{
		Pages:   pages,
		Info:    info,
		OwnerID: r.Message.Author.ID,
	})
}

// Job runs on every message it accepts, independently of commands
type Job struct {
	Name        string
	Description string
	Enabled     bool

	ShouldExecute func(msg Message) bool
	Run           func(ctx context.Context, session Session, msg Message) error
}

// Registry is the static set of commands and jobs the bot serves
type Registry struct {
	commands []*Command
	byName   map[string]*Command
	jobs     []*Job
	jobNames sets.Set[string]
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		byName:   map[string]*Command{},
		jobNames: sets.New[string](),
	}
}

// Register adds commands. Names and aliases must be unique, ignoring case.
func (r *Registry) Register(commands ...*Command) error {
	for _, command := range commands {
		if command.Name == "" || command.Run == nil {
			return fmt.Errorf("command %q must have a name and a Run function", command.Name)
		}
		for _, name := range command.Names() {
			key := strings.ToLower(name)
			if existing, ok := r.byName[key]; ok {
				return fmt.Errorf("command %q: name %q is already taken by command %q", command.Name, name, existing.Name)
			}
		}
		for _, name := range command.Names() {
			r.byName[strings.ToLower(name)] = command
		}
		r.commands = append(r.commands, command)
	}
	return nil
}

// RegisterJobs adds jobs. Job names must be unique.
func (r *Registry) RegisterJobs(jobs ...*Job) error {
	for _, job := range jobs {
		if job.ShouldExecute == nil || job.Run == nil {
			return fmt.Errorf("job %q must have ShouldExecute and Run functions", job.Name)
		}
		if r.jobNames.Has(job.Name) {
			return fmt.Errorf("job %q is already registered", job.Name)
		}
		r.jobNames.Insert(job.Name)
		r.jobs = append(r.jobs, job)
	}
	return nil
}

// Command looks up a command by name or alias, ignoring case
func (r *Registry) Command(name string) (*Command, bool) {
	command, ok := r.byName[strings.ToLower(name)]
	return command, ok
}

// Commands returns the commands in registration order
func (r *Registry) Commands() []*Command {
	return r.commands
}

// Jobs returns the jobs in registration order
func (r *Registry) Jobs() []*Job {
	return r.jobs
}

// Groups returns the commands grouped for help output, groups sorted by name
func (r *Registry) Groups() ([]string, map[string][]*Command) {
	grouped := map[string][]*Command{}
	for _, command := range r.commands {
		grouped[command.Group] = append(grouped[command.Group], command)
	}
	groups := make([]string, 0, len(grouped))
	for group := range grouped {
		groups = append(groups, group)
	}
	sort.Strings(groups)
	return groups, grouped
}

// Suggest returns the command name closest to name, or "" when nothing is close
func (r *Registry) Suggest(name string) string {
	names := make([]string, 0, len(r.byName))
	for key := range r.byName {
		names = append(names, key)
	}
	sort.Strings(names)

	matches := fuzzy.Find(strings.ToLower(name), names)
	if len(matches) == 0 {
		return ""
	}
	return r.byName[matches[0].Str].Name
}
