package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vueland/vuebot/internal/bot"
	"github.com/vueland/vuebot/internal/render"
	"github.com/vueland/vuebot/internal/rfc"
	"github.com/vueland/vuebot/internal/rfc/compare"
	"github.com/vueland/vuebot/internal/rfc/storage"
)

const (
	refreshFailure = "Sorry, something went wrong while fetching the RFCs from Github."
	dumpFileName   = "rfcs.json"
)

// RFCService is the RFC cache the rfc commands read from
type RFCService interface {
	rfc.Source
	Search(ctx context.Context, query string, threshold float64) ([]rfc.Match, error)
	Refresh(ctx context.Context) (compare.Report, error)
	CacheTTLHuman() string
	Current() *storage.Generation
	ListByState(ctx context.Context, state string) ([]rfc.RFC, error)
}

type rfcCommand struct {
	service RFCService
	router  *rfc.Router
}

// NewRFC creates the rfc command: search, filter, list, refresh and dump
func NewRFC(service RFCService) *bot.Command {
	c := &rfcCommand{service: service, router: rfc.NewRouter(service)}
	return &bot.Command{
		Name:        "rfc",
		Group:       "rfcs",
		Description: "Interact with VueJS Requests for Comments.",
		Usage:       "[list|refresh] [query] [--id|--title|--body|--author|--label|--state=value] [--short] [--dump [--pretty]]",
		Examples: []string{
			"rfc attr fallthrough",
			"rfc #7",
			"rfc posva",
			`rfc --title="better v-for"`,
			"rfc --label=router&core",
			"rfc --label='router | core'",
			"rfc list --state=open",
		},
		Run: c.run,
	}
}

func (c *rfcCommand) run(ctx context.Context, req *bot.Request) error {
	subcommand, rest := req.Args.Shift()
	switch strings.ToLower(subcommand) {
	case "list":
		state, ok := rest.Flag("state")
		if !ok {
			state = rfc.StateAll
		}
		return listRFCs(ctx, req, c.service, state)
	case "refresh":
		return c.refresh(ctx, req)
	}

	if req.Args.Bool("dump") {
		return c.dump(ctx, req)
	}
	return c.search(ctx, req)
}

func (c *rfcCommand) search(ctx context.Context, req *bot.Request) error {
	query := rfc.Classify(req.Args.Text(), req.Args.Flags)
	if query.Kind == rfc.KindEmpty {
		return req.Send(ctx, invalidQuery(req.Prefix, req.Command.Name))
	}

	items, err := c.lookup(ctx, query)
	var invalid *rfc.InvalidFilterError
	switch {
	case errors.Is(err, rfc.ErrNotFound):
		return req.SendEmbed(ctx, render.RFCNotFound(&req.Message, query.String()))
	case errors.As(err, &invalid):
		value := invalid.Value
		if value == "" {
			value = invalid.Field
		}
		return req.Send(ctx, invalidFilter(value, invalid.Valid))
	case errors.Is(err, rfc.ErrFetchFailed):
		req.Logger.WithError(err).Warn("Failed to load RFCs")
		return req.Send(ctx, refreshFailure)
	case err != nil:
		return err
	}

	if len(items) == 0 {
		return c.noMatches(ctx, req, query)
	}
	short := req.Args.Bool("short")
	if len(items) == 1 {
		return req.SendEmbed(ctx, render.RFCPage(&req.Message, items[0], short))
	}
	info := render.RFCInfoPage(&req.Message)
	return req.SendPages(ctx, req.Message.ChannelID, render.RFCPages(&req.Message, items, short), &info)
}

// lookup resolves a classified query. Free text goes through the service's
// ranked search, every other kind through the router.
func (c *rfcCommand) lookup(ctx context.Context, query rfc.Query) ([]rfc.RFC, error) {
	if query.Kind != rfc.KindFreeText {
		return c.router.Run(ctx, query)
	}
	matches, err := c.service.Search(ctx, query.Text, rfc.DefaultThreshold)
	if err != nil {
		return nil, err
	}
	return rfc.MatchedRFCs(matches), nil
}

// noMatches offers close matches for free text queries that found nothing
func (c *rfcCommand) noMatches(ctx context.Context, req *bot.Request, query rfc.Query) error {
	if query.Kind == rfc.KindFreeText {
		suggestions, err := c.router.Suggest(ctx, query.Text)
		if err != nil {
			return err
		}
		if len(suggestions) > 0 {
			return req.SendEmbed(ctx, render.RFCDisambiguation(&req.Message, query.Text, suggestions))
		}
	}
	return req.SendEmbed(ctx, render.RFCNoMatches(&req.Message))
}

func (c *rfcCommand) refresh(ctx context.Context, req *bot.Request) error {
	allowed := false
	if !req.Message.IsDirect() {
		var err error
		allowed, err = req.Session.HasPermission(ctx, req.Message.Author.ID, req.Message.ChannelID, bot.PermissionAdministrator)
		if err != nil {
			return err
		}
	}
	if !allowed {
		return req.Send(ctx, userLacksPermission(bot.PermissionAdministrator))
	}

	report, err := c.service.Refresh(ctx)
	if err != nil {
		req.Logger.WithError(err).Warn("Forced RFC refresh failed")
		return req.Send(ctx, refreshFailure)
	}
	return req.Send(ctx, fmt.Sprintf(
		"I refetched the RFCs from the Github API and re-cached them to disk (%s). The cache TTL is %s.",
		compare.Summary(report), c.service.CacheTTLHuman(),
	))
}

// dumpDocument is the JSON attachment produced by --dump
type dumpDocument struct {
	Repository string    `json:"repository"`
	FetchedAt  time.Time `json:"fetched_at"`
	Items      []rfc.RFC `json:"items"`
}

func (c *rfcCommand) dump(ctx context.Context, req *bot.Request) error {
	if !req.Message.IsDirect() {
		allowed, err := req.Session.HasPermission(ctx, req.Session.BotUserID(), req.Message.ChannelID, bot.PermissionAttachFiles)
		if err != nil {
			return err
		}
		if !allowed {
			return req.Send(ctx, botLacksPermission(bot.PermissionAttachFiles))
		}
	}

	generation := c.service.Current()
	if generation == nil {
		if _, err := c.service.GetAll(ctx, false); err != nil {
			req.Logger.WithError(err).Warn("Failed to load RFCs")
			return req.Send(ctx, refreshFailure)
		}
		if generation = c.service.Current(); generation == nil {
			return req.Send(ctx, refreshFailure)
		}
	}

	document := dumpDocument{Repository: generation.Repository, FetchedAt: generation.FetchedAt, Items: generation.Items}
	var data []byte
	var err error
	if req.Args.Bool("pretty") {
		data, err = json.MarshalIndent(document, "", "  ")
	} else {
		data, err = json.Marshal(document)
	}
	if err != nil {
		return fmt.Errorf("failed to encode RFC dump: %w", err)
	}
	return req.Session.SendFile(ctx, req.Message.ChannelID, dumpFileName, "application/json", data)
}

// NewRFCs creates the rfcs command listing RFCs by state
func NewRFCs(service RFCService) *bot.Command {
	return &bot.Command{
		Name:        "rfcs",
		Aliases:     []string{"list-rfcs"},
		Group:       "rfcs",
		Description: "List all (open/closed/merged) RFCs.",
		Usage:       "[all|open|closed|merged]",
		Examples:    []string{"rfcs", "rfcs open", "rfcs merged"},
		Run: func(ctx context.Context, req *bot.Request) error {
			state, _ := req.Args.Shift()
			if state == "" {
				state = rfc.StateAll
			}
			return listRFCs(ctx, req, service, state)
		},
	}
}

func listRFCs(ctx context.Context, req *bot.Request, service RFCService, state string) error {
	items, err := service.ListByState(ctx, state)
	var invalid *rfc.InvalidFilterError
	switch {
	case errors.As(err, &invalid):
		return req.Send(ctx, invalidFilter(state, invalid.Valid))
	case errors.Is(err, rfc.ErrFetchFailed):
		req.Logger.WithError(err).Warn("Failed to load RFCs")
		return req.Send(ctx, refreshFailure)
	case err != nil:
		return err
	}
	return req.SendPages(ctx, req.Message.ChannelID, render.RFCList(&req.Message, strings.ToLower(state), items), nil)
}
