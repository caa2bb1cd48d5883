package main

import (
	"fmt"
	"time"

	"github.com/vueland/vuebot/internal/apidocs"
	"github.com/vueland/vuebot/internal/bot"
	"github.com/vueland/vuebot/internal/bot/commands"
	"github.com/vueland/vuebot/internal/bot/jobs"
	"github.com/vueland/vuebot/internal/config"
	"github.com/vueland/vuebot/internal/info"
	"github.com/vueland/vuebot/internal/library"
)

var (
	libraryCleanup = commands.Cleanup{InvocationAfter: 7500 * time.Millisecond, ResponseAfter: 30 * time.Second}
	infoCleanup    = commands.Cleanup{InvocationAfter: 7500 * time.Millisecond}
)

// newRegistry builds the fixed set of commands and jobs the bot serves
func newRegistry(cfg config.Config, rfcs commands.RFCService) (*bot.Registry, error) {
	catalogue, err := library.Default()
	if err != nil {
		return nil, fmt.Errorf("cannot load library catalogue: %w", err)
	}
	index, err := apidocs.Default()
	if err != nil {
		return nil, fmt.Errorf("cannot load API index: %w", err)
	}
	etiquette, err := info.Etiquette()
	if err != nil {
		return nil, fmt.Errorf("cannot load etiquette pages: %w", err)
	}
	sharing, err := info.Sharing()
	if err != nil {
		return nil, fmt.Errorf("cannot load code sharing pages: %w", err)
	}

	registry := bot.NewRegistry()
	if err := registry.Register(
		commands.NewRFC(rfcs),
		commands.NewRFCs(rfcs),
		commands.NewLibrary(catalogue, libraryCleanup),
		commands.NewAPI(index),
		commands.NewEtiquette(etiquette, infoCleanup),
		commands.NewSharing(sharing, infoCleanup),
		commands.NewHelp(),
	); err != nil {
		return nil, err
	}
	if cfg.Discord.Development {
		if err := registry.Register(commands.NewError()); err != nil {
			return nil, err
		}
	}

	if err := registry.RegisterJobs(
		jobs.NewTest(false),
		jobs.NewMassMention(jobs.DefaultMassMentionThreshold),
	); err != nil {
		return nil, err
	}

	return registry, nil
}
