package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vueland/vuebot/internal/bot"
	"github.com/vueland/vuebot/internal/config"
	"github.com/vueland/vuebot/internal/discord"
	"github.com/vueland/vuebot/internal/releases"
	"github.com/vueland/vuebot/internal/render"
	"github.com/vueland/vuebot/internal/rfc/storage"
)

const releasesStateFile = "releases.yaml"

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Connect to Discord and answer commands",
		Long: `Connect to the Discord gateway and answer commands until interrupted.
The bot token is read from DISCORD_TOKEN or the discord.token configuration key.
When releases.channel is configured, new releases are announced there.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	return cmd
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	svc, err := createService(cfg)
	if err != nil {
		return err
	}

	registry, err := newRegistry(cfg, svc)
	if err != nil {
		return fmt.Errorf("cannot build command registry: %w", err)
	}

	logger := logrus.NewEntry(logrus.StandardLogger())
	session, err := discord.NewSession(cfg.Discord.Token, logger)
	if err != nil {
		return fmt.Errorf("cannot create Discord session: %w", err)
	}

	dispatcher := bot.NewDispatcher(session, registry, bot.DispatcherOptions{
		Prefix: cfg.Discord.Prefix,
		Owners: cfg.Discord.Owners,
		Logger: logger,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	session.OnMessage(ctx, dispatcher.Handle)
	if err := session.Open(); err != nil {
		return fmt.Errorf("cannot connect to Discord: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close Discord session")
		}
	}()

	logrus.WithFields(logrus.Fields{
		"prefix":   cfg.Discord.Prefix,
		"commands": len(registry.Commands()),
		"jobs":     len(registry.Jobs()),
	}).Info("Bot is running")

	var workers []func(context.Context)
	if cfg.Releases.Channel != "" {
		announcer, err := newAnnouncer(cfg.Releases, session, logger)
		if err != nil {
			return err
		}
		workers = append(workers, announcer.Run)
	} else {
		logrus.Info("No release channel configured, release announcements are disabled")
	}

	runUntilDone(ctx, workers...)
	return nil
}

// runUntilDone starts the workers and blocks until ctx is done and every
// worker has returned, so none outlives the session it uses
func runUntilDone(ctx context.Context, workers ...func(context.Context)) {
	var group errgroup.Group
	for _, worker := range workers {
		group.Go(func() error {
			worker(ctx)
			return nil
		})
	}

	<-ctx.Done()
	logrus.Info("Shutting down")
	_ = group.Wait()
}

func newAnnouncer(cfg config.ReleasesConfig, sender releases.Sender, logger *logrus.Entry) (*releases.Announcer, error) {
	statePath := cfg.StatePath
	if statePath == "" {
		statePath = filepath.Join(storage.CacheDir(), releasesStateFile)
	}

	announcer, err := releases.NewAnnouncer(sender, releases.Options{
		Repositories: cfg.Repositories,
		ChannelID:    cfg.Channel,
		Interval:     cfg.Interval,
		Format:       render.ReleaseAnnouncement,
		Store:        releases.NewStateStore(statePath),
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create release announcer: %w", err)
	}
	return announcer, nil
}
