package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vueland/vuebot/internal/config"
	"github.com/vueland/vuebot/internal/flagutil"
	"github.com/vueland/vuebot/internal/rfc/github"
	"github.com/vueland/vuebot/internal/rfc/service"
	"github.com/vueland/vuebot/internal/rfc/storage"
)

var (
	githubOptions flagutil.GitHubOptions
	configPath    string
	logLevel      string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vuebot",
		Short: "Discord bot for the Vue.js community server",
		Long: `vuebot answers commands in the Vue.js community Discord server.
It searches the Vue RFC pull requests, looks up libraries and API documentation,
sends etiquette guides and announces new releases of Vue projects.

The rfc and refresh subcommands work with the same RFC cache from a terminal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level: %w", err)
			}
			logrus.SetLevel(level)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logrus.InfoLevel.String(), "Log level (trace, debug, info, warning, error)")
	githubOptions.AddPFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		newServeCmd(),
		newRFCCmd(),
		newRefreshCmd(),
		newVersionCmd(),
	)

	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		logrus.WithError(err).Fatal("command failed")
	}
}

// loadConfig reads the configuration file and applies environment overrides
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// createService builds the RFC cache service and restores the persisted generation
func createService(cfg config.Config) (*service.Service, error) {
	githubOptions.Complete(cfg.GitHub)
	if err := githubOptions.Validate(); err != nil {
		return nil, fmt.Errorf("invalid GitHub options: %w", err)
	}

	client, err := github.NewClient(githubOptions)
	if err != nil {
		return nil, fmt.Errorf("cannot create GitHub client: %w", err)
	}

	svc := service.NewService(client, newStore(cfg), service.Options{
		Repository: client.Repository(),
		TTL:        cfg.Cache.TTL,
	})
	if err := svc.Load(); err != nil {
		return nil, fmt.Errorf("cannot load RFC cache: %w", err)
	}

	return svc, nil
}

// newStore returns the RFC cache store at the configured or default location
func newStore(cfg config.Config) *storage.Store {
	path := cfg.Cache.Path
	if path == "" {
		path = storage.DefaultPath()
	}
	return storage.NewStore(path)
}
