package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vueland/vuebot/internal/rfc/compare"
	"github.com/vueland/vuebot/internal/rfc/storage"
)

var clearCache bool

func newRefreshCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Refetch the RFCs and show what changed",
		Long: `Fetch a new generation of RFCs from GitHub, replace the disk cache with it
and print how it differs from the previously cached generation.
With --clear the disk cache is removed first, so every RFC is reported as new.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRefresh(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&clearCache, "clear", false, "Remove the disk cache before fetching")

	return cmd
}

func runRefresh(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if clearCache {
		if err := removeCache(newStore(cfg)); err != nil {
			return err
		}
	}
	svc, err := createService(cfg)
	if err != nil {
		return err
	}

	report, err := svc.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("cannot refresh RFCs: %w", err)
	}

	fmt.Printf("Refreshed %s: %s\n", githubOptions.Repository, compare.Summary(report))
	printReport(os.Stdout, report)
	fmt.Printf("The cache TTL is %s.\n", svc.CacheTTLHuman())
	return nil
}

func removeCache(store *storage.Store) error {
	if err := store.Delete(); err != nil {
		return fmt.Errorf("cannot clear RFC cache: %w", err)
	}
	logrus.WithField("path", store.Path()).Info("Removed RFC cache")
	return nil
}

func printReport(w io.Writer, report compare.Report) {
	for _, item := range report.New {
		fmt.Fprintf(w, "  + #%d %s\n", item.Number, item.Title)
	}
	for _, item := range report.Removed {
		fmt.Fprintf(w, "  - #%d %s\n", item.Number, item.Title)
	}

	numbers := make([]int, 0, len(report.Changed))
	for number := range report.Changed {
		numbers = append(numbers, number)
	}
	sort.Ints(numbers)
	for _, number := range numbers {
		fmt.Fprintf(w, "  ~ #%d\n", number)
		for _, change := range report.Changed[number] {
			fmt.Fprintf(w, "      %s: %q -> %q\n", change.Field, change.OldValue, change.NewValue)
		}
	}
}
