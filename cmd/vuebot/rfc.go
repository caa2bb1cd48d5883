package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vueland/vuebot/internal/rfc"
	"github.com/vueland/vuebot/internal/rfc/compare"
	"github.com/vueland/vuebot/internal/rfc/storage"
	"github.com/vueland/vuebot/internal/rfc/ui"
)

var (
	refreshFirst bool
	plainOutput  bool
	filterFlags  = map[rfc.Field]*string{}
)

func newRFCCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rfc [query...]",
		Short: "Search the cached Vue RFCs",
		Long: `Search the cached Vue RFC pull requests the same way the rfc chat command does.
A query of the form #123 looks up one RFC by number, field:value tokens and the
filter flags narrow the collection, and any other text is a fuzzy search over
titles, authors and bodies. Without a query every RFC is listed.`,
		Example: `  vuebot rfc 23
  vuebot rfc --label=router --state=open
  vuebot rfc attribute fallthrough --plain`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRFC(cmd.Context(), strings.Join(args, " "), changedFilters(cmd.Flags()))
		},
	}

	for _, field := range rfc.Fields {
		filterFlags[field] = cmd.Flags().String(string(field), "", fmt.Sprintf("Only RFCs whose %s matches the value", field))
	}
	cmd.Flags().BoolVar(&refreshFirst, "refresh", false, "Fetch a new generation from GitHub before searching")
	cmd.Flags().BoolVar(&plainOutput, "plain", false, "Print plain lines instead of the interactive table")

	return cmd
}

// changedFilters collects the filter flags given on the command line
func changedFilters(fs *pflag.FlagSet) map[string]string {
	flags := map[string]string{}
	for field, value := range filterFlags {
		if fs.Changed(string(field)) {
			flags[string(field)] = *value
		}
	}
	return flags
}

func runRFC(ctx context.Context, text string, flags map[string]string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := createService(cfg)
	if err != nil {
		return err
	}

	var report compare.Report
	if refreshFirst {
		if report, err = svc.Refresh(ctx); err != nil {
			return fmt.Errorf("cannot refresh RFCs: %w", err)
		}
	}

	router := rfc.NewRouter(svc)
	query, items, err := router.Resolve(ctx, text, flags)
	var notFound *rfc.NotFoundError
	switch {
	case errors.As(err, &notFound):
		fmt.Printf("No RFC found for %s\n", notFound.Query)
		return nil
	case err != nil:
		return fmt.Errorf("cannot search RFCs: %w", err)
	}

	if len(items) == 0 {
		fmt.Printf("No RFCs match '%s'\n", query)
		if query.Kind == rfc.KindFreeText {
			suggestions, err := router.Suggest(ctx, query.Text)
			if err != nil {
				return fmt.Errorf("cannot suggest RFCs: %w", err)
			}
			if len(suggestions) > 0 {
				fmt.Println("Did you mean:")
				printRFCs(os.Stdout, suggestions)
			}
		}
		return nil
	}

	current := svc.Current()
	var fetchedAt time.Time
	if current != nil {
		fetchedAt = current.FetchedAt
	}

	if plainOutput {
		printRFCs(os.Stdout, items)
		if current != nil {
			fmt.Println()
			fmt.Println(plainFooter(len(items), current, svc.TTL(), time.Now()))
		}
		return nil
	}

	model := ui.NewModel(query.String(), items, report, fetchedAt)
	program := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("cannot run TUI: %w", err)
	}

	return nil
}

func printRFCs(w io.Writer, items []rfc.RFC) {
	for _, item := range items {
		fmt.Fprintf(w, "  #%-5d %-7s %s (%s)", item.Number, item.State, item.Title, item.Author)
		if labels := item.LabelNames(); len(labels) > 0 {
			fmt.Fprintf(w, " [%s]", strings.Join(labels, ", "))
		}
		fmt.Fprintln(w)
	}
}

// plainFooter summarizes the result count and the age of the generation it came from
func plainFooter(count int, generation *storage.Generation, ttl time.Duration, now time.Time) string {
	age := generation.Age(now)
	footer := fmt.Sprintf("%d RFCs from %s, fetched %s ago", count, generation.Repository, age.Round(time.Minute))
	if age >= ttl {
		footer += fmt.Sprintf(" (older than the %s cache TTL, run with --refresh)", ttl)
	}
	return footer
}
