package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/codeGROOVE-dev/peoplesearch/pkg/fixture"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/profile"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/upstream"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/verify"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Aggregate one profile and print it as JSON",
	Long: `search runs a single aggregation and writes the SearchResult to stdout.
With --fixture, hits are read from a JSON file instead of the search APIs,
which allows offline runs; email lookup still uses Hunter.io if configured.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		explain, _ := cmd.Flags().GetBool("explain")     //nolint:errcheck // flag defined below
		fixturePath, _ := cmd.Flags().GetString("fixture") //nolint:errcheck // flag defined below

		var searchers []upstream.Searcher
		if fixturePath != "" {
			hits, err := fixture.LoadHits(fixturePath)
			if err != nil {
				return err
			}
			searchers = []upstream.Searcher{fixture.Hits("fixture", hits...)}
		} else if searchers, err = a.searchers(); err != nil {
			return err
		}

		agg, err := a.aggregator(searchers)
		if err != nil {
			return err
		}

		start := time.Now()
		profiles, err := agg.Aggregate(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		if err := writeJSON(cmd.OutOrStdout(), profile.NewSearchResult(profiles, time.Since(start))); err != nil {
			return err
		}
		if explain {
			printSignals(cmd.ErrOrStderr(), profiles, start)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().Bool("explain", false, "print the scoring signals for each profile to stderr")
	searchCmd.Flags().String("fixture", "", "read search hits from a JSON file instead of calling the search APIs")
	rootCmd.AddCommand(searchCmd)
}

func printSignals(w io.Writer, profiles []*profile.Profile, now time.Time) {
	if len(profiles) == 0 {
		fmt.Fprintln(w, "no profile assembled: no search provider answered")
		return
	}
	for _, p := range profiles {
		fmt.Fprintf(w, "%s (%s): %d %s\n", p.Name, p.ID, p.VerificationScore, p.VerificationLevel)
		for _, s := range verify.Breakdown(p, now) {
			fmt.Fprintf(w, "  +%-3d %s\n", s.Points, s.Name)
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
