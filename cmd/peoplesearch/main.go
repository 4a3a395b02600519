// Command peoplesearch aggregates public profile data for a name query.
//
// Usage:
//
//	peoplesearch serve                      # JSON HTTP API on :8080
//	peoplesearch search "Jane Smith"        # one aggregation, JSON to stdout
//	peoplesearch enrich --file raw.json     # AI summary for a saved profile
//
// Provider credentials come from GOOGLE_API_KEY, GOOGLE_CSE_ID, SERPAPI_KEY,
// HUNTER_API_KEY and OPENAI_API_KEY; everything else from peoplesearch.yaml
// or PEOPLESEARCH_* variables.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "peoplesearch",
	Short: "Aggregate and score public profile data for a person",
	Long: `peoplesearch queries web search, SerpAPI and Hunter.io for a name, extracts
social profiles and professional details from the results, and scores how well
the assembled profile is corroborated. An optional OpenAI key enables narrative
summaries.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./peoplesearch.yaml or ~/.config/peoplesearch/peoplesearch.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
