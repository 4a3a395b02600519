package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codeGROOVE-dev/peoplesearch/pkg/aggregate"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/enrich"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Generate an AI summary and verification insights for raw profile data",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		path, _ := cmd.Flags().GetString("file")          //nolint:errcheck // flag defined below
		sources, _ := cmd.Flags().GetStringSlice("source") //nolint:errcheck // flag defined below
		id, _ := cmd.Flags().GetString("id")              //nolint:errcheck // flag defined below

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read profile data: %w", err)
		}
		var raw json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if id == "" {
			id = profileID(raw)
		}

		enr, err := a.enricher()
		if err != nil {
			return err
		}
		res := enr.Enrich(cmd.Context(), enrich.Request{ProfileID: id, RawData: raw, Sources: sources})
		return writeJSON(cmd.OutOrStdout(), res)
	},
}

func init() {
	enrichCmd.Flags().String("file", "", "JSON file holding the raw profile data")
	enrichCmd.Flags().StringSlice("source", aggregate.SourceNames(), "data source names to cite (repeatable)")
	enrichCmd.Flags().String("id", "", "profile ID (default: the file's \"id\" field)")
	if err := enrichCmd.MarkFlagRequired("file"); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(enrichCmd)
}

// profileID reads the "id" field of a serialized profile, if present.
func profileID(raw json.RawMessage) string {
	var p struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return ""
	}
	return p.ID
}
