package main

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/codeGROOVE-dev/peoplesearch/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON HTTP API",
	Long: `serve exposes GET/POST /search, GET/POST /enrich, /healthz and /metrics.
SIGINT or SIGTERM drains in-flight requests before exiting.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" { //nolint:errcheck // flag defined below
			a.cfg.Server.Addr = addr
		}
		gin.SetMode(a.cfg.Server.Mode)

		searchers, err := a.searchers()
		if err != nil {
			return err
		}
		agg, err := a.aggregator(searchers)
		if err != nil {
			return err
		}
		enr, err := a.enricher()
		if err != nil {
			return err
		}

		srv := server.New(agg, enr,
			server.WithLogger(a.logger),
			server.WithMetrics(a.metrics),
			server.WithCORSOrigins(a.cfg.Server.CORSOrigins),
		)
		return srv.ListenAndServe(cmd.Context(), a.cfg.Server.Addr, a.cfg.Server.ShutdownTimeout)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}
