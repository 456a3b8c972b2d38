package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/gnana997/importsorter/pkg/extractor"
	"github.com/gnana997/importsorter/pkg/mcp"
	"github.com/gnana997/importsorter/pkg/mcplog"
	"github.com/gnana997/importsorter/pkg/metrics"
)

func newServeCmd(a *app) *cobra.Command {
	var callLog, metricsAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: `Serve the sort_imports and parse_imports tools to MCP clients over
stdin/stdout. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(".")
			if err != nil {
				return err
			}
			r, pm, err := a.buildRunner(cfg)
			if err != nil {
				return err
			}
			defer pm.Close()

			calls, err := mcplog.Open(callLog)
			if err != nil {
				return err
			}
			defer calls.Close()

			if metricsAddr != "" {
				ctx := cmd.Context()
				srv := metrics.NewServer(metricsAddr, a.logger)
				if err := srv.Start(ctx); err != nil {
					return err
				}
				defer srv.Stop(context.WithoutCancel(ctx))
			}

			srv := mcp.NewServer(r, extractor.New(pm, a.logger), calls, a.logger)
			return srv.ServeStdio()
		},
	}

	cmd.Flags().StringVar(&callLog, "call-log", "", "Append a JSON line per tool call to this file")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	return cmd
}
