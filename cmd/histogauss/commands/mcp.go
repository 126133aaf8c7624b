package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/histogauss/pkg/mcp"
	"github.com/Sumatoshi-tech/histogauss/pkg/observability"
	"github.com/Sumatoshi-tech/histogauss/pkg/version"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

Tools:
  - histogram_overlay: bin samples and fit a normal curve scaled to counts
  - sample_summary: count, mean, standard deviation, min, max and median`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			// Stdout carries the protocol; logs go to stderr as JSON.
			obsCfg := observabilityConfig(cmd, cfg, observability.ModeMCP)
			obsCfg.LogJSON = true

			if debug {
				obsCfg.LogLevel = slog.LevelDebug
				obsCfg.DebugTrace = true
			}

			return withProviders(cmd, obsCfg, func(providers observability.Providers) error {
				red, redErr := observability.NewREDMetrics(providers.Meter)
				if redErr != nil {
					return redErr
				}

				engine, engineErr := observability.NewEngineMetrics(providers.Meter)
				if engineErr != nil {
					return engineErr
				}

				srv := mcp.NewServer(mcp.ServerDeps{
					Logger:  providers.Logger,
					Metrics: red,
					Engine:  engine,
					Tracer:  providers.Tracer,
					Version: version.Version,
				})

				return srv.Run(cmd.Context())
			})
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging and full trace sampling")

	return cmd
}
