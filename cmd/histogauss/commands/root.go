// Package commands implements CLI command handlers for histogauss.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/histogauss/pkg/config"
	"github.com/Sumatoshi-tech/histogauss/pkg/observability"
	"github.com/Sumatoshi-tech/histogauss/pkg/version"
)

// Persistent flag names.
const (
	flagConfig  = "config"
	flagVerbose = "verbose"
	flagQuiet   = "quiet"
)

// NewRootCommand builds the histogauss command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "histogauss",
		Short: "Histogram binning with a fitted normal curve",
		Long: `histogauss bins numeric samples into fixed-width intervals and overlays
the normal distribution fitted to them, scaled to bin counts.

Commands:
  bin       Bin samples from a file or stdin and render a report
  serve     Serve the overlay engine over HTTP
  mcp       Serve the overlay engine as MCP tools on stdio
  version   Show version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String(flagConfig, "", "config file (default: ./histogauss.yaml, ./config/, /etc/histogauss/)")
	rootCmd.PersistentFlags().BoolP(flagVerbose, "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP(flagQuiet, "q", false, "suppress output")

	rootCmd.AddCommand(NewBinCommand())
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewMCPCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "histogauss %s\n", version.String())
		},
	}
}

// loadConfig reads the file named by --config, or searches the default
// locations when the flag is unset.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString(flagConfig)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

func flagBool(cmd *cobra.Command, name string) bool {
	value, err := cmd.Flags().GetBool(name)

	return err == nil && value
}

// observabilityConfig maps the loaded configuration onto observability
// settings. OTEL_EXPORTER_OTLP_* variables fill what the file leaves unset.
func observabilityConfig(cmd *cobra.Command, cfg *config.Config, mode observability.AppMode) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.LogOutput = cmd.ErrOrStderr()
	obsCfg.LogJSON = cfg.Logging.JSON()
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))

	if obsCfg.OTLPEndpoint == "" {
		obsCfg.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
		obsCfg.OTLPInsecure = obsCfg.OTLPInsecure || os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true"
	}

	// Validated at load time.
	level, _ := cfg.Logging.SlogLevel()
	obsCfg.LogLevel = level

	switch {
	case flagBool(cmd, flagQuiet):
		obsCfg.LogLevel = slog.LevelError
	case flagBool(cmd, flagVerbose):
		obsCfg.LogLevel = slog.LevelDebug
	}

	return obsCfg
}

// withProviders initializes observability, runs fn and flushes telemetry.
func withProviders(cmd *cobra.Command, obsCfg observability.Config, fn func(observability.Providers) error) error {
	providers, err := observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	defer func() {
		shutdownErr := providers.Shutdown(context.WithoutCancel(cmd.Context()))
		if shutdownErr != nil {
			providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
		}
	}()

	return fn(providers)
}
