package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/histogauss/pkg/config"
	"github.com/Sumatoshi-tech/histogauss/pkg/observability"
	"github.com/Sumatoshi-tech/histogauss/pkg/server"
	"github.com/Sumatoshi-tech/histogauss/pkg/version"
)

// NewServeCommand creates the HTTP server command.
func NewServeCommand() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the overlay engine over HTTP",
		Long: `Start an HTTP server exposing the overlay engine.

Routes:
  POST /v1/overlay   {"samples": [...], "bin_width": n} -> report
  GET  /healthz      liveness
  GET  /readyz       readiness
  GET  /metrics      Prometheus scrape endpoint`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}

			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			err = cfg.Validate()
			if err != nil {
				return fmt.Errorf("validate config: %w", err)
			}

			opts, err := serverOptions(cfg)
			if err != nil {
				return err
			}

			obsCfg := observabilityConfig(cmd, cfg, observability.ModeServe)
			obsCfg.Prometheus = true

			return withProviders(cmd, obsCfg, func(providers observability.Providers) error {
				srv, srvErr := server.New(opts, providers)
				if srvErr != nil {
					return srvErr
				}

				return srv.ListenAndServe(cmd.Context())
			})
		},
	}

	cmd.Flags().StringVar(&host, "host", config.DefaultServerHost, "listen host")
	cmd.Flags().IntVarP(&port, "port", "p", config.DefaultServerPort, "listen port")

	return cmd
}

func serverOptions(cfg *config.Config) (server.Options, error) {
	maxBody, err := cfg.Server.MaxBodyBytes()
	if err != nil {
		return server.Options{}, fmt.Errorf("server.max_body_size: %w", err)
	}

	return server.Options{
		Addr:            cfg.Server.Addr(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		MaxBodyBytes:    maxBody,
		DefaultBinWidth: cfg.Histogram.BinWidth,
		Version:         version.Version,
	}, nil
}
