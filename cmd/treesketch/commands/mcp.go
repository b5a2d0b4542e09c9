package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/treesketch/internal/config"
	"github.com/Sumatoshi-tech/treesketch/internal/mcp"
	"github.com/Sumatoshi-tech/treesketch/internal/observability"
	"github.com/Sumatoshi-tech/treesketch/pkg/version"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	var (
		configPath string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The server exposes the sketching pipeline as tools agents can discover
and invoke:
  - sketch_generate: fingerprint a JSON document
  - sketch_shingles: dump a document's feature set
  - sketch_compare:  estimate the similarity of two documents`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			providers, err := initMCPObservability(cfg, debug)
			if err != nil {
				return err
			}

			defer func() {
				shutdownErr := providers.Shutdown(context.Background())
				if shutdownErr != nil {
					providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
				}
			}()

			srv, err := mcp.NewServer(mcp.ServerDeps{
				Config:  cfg,
				Logger:  providers.Logger,
				Version: version.Version,
			})
			if err != nil {
				return err
			}

			return srv.Run(cobraCmd.Context())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")

	return cmd
}

func initMCPObservability(cfg *config.Config, debug bool) (observability.Providers, error) {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = observability.ModeMCP
	obsCfg.LogJSON = true
	obsCfg.LogLevel = observability.ParseLevel(cfg.Observability.LogLevel)

	obsCfg.OTLPEndpoint = cfg.Observability.OTLPEndpoint
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		obsCfg.OTLPEndpoint = endpoint
	}

	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))
	obsCfg.OTLPInsecure = os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true"

	if debug {
		obsCfg.LogLevel = slog.LevelDebug
	}

	return observability.Init(obsCfg)
}
