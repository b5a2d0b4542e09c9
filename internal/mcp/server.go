// Package mcp exposes the sketching pipeline as MCP tools over the stdio
// transport, using the official MCP SDK
// (github.com/modelcontextprotocol/go-sdk/mcp).
package mcp

import (
	"context"
	"fmt"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/treesketch/internal/config"
	"github.com/Sumatoshi-tech/treesketch/pkg/sketch"
)

// serverName is the MCP implementation name reported to clients.
const serverName = "treesketch"

// Server wires a configured Sketcher to MCP tool handlers.
type Server struct {
	mcp       *mcpsdk.Server
	sketcher  *sketch.Sketcher
	cfg       *config.Config
	logger    *slog.Logger
	toolNames []string
}

// ServerDeps carries the dependencies for NewServer. Zero-value fields
// fall back to defaults.
type ServerDeps struct {
	// Config supplies pipeline and comparison settings. Nil uses defaults.
	Config *config.Config

	// Logger for structured logging. Nil discards logs.
	Logger *slog.Logger

	// Version is reported to MCP clients during initialization.
	Version string
}

// NewServer creates an MCP server with all sketching tools registered.
func NewServer(deps ServerDeps) (*Server, error) {
	cfg := deps.Config
	if cfg == nil {
		loaded, err := config.LoadConfig("")
		if err != nil {
			return nil, fmt.Errorf("mcp: load config: %w", err)
		}

		cfg = loaded
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	sketcher, err := sketch.New(cfg.ToSketchOptions())
	if err != nil {
		return nil, fmt.Errorf("mcp: %w", err)
	}

	version := deps.Version
	if version == "" {
		version = "dev"
	}

	s := &Server{
		mcp: mcpsdk.NewServer(
			&mcpsdk.Implementation{
				Name:    serverName,
				Version: version,
			},
			nil,
		),
		sketcher: sketcher,
		cfg:      cfg,
		logger:   logger,
	}

	s.registerTools()

	return s, nil
}

// ListToolNames returns the registered tool names in registration order.
func (s *Server) ListToolNames() []string {
	names := make([]string, len(s.toolNames))
	copy(names, s.toolNames)

	return names
}

// Run serves MCP requests on the stdio transport until ctx is cancelled
// or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "starting MCP server on stdio transport",
		"tools", len(s.toolNames))

	err := s.mcp.Run(ctx, &mcpsdk.StdioTransport{})
	if err != nil {
		return fmt.Errorf("mcp: server run: %w", err)
	}

	return nil
}
