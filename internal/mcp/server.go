// Package mcpserver exposes the renderer as MCP tools over stdio, so agents
// can render design documents and check the pipeline.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/VamsiKurapati/docrender"
)

// Renderer is the pipeline behind the tools.
type Renderer interface {
	Render(ctx context.Context, doc *docrender.Document) (*docrender.Result, error)
	Health(ctx context.Context) *docrender.HealthReport
}

// Server is the MCP server.
type Server struct {
	mcp      *server.MCPServer
	renderer Renderer
	limiter  *docrender.Limiter
	logger   *slog.Logger
}

// Deps holds what the tools need.
type Deps struct {
	Renderer Renderer
	Limiter  *docrender.Limiter
	Logger   *slog.Logger
	Version  string
}

// New creates the server and registers its tools.
func New(deps Deps) *Server {
	s := &Server{
		renderer: deps.Renderer,
		limiter:  deps.Limiter,
		logger:   deps.Logger,
	}
	if s.limiter == nil {
		s.limiter = docrender.NewLimiter(1)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	version := deps.Version
	if version == "" {
		version = "dev"
	}
	s.mcp = server.NewMCPServer(
		"docrender",
		version,
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

// ServeStdio serves on stdin/stdout until the input closes.
func (s *Server) ServeStdio() error {
	s.logger.Info("starting MCP stdio server")
	return server.ServeStdio(s.mcp)
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}
