// ABOUTME: MCP server setup for the dose tracker.
// ABOUTME: Wraps the MCP server around a Tracker so tools see reconciled data.
package mcp

import (
	"context"
	"errors"

	"github.com/harperreed/dose/internal/tracker"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with tracker access.
type Server struct {
	mcpServer *mcp.Server
	tracker   *tracker.Tracker
}

// NewServer creates a new MCP server over the given tracker.
func NewServer(t *tracker.Tracker) (*Server, error) {
	if t == nil {
		return nil, errors.New("mcp server needs a tracker")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "dose",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		tracker:   t,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
