// Package mcp exposes read-only inspection of a running display client as
// MCP tools over stdio. It talks to the client through the IPC socket.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/idealdisplay/internal/ipc"
)

const ServerName = "idealdisplay"

// Inspector is the subset of the IPC client the tools use.
type Inspector interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows() (*ipc.WindowsData, error)
	Reload() error
}

// Server is the MCP server for display inspection.
type Server struct {
	mcpServer *mcpsdk.Server
	inspector Inspector
}

// NewServer creates a server that inspects the client listening on the
// default socket.
func NewServer(version string) *Server {
	return newServer(ipc.NewClient(), version)
}

func newServer(inspector Inspector, version string) *Server {
	s := &Server{inspector: inspector}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: version,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report the display client's connection state, session, backend, window and buffer counts, focused window and current pointer interaction.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List the windows the display client knows about, bottom of the stack first, with geometry, owner, type and focus. Optionally filter by owner or window type.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reload_config",
		Description: "Ask the display client to re-read its config file. Display settings apply at the next frame; server, backend, screen size and font need a restart.",
	}, s.handleReloadConfig)
}
