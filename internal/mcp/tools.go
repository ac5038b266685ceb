package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/idealdisplay/internal/ipc"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, ipc.StatusData, error) {
	status, err := s.inspector.GetStatus()
	if err != nil {
		return nil, ipc.StatusData{}, fmt.Errorf("get status: %w", err)
	}
	return nil, *status, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.inspector.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, fmt.Errorf("list windows: %w", err)
	}

	windows := make([]ipc.WindowInfo, 0, len(data.Windows))
	for _, w := range data.Windows {
		if args.Owner != "" && w.Owner != args.Owner {
			continue
		}
		if args.Type != "" && !strings.EqualFold(w.Type, args.Type) {
			continue
		}
		windows = append(windows, w)
	}
	return nil, ListWindowsOutput{Windows: windows, Count: len(windows)}, nil
}

func (s *Server) handleReloadConfig(_ context.Context, _ *mcpsdk.CallToolRequest, _ ReloadConfigInput) (*mcpsdk.CallToolResult, ReloadConfigOutput, error) {
	if err := s.inspector.Reload(); err != nil {
		return nil, ReloadConfigOutput{}, fmt.Errorf("reload config: %w", err)
	}
	return nil, ReloadConfigOutput{Reloaded: true}, nil
}
