package mcp

import "github.com/1broseidon/idealdisplay/internal/ipc"

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	Owner string `json:"owner,omitempty" jsonschema:"Only list windows owned by this remote application"`
	Type  string `json:"type,omitempty" jsonschema:"Only list windows of this type (PLAIN, MENUBAR, DOCK, SIDEBAR, CHILD)"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []ipc.WindowInfo `json:"windows"`
	Count   int              `json:"count"`
}

// ReloadConfigInput is the input for the reload_config tool.
type ReloadConfigInput struct{}

// ReloadConfigOutput is the output for the reload_config tool.
type ReloadConfigOutput struct {
	Reloaded bool `json:"reloaded"`
}
