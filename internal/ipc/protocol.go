package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
)

// CommandType names a request. Requests and replies are single JSON lines.
type CommandType string

const (
	CommandReload      CommandType = "RELOAD"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandListWindows CommandType = "LIST_WINDOWS"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request is one client request line.
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is one server reply line.
type Response struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData is the GET_STATUS payload.
type StatusData struct {
	Server        string `json:"server"`
	Connected     bool   `json:"connected"`
	Session       string `json:"session,omitempty"`
	Sessions      int    `json:"sessions"`
	Backend       string `json:"backend"`
	Scale         int    `json:"scale"`
	Windows       int    `json:"windows"`
	Buffers       int    `json:"buffers"`
	ActiveWindow  string `json:"active_window,omitempty"`
	Interaction   string `json:"interaction"`
	Frames        uint64 `json:"frames"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// WindowInfo describes one registered window. Z is its position in the
// stacking order, 0 being the bottom.
type WindowInfo struct {
	ID        string `json:"id"`
	Owner     string `json:"owner"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Parent    string `json:"parent,omitempty"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Z         int    `json:"z"`
	HasBuffer bool   `json:"has_buffer"`
	Focused   bool   `json:"focused"`
}

// WindowsData is the LIST_WINDOWS payload.
type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// NewOKResponse wraps data, which may be nil, in an OK reply.
func NewOKResponse(data any) (*Response, error) {
	resp := &Response{Status: StatusOK}
	if data == nil {
		return resp, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", data, err)
	}
	resp.Data = raw
	return resp, nil
}

// NewErrorResponse builds an ERROR reply carrying msg.
func NewErrorResponse(msg string) *Response {
	return &Response{Status: StatusError, Error: msg}
}

// ParseRequest decodes a request line.
func ParseRequest(line []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return nil, fmt.Errorf("parse request: %w", err)
	}
	if req.Command == "" {
		return nil, errors.New("parse request: missing command")
	}
	return &req, nil
}

func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
