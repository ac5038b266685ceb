package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/idealdisplay/internal/geom"
)

// Outgoing is a message sent to the peer.
type Outgoing interface {
	Tag() string
}

// ScreenStart opens every session.
type ScreenStart struct {
	Type string `json:"type"`
}

// MouseDown reports a press in window-relative coordinates.
type MouseDown struct {
	Type   string `json:"type"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Target string `json:"target"`
	Window string `json:"window"`
}

// MouseUp reports a release to the focused window.
type MouseUp struct {
	Type   string `json:"type"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Target string `json:"target"`
	Window string `json:"window"`
}

// KeyboardDown forwards a key press to the focused window's owner.
type KeyboardDown struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Key     string `json:"key"`
	Shift   bool   `json:"shift"`
	Alt     bool   `json:"alt"`
	Meta    bool   `json:"meta"`
	Control bool   `json:"control"`
	App     string `json:"app"`
	Target  string `json:"target"`
	Window  string `json:"window"`
}

// SetFocusedWindow announces a focus change.
type SetFocusedWindow struct {
	Type   string `json:"type"`
	Window string `json:"window"`
}

// WindowSetPosition commits the result of a drag.
type WindowSetPosition struct {
	Type   string `json:"type"`
	App    string `json:"app"`
	Window string `json:"window"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

// SetSizeRequest asks the owner to adopt a size chosen by the user.
type SetSizeRequest struct {
	Type   string `json:"type"`
	App    string `json:"app"`
	Window string `json:"window"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// RefreshRequest asks a window's owner to repaint it from scratch.
type RefreshRequest struct {
	Type   string `json:"type"`
	Target string `json:"target"`
	Window string `json:"window"`
}

func (m ScreenStart) Tag() string       { return m.Type }
func (m MouseDown) Tag() string         { return m.Type }
func (m MouseUp) Tag() string           { return m.Type }
func (m KeyboardDown) Tag() string      { return m.Type }
func (m SetFocusedWindow) Tag() string  { return m.Type }
func (m WindowSetPosition) Tag() string { return m.Type }
func (m SetSizeRequest) Tag() string    { return m.Type }
func (m RefreshRequest) Tag() string    { return m.Type }

// NewScreenStart builds the handshake message.
func NewScreenStart() ScreenStart {
	return ScreenStart{Type: TagScreenStart}
}

// NewMouseDown addresses a press at window-local point p to owner.
func NewMouseDown(owner, window string, p geom.Point) MouseDown {
	return MouseDown{Type: TagMouseDown, X: p.X, Y: p.Y, Target: owner, Window: window}
}

// NewMouseUp addresses a release at window-local point p to owner.
func NewMouseUp(owner, window string, p geom.Point) MouseUp {
	return MouseUp{Type: TagMouseUp, X: p.X, Y: p.Y, Target: owner, Window: window}
}

// NewSetFocusedWindow builds a focus change for window.
func NewSetFocusedWindow(window string) SetFocusedWindow {
	return SetFocusedWindow{Type: TagSetFocusedWindow, Window: window}
}

// NewWindowSetPosition builds a move for window, owned by app.
func NewWindowSetPosition(app, window string, p geom.Point) WindowSetPosition {
	return WindowSetPosition{Type: TagWindowSetPosition, App: app, Window: window, X: p.X, Y: p.Y}
}

// NewSetSizeRequest builds a resize for window, owned by app.
func NewSetSizeRequest(app, window string, size geom.Size) SetSizeRequest {
	return SetSizeRequest{Type: TagWindowSetSize, App: app, Window: window, Width: size.Width, Height: size.Height}
}

// NewRefreshRequest asks owner to redraw window.
func NewRefreshRequest(owner, window string) RefreshRequest {
	return RefreshRequest{Type: TagRefreshWindow, Target: owner, Window: window}
}

// Encode renders msg as a text frame.
func Encode(msg Outgoing) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", msg.Tag(), err)
	}
	return data, nil
}
