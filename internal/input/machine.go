// Package input turns raw pointer and keyboard events into window
// interactions and outgoing protocol messages.
package input

import (
	"log/slog"
	"slices"

	"github.com/1broseidon/idealdisplay/internal/geom"
	"github.com/1broseidon/idealdisplay/internal/platform"
	"github.com/1broseidon/idealdisplay/internal/protocol"
	"github.com/1broseidon/idealdisplay/internal/window"
)

// Outbox accepts outgoing messages without blocking.
type Outbox interface {
	Send(msg protocol.Outgoing)
}

// Geometry is the display geometry the hit tests run against.
type Geometry struct {
	Scale        int
	Border       geom.Insets
	ResizeHandle geom.Size
}

// Machine is the drag/resize/focus state machine. Pointer positions are
// passed in screen pixels and divided by Scale.
type Machine struct {
	windows *window.Registry
	out     Outbox
	geo     Geometry
	state   *State
	logger  *slog.Logger
}

// NewMachine starts idle with no focused window.
func NewMachine(windows *window.Registry, out Outbox, geo Geometry, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	if geo.Scale < 1 {
		geo.Scale = 1
	}
	return &Machine{
		windows: windows,
		out:     out,
		geo:     geo,
		state:   NewState(),
		logger:  logger,
	}
}

// SetGeometry swaps the display geometry, e.g. after a config reload.
func (m *Machine) SetGeometry(geo Geometry) {
	if geo.Scale < 1 {
		geo.Scale = 1
	}
	m.geo = geo
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	return *m.state
}

// Active returns the focused window id, or "".
func (m *Machine) Active() string {
	return m.state.Active
}

// Reset drops any drag and the focus.
func (m *Machine) Reset() {
	m.state.Reset()
	m.state.Active = ""
}

// PointerDown hit-tests from the top of the z-order down. A resize handle
// or border hit claims the press and stops the scan. A content hit sends
// MouseDown (and focuses and raises PLAIN windows) but lets the scan go on,
// so overlapping windows below can see the same press.
func (m *Machine) PointerDown(pos geom.Point, button platform.Button) {
	if button != platform.ButtonLeft {
		return
	}
	pt := pos.Div(m.geo.Scale)

	order := m.windows.Order()
	slices.Reverse(order)
	for _, id := range order {
		win, ok := m.windows.Get(id)
		if !ok {
			continue
		}
		bounds := win.Bounds()

		if bounds.ResizeContains(pt, m.geo.ResizeHandle) {
			m.state.Phase = PhaseResizing
			m.state.Target = id
			m.logger.Debug("resize started", "window", id)
			return
		}

		if bounds.Contains(pt) {
			if win.Plain() {
				m.state.Active = id
				m.out.Send(protocol.NewSetFocusedWindow(id))
				m.windows.Raise(id)
			}
			m.out.Send(protocol.NewMouseDown(win.Owner, id, pt.Sub(win.Origin())))
			continue
		}

		if bounds.BorderContains(pt, m.geo.Border) {
			m.state.Phase = PhaseDragging
			m.state.Target = id
			m.logger.Debug("drag started", "window", id)
			return
		}
	}
}

// PointerDrag is sampled once per frame with the current pointer position.
func (m *Machine) PointerDrag(pos geom.Point) {
	if m.state.Phase == PhaseIdle {
		return
	}
	pt := pos.Div(m.geo.Scale)
	win, ok := m.windows.Get(m.state.Target)
	if !ok {
		m.logger.Debug("drag target closed", "window", m.state.Target)
		m.state.Reset()
		return
	}

	switch m.state.Phase {
	case PhaseDragging:
		m.windows.Move(win.ID, pt)
	case PhaseResizing:
		far := pt.Sub(win.Origin())
		m.windows.Reshape(win.ID, geom.Size{Width: far.X, Height: far.Y})
	}
}

// PointerUp commits a drag or resize, then reports the release to the
// focused window.
func (m *Machine) PointerUp(pos geom.Point, button platform.Button) {
	pt := pos.Div(m.geo.Scale)

	switch m.state.Phase {
	case PhaseDragging:
		if win, ok := m.windows.Get(m.state.Target); ok {
			m.out.Send(protocol.NewWindowSetPosition(win.Owner, win.ID, win.Origin()))
		}
	case PhaseResizing:
		if win, ok := m.windows.Get(m.state.Target); ok {
			far := pt.Sub(win.Origin())
			size := geom.Size{Width: max(far.X, 0), Height: max(far.Y, 0)}
			m.out.Send(protocol.NewSetSizeRequest(win.Owner, win.ID, size))
			m.windows.SetSize(win.ID, size.Width, size.Height)
		}
	}
	m.state.Reset()

	if button != platform.ButtonLeft || m.state.Active == "" {
		return
	}
	active, ok := m.windows.Get(m.state.Active)
	if !ok {
		return
	}
	m.out.Send(protocol.NewMouseUp(active.Owner, active.ID, pt.Sub(active.Origin())))
}

// KeyDown forwards a key to the focused window's owner.
func (m *Machine) KeyDown(name string, mods platform.Modifiers) {
	if m.state.Active == "" || name == "" {
		return
	}
	win, ok := m.windows.Get(m.state.Active)
	if !ok {
		m.state.Active = ""
		return
	}
	code, key := Translate(name, mods.Shift)
	m.out.Send(protocol.KeyboardDown{
		Type:    protocol.TagKeyboardDown,
		Code:    code,
		Key:     key,
		Shift:   mods.Shift,
		Alt:     mods.Alt,
		Meta:    mods.Meta,
		Control: mods.Control,
		App:     win.Owner,
		Target:  win.Owner,
		Window:  win.ID,
	})
}
