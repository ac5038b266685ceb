//go:build linux

package platform

import (
	"fmt"

	"github.com/1broseidon/idealdisplay/internal/geom"
	"github.com/1broseidon/idealdisplay/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
)

// X11Backend presents into a single X window and reads its input events.
type X11Backend struct {
	conn    *x11.Connection
	display *x11.Display
	screen  *Raster
	pointer geom.Point
	closed  bool
}

var _ Backend = (*X11Backend)(nil)

// NewX11Backend opens a fresh X11 connection and a window of the given size.
func NewX11Backend(title string, size geom.Size) (*X11Backend, error) {
	screen, err := NewRaster(size.Width, size.Height)
	if err != nil {
		return nil, err
	}
	conn, err := x11.NewConnection("")
	if err != nil {
		return nil, fmt.Errorf("x11: %w: %v", ErrUnavailable, err)
	}
	if w, h := conn.RootSize(); size.Width > w || size.Height > h {
		conn.Close()
		return nil, fmt.Errorf("x11: %w: %dx%d window does not fit the %dx%d screen", ErrUnavailable, size.Width, size.Height, w, h)
	}
	display, err := conn.OpenDisplay(title, size.Width, size.Height)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &X11Backend{conn: conn, display: display, screen: screen}, nil
}

func (b *X11Backend) Name() string { return "x11" }

func (b *X11Backend) NewSurface(width, height int) (Surface, error) {
	return NewRaster(width, height)
}

func (b *X11Backend) Screen() Surface { return b.screen }

func (b *X11Backend) Present() error {
	if b.closed {
		return ErrUnavailable
	}
	b.display.Paint(b.screen.Pixels())
	return nil
}

// PollEvents drains the X event queue without blocking.
func (b *X11Backend) PollEvents() []Event {
	var out []Event
	xconn := b.conn.XUtil.Conn()
	for {
		ev, xerr := xconn.PollForEvent()
		if ev == nil && xerr == nil {
			return out
		}
		if xerr != nil {
			continue
		}

		switch e := ev.(type) {
		case xproto.MotionNotifyEvent:
			b.pointer = geom.Point{X: int(e.EventX), Y: int(e.EventY)}
		case xproto.ButtonPressEvent:
			b.pointer = geom.Point{X: int(e.EventX), Y: int(e.EventY)}
			out = append(out, Event{
				Kind:   EventMouseDown,
				Pos:    b.pointer,
				Button: Button(e.Detail),
				Mods:   modifiersFromState(e.State),
			})
		case xproto.ButtonReleaseEvent:
			b.pointer = geom.Point{X: int(e.EventX), Y: int(e.EventY)}
			out = append(out, Event{
				Kind:   EventMouseUp,
				Pos:    b.pointer,
				Button: Button(e.Detail),
				Mods:   modifiersFromState(e.State),
			})
		case xproto.KeyPressEvent:
			name := b.conn.KeyName(e.Detail)
			if name == "" {
				continue
			}
			out = append(out, Event{
				Kind: EventKeyDown,
				Pos:  b.pointer,
				Key:  name,
				Mods: modifiersFromState(e.State),
			})
		case xproto.ClientMessageEvent:
			if b.display.IsDeleteRequest(e) {
				out = append(out, Event{Kind: EventQuit})
			}
		case xproto.DestroyNotifyEvent:
			if e.Window == b.display.Window() {
				out = append(out, Event{Kind: EventQuit})
			}
		}
	}
}

func (b *X11Backend) Pointer() geom.Point { return b.pointer }

func (b *X11Backend) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.display.Close()
	b.conn.Close()
	return nil
}

func modifiersFromState(state uint16) Modifiers {
	return Modifiers{
		Shift:   state&xproto.ModMaskShift != 0,
		Control: state&xproto.ModMaskControl != 0,
		Alt:     state&xproto.ModMask1 != 0,
		Meta:    state&xproto.ModMask4 != 0,
	}
}

func openX11(title string, size geom.Size) (Backend, error) {
	return NewX11Backend(title, size)
}
