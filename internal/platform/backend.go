package platform

import (
	"errors"
	"image"
	"image/color"

	"github.com/1broseidon/idealdisplay/internal/geom"
)

// ErrUnavailable is returned when a backend cannot run in this environment.
var ErrUnavailable = errors.New("backend unavailable")

// Surface is a drawable pixel target. Window buffers and the screen are both
// surfaces. Writes outside the bounds are clipped.
type Surface interface {
	Size() geom.Size
	Fill(r geom.Rect, c color.RGBA)
	Set(x, y int, c color.RGBA)
	// Blit copies src into dst, stretching with nearest-neighbour sampling.
	Blit(src Surface, dst geom.Rect)
	Pixels() *image.RGBA
}

// EventKind identifies a raw input event.
type EventKind int

const (
	EventNone EventKind = iota
	EventQuit
	EventKeyDown
	EventMouseDown
	EventMouseUp
)

func (k EventKind) String() string {
	switch k {
	case EventQuit:
		return "quit"
	case EventKeyDown:
		return "key-down"
	case EventMouseDown:
		return "mouse-down"
	case EventMouseUp:
		return "mouse-up"
	default:
		return "none"
	}
}

// Button is a pointer button number.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// Modifiers is the modifier key state at the time of an event.
type Modifiers struct {
	Shift   bool
	Control bool
	Alt     bool
	Meta    bool
}

// Event is one raw input event in screen pixels. Key holds a key name such
// as "A", "7", "Left", "Space" or "Backspace".
type Event struct {
	Kind   EventKind
	Pos    geom.Point
	Button Button
	Key    string
	Mods   Modifiers
}

// Backend abstracts the presentation surface and input source.
type Backend interface {
	Name() string
	NewSurface(width, height int) (Surface, error)
	Screen() Surface
	Present() error
	PollEvents() []Event
	Pointer() geom.Point
	Close() error
}
