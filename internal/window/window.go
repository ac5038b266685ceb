// Package window owns the set of live windows and their z-order.
package window

import (
	"github.com/1broseidon/idealdisplay/internal/geom"
	"github.com/1broseidon/idealdisplay/internal/protocol"
)

// Window is a remote window as known locally. Geometry is in virtual
// coordinates.
type Window struct {
	ID     string
	Owner  string
	Type   string
	Title  string
	Parent string
	X      int
	Y      int
	Width  int
	Height int
}

// FromDescriptor builds a Window from a lifecycle message.
func FromDescriptor(d protocol.WindowDescriptor) Window {
	return Window{
		ID:     d.ID,
		Owner:  d.Owner,
		Type:   d.Type,
		Title:  d.Title,
		X:      d.X,
		Y:      d.Y,
		Width:  max(d.Width, 0),
		Height: max(d.Height, 0),
	}
}

func (w Window) Origin() geom.Point {
	return geom.Point{X: w.X, Y: w.Y}
}

func (w Window) Size() geom.Size {
	return geom.Size{Width: w.Width, Height: w.Height}
}

// Bounds is the content rectangle.
func (w Window) Bounds() geom.Rect {
	return geom.Rect{X: w.X, Y: w.Y, Width: w.Width, Height: w.Height}
}

// DisplayTitle is the text drawn in the title bar.
func (w Window) DisplayTitle() string {
	if w.Title != "" {
		return w.Title
	}
	return w.ID
}

// Plain reports whether the window gets a border, a title and click focus.
func (w Window) Plain() bool {
	return w.Type == protocol.WindowPlain
}
