// Package compositor draws the window stack into the screen surface once
// per frame.
package compositor

import (
	"image/color"
	"log/slog"

	"github.com/1broseidon/idealdisplay/internal/geom"
	"github.com/1broseidon/idealdisplay/internal/glyph"
	"github.com/1broseidon/idealdisplay/internal/platform"
	"github.com/1broseidon/idealdisplay/internal/protocol"
	"github.com/1broseidon/idealdisplay/internal/window"
)

// bannerHeight is the virtual height of the status strip.
const bannerHeight = 12

// Theme holds the resolved colors a frame is drawn with.
type Theme struct {
	Background   color.RGBA
	Border       color.RGBA
	ActiveBorder color.RGBA
	Title        color.RGBA
	Cursor       color.RGBA
	Banner       color.RGBA
}

// Options are the display settings a config reload may change.
type Options struct {
	Scale       int
	Border      geom.Insets
	CursorGlyph int
	Theme       Theme
}

// Buffers looks up window buffers by id.
type Buffers interface {
	Get(id string) (platform.Surface, bool)
}

// Scene is everything one frame needs. Windows are bottom first.
type Scene struct {
	Windows []window.Window
	Buffers Buffers
	Active  string
	Pointer geom.Point // screen pixels
	Banner  string
}

// Compositor turns a Scene into pixels.
type Compositor struct {
	opts   Options
	font   *glyph.Font
	logger *slog.Logger
	warned map[string]bool
}

// New returns a compositor. A nil font draws no titles or cursor.
func New(opts Options, font *glyph.Font, logger *slog.Logger) *Compositor {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Scale < 1 {
		opts.Scale = 1
	}
	return &Compositor{
		opts:   opts,
		font:   font,
		logger: logger,
		warned: make(map[string]bool),
	}
}

func (c *Compositor) SetOptions(opts Options) {
	if opts.Scale < 1 {
		opts.Scale = 1
	}
	c.opts = opts
}

// Frame composes scene onto the backend's screen and presents it.
func (c *Compositor) Frame(b platform.Backend, scene Scene) error {
	c.Compose(b.Screen(), scene)
	return b.Present()
}

// Compose draws scene onto screen without presenting.
func (c *Compositor) Compose(screen platform.Surface, scene Scene) {
	s := c.opts.Scale
	size := screen.Size()
	screen.Fill(geom.Rect{Width: size.Width, Height: size.Height}, c.opts.Theme.Background)

	for _, win := range scene.Windows {
		c.drawChrome(screen, win, win.ID == scene.Active)
		if scene.Buffers == nil {
			continue
		}
		if buf, ok := scene.Buffers.Get(win.ID); ok {
			screen.Blit(buf, win.Bounds().Scale(s))
		}
	}

	if scene.Banner != "" {
		c.drawBanner(screen, scene.Banner)
	}

	if g, ok := c.font.Lookup(c.opts.CursorGlyph); ok {
		glyph.DrawGlyph(screen, g, scene.Pointer.Div(s), s, c.opts.Theme.Cursor)
	}
}

func (c *Compositor) drawChrome(screen platform.Surface, win window.Window, active bool) {
	switch win.Type {
	case protocol.WindowPlain:
		border := c.opts.Theme.Border
		if active {
			border = c.opts.Theme.ActiveBorder
		}
		screen.Fill(win.Bounds().Outset(c.opts.Border).Scale(c.opts.Scale), border)
		at := geom.Point{X: win.X, Y: win.Y - c.opts.Border.Top}
		glyph.DrawTitle(screen, c.font, win.DisplayTitle(), at, c.opts.Scale, c.opts.Theme.Title)
	case protocol.WindowMenuBar, protocol.WindowDock, protocol.WindowSidebar, protocol.WindowChild:
	default:
		if !c.warned[win.Type] {
			c.warned[win.Type] = true
			c.logger.Warn("unknown window type, drawing no chrome", "type", win.Type, "window", win.ID)
		}
	}
}

// drawBanner centers text in a strip along the top of the screen.
func (c *Compositor) drawBanner(screen platform.Surface, text string) {
	s := c.opts.Scale
	width := screen.Size().Width
	screen.Fill(geom.Rect{Width: width, Height: bannerHeight * s}, c.opts.Theme.Title)
	x := max((width/s-glyph.Measure(c.font, text))/2, 0)
	glyph.DrawText(screen, c.font, text, geom.Point{X: x, Y: 0}, s, c.opts.Theme.Banner)
}
