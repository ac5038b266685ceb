// Package buffer keeps one offscreen surface per window and applies the
// drawing commands addressed to it.
package buffer

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"github.com/1broseidon/idealdisplay/internal/colors"
	"github.com/1broseidon/idealdisplay/internal/geom"
	"github.com/1broseidon/idealdisplay/internal/platform"
	"github.com/1broseidon/idealdisplay/internal/protocol"
)

// ErrNoBuffer is returned when drawing to a window without a buffer.
var ErrNoBuffer = errors.New("no buffer for window")

// Allocator creates surfaces. platform.Backend satisfies it.
type Allocator interface {
	NewSurface(width, height int) (platform.Surface, error)
}

// Image is a block of row-major RGBA pixels to draw into a buffer.
type Image struct {
	X      int
	Y      int
	Width  int
	Height int
	Depth  int
	Color  string // tint for depth 1
	Pixels []byte
}

// Store owns the offscreen buffers, keyed by window id.
type Store struct {
	alloc    Allocator
	fill     color.RGBA
	surfaces map[string]platform.Surface
	logger   *slog.Logger
}

// NewStore creates an empty store. New buffers start filled with fill.
func NewStore(alloc Allocator, fill color.RGBA, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		alloc:    alloc,
		fill:     fill,
		surfaces: make(map[string]platform.Surface),
		logger:   logger,
	}
}

// SetFill changes the color new buffers start with.
func (s *Store) SetFill(c color.RGBA) {
	s.fill = c
}

// Create allocates a width x height buffer for id, replacing any previous
// one. On failure the old buffer is gone too, since it no longer matches the
// window.
func (s *Store) Create(id string, width, height int) error {
	delete(s.surfaces, id)
	surface, err := s.alloc.NewSurface(width, height)
	if err != nil {
		return fmt.Errorf("allocate %dx%d buffer for %s: %w", width, height, id, err)
	}
	surface.Fill(geom.Rect{Width: width, Height: height}, s.fill)
	s.surfaces[id] = surface
	return nil
}

// Destroy drops the buffer for id, if any.
func (s *Store) Destroy(id string) {
	delete(s.surfaces, id)
}

// Reset drops every buffer.
func (s *Store) Reset() {
	clear(s.surfaces)
}

// Get returns the buffer for id.
func (s *Store) Get(id string) (platform.Surface, bool) {
	surface, ok := s.surfaces[id]
	return surface, ok
}

// Len is the number of live buffers.
func (s *Store) Len() int {
	return len(s.surfaces)
}

// DrawPixel sets one pixel. Out-of-range points are ignored.
func (s *Store) DrawPixel(id string, x, y int, name string) error {
	surface, ok := s.surfaces[id]
	if !ok {
		return fmt.Errorf("draw pixel on %s: %w", id, ErrNoBuffer)
	}
	surface.Set(x, y, s.resolve(name))
	return nil
}

// FillRect fills r, clipped to the buffer.
func (s *Store) FillRect(id string, r geom.Rect, name string) error {
	surface, ok := s.surfaces[id]
	if !ok {
		return fmt.Errorf("fill rect on %s: %w", id, ErrNoBuffer)
	}
	surface.Fill(r, s.resolve(name))
	return nil
}

// DrawImage paints img. Depth 1 treats the alpha channel as a stencil for
// img.Color; every other depth is plain RGBA. Either way only pixels with
// non-zero alpha are written.
func (s *Store) DrawImage(id string, img Image) error {
	surface, ok := s.surfaces[id]
	if !ok {
		return fmt.Errorf("draw image on %s: %w", id, ErrNoBuffer)
	}
	if want, ok := protocol.ImageBytes(img.Width, img.Height); !ok || len(img.Pixels) < want {
		return fmt.Errorf("draw image on %s: %d bytes for %dx%d", id, len(img.Pixels), img.Width, img.Height)
	}

	var tint color.RGBA
	if img.Depth == 1 {
		tint = s.resolve(img.Color)
	}
	for j := 0; j < img.Height; j++ {
		for i := 0; i < img.Width; i++ {
			n := (j*img.Width + i) * 4
			alpha := img.Pixels[n+3]
			if alpha == 0 {
				continue
			}
			c := tint
			if img.Depth != 1 {
				c = color.RGBA{R: img.Pixels[n], G: img.Pixels[n+1], B: img.Pixels[n+2], A: alpha}
			}
			surface.Set(img.X+i, img.Y+j, c)
		}
	}
	return nil
}

func (s *Store) resolve(name string) color.RGBA {
	c, ok := colors.Resolve(name)
	if !ok {
		s.logger.Warn("unknown color, using fallback", "color", name)
	}
	return c
}
