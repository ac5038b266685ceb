package glyph

import (
	"image/color"

	"github.com/1broseidon/idealdisplay/internal/geom"
)

// Missing glyphs in DrawText become an outlined box of this size.
const (
	fallbackSize    = 10
	fallbackAdvance = fallbackSize + 1
)

// Target receives glyph pixels in screen coordinates.
type Target interface {
	Fill(r geom.Rect, c color.RGBA)
}

// DrawGlyph paints g with its top-left at virtual point at. Each set pixel
// becomes a scale x scale block, one row below its nominal position.
func DrawGlyph(dst Target, g *Glyph, at geom.Point, scale int, c color.RGBA) {
	for i := g.Left; i < g.Width-g.Right; i++ {
		for j := 0; j < g.Height; j++ {
			if g.Data[j*g.Width+i] == 0 {
				continue
			}
			dst.Fill(geom.Rect{
				X:      (i + at.X) * scale,
				Y:      (at.Y + j + 1) * scale,
				Width:  scale,
				Height: scale,
			}, c)
		}
	}
}

// DrawTitle draws text starting at virtual point at. Characters without a
// glyph are skipped.
func DrawTitle(dst Target, f *Font, text string, at geom.Point, scale int, c color.RGBA) {
	advance := 0
	for _, r := range text {
		g, ok := f.Lookup(int(r))
		if !ok {
			continue
		}
		DrawGlyph(dst, g, geom.Point{X: at.X - g.Left + advance, Y: at.Y}, scale, c)
		advance += g.Advance()
	}
}

// DrawText is DrawTitle with a visible box for each missing glyph. It
// returns the advance in virtual pixels.
func DrawText(dst Target, f *Font, text string, at geom.Point, scale int, c color.RGBA) int {
	advance := 0
	for _, r := range text {
		g, ok := f.Lookup(int(r))
		if !ok {
			drawBox(dst, geom.Rect{
				X:      (at.X + advance) * scale,
				Y:      at.Y * scale,
				Width:  fallbackSize * scale,
				Height: fallbackSize * scale,
			}, c)
			advance += fallbackAdvance
			continue
		}
		DrawGlyph(dst, g, geom.Point{X: at.X - g.Left + advance, Y: at.Y}, scale, c)
		advance += g.Advance()
	}
	return advance
}

// Measure returns the advance DrawText would use for text.
func Measure(f *Font, text string) int {
	advance := 0
	for _, r := range text {
		if g, ok := f.Lookup(int(r)); ok {
			advance += g.Advance()
		} else {
			advance += fallbackAdvance
		}
	}
	return advance
}

// drawBox outlines r with a one pixel line.
func drawBox(dst Target, r geom.Rect, c color.RGBA) {
	dst.Fill(geom.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: 1}, c)
	dst.Fill(geom.Rect{X: r.X, Y: r.Y + r.Height - 1, Width: r.Width, Height: 1}, c)
	dst.Fill(geom.Rect{X: r.X, Y: r.Y, Width: 1, Height: r.Height}, c)
	dst.Fill(geom.Rect{X: r.X + r.Width - 1, Y: r.Y, Width: 1, Height: r.Height}, c)
}
