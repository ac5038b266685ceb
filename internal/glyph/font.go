// Package glyph loads bitmap fonts and draws their glyphs as scaled blocks.
package glyph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Glyph is one bitmap character. Data holds Width*Height alpha values, row
// major; Left and Right are bearing columns that are never drawn.
type Glyph struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Baseline int      `json:"baseline"`
	Ascent   int      `json:"ascent"`
	Descent  int      `json:"descent"`
	Left     int      `json:"left"`
	Right    int      `json:"right"`
	Data     []uint32 `json:"data"`
}

// Advance is the horizontal step after drawing g.
func (g *Glyph) Advance() int {
	return (g.Width - g.Left - g.Right) + 1
}

// Font is a set of bitmap glyphs indexed by character code.
type Font struct {
	Name   string  `json:"name"`
	Glyphs []Glyph `json:"glyphs"`

	byID map[int]*Glyph
}

// Load reads a JSON font file.
func Load(path string) (*Font, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open font: %w", err)
	}
	defer f.Close()

	font, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return font, nil
}

// Parse decodes and validates a JSON font.
func Parse(r io.Reader) (*Font, error) {
	var font Font
	if err := json.NewDecoder(r).Decode(&font); err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	font.byID = make(map[int]*Glyph, len(font.Glyphs))
	for i := range font.Glyphs {
		g := &font.Glyphs[i]
		if g.Width < 0 || g.Height < 0 {
			return nil, fmt.Errorf("glyph %d (%s): negative size", g.ID, g.Name)
		}
		if len(g.Data) != g.Width*g.Height {
			return nil, fmt.Errorf("glyph %d (%s): %d data values for %dx%d", g.ID, g.Name, len(g.Data), g.Width, g.Height)
		}
		if g.Left < 0 || g.Right < 0 || g.Left+g.Right > g.Width {
			return nil, fmt.Errorf("glyph %d (%s): bearings %d/%d exceed width %d", g.ID, g.Name, g.Left, g.Right, g.Width)
		}
		font.byID[g.ID] = g
	}
	return &font, nil
}

// Lookup finds a glyph by character code. A nil font has no glyphs.
func (f *Font) Lookup(id int) (*Glyph, bool) {
	if f == nil {
		return nil, false
	}
	g, ok := f.byID[id]
	return g, ok
}

func (f *Font) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Glyphs)
}
