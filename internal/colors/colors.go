// Package colors resolves protocol color strings.
package colors

import (
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Fallback is painted for any color string that cannot be resolved. It is
// deliberately loud.
var Fallback = color.RGBA{R: 255, G: 0, B: 255, A: 255}

var named = map[string]color.RGBA{
	"red":     {R: 255, A: 255},
	"black":   {A: 255},
	"blue":    {B: 255, A: 255},
	"white":   {R: 255, G: 255, B: 255, A: 255},
	"green":   {G: 255, A: 255},
	"yellow":  {R: 255, G: 255, A: 255},
	"grey":    {R: 128, G: 128, B: 128, A: 255},
	"gray":    {R: 128, G: 128, B: 128, A: 255},
	"magenta": {R: 255, B: 255, A: 255},
	"teal":    {G: 128, B: 128, A: 255},
	"aqua":    {G: 255, B: 255, A: 255},
	"cyan":    {G: 255, B: 255, A: 255},
}

// Resolve maps a "#rrggbb" string or a named color to an opaque RGBA. The
// second return is false when s was not recognised, in which case the
// Fallback color is returned.
func Resolve(s string) (color.RGBA, bool) {
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return Fallback, false
		}
		r, g, b := c.RGB255()
		return color.RGBA{R: r, G: g, B: b, A: 255}, true
	}
	if c, ok := named[strings.ToLower(s)]; ok {
		return c, true
	}
	return Fallback, false
}

// Names returns the recognised color names.
func Names() []string {
	out := make([]string, 0, len(named))
	for name := range named {
		out = append(out, name)
	}
	return out
}
