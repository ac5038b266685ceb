// Package geom holds the integer geometry shared by the registry, the input
// machine and the compositor. All values are in virtual (unscaled)
// coordinates unless a caller says otherwise.
package geom

// Point is a position in virtual coordinates.
type Point struct {
	X int
	Y int
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Div scales a screen point down to virtual space.
func (p Point) Div(scale int) Point {
	if scale <= 1 {
		return p
	}
	return Point{X: p.X / scale, Y: p.Y / scale}
}

// Mul scales a virtual point up to screen space.
func (p Point) Mul(scale int) Point {
	return Point{X: p.X * scale, Y: p.Y * scale}
}

// Size is a width/height pair.
type Size struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Insets describes the chrome drawn around a window's content.
type Insets struct {
	Left   int `yaml:"left" json:"left"`
	Right  int `yaml:"right" json:"right"`
	Top    int `yaml:"top" json:"top"`
	Bottom int `yaml:"bottom" json:"bottom"`
}

// Rect describes a rectangular region.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Max returns the bottom-right corner.
func (r Rect) Max() Point {
	return Point{X: r.X + r.Width, Y: r.Y + r.Height}
}

// Empty reports whether the rect covers no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Scale multiplies every component by s.
func (r Rect) Scale(s int) Rect {
	return Rect{X: r.X * s, Y: r.Y * s, Width: r.Width * s, Height: r.Height * s}
}

// Outset grows r by the given insets.
func (r Rect) Outset(in Insets) Rect {
	return Rect{
		X:      r.X - in.Left,
		Y:      r.Y - in.Top,
		Width:  in.Left + r.Width + in.Right,
		Height: in.Top + r.Height + in.Bottom,
	}
}

// Contains reports whether p lies inside r. Both edges are inclusive, so a
// point on the far edge still hits.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// BorderContains reports whether p lies inside r grown by the insets.
func (r Rect) BorderContains(p Point, in Insets) bool {
	return r.Outset(in).Contains(p)
}

// ResizeHandle returns the square anchored at r's bottom-right corner.
func (r Rect) ResizeHandle(handle Size) Rect {
	return Rect{
		X:      r.X + r.Width - handle.Width,
		Y:      r.Y + r.Height - handle.Height,
		Width:  handle.Width,
		Height: handle.Height,
	}
}

// ResizeContains reports whether p lies inside r's resize handle.
func (r Rect) ResizeContains(p Point, handle Size) bool {
	return r.ResizeHandle(handle).Contains(p)
}

// Intersect returns the overlap of r and o, or an empty rect.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.X+r.Width, o.X+o.Width), min(r.Y+r.Height, o.Y+o.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}
