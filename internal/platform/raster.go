package platform

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/1broseidon/idealdisplay/internal/geom"
)

// MaxSurfacePixels bounds a single allocation.
const MaxSurfacePixels = 8192 * 8192

// Raster is an in-memory RGBA surface shared by every backend.
type Raster struct {
	img *image.RGBA
}

var _ Surface = (*Raster)(nil)

// NewRaster allocates a transparent surface of at most MaxSurfacePixels.
func NewRaster(width, height int) (*Raster, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	if width > MaxSurfacePixels || height > MaxSurfacePixels || width*height > MaxSurfacePixels {
		return nil, fmt.Errorf("surface %dx%d exceeds %d pixels", width, height, MaxSurfacePixels)
	}
	return &Raster{img: image.NewRGBA(image.Rect(0, 0, width, height))}, nil
}

func (r *Raster) Size() geom.Size {
	b := r.img.Bounds()
	return geom.Size{Width: b.Dx(), Height: b.Dy()}
}

func (r *Raster) Fill(rect geom.Rect, c color.RGBA) {
	if rect.Empty() {
		return
	}
	dst := toImageRect(rect).Intersect(r.img.Bounds())
	if dst.Empty() {
		return
	}
	draw.Draw(r.img, dst, &image.Uniform{C: c}, image.Point{}, draw.Src)
}

func (r *Raster) Set(x, y int, c color.RGBA) {
	if !(image.Point{X: x, Y: y}).In(r.img.Bounds()) {
		return
	}
	r.img.SetRGBA(x, y, c)
}

func (r *Raster) Blit(src Surface, dst geom.Rect) {
	if src == nil || dst.Empty() {
		return
	}
	pix := src.Pixels()
	if pix == nil || pix.Bounds().Empty() {
		return
	}
	draw.NearestNeighbor.Scale(r.img, toImageRect(dst), pix, pix.Bounds(), draw.Src, nil)
}

func (r *Raster) Pixels() *image.RGBA {
	return r.img
}

// At returns the color at x,y, or transparent black outside the bounds.
func (r *Raster) At(x, y int) color.RGBA {
	return r.img.RGBAAt(x, y)
}

func toImageRect(r geom.Rect) image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}
