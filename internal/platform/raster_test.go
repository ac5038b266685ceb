package platform

import (
	"image/color"
	"testing"

	"github.com/1broseidon/idealdisplay/internal/geom"
)

var (
	red         = color.RGBA{R: 255, A: 255}
	blue        = color.RGBA{B: 255, A: 255}
	transparent = color.RGBA{}
)

func TestRasterFillClipsToBounds(t *testing.T) {
	r, err := NewRaster(4, 4)
	if err != nil {
		t.Fatalf("NewRaster: %v", err)
	}
	r.Fill(geom.Rect{X: 2, Y: 2, Width: 10, Height: 10}, red)
	r.Fill(geom.Rect{X: -5, Y: -5, Width: 2, Height: 2}, blue)

	if got := r.At(3, 3); got != red {
		t.Fatalf("At(3,3) = %v, want red", got)
	}
	if got := r.At(1, 1); got != transparent {
		t.Fatalf("At(1,1) = %v, want untouched", got)
	}
}

func TestRasterSetOutOfRangeIsIgnored(t *testing.T) {
	r, _ := NewRaster(2, 2)
	r.Set(-1, 0, red)
	r.Set(5, 5, red)
	r.Set(1, 1, red)
	if got := r.At(1, 1); got != red {
		t.Fatalf("At(1,1) = %v, want red", got)
	}
}

func TestRasterBlitScales(t *testing.T) {
	src, _ := NewRaster(2, 1)
	src.Set(0, 0, red)
	src.Set(1, 0, blue)

	dst, _ := NewRaster(8, 4)
	dst.Blit(src, geom.Rect{X: 2, Y: 1, Width: 4, Height: 2})

	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{2, 1, red},
		{3, 2, red},
		{4, 1, blue},
		{5, 2, blue},
		{1, 1, transparent},
		{6, 1, transparent},
		{2, 3, transparent},
	}
	for _, tt := range tests {
		if got := dst.At(tt.x, tt.y); got != tt.want {
			t.Errorf("At(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestHeadlessPollEventsMovesPointer(t *testing.T) {
	h, err := NewHeadless(geom.Size{Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("NewHeadless: %v", err)
	}
	h.Inject(Event{Kind: EventMouseDown, Pos: geom.Point{X: 4, Y: 6}, Button: ButtonLeft})
	events := h.PollEvents()
	if len(events) != 1 || events[0].Kind != EventMouseDown {
		t.Fatalf("PollEvents = %+v", events)
	}
	if h.Pointer() != (geom.Point{X: 4, Y: 6}) {
		t.Fatalf("Pointer = %v", h.Pointer())
	}
	if len(h.PollEvents()) != 0 {
		t.Fatalf("events should be consumed")
	}
}

func TestNewRasterRejectsBadSizes(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"negative width", -1, 4},
		{"negative height", 4, -1},
		{"too many pixels", MaxSurfacePixels, 2},
		{"product wraps to zero", 1 << 32, 1 << 32},
		{"huge width, zero height", 1 << 40, 0},
	}
	for _, tt := range tests {
		if r, err := NewRaster(tt.width, tt.height); err == nil {
			t.Errorf("%s: NewRaster(%d, %d) = %v, want error", tt.name, tt.width, tt.height, r.Size())
		}
	}

	if _, err := NewRaster(8192, 1); err != nil {
		t.Fatalf("NewRaster(8192, 1): %v", err)
	}
	if r, err := NewRaster(0, 0); err != nil || r.Size() != (geom.Size{}) {
		t.Fatalf("empty surface: %v, %v", r, err)
	}
}
