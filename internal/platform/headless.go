package platform

import (
	"sync"

	"github.com/1broseidon/idealdisplay/internal/geom"
)

// Headless renders into memory and takes its input from Inject. It backs the
// "headless" backend and the test suites.
type Headless struct {
	mu      sync.Mutex
	screen  *Raster
	events  []Event
	pointer geom.Point
	frames  int

	// AllocHook, when set, can veto a surface allocation.
	AllocHook func(width, height int) error
}

var _ Backend = (*Headless)(nil)

// NewHeadless creates an offscreen backend of the given size.
func NewHeadless(size geom.Size) (*Headless, error) {
	screen, err := NewRaster(size.Width, size.Height)
	if err != nil {
		return nil, err
	}
	return &Headless{screen: screen}, nil
}

func (h *Headless) Name() string { return "headless" }

func (h *Headless) NewSurface(width, height int) (Surface, error) {
	if h.AllocHook != nil {
		if err := h.AllocHook(width, height); err != nil {
			return nil, err
		}
	}
	return NewRaster(width, height)
}

func (h *Headless) Screen() Surface { return h.screen }

// Raster exposes the screen for pixel assertions.
func (h *Headless) Raster() *Raster { return h.screen }

func (h *Headless) Present() error {
	h.mu.Lock()
	h.frames++
	h.mu.Unlock()
	return nil
}

// Frames returns how many times Present was called.
func (h *Headless) Frames() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames
}

// Inject queues events for the next PollEvents. Pointer events also move the
// pointer.
func (h *Headless) Inject(events ...Event) {
	h.mu.Lock()
	h.events = append(h.events, events...)
	h.mu.Unlock()
}

// MoveTo sets the pointer position in screen pixels.
func (h *Headless) MoveTo(p geom.Point) {
	h.mu.Lock()
	h.pointer = p
	h.mu.Unlock()
}

func (h *Headless) PollEvents() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	events := h.events
	h.events = nil
	for _, ev := range events {
		if ev.Kind == EventMouseDown || ev.Kind == EventMouseUp {
			h.pointer = ev.Pos
		}
	}
	return events
}

func (h *Headless) Pointer() geom.Point {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pointer
}

func (h *Headless) Close() error { return nil }
