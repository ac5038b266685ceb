package window

import (
	"log/slog"
	"slices"

	"github.com/1broseidon/idealdisplay/internal/geom"
)

// BufferStore is the part of the buffer store the registry drives.
type BufferStore interface {
	Create(id string, width, height int) error
	Destroy(id string)
}

// Registry maps ids to windows and keeps the z-order: later entries are
// drawn later and so appear on top. Every live id appears exactly once.
type Registry struct {
	windows map[string]*Window
	order   []string
	buffers BufferStore
	logger  *slog.Logger
}

// NewRegistry returns an empty registry backed by buffers.
func NewRegistry(buffers BufferStore, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		windows: make(map[string]*Window),
		buffers: buffers,
		logger:  logger,
	}
}

// Open registers w, replacing any window with the same id, and gives it a
// fresh buffer. A new id goes on top of the z-order; a known id keeps its
// place.
func (r *Registry) Open(w Window) {
	if _, exists := r.windows[w.ID]; !exists {
		r.order = append(r.order, w.ID)
	}
	win := w
	r.windows[w.ID] = &win
	r.allocate(&win)
}

// OpenChild opens w only while parent is registered.
func (r *Registry) OpenChild(parent string, w Window) bool {
	if _, ok := r.windows[parent]; !ok {
		r.logger.Debug("child window for unknown parent dropped", "parent", parent, "window", w.ID)
		return false
	}
	w.Parent = parent
	r.Open(w)
	return true
}

func (r *Registry) Close(id string) bool {
	if _, ok := r.windows[id]; !ok {
		return false
	}
	r.buffers.Destroy(id)
	delete(r.windows, id)
	r.order = slices.DeleteFunc(r.order, func(o string) bool { return o == id })
	return true
}

// SetSize changes a window's size and replaces its buffer.
func (r *Registry) SetSize(id string, width, height int) bool {
	win, ok := r.windows[id]
	if !ok {
		return false
	}
	win.Width = max(width, 0)
	win.Height = max(height, 0)
	r.allocate(win)
	return true
}

// Move sets a window's origin without touching its buffer.
func (r *Registry) Move(id string, p geom.Point) bool {
	win, ok := r.windows[id]
	if !ok {
		return false
	}
	win.X, win.Y = p.X, p.Y
	return true
}

// Reshape sets a window's size without touching its buffer. The compositor
// stretches the old buffer until SetSize commits the new size.
func (r *Registry) Reshape(id string, size geom.Size) bool {
	win, ok := r.windows[id]
	if !ok {
		return false
	}
	win.Width = max(size.Width, 0)
	win.Height = max(size.Height, 0)
	return true
}

// BulkReplace applies a window-list snapshot. Unknown windows are opened;
// known ones are left alone, and windows missing from the list stay open.
// It returns every registered window in z-order so the caller can ask the
// owners to repaint.
func (r *Registry) BulkReplace(list []Window) []Window {
	for _, w := range list {
		if _, exists := r.windows[w.ID]; exists {
			continue
		}
		r.Open(w)
	}
	return r.Windows()
}

// Raise moves id to the top of the z-order.
func (r *Registry) Raise(id string) bool {
	idx := slices.Index(r.order, id)
	if idx < 0 {
		return false
	}
	r.order = append(slices.Delete(r.order, idx, idx+1), id)
	return true
}

// Get returns a copy of the window.
func (r *Registry) Get(id string) (Window, bool) {
	win, ok := r.windows[id]
	if !ok {
		return Window{}, false
	}
	return *win, true
}

// Order returns the z-order, bottom first.
func (r *Registry) Order() []string {
	return slices.Clone(r.order)
}

// Windows returns copies of all windows, bottom first.
func (r *Registry) Windows() []Window {
	out := make([]Window, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.windows[id])
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.windows)
}

// Reset closes every window.
func (r *Registry) Reset() {
	for _, id := range r.order {
		r.buffers.Destroy(id)
	}
	clear(r.windows)
	r.order = nil
}

func (r *Registry) allocate(win *Window) {
	if err := r.buffers.Create(win.ID, win.Width, win.Height); err != nil {
		r.logger.Error("window buffer unavailable", "window", win.ID, "error", err)
	}
}
