package client

import (
	"context"
	"errors"
	"time"

	"github.com/1broseidon/idealdisplay/internal/config"
	"github.com/1broseidon/idealdisplay/internal/ipc"
)

// call runs fn on the loop at the next frame and waits for its result.
func call[T any](ctx context.Context, c *Client, fn func() T) (T, error) {
	result := make(chan T, 1)
	c.control.Push(func() { result <- fn() })

	var zero T
	select {
	case v := <-result:
		return v, nil
	case <-c.done:
		return zero, ErrStopped
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Status reports the loop's view of the session. Safe from any goroutine
// while Run is active.
func (c *Client) Status(ctx context.Context) (ipc.StatusData, error) {
	return call(ctx, c, c.status)
}

// Windows lists registered windows bottom first. Safe from any goroutine
// while Run is active.
func (c *Client) Windows(ctx context.Context) ([]ipc.WindowInfo, error) {
	return call(ctx, c, c.windowInfo)
}

// Reload re-reads the config and applies it before returning.
func (c *Client) Reload(ctx context.Context) error {
	if c.loader == nil {
		return errors.New("reload is not configured")
	}
	cfg, err := c.loader()
	if err != nil {
		return err
	}
	_, err = call(ctx, c, func() struct{} {
		c.applyConfig(cfg)
		return struct{}{}
	})
	return err
}

// ApplyConfig queues cfg to be applied at the next frame.
func (c *Client) ApplyConfig(cfg *config.Config) {
	c.control.Push(func() { c.applyConfig(cfg) })
}

// applyConfig swaps the display settings. Server, backend, screen size and
// font are fixed for the life of the process.
func (c *Client) applyConfig(cfg *config.Config) {
	old := c.cfg
	if cfg.Server != old.Server || cfg.Backend != old.Backend || cfg.Screen != old.Screen || cfg.Font != old.Font {
		c.logger.Info("some config changes take effect after a restart",
			"server", cfg.Server, "backend", cfg.Backend, "font", cfg.Font)
	}
	c.cfg = cfg
	c.comp.SetOptions(compositorOptions(cfg))
	c.input.SetGeometry(geometry(cfg))
	c.store.SetFill(resolve(cfg.Theme.Buffer))
	c.logger.Debug("display settings applied", "scale", cfg.Scale, "frame_rate", cfg.FrameRate)
}

func (c *Client) status() ipc.StatusData {
	return ipc.StatusData{
		Server:        c.cfg.Server,
		Connected:     c.link.up,
		Session:       c.link.session,
		Sessions:      c.link.sessions,
		Backend:       c.backend.Name(),
		Scale:         c.cfg.Scale,
		Windows:       c.windows.Len(),
		Buffers:       c.store.Len(),
		ActiveWindow:  c.input.Active(),
		Interaction:   c.input.State().Phase.String(),
		Frames:        c.frames,
		UptimeSeconds: int64(time.Since(c.started).Seconds()),
	}
}

func (c *Client) windowInfo() []ipc.WindowInfo {
	wins := c.windows.Windows()
	out := make([]ipc.WindowInfo, 0, len(wins))
	active := c.input.Active()
	for z, w := range wins {
		_, hasBuffer := c.store.Get(w.ID)
		out = append(out, ipc.WindowInfo{
			ID:        w.ID,
			Owner:     w.Owner,
			Type:      w.Type,
			Title:     w.DisplayTitle(),
			Parent:    w.Parent,
			X:         w.X,
			Y:         w.Y,
			Width:     w.Width,
			Height:    w.Height,
			Z:         z,
			HasBuffer: hasBuffer,
			Focused:   w.ID == active,
		})
	}
	return out
}
