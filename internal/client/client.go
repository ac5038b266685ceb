// Package client runs the presentation loop. The loop is the only code that
// touches the window registry, the buffers and the interaction state; the
// transport and the inspection server reach it through queues.
package client

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"github.com/1broseidon/idealdisplay/internal/buffer"
	"github.com/1broseidon/idealdisplay/internal/colors"
	"github.com/1broseidon/idealdisplay/internal/compositor"
	"github.com/1broseidon/idealdisplay/internal/config"
	"github.com/1broseidon/idealdisplay/internal/glyph"
	"github.com/1broseidon/idealdisplay/internal/input"
	"github.com/1broseidon/idealdisplay/internal/platform"
	"github.com/1broseidon/idealdisplay/internal/protocol"
	"github.com/1broseidon/idealdisplay/internal/queue"
	"github.com/1broseidon/idealdisplay/internal/window"
)

// ErrQuit is returned by Step when the loop should stop.
var ErrQuit = errors.New("quit requested")

// ErrStopped is returned by queries made after the loop has exited.
var ErrStopped = errors.New("presentation loop stopped")

// Options wires a Client to its backend and queues.
type Options struct {
	Config   *config.Config
	Backend  platform.Backend
	Font     *glyph.Font
	Inbound  *queue.Queue[protocol.Command]
	Outbound *queue.Queue[protocol.Outgoing]
	// Loader re-reads the config for Reload. Nil disables Reload.
	Loader func() (*config.Config, error)
	Logger *slog.Logger
}

// link is the transport state as seen by the loop.
type link struct {
	up       bool
	session  string
	sessions int
}

// Client owns the display state and runs the presentation loop.
type Client struct {
	cfg     *config.Config
	backend platform.Backend
	store   *buffer.Store
	windows *window.Registry
	input   *input.Machine
	comp    *compositor.Compositor
	inbound *queue.Queue[protocol.Command]
	outbox  *outbox
	control *queue.Queue[func()]
	loader  func() (*config.Config, error)
	link    link
	quit    bool
	frames  uint64
	started time.Time
	done    chan struct{}
	logger  *slog.Logger
}

// New builds a client from opts. Nothing runs until Run or Step.
func New(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	c := &Client{
		cfg:     cfg,
		backend: opts.Backend,
		inbound: opts.Inbound,
		control: queue.New[func()]("control"),
		loader:  opts.Loader,
		started: time.Now(),
		done:    make(chan struct{}),
		logger:  logger,
	}
	c.outbox = &outbox{link: &c.link, queue: opts.Outbound, logger: logger}
	c.store = buffer.NewStore(opts.Backend, resolve(cfg.Theme.Buffer), logger.With("component", "buffers"))
	c.windows = window.NewRegistry(c.store, logger.With("component", "windows"))
	c.input = input.NewMachine(c.windows, c.outbox, geometry(cfg), logger.With("component", "input"))
	c.comp = compositor.New(compositorOptions(cfg), opts.Font, logger.With("component", "compositor"))
	return c
}

// Run steps the loop once per frame until ctx is done or a quit is
// requested.
func (c *Client) Run(ctx context.Context) error {
	defer close(c.done)

	interval := c.cfg.FrameInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := c.Step(); err != nil {
			if errors.Is(err, ErrQuit) {
				c.logger.Info("presentation loop stopping", "reason", "quit")
				return nil
			}
			return err
		}
		if next := c.cfg.FrameInterval(); next != interval {
			interval = next
			ticker.Reset(interval)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Step runs one frame: apply queued commands, handle input, sample the
// pointer for drags, answer queries, then compose and present.
func (c *Client) Step() error {
	for _, cmd := range c.inbound.Drain() {
		c.apply(cmd)
	}
	if c.quit {
		return ErrQuit
	}

	for _, ev := range c.backend.PollEvents() {
		c.handleEvent(ev)
	}
	if c.quit {
		return ErrQuit
	}
	c.input.PointerDrag(c.backend.Pointer())

	for _, fn := range c.control.Drain() {
		fn()
	}

	if err := c.comp.Frame(c.backend, c.scene()); err != nil {
		return fmt.Errorf("present frame: %w", err)
	}
	c.frames++
	return nil
}

func (c *Client) handleEvent(ev platform.Event) {
	switch ev.Kind {
	case platform.EventQuit:
		c.quit = true
	case platform.EventKeyDown:
		if c.cfg.QuitKey != "" && ev.Key == c.cfg.QuitKey {
			c.quit = true
			return
		}
		c.input.KeyDown(ev.Key, ev.Mods)
	case platform.EventMouseDown:
		c.input.PointerDown(ev.Pos, ev.Button)
	case platform.EventMouseUp:
		c.input.PointerUp(ev.Pos, ev.Button)
	}
}

func (c *Client) scene() compositor.Scene {
	scene := compositor.Scene{
		Windows: c.windows.Windows(),
		Buffers: c.store,
		Active:  c.input.Active(),
		Pointer: c.backend.Pointer(),
	}
	if !c.link.up {
		scene.Banner = "disconnected"
		if c.link.sessions == 0 {
			scene.Banner = "connecting"
		}
	}
	return scene
}

// outbox forwards messages to the transport while a session is up and
// drops them otherwise.
type outbox struct {
	link   *link
	queue  *queue.Queue[protocol.Outgoing]
	logger *slog.Logger
}

func (o *outbox) Send(msg protocol.Outgoing) {
	if !o.link.up {
		o.logger.Debug("link down, dropping outgoing message", "type", msg.Tag())
		return
	}
	o.queue.Push(msg)
}

func geometry(cfg *config.Config) input.Geometry {
	return input.Geometry{
		Scale:        cfg.Scale,
		Border:       cfg.Border,
		ResizeHandle: cfg.ResizeHandle,
	}
}

func compositorOptions(cfg *config.Config) compositor.Options {
	return compositor.Options{
		Scale:       cfg.Scale,
		Border:      cfg.Border,
		CursorGlyph: cfg.CursorGlyph,
		Theme: compositor.Theme{
			Background:   resolve(cfg.Theme.Background),
			Border:       resolve(cfg.Theme.Border),
			ActiveBorder: resolve(cfg.Theme.ActiveBorder),
			Title:        resolve(cfg.Theme.Title),
			Cursor:       resolve(cfg.Theme.Cursor),
			Banner:       resolve(cfg.Theme.Banner),
		},
	}
}

func resolve(name string) color.RGBA {
	c, _ := colors.Resolve(name)
	return c
}
