package client

import (
	"errors"

	"github.com/1broseidon/idealdisplay/internal/buffer"
	"github.com/1broseidon/idealdisplay/internal/geom"
	"github.com/1broseidon/idealdisplay/internal/protocol"
	"github.com/1broseidon/idealdisplay/internal/window"
)

// apply consumes one command. Commands naming unknown windows are dropped.
func (c *Client) apply(cmd protocol.Command) {
	switch cmd := cmd.(type) {
	case protocol.LinkUp:
		c.linkUp(cmd)
	case protocol.LinkDown:
		c.linkDown(cmd)
	case protocol.OpenWindow:
		c.windows.Open(window.FromDescriptor(cmd.Window))
	case protocol.CloseWindow:
		if !c.windows.Close(cmd.Window) {
			c.logger.Debug("close for unknown window", "window", cmd.Window)
		}
	case protocol.CreateChildWindow:
		if !c.windows.OpenChild(cmd.Parent, window.FromDescriptor(cmd.Window)) {
			c.logger.Debug("child window parent is gone", "parent", cmd.Parent, "window", cmd.Window.ID)
		}
	case protocol.CloseChildWindow:
		if !c.windows.Close(cmd.Window) {
			c.logger.Debug("close for unknown child window", "window", cmd.Window)
		}
	case protocol.WindowList:
		c.applyWindowList(cmd)
	case protocol.WindowSetSize:
		if !c.windows.SetSize(cmd.Window, cmd.Width, cmd.Height) {
			c.logger.Debug("resize for unknown window", "window", cmd.Window)
		}
	case protocol.DrawPixel:
		c.drawResult(cmd.Window, c.store.DrawPixel(cmd.Window, cmd.X, cmd.Y, cmd.Color))
	case protocol.DrawRect:
		r := geom.Rect{X: cmd.X, Y: cmd.Y, Width: cmd.Width, Height: cmd.Height}
		c.drawResult(cmd.Window, c.store.FillRect(cmd.Window, r, cmd.Color))
	case protocol.DrawImage:
		c.drawResult(cmd.Window, c.store.DrawImage(cmd.Window, buffer.Image{
			X:      cmd.X,
			Y:      cmd.Y,
			Width:  cmd.Width,
			Height: cmd.Height,
			Depth:  cmd.Depth,
			Color:  cmd.Color,
			Pixels: cmd.Pixels,
		}))
	default:
		c.logger.Warn("unhandled command", "command", cmd)
	}
}

// applyWindowList adds the new windows, then asks every owner to repaint
// since fresh buffers start blank.
func (c *Client) applyWindowList(cmd protocol.WindowList) {
	list := make([]window.Window, 0, len(cmd.Windows))
	for _, d := range cmd.Windows {
		list = append(list, window.FromDescriptor(d))
	}
	for _, w := range c.windows.BulkReplace(list) {
		c.outbox.Send(protocol.NewRefreshRequest(w.Owner, w.ID))
	}
}

func (c *Client) drawResult(id string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, buffer.ErrNoBuffer):
		c.logger.Debug("draw for window without buffer", "window", id)
	default:
		c.logger.Warn("draw failed", "window", id, "error", err)
	}
}

// linkUp starts a session. Windows from an earlier session belong to a
// peer state that no longer exists, so they are dropped.
func (c *Client) linkUp(cmd protocol.LinkUp) {
	if c.link.sessions > 0 && c.windows.Len() > 0 {
		c.logger.Info("new session, clearing windows", "windows", c.windows.Len())
		c.windows.Reset()
	}
	c.input.Reset()
	c.link = link{up: true, session: cmd.Session, sessions: c.link.sessions + 1}
	c.logger.Info("link up", "session", cmd.Session)
}

func (c *Client) linkDown(cmd protocol.LinkDown) {
	if c.link.up {
		c.logger.Info("link down", "session", c.link.session, "reason", cmd.Reason)
	}
	c.link.up = false
	if c.cfg.ExitOnDisconnect {
		c.quit = true
	}
}
