// Package config holds the client configuration: where the peer lives, how
// the display is drawn and how the process logs.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/1broseidon/idealdisplay/internal/colors"
	"github.com/1broseidon/idealdisplay/internal/geom"
)

// Backend names accepted by the backend key.
const (
	BackendAuto     = "auto"
	BackendX11      = "x11"
	BackendTerminal = "terminal"
	BackendHeadless = "headless"
)

const maxFrameRate = 240

// Config is the complete runtime configuration.
type Config struct {
	Server           string      `yaml:"server" json:"server"`
	Backend          string      `yaml:"backend" json:"backend"`
	Screen           geom.Size   `yaml:"screen" json:"screen"`
	Scale            int         `yaml:"scale" json:"scale"`
	FrameRate        int         `yaml:"frame_rate" json:"frame_rate"`
	Border           geom.Insets `yaml:"border" json:"border"`
	ResizeHandle     geom.Size   `yaml:"resize_handle" json:"resize_handle"`
	Font             string      `yaml:"font" json:"font"`
	CursorGlyph      int         `yaml:"cursor_glyph" json:"cursor_glyph"`
	QuitKey          string      `yaml:"quit_key" json:"quit_key"`
	Reconnect        Reconnect   `yaml:"reconnect" json:"reconnect"`
	ExitOnDisconnect bool        `yaml:"exit_on_disconnect" json:"exit_on_disconnect"`
	Theme            Theme       `yaml:"theme" json:"theme"`
	LogLevel         string      `yaml:"log_level" json:"log_level"`
	LogFile          string      `yaml:"log_file" json:"log_file"`
	IPC              IPCConfig   `yaml:"ipc" json:"ipc"`
}

// Reconnect controls redialing after the link drops.
type Reconnect struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	Backoff time.Duration `yaml:"backoff" json:"backoff"`
}

// Theme colors are names or #rrggbb strings.
type Theme struct {
	Background   string `yaml:"background" json:"background"`
	Border       string `yaml:"border" json:"border"`
	ActiveBorder string `yaml:"active_border" json:"active_border"`
	Title        string `yaml:"title" json:"title"`
	Cursor       string `yaml:"cursor" json:"cursor"`
	Buffer       string `yaml:"buffer" json:"buffer"`
	Banner       string `yaml:"banner" json:"banner"`
}

// IPCConfig controls the inspection socket.
type IPCConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// ValidationError points at the offending key.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Server:       "ws://127.0.0.1:8081",
		Backend:      BackendAuto,
		Screen:       geom.Size{Width: 640, Height: 400},
		Scale:        2,
		FrameRate:    60,
		Border:       geom.Insets{Left: 1, Right: 1, Top: 10, Bottom: 1},
		ResizeHandle: geom.Size{Width: 10, Height: 10},
		Font:         "./test/font.json",
		CursorGlyph:  1,
		QuitKey:      "Escape",
		Reconnect:    Reconnect{Enabled: true, Backoff: 2 * time.Second},
		Theme: Theme{
			Background:   "magenta",
			Border:       "red",
			ActiveBorder: "red",
			Title:        "black",
			Cursor:       "black",
			Buffer:       "black",
			Banner:       "white",
		},
		LogLevel: "info",
		IPC:      IPCConfig{Enabled: true},
	}
}

// FrameInterval is the time between frames.
func (c *Config) FrameInterval() time.Duration {
	if c.FrameRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.FrameRate)
}

// Validate reports every problem found, joined. Each one is a
// *ValidationError.
func (c *Config) Validate() error {
	var errs []error
	add := func(path string, format string, args ...any) {
		errs = append(errs, &ValidationError{Path: path, Err: fmt.Errorf(format, args...)})
	}

	if u, err := url.Parse(c.Server); err != nil {
		add("server", "invalid URL: %v", err)
	} else if u.Scheme != "ws" && u.Scheme != "wss" {
		add("server", "scheme must be ws or wss, got %q", u.Scheme)
	}

	switch c.Backend {
	case BackendAuto, BackendX11, BackendTerminal, BackendHeadless:
	default:
		add("backend", "unknown backend %q", c.Backend)
	}

	if c.Screen.Width < 1 || c.Screen.Height < 1 {
		add("screen", "must be at least 1x1, got %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if c.Scale < 1 {
		add("scale", "must be >= 1, got %d", c.Scale)
	}
	if c.FrameRate < 1 || c.FrameRate > maxFrameRate {
		add("frame_rate", "must be between 1 and %d, got %d", maxFrameRate, c.FrameRate)
	}

	b := c.Border
	if b.Left < 0 || b.Right < 0 || b.Top < 0 || b.Bottom < 0 {
		add("border", "insets must be >= 0")
	}
	if c.ResizeHandle.Width < 1 || c.ResizeHandle.Height < 1 {
		add("resize_handle", "must be at least 1x1")
	}
	if c.CursorGlyph < 0 {
		add("cursor_glyph", "must be >= 0, got %d", c.CursorGlyph)
	}
	if c.Reconnect.Backoff < 0 {
		add("reconnect.backoff", "must be >= 0, got %s", c.Reconnect.Backoff)
	}

	for key, value := range c.Theme.fields() {
		if _, ok := colors.Resolve(value); !ok {
			add("theme."+key, "unknown color %q", value)
		}
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		add("log_level", "unknown level %q", c.LogLevel)
	}

	return errors.Join(errs...)
}

func (t Theme) fields() map[string]string {
	return map[string]string{
		"background":    t.Background,
		"border":        t.Border,
		"active_border": t.ActiveBorder,
		"title":         t.Title,
		"cursor":        t.Cursor,
		"buffer":        t.Buffer,
		"banner":        t.Banner,
	}
}
