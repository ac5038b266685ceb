package platform

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/1broseidon/idealdisplay/internal/geom"
)

// Backend kinds accepted by Open.
const (
	KindAuto     = "auto"
	KindX11      = "x11"
	KindTerminal = "terminal"
	KindHeadless = "headless"
)

// Kinds lists the accepted backend names.
var Kinds = []string{KindAuto, KindX11, KindTerminal, KindHeadless}

// Options configures Open.
type Options struct {
	Title  string
	Size   geom.Size // screen pixels
	Logger *slog.Logger
}

// Open creates the named backend. "auto" prefers X11 when $DISPLAY is set,
// then the terminal when stdout is a tty, then headless.
func Open(kind string, opts Options) (Backend, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch kind {
	case KindX11:
		return openX11(opts.Title, opts.Size)
	case KindTerminal:
		return NewTerminal(opts.Size)
	case KindHeadless:
		return NewHeadless(opts.Size)
	case KindAuto, "":
	default:
		return nil, fmt.Errorf("unknown backend %q", kind)
	}

	if os.Getenv("DISPLAY") != "" {
		b, err := openX11(opts.Title, opts.Size)
		if err == nil {
			return b, nil
		}
		logger.Warn("x11 backend unavailable", "error", err)
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return NewTerminal(opts.Size)
	}
	logger.Info("no display or terminal, rendering headless")
	return NewHeadless(opts.Size)
}
