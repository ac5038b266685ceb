package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/1broseidon/idealdisplay/internal/client"
	"github.com/1broseidon/idealdisplay/internal/config"
	"github.com/1broseidon/idealdisplay/internal/geom"
	"github.com/1broseidon/idealdisplay/internal/glyph"
	"github.com/1broseidon/idealdisplay/internal/ipc"
	"github.com/1broseidon/idealdisplay/internal/platform"
	"github.com/1broseidon/idealdisplay/internal/protocol"
	"github.com/1broseidon/idealdisplay/internal/queue"
	"github.com/1broseidon/idealdisplay/internal/runtimepath"
	"github.com/1broseidon/idealdisplay/internal/transport"
)

const shutdownGrace = 3 * time.Second

// overrides are command-line settings that win over the config file.
type overrides struct {
	server  string
	backend string
}

func (o overrides) apply(cfg *config.Config) *config.Config {
	if o.server != "" {
		cfg.Server = o.server
	}
	if o.backend != "" {
		cfg.Backend = o.backend
	}
	return cfg
}

func runRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/idealdisplay/config.yaml)")
	var ov overrides
	fs.StringVar(&ov.server, "server", "", "Server URL, overriding the config")
	fs.StringVar(&ov.backend, "backend", "", "Backend (auto, x11, terminal, headless), overriding the config")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: idealdisplay run [--config PATH] [--server URL] [--backend NAME]")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	cfg := ov.apply(res.Config)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid settings: %v\n", err)
		return 1
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()
	slog.SetDefault(logger)

	logger.Info("starting", "version", version, "config", res.Path, "config_exists", res.Exists, "server", cfg.Server)

	font, err := glyph.Load(cfg.Font)
	if err != nil {
		logger.Warn("font unavailable, titles and cursor will not be drawn", "error", err)
	}

	size := geom.Size{Width: cfg.Screen.Width * cfg.Scale, Height: cfg.Screen.Height * cfg.Scale}
	backend, err := platform.Open(cfg.Backend, platform.Options{Title: "idealdisplay", Size: size, Logger: logger})
	if err != nil {
		logger.Error("failed to open display backend", "backend", cfg.Backend, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer backend.Close()
	logger.Info("display backend ready", "backend", backend.Name(), "width", size.Width, "height", size.Height)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	inbound := queue.New[protocol.Command]("inbound")
	outbound := queue.New[protocol.Outgoing]("outbound")

	reload := func() (*config.Config, error) {
		r, err := config.LoadFromPath(res.Path)
		if err != nil {
			return nil, err
		}
		return ov.apply(r.Config), nil
	}
	display := client.New(client.Options{
		Config:   cfg,
		Backend:  backend,
		Font:     font,
		Inbound:  inbound,
		Outbound: outbound,
		Loader:   reload,
		Logger:   logger,
	})

	topts := transport.Options{
		URL:       cfg.Server,
		Reconnect: cfg.Reconnect.Enabled,
		Backoff:   cfg.Reconnect.Backoff,
		Inbound:   inbound,
		Outbound:  outbound,
		Logger:    logger,
	}
	supervisorDone := transport.Supervise(ctx, transport.New(topts), topts)

	if cfg.IPC.Enabled {
		srv, err := ipc.NewServer(display, logger)
		if err != nil {
			logger.Warn("IPC disabled", "error", err)
		} else if err := srv.Start(); err != nil {
			logger.Warn("IPC disabled", "error", err)
		} else {
			defer srv.Stop()
		}
	}

	go func() {
		onChange := func(next *config.Config) { display.ApplyConfig(ov.apply(next)) }
		if err := config.Watch(ctx, res.Path, onChange, logger); err != nil {
			logger.Debug("config watch unavailable", "error", err)
		}
	}()

	runErr := display.Run(ctx)
	cancel()

	select {
	case <-supervisorDone:
	case <-time.After(shutdownGrace):
		logger.Warn("transport did not stop in time")
	}

	if runErr != nil {
		logger.Error("presentation loop failed", "error", runErr)
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		return 1
	}
	logger.Info("stopped")
	return 0
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromPath(path)
}

// newLogger writes to stderr unless a log file is configured or the
// terminal backend owns the tty.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	opts := &slog.HandlerOptions{Level: config.ParseLogLevel(cfg.LogLevel)}

	path := cfg.LogFile
	if path == "" && ownsTerminal(cfg.Backend) {
		var err error
		if path, err = runtimepath.LogPath(); err != nil {
			return nil, nil, fmt.Errorf("resolve log path: %w", err)
		}
	}
	if path == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, opts)), func() { f.Close() }, nil
}

// ownsTerminal reports whether the chosen backend will draw on this tty,
// mirroring platform.Open's auto selection.
func ownsTerminal(backend string) bool {
	switch backend {
	case config.BackendTerminal:
		return true
	case config.BackendAuto, "":
		return os.Getenv("DISPLAY") == "" && term.IsTerminal(int(os.Stdout.Fd()))
	default:
		return false
	}
}
