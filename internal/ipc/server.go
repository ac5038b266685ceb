package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/1broseidon/idealdisplay/internal/runtimepath"
)

const requestTimeout = 5 * time.Second

// Provider answers inspection requests. Implementations must be safe to
// call from the server's connection goroutines.
type Provider interface {
	Status(ctx context.Context) (StatusData, error)
	Windows(ctx context.Context) ([]WindowInfo, error)
	Reload(ctx context.Context) error
}

// Server answers requests on the runtime socket, one request per
// connection.
type Server struct {
	socketPath string
	listener   net.Listener
	provider   Provider
	handlers   map[CommandType]func(context.Context) *Response
	closing    atomic.Bool
	logger     *slog.Logger
}

// NewServer removes any stale socket at the runtime path; Start binds it.
func NewServer(provider Provider, logger *slog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("resolve IPC socket path: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	os.Remove(socketPath)

	s := &Server{
		socketPath: socketPath,
		provider:   provider,
		logger:     logger.With("component", "ipc"),
	}
	s.handlers = map[CommandType]func(context.Context) *Response{
		CommandReload:      s.reload,
		CommandGetStatus:   s.status,
		CommandListWindows: s.windows,
	}
	return s, nil
}

func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.socketPath, err)
	}
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("restrict %s: %w", s.socketPath, err)
	}
	s.listener = listener
	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.closing.Load() {
				return
			}
			s.logger.Warn("IPC accept failed", "error", err)
			continue
		}
		go s.serve(conn)
	}
}

func (s *Server) serve(conn net.Conn) {
	defer conn.Close()

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read failed", "error", err)
		return
	}

	var resp *Response
	if req, err := ParseRequest(line); err != nil {
		resp = NewErrorResponse(fmt.Sprintf("Invalid request: %v", err))
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		resp = s.dispatch(ctx, req.Command)
		cancel()
	}

	if err := json.NewEncoder(conn).Encode(resp); err != nil {
		s.logger.Warn("IPC reply failed", "error", err)
	}
}

func (s *Server) dispatch(ctx context.Context, command CommandType) *Response {
	s.logger.Debug("IPC request", "command", command)
	handler, ok := s.handlers[command]
	if !ok {
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", command))
	}
	return handler(ctx)
}

func (s *Server) reload(ctx context.Context) *Response {
	if err := s.provider.Reload(ctx); err != nil {
		return NewErrorResponse(fmt.Sprintf("reload config: %v", err))
	}
	return &Response{Status: StatusOK}
}

func (s *Server) status(ctx context.Context) *Response {
	status, err := s.provider.Status(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("get status: %v", err))
	}
	return okOrError(status)
}

// windows always encodes a list, never null.
func (s *Server) windows(ctx context.Context) *Response {
	windows, err := s.provider.Windows(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("list windows: %v", err))
	}
	if windows == nil {
		windows = []WindowInfo{}
	}
	return okOrError(WindowsData{Windows: windows})
}

func okOrError(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// Stop closes the listener and removes the socket. In-flight requests
// finish on their own.
func (s *Server) Stop() {
	s.closing.Store(true)
	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
