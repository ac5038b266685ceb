// Package transport carries protocol frames between the remote peer and the
// presentation loop over a websocket. Decoded commands go onto the inbound
// queue and outgoing messages are pulled from the outbound queue, so the
// loop never touches the network.
package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/thejerf/suture/v4"

	"github.com/1broseidon/idealdisplay/internal/protocol"
	"github.com/1broseidon/idealdisplay/internal/queue"
)

const (
	handshakeTimeout = 10 * time.Second
	closeGrace       = time.Second
)

var errPeerClosed = errors.New("peer closed the connection")

// Options configures a Session.
type Options struct {
	URL       string
	Header    http.Header
	Reconnect bool
	Backoff   time.Duration
	Inbound   *queue.Queue[protocol.Command]
	Outbound  *queue.Queue[protocol.Outgoing]
	Dialer    *websocket.Dialer
	Logger    *slog.Logger
}

// Session is one logical connection to the peer. It implements
// suture.Service: each Serve call dials, runs until the link drops and
// returns, and the supervisor decides whether to dial again.
type Session struct {
	opts    Options
	decoder *protocol.Decoder
	dialer  *websocket.Dialer
	logger  *slog.Logger
}

// New prepares a session. Serve does the dialing.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	dialer := opts.Dialer
	if dialer == nil {
		dialer = &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeTimeout,
		}
	}
	return &Session{
		opts:    opts,
		decoder: protocol.NewDecoder(),
		dialer:  dialer,
		logger:  logger.With("component", "transport"),
	}
}

func (s *Session) String() string {
	return "transport " + s.opts.URL
}

// Serve dials the peer and pumps frames until the connection ends or ctx is
// cancelled. LinkUp is queued once the ScreenStart handshake is written and
// LinkDown whenever the attempt ends.
func (s *Session) Serve(ctx context.Context) error {
	conn, _, err := s.dialer.DialContext(ctx, s.opts.URL, s.opts.Header)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err = fmt.Errorf("dial %s: %w", s.opts.URL, err)
		s.linkDown("", err)
		return s.retry(ctx, err)
	}

	id := uuid.NewString()
	if stale := s.opts.Outbound.Drain(); len(stale) > 0 {
		s.logger.Debug("dropped stale outgoing messages", "count", len(stale))
	}
	s.logger.Info("connected", "server", s.opts.URL, "session", id)

	err = s.pump(ctx, conn, id)
	s.linkDown(id, err)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return s.retry(ctx, err)
}

func (s *Session) pump(ctx context.Context, conn *websocket.Conn, id string) error {
	defer conn.Close()

	if err := s.write(conn, protocol.NewScreenStart()); err != nil {
		return err
	}
	s.opts.Inbound.Push(protocol.LinkUp{Session: id})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	readErr := make(chan error, 1)
	go func() {
		readErr <- s.readLoop(conn)
		cancel()
	}()

	for {
		msg, ok := s.opts.Outbound.Pull(ctx)
		if !ok {
			break
		}
		if err := s.write(conn, msg); err != nil {
			conn.Close()
			<-readErr
			return err
		}
	}

	select {
	case err := <-readErr:
		return err
	default:
	}

	// Shutting down from our side.
	deadline := time.Now().Add(closeGrace)
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	conn.Close()
	<-readErr
	return context.Canceled
}

func (s *Session) readLoop(conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return errPeerClosed
			}
			return fmt.Errorf("read: %w", err)
		}

		cmds, err := s.decoder.Decode(data)
		if err != nil {
			s.logDecodeError(err)
		}
		for _, cmd := range cmds {
			s.opts.Inbound.Push(cmd)
		}
	}
}

func (s *Session) logDecodeError(err error) {
	var unknown *protocol.UnknownTagError
	if errors.As(err, &unknown) {
		s.logger.Warn("ignoring unknown message", "type", unknown.Tag)
		return
	}
	s.logger.Warn("dropping malformed frame", "error", err)
}

func (s *Session) write(conn *websocket.Conn, msg protocol.Outgoing) error {
	data, err := protocol.Encode(msg)
	if err != nil {
		s.logger.Error("encode outgoing message", "type", msg.Tag(), "error", err)
		return nil
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write %s: %w", msg.Tag(), err)
	}
	return nil
}

func (s *Session) linkDown(id string, err error) {
	reason := "closed"
	if err != nil {
		reason = err.Error()
	}
	if id != "" {
		s.logger.Info("disconnected", "session", id, "reason", reason)
	}
	s.opts.Inbound.Push(protocol.LinkDown{Session: id, Reason: reason})
}

// retry waits out the backoff before handing err back to the supervisor.
// Without reconnect the service asks not to be restarted.
func (s *Session) retry(ctx context.Context, err error) error {
	if !s.opts.Reconnect {
		s.logger.Info("reconnect disabled, transport stopped", "reason", err)
		return suture.ErrDoNotRestart
	}
	s.logger.Warn("link lost, retrying", "error", err, "backoff", s.opts.Backoff)
	if s.opts.Backoff > 0 {
		timer := time.NewTimer(s.opts.Backoff)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
