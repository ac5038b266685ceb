package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/thejerf/suture/v4"

	"github.com/1broseidon/idealdisplay/internal/geom"
	"github.com/1broseidon/idealdisplay/internal/protocol"
	"github.com/1broseidon/idealdisplay/internal/queue"
)

// peer upgrades one connection and hands it to script.
func peer(t *testing.T, script func(*websocket.Conn)) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		script(conn)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func pull(t *testing.T, q *queue.Queue[protocol.Command]) protocol.Command {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cmd, ok := q.Pull(ctx)
	if !ok {
		t.Fatalf("timed out waiting for a command")
	}
	return cmd
}

func readType(t *testing.T, conn *websocket.Conn) (string, []byte) {
	t.Helper()
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Errorf("peer read: %v", err)
		return "", nil
	}
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		t.Errorf("peer decode: %v", err)
	}
	return head.Type, data
}

func TestSessionRoundTrip(t *testing.T) {
	gotMouse := make(chan string, 1)
	url := peer(t, func(conn *websocket.Conn) {
		if tag, _ := readType(t, conn); tag != protocol.TagScreenStart {
			t.Errorf("first frame = %q, want ScreenStart", tag)
			return
		}
		frames := []string{
			`{"type":"MAKE_Connected_name"}`,
			`{"type":"FOO"}`,
			`{"type":"MAKE_WindowOpenDisplay_name","target":"screen","window":{"id":"w1","x":1,"y":2,"width":3,"height":4,"owner":"app1","window_type":"PLAIN"}}`,
		}
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				t.Errorf("peer write: %v", err)
				return
			}
		}
		_, data := readType(t, conn)
		gotMouse <- string(data)
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
	})

	in := queue.New[protocol.Command]("inbound")
	out := queue.New[protocol.Outgoing]("outbound")
	out.Push(protocol.NewMouseUp("stale", "stale", geom.Point{}))
	s := New(Options{URL: url, Inbound: in, Outbound: out})

	done := make(chan error, 1)
	go func() { done <- s.Serve(context.Background()) }()

	up, ok := pull(t, in).(protocol.LinkUp)
	if !ok || up.Session == "" {
		t.Fatalf("first command = %#v, want LinkUp with a session id", up)
	}
	want := protocol.OpenWindow{Target: "screen", Window: protocol.WindowDescriptor{
		ID: "w1", X: 1, Y: 2, Width: 3, Height: 4, Owner: "app1", Type: "PLAIN",
	}}
	if got := pull(t, in); !reflect.DeepEqual(got, want) {
		t.Fatalf("second command = %#v, want %#v", got, want)
	}

	out.Push(protocol.NewMouseDown("app1", "w1", geom.Point{X: 5, Y: 6}))
	select {
	case data := <-gotMouse:
		if !strings.Contains(data, `"window":"w1"`) {
			t.Fatalf("peer received %s, want the MouseDown for w1", data)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("peer never received MouseDown")
	}

	down, ok := pull(t, in).(protocol.LinkDown)
	if !ok || down.Session != up.Session {
		t.Fatalf("last command = %#v, want LinkDown for %s", down, up.Session)
	}
	select {
	case err := <-done:
		if !errors.Is(err, suture.ErrDoNotRestart) {
			t.Fatalf("Serve = %v, want ErrDoNotRestart without reconnect", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Serve did not return")
	}
}

func TestSessionDialFailureQueuesLinkDown(t *testing.T) {
	in := queue.New[protocol.Command]("inbound")
	out := queue.New[protocol.Outgoing]("outbound")
	s := New(Options{URL: "ws://127.0.0.1:1/", Reconnect: true, Inbound: in, Outbound: out})

	err := s.Serve(context.Background())
	if err == nil || errors.Is(err, suture.ErrDoNotRestart) {
		t.Fatalf("Serve = %v, want a restartable dial error", err)
	}
	if _, ok := pull(t, in).(protocol.LinkDown); !ok {
		t.Fatalf("want LinkDown after a failed dial")
	}
}

func TestSessionStopsOnCancel(t *testing.T) {
	url := peer(t, func(conn *websocket.Conn) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	in := queue.New[protocol.Command]("inbound")
	out := queue.New[protocol.Outgoing]("outbound")
	s := New(Options{URL: url, Reconnect: true, Inbound: in, Outbound: out})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	if _, ok := pull(t, in).(protocol.LinkUp); !ok {
		t.Fatalf("want LinkUp")
	}
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Serve = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Serve did not stop after cancel")
	}
}
