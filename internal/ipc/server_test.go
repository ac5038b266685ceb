package ipc

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync/atomic"
	"testing"
)

type fakeProvider struct {
	status    StatusData
	windows   []WindowInfo
	reloadErr error
	reloads   atomic.Int32
}

func (f *fakeProvider) Status(context.Context) (StatusData, error) { return f.status, nil }

func (f *fakeProvider) Windows(context.Context) ([]WindowInfo, error) { return f.windows, nil }

func (f *fakeProvider) Reload(context.Context) error {
	f.reloads.Add(1)
	return f.reloadErr
}

func makeShortTempDir(t *testing.T) (string, error) {
	t.Helper()
	dir, err := os.MkdirTemp("", "idd")
	if err != nil {
		return "", err
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir, nil
}

func startServer(t *testing.T, p Provider) *Client {
	t.Helper()
	// Short runtime dir keeps the socket path under the unix limit.
	dir, err := makeShortTempDir(t)
	if err != nil {
		t.Fatalf("temp dir: %v", err)
	}
	t.Setenv("XDG_RUNTIME_DIR", dir)

	srv, err := NewServer(p, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return NewClient()
}

func TestStatusRoundTrip(t *testing.T) {
	p := &fakeProvider{status: StatusData{Server: "ws://x", Connected: true, Windows: 2, Interaction: "idle"}}
	c := startServer(t, p)

	got, err := c.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if *got != p.status {
		t.Fatalf("status = %+v, want %+v", *got, p.status)
	}
	if err := c.Ping(); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestListWindowsRoundTrip(t *testing.T) {
	p := &fakeProvider{windows: []WindowInfo{
		{ID: "w1", Owner: "app1", Type: "PLAIN", Width: 10, Height: 10, HasBuffer: true},
		{ID: "w2", Owner: "app1", Type: "DOCK", Z: 1, Focused: true},
	}}
	c := startServer(t, p)

	got, err := c.ListWindows()
	if err != nil {
		t.Fatalf("ListWindows: %v", err)
	}
	if len(got.Windows) != 2 || got.Windows[1] != p.windows[1] {
		t.Fatalf("windows = %+v", got.Windows)
	}
}

func TestEmptyWindowListIsNotNull(t *testing.T) {
	c := startServer(t, &fakeProvider{})
	resp, err := c.exchange(CommandListWindows)
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if string(resp.Data) != `{"windows":[]}` {
		t.Fatalf("data = %s", resp.Data)
	}
}

func TestReloadErrorsPropagate(t *testing.T) {
	p := &fakeProvider{reloadErr: errors.New("bad yaml")}
	c := startServer(t, p)

	err := c.Reload()
	if err == nil || !strings.Contains(err.Error(), "bad yaml") {
		t.Fatalf("Reload = %v, want the provider error", err)
	}
	if n := p.reloads.Load(); n != 1 {
		t.Fatalf("reloads = %d, want 1", n)
	}
}

func TestUnknownCommand(t *testing.T) {
	c := startServer(t, &fakeProvider{})
	_, err := c.exchange("APPLY_LAYOUT")
	if err == nil || !strings.Contains(err.Error(), "Unknown command") {
		t.Fatalf("err = %v, want unknown command", err)
	}
}

func TestClientWithoutServer(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	if err := NewClient().Ping(); err == nil {
		t.Fatalf("Ping without a server should fail")
	}
}
