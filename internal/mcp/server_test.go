package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/1broseidon/idealdisplay/internal/ipc"
)

type fakeInspector struct {
	status    ipc.StatusData
	windows   []ipc.WindowInfo
	err       error
	reloadErr error
}

func (f *fakeInspector) GetStatus() (*ipc.StatusData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &f.status, nil
}

func (f *fakeInspector) ListWindows() (*ipc.WindowsData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ipc.WindowsData{Windows: f.windows}, nil
}

func (f *fakeInspector) Reload() error { return f.reloadErr }

func TestGetStatus(t *testing.T) {
	f := &fakeInspector{status: ipc.StatusData{Server: "ws://x", Connected: true, Windows: 3}}
	s := newServer(f, "test")

	_, got, err := s.handleGetStatus(context.Background(), nil, GetStatusInput{})
	if err != nil {
		t.Fatalf("handleGetStatus: %v", err)
	}
	if got != f.status {
		t.Fatalf("status = %+v, want %+v", got, f.status)
	}
}

func TestListWindowsFilters(t *testing.T) {
	f := &fakeInspector{windows: []ipc.WindowInfo{
		{ID: "a", Owner: "app1", Type: "PLAIN"},
		{ID: "b", Owner: "app2", Type: "DOCK"},
		{ID: "c", Owner: "app1", Type: "DOCK"},
	}}
	s := newServer(f, "test")

	tests := []struct {
		name string
		in   ListWindowsInput
		want []string
	}{
		{"all", ListWindowsInput{}, []string{"a", "b", "c"}},
		{"owner", ListWindowsInput{Owner: "app1"}, []string{"a", "c"}},
		{"type is case-insensitive", ListWindowsInput{Type: "dock"}, []string{"b", "c"}},
		{"both", ListWindowsInput{Owner: "app1", Type: "DOCK"}, []string{"c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := s.handleListWindows(context.Background(), nil, tt.in)
			if err != nil {
				t.Fatalf("handleListWindows: %v", err)
			}
			var ids []string
			for _, w := range out.Windows {
				ids = append(ids, w.ID)
			}
			if strings.Join(ids, ",") != strings.Join(tt.want, ",") || out.Count != len(tt.want) {
				t.Fatalf("ids = %v (count %d), want %v", ids, out.Count, tt.want)
			}
		})
	}
}

func TestToolErrorsAreWrapped(t *testing.T) {
	f := &fakeInspector{err: errors.New("no socket"), reloadErr: errors.New("bad yaml")}
	s := newServer(f, "test")

	if _, _, err := s.handleGetStatus(context.Background(), nil, GetStatusInput{}); err == nil || !strings.Contains(err.Error(), "no socket") {
		t.Fatalf("get_status err = %v", err)
	}
	if _, _, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{}); err == nil {
		t.Fatalf("list_windows should fail")
	}
	_, out, err := s.handleReloadConfig(context.Background(), nil, ReloadConfigInput{})
	if err == nil || out.Reloaded {
		t.Fatalf("reload_config = %+v, %v", out, err)
	}
}
