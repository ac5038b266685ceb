package protocol

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"testing"
)

func decodeOne(t *testing.T, frame string) Command {
	t.Helper()
	cmds, err := NewDecoder().Decode([]byte(frame))
	if err != nil {
		t.Fatalf("Decode(%s) error: %v", frame, err)
	}
	if len(cmds) != 1 {
		t.Fatalf("Decode(%s) returned %d commands, want 1", frame, len(cmds))
	}
	return cmds[0]
}

func TestDecodeLifecycle(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  Command
	}{
		{
			name:  "open",
			frame: `{"type":"MAKE_WindowOpenDisplay_name","target":"screen","window":{"id":"w1","x":10,"y":20,"width":100,"height":50,"owner":"app1","window_type":"PLAIN"}}`,
			want: OpenWindow{Target: "screen", Window: WindowDescriptor{
				ID: "w1", X: 10, Y: 20, Width: 100, Height: 50, Owner: "app1", Type: "PLAIN",
			}},
		},
		{
			name:  "close with descriptor",
			frame: `{"type":"WINDOW_CLOSE","target":"screen","window":{"id":"w1","x":0,"y":0,"width":1,"height":1,"owner":"a","window_type":"PLAIN"}}`,
			want:  CloseWindow{Window: "w1"},
		},
		{
			name:  "create child",
			frame: `{"type":"MAKE_create_child_window_display_name","parent":"w1","window":{"id":"c1","x":1,"y":2,"width":3,"height":4,"owner":"app1","window_type":"CHILD","title":"popup"}}`,
			want: CreateChildWindow{Parent: "w1", Window: WindowDescriptor{
				ID: "c1", X: 1, Y: 2, Width: 3, Height: 4, Owner: "app1", Type: "CHILD", Title: "popup",
			}},
		},
		{
			name:  "close child by id",
			frame: `{"type":"MAKE_close_child_window_display_name","window":"c1"}`,
			want:  CloseChildWindow{Window: "c1"},
		},
		{
			name:  "set size",
			frame: `{"type":"window-set-size","window":"w1","width":30,"height":40}`,
			want:  WindowSetSize{Window: "w1", Width: 30, Height: 40},
		},
		{
			name:  "draw pixel",
			frame: `{"type":"MAKE_DrawPixel_name","window":"w1","x":3,"y":4,"color":"red"}`,
			want:  DrawPixel{Window: "w1", X: 3, Y: 4, Color: "red"},
		},
		{
			name:  "draw rect ignores extra fields",
			frame: `{"type":"MAKE_DrawRect_name","window":"w1","x":0,"y":1,"width":5,"height":6,"color":"#00ff00","app":"x"}`,
			want:  DrawRect{Window: "w1", X: 0, Y: 1, Width: 5, Height: 6, Color: "#00ff00"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeOne(t, tt.frame)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeDrawImage(t *testing.T) {
	got := decodeOne(t, `{"type":"MAKE_DrawImage_name","window":"w1","x":1,"y":2,"width":2,"height":1,"depth":1,"color":"red","pixels":[9,9,9,0,9,9,9,255]}`)
	img, ok := got.(DrawImage)
	if !ok {
		t.Fatalf("got %T, want DrawImage", got)
	}
	if img.Depth != 1 || img.Color != "red" {
		t.Fatalf("depth/color = %d/%q", img.Depth, img.Color)
	}
	if !bytes.Equal(img.Pixels, []byte{9, 9, 9, 0, 9, 9, 9, 255}) {
		t.Fatalf("pixels = %v", img.Pixels)
	}
}

func TestDecodeDrawImageDefaults(t *testing.T) {
	got := decodeOne(t, `{"type":"MAKE_DrawImage_name","window":"w1","x":0,"y":0,"width":1,"height":1,"pixels":"AQIDBA=="}`)
	img := got.(DrawImage)
	if img.Depth != 8 || img.Color != "black" {
		t.Fatalf("defaults = %d/%q, want 8/black", img.Depth, img.Color)
	}
	if !bytes.Equal(img.Pixels, []byte{1, 2, 3, 4}) {
		t.Fatalf("pixels = %v", img.Pixels)
	}
}

func TestDecodeConnectedProducesNothing(t *testing.T) {
	cmds, err := NewDecoder().Decode([]byte(`{"type":"MAKE_Connected_name"}`))
	if err != nil || len(cmds) != 0 {
		t.Fatalf("Decode(connected) = %v, %v; want no commands and no error", cmds, err)
	}
}

func TestDecodeUnknownTagIsNotFatal(t *testing.T) {
	d := NewDecoder()
	cmds, err := d.Decode([]byte(`{"type":"FOO","x":1}`))
	var unknown *UnknownTagError
	if !errors.As(err, &unknown) || unknown.Tag != "FOO" {
		t.Fatalf("expected UnknownTagError for FOO, got %v", err)
	}
	if len(cmds) != 0 {
		t.Fatalf("unknown tag produced %d commands", len(cmds))
	}

	next := decodeOne(t, `{"type":"MAKE_DrawPixel_name","window":"w1","x":0,"y":0,"color":"red"}`)
	if _, ok := next.(DrawPixel); !ok {
		t.Fatalf("subsequent frame decoded as %T", next)
	}
}

func TestDecodeMalformed(t *testing.T) {
	frames := []string{
		`not json`,
		`[1,2,3]`,
		`{"x":1}`,
		`{"type":7}`,
		`{"type":"window-set-size","window":"w1","width":3}`,
		`{"type":"window-set-size","window":"w1","width":"3","height":4}`,
		`{"type":"MAKE_DrawImage_name","window":"w1","x":0,"y":0,"width":2,"height":2,"pixels":[0,0,0,0]}`,
		`{"type":"MAKE_DrawImage_name","window":"w1","x":0,"y":0,"width":1,"height":1,"pixels":[0,0,0,256]}`,
		`{"type":"MAKE_DrawImage_name","window":"w1","x":0,"y":0,"width":4611686018427387904,"height":1,"pixels":[]}`,
		`{"type":"MAKE_DrawImage_name","window":"w1","x":0,"y":0,"width":4294967296,"height":4294967296,"pixels":[]}`,
		`{"type":"MAKE_WindowOpenDisplay_name","window":{"id":"w1","x":0,"y":0,"width":-1,"height":1,"owner":"a","window_type":"PLAIN"}}`,
		`{"type":"MAKE_WindowOpenDisplay_name","window":{"id":"w1","x":0,"y":0}}`,
	}
	d := NewDecoder()
	for _, frame := range frames {
		cmds, err := d.Decode([]byte(frame))
		if err == nil {
			t.Errorf("Decode(%s) should fail, got %v", frame, cmds)
		}
		if len(cmds) != 0 {
			t.Errorf("Decode(%s) returned commands %v", frame, cmds)
		}
	}
}

func TestDecodeGroupPreservesOrder(t *testing.T) {
	frame := `{"type":"group-message","category":"graphics","messages":[
		{"type":"MAKE_DrawRect_name","window":"w1","x":0,"y":0,"width":1,"height":1,"color":"red"},
		{"type":"MAKE_DrawImage_name","window":"w1","x":0,"y":0,"width":1,"height":1,"pixels":[1,2,3,4]},
		{"type":"MAKE_DrawRect_name","window":"w2","x":0,"y":0,"width":1,"height":1,"color":"blue"}
	]}`
	cmds, err := NewDecoder().Decode([]byte(frame))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if len(cmds) != 3 {
		t.Fatalf("got %d commands, want 3", len(cmds))
	}
	if r, ok := cmds[0].(DrawRect); !ok || r.Color != "red" {
		t.Fatalf("cmds[0] = %#v", cmds[0])
	}
	if _, ok := cmds[1].(DrawImage); !ok {
		t.Fatalf("cmds[1] = %#v", cmds[1])
	}
	if r, ok := cmds[2].(DrawRect); !ok || r.Window != "w2" {
		t.Fatalf("cmds[2] = %#v", cmds[2])
	}
}

func TestDecodeGroupKeepsGoodSubMessages(t *testing.T) {
	frame := `{"type":"group-message","messages":[
		{"type":"FOO"},
		{"type":"MAKE_DrawRect_name","window":"w1","x":0,"y":0,"width":1,"height":1,"color":"red"}
	]}`
	cmds, err := NewDecoder().Decode([]byte(frame))
	var unknown *UnknownTagError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected the unknown sub-message to be reported, got %v", err)
	}
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1", len(cmds))
	}
}

func TestDecodeWindowListKeepsWireOrder(t *testing.T) {
	frame := `{"type":"MAKE_window_list_name","windows":{
		"zeta":{"id":"zeta","x":0,"y":0,"width":10,"height":10,"owner":"a","window_type":"PLAIN"},
		"alpha":{"x":5,"y":5,"width":20,"height":20,"owner":"b","window_type":"DOCK"}
	}}`
	got := decodeOne(t, frame)
	list, ok := got.(WindowList)
	if !ok {
		t.Fatalf("got %T, want WindowList", got)
	}
	if len(list.Windows) != 2 {
		t.Fatalf("got %d windows, want 2", len(list.Windows))
	}
	if list.Windows[0].ID != "zeta" || list.Windows[1].ID != "alpha" {
		t.Fatalf("order = %s, %s; want zeta, alpha", list.Windows[0].ID, list.Windows[1].ID)
	}
	if list.Windows[1].Type != "DOCK" || list.Windows[1].Owner != "b" {
		t.Fatalf("alpha = %+v", list.Windows[1])
	}
}

func TestImageBytes(t *testing.T) {
	tests := []struct {
		width, height int
		want          int
		ok            bool
	}{
		{0, 0, 0, true},
		{2, 3, 24, true},
		{0, math.MaxInt, 0, true},
		{-1, 1, 0, false},
		{1 << 62, 1, 0, false},
		{1 << 32, 1 << 32, 0, false},
		{math.MaxInt, 2, 0, false},
	}
	for _, tt := range tests {
		got, ok := ImageBytes(tt.width, tt.height)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ImageBytes(%d, %d) = %d, %v; want %d, %v", tt.width, tt.height, got, ok, tt.want, tt.ok)
		}
	}
}
