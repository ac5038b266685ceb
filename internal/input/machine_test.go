package input

import (
	"reflect"
	"slices"
	"testing"

	"github.com/1broseidon/idealdisplay/internal/geom"
	"github.com/1broseidon/idealdisplay/internal/platform"
	"github.com/1broseidon/idealdisplay/internal/protocol"
	"github.com/1broseidon/idealdisplay/internal/window"
)

type recorder struct {
	msgs []protocol.Outgoing
}

func (r *recorder) Send(msg protocol.Outgoing) {
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) tags() []string {
	out := make([]string, 0, len(r.msgs))
	for _, m := range r.msgs {
		out = append(out, m.Tag())
	}
	return out
}

type sizes map[string]geom.Size

func (s sizes) Create(id string, w, h int) error {
	s[id] = geom.Size{Width: w, Height: h}
	return nil
}

func (s sizes) Destroy(id string) { delete(s, id) }

var testGeometry = Geometry{
	Scale:        2,
	Border:       geom.Insets{Left: 1, Right: 1, Top: 10, Bottom: 1},
	ResizeHandle: geom.Size{Width: 10, Height: 10},
}

func setup(t *testing.T, wins ...window.Window) (*Machine, *window.Registry, *recorder, sizes) {
	t.Helper()
	bufs := sizes{}
	reg := window.NewRegistry(bufs, nil)
	for _, w := range wins {
		reg.Open(w)
	}
	rec := &recorder{}
	return NewMachine(reg, rec, testGeometry, nil), reg, rec, bufs
}

// screen converts a virtual point to screen pixels at the test scale.
func screen(x, y int) geom.Point {
	return geom.Point{X: x, Y: y}.Mul(testGeometry.Scale)
}

func w1() window.Window {
	return window.Window{ID: "w1", Owner: "app1", Type: "PLAIN", X: 10, Y: 10, Width: 100, Height: 50}
}

func TestClickFocusesRaisesAndSendsMouseDown(t *testing.T) {
	other := window.Window{ID: "w0", Owner: "app0", Type: "PLAIN", X: 300, Y: 300, Width: 10, Height: 10}
	m, reg, rec, _ := setup(t, w1(), other)

	m.PointerDown(screen(20, 20), platform.ButtonLeft)

	want := []protocol.Outgoing{
		protocol.NewSetFocusedWindow("w1"),
		protocol.MouseDown{Type: protocol.TagMouseDown, X: 10, Y: 10, Target: "app1", Window: "w1"},
	}
	if !reflect.DeepEqual(rec.msgs, want) {
		t.Fatalf("messages = %#v, want %#v", rec.msgs, want)
	}
	if m.Active() != "w1" {
		t.Fatalf("Active = %q, want w1", m.Active())
	}
	if got := reg.Order(); !slices.Equal(got, []string{"w0", "w1"}) {
		t.Fatalf("Order = %v, want w1 raised", got)
	}
	if m.State().Phase != PhaseIdle {
		t.Fatalf("content click should not start a drag, phase %v", m.State().Phase)
	}

	rec.msgs = nil
	m.PointerUp(screen(200, 5), platform.ButtonLeft)
	wantUp := []protocol.Outgoing{
		protocol.MouseUp{Type: protocol.TagMouseUp, X: 190, Y: -5, Target: "app1", Window: "w1"},
	}
	if !reflect.DeepEqual(rec.msgs, wantUp) {
		t.Fatalf("messages = %#v, want %#v", rec.msgs, wantUp)
	}
}

func TestNonLeftButtonIgnored(t *testing.T) {
	m, _, rec, _ := setup(t, w1())
	m.PointerDown(screen(20, 20), platform.ButtonRight)
	if len(rec.msgs) != 0 || m.Active() != "" {
		t.Fatalf("right click produced %v", rec.tags())
	}
}

func TestNonPlainContentHitDoesNotFocus(t *testing.T) {
	dock := window.Window{ID: "dock", Owner: "dockapp", Type: "DOCK", X: 0, Y: 0, Width: 50, Height: 20}
	m, reg, rec, _ := setup(t, dock, w1())

	m.PointerDown(screen(5, 5), platform.ButtonLeft)
	if got := rec.tags(); !slices.Equal(got, []string{protocol.TagMouseDown}) {
		t.Fatalf("tags = %v, want only MouseDown", got)
	}
	if m.Active() != "" {
		t.Fatalf("DOCK click should not focus")
	}
	if got := reg.Order(); !slices.Equal(got, []string{"dock", "w1"}) {
		t.Fatalf("DOCK click should not raise, order %v", got)
	}
}

func TestResizeHandleWinsOverContentBelow(t *testing.T) {
	b := window.Window{ID: "B", Owner: "appB", Type: "PLAIN", X: 0, Y: 0, Width: 200, Height: 200}
	a := window.Window{ID: "A", Owner: "appA", Type: "PLAIN", X: 20, Y: 20, Width: 50, Height: 50}
	m, reg, rec, _ := setup(t, b, a)

	m.PointerDown(screen(65, 65), platform.ButtonLeft)

	st := m.State()
	if st.Phase != PhaseResizing || st.Target != "A" {
		t.Fatalf("state = %+v, want resizing A", st)
	}
	if len(rec.msgs) != 0 {
		t.Fatalf("resize press sent %v", rec.tags())
	}
	if got := reg.Order(); !slices.Equal(got, []string{"B", "A"}) {
		t.Fatalf("order changed: %v", got)
	}
}

func TestOverlappingContentHitsAllReceiveMouseDown(t *testing.T) {
	b := window.Window{ID: "B", Owner: "appB", Type: "PLAIN", X: 0, Y: 0, Width: 200, Height: 200}
	a := window.Window{ID: "A", Owner: "appA", Type: "PLAIN", X: 20, Y: 20, Width: 50, Height: 50}
	m, _, rec, _ := setup(t, b, a)

	m.PointerDown(screen(30, 30), platform.ButtonLeft)

	var targets []string
	for _, msg := range rec.msgs {
		if down, ok := msg.(protocol.MouseDown); ok {
			targets = append(targets, down.Window)
		}
	}
	if !slices.Equal(targets, []string{"A", "B"}) {
		t.Fatalf("MouseDown targets = %v, want [A B]", targets)
	}
}

func TestDragMovesAndCommitsPosition(t *testing.T) {
	m, reg, rec, _ := setup(t, w1())

	m.PointerDown(screen(20, 5), platform.ButtonLeft)
	if st := m.State(); st.Phase != PhaseDragging || st.Target != "w1" {
		t.Fatalf("state = %+v, want dragging w1", st)
	}

	m.PointerDrag(screen(40, 30))
	w, _ := reg.Get("w1")
	if w.Origin() != (geom.Point{X: 40, Y: 30}) {
		t.Fatalf("origin after drag = %v", w.Origin())
	}

	m.PointerUp(screen(41, 31), platform.ButtonLeft)
	want := []protocol.Outgoing{protocol.NewWindowSetPosition("app1", "w1", geom.Point{X: 40, Y: 30})}
	if !reflect.DeepEqual(rec.msgs, want) {
		t.Fatalf("messages = %#v, want %#v", rec.msgs, want)
	}
	if m.State().Phase != PhaseIdle {
		t.Fatalf("phase after release = %v", m.State().Phase)
	}
}

func TestResizeCommitsSizeAndRecreatesBuffer(t *testing.T) {
	m, reg, rec, bufs := setup(t, w1())

	m.PointerDown(screen(105, 55), platform.ButtonLeft)
	m.PointerDrag(screen(130, 70))
	w, _ := reg.Get("w1")
	if w.Size() != (geom.Size{Width: 120, Height: 60}) {
		t.Fatalf("size during resize = %+v", w.Size())
	}
	if bufs["w1"] != (geom.Size{Width: 100, Height: 50}) {
		t.Fatalf("buffer should keep its size until release, got %+v", bufs["w1"])
	}

	m.PointerUp(screen(150, 80), platform.ButtonLeft)
	want := []protocol.Outgoing{protocol.NewSetSizeRequest("app1", "w1", geom.Size{Width: 140, Height: 70})}
	if !reflect.DeepEqual(rec.msgs, want) {
		t.Fatalf("messages = %#v, want %#v", rec.msgs, want)
	}
	if bufs["w1"] != (geom.Size{Width: 140, Height: 70}) {
		t.Fatalf("buffer after release = %+v", bufs["w1"])
	}
}

func TestDragTargetClosedMidDrag(t *testing.T) {
	m, reg, rec, _ := setup(t, w1())
	m.PointerDown(screen(20, 5), platform.ButtonLeft)
	reg.Close("w1")

	m.PointerDrag(screen(50, 50))
	m.PointerUp(screen(50, 50), platform.ButtonLeft)
	if len(rec.msgs) != 0 {
		t.Fatalf("closed target produced %v", rec.tags())
	}
	if m.State().Phase != PhaseIdle {
		t.Fatalf("phase = %v, want idle", m.State().Phase)
	}
}

func TestReleaseEndsDragForAnyButton(t *testing.T) {
	m, _, rec, _ := setup(t, w1())
	m.PointerDown(screen(20, 5), platform.ButtonLeft)
	m.PointerUp(screen(20, 5), platform.ButtonRight)
	if m.State().Phase != PhaseIdle {
		t.Fatalf("phase = %v, want idle", m.State().Phase)
	}
	if got := rec.tags(); !slices.Equal(got, []string{protocol.TagWindowSetPosition}) {
		t.Fatalf("tags = %v", got)
	}
}

func TestKeyDownRequiresFocus(t *testing.T) {
	m, _, rec, _ := setup(t, w1())
	m.KeyDown("A", platform.Modifiers{})
	if len(rec.msgs) != 0 {
		t.Fatalf("unfocused key sent %v", rec.tags())
	}

	m.PointerDown(screen(20, 20), platform.ButtonLeft)
	rec.msgs = nil
	m.KeyDown("A", platform.Modifiers{Shift: true, Control: true})

	want := []protocol.Outgoing{protocol.KeyboardDown{
		Type:    protocol.TagKeyboardDown,
		Code:    "KeyA",
		Key:     "A",
		Shift:   true,
		Control: true,
		App:     "app1",
		Target:  "app1",
		Window:  "w1",
	}}
	if !reflect.DeepEqual(rec.msgs, want) {
		t.Fatalf("messages = %#v, want %#v", rec.msgs, want)
	}
}

func TestKeyDownAfterFocusedWindowClosed(t *testing.T) {
	m, reg, rec, _ := setup(t, w1())
	m.PointerDown(screen(20, 20), platform.ButtonLeft)
	reg.Close("w1")
	rec.msgs = nil

	m.KeyDown("A", platform.Modifiers{})
	if len(rec.msgs) != 0 || m.Active() != "" {
		t.Fatalf("key to closed window: msgs %v active %q", rec.tags(), m.Active())
	}
}
