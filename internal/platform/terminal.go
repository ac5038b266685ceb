package platform

import (
	"strings"
	"sync"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/1broseidon/idealdisplay/internal/geom"
)

// Terminal draws the screen with half-block cells: each cell shows two
// vertically stacked pixels, top in the foreground and bottom in the
// background color.
type Terminal struct {
	screen tcell.Screen
	raster *Raster

	mu      sync.Mutex
	events  []Event
	pointer geom.Point
	buttons tcell.ButtonMask
	step    int

	done chan struct{}
}

var _ Backend = (*Terminal)(nil)

// NewTerminal takes over the controlling terminal.
func NewTerminal(size geom.Size) (*Terminal, error) {
	raster, err := NewRaster(size.Width, size.Height)
	if err != nil {
		return nil, err
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()
	screen.HideCursor()

	t := &Terminal{
		screen: screen,
		raster: raster,
		done:   make(chan struct{}),
	}
	t.resize()
	go t.handleTcellEvents()
	return t, nil
}

func (t *Terminal) Name() string { return "terminal" }

func (t *Terminal) NewSurface(width, height int) (Surface, error) {
	return NewRaster(width, height)
}

func (t *Terminal) Screen() Surface { return t.raster }

// resize picks the pixel step so the whole raster fits the terminal.
func (t *Terminal) resize() {
	cols, rows := t.screen.Size()
	size := t.raster.Size()
	step := 1
	if cols > 0 && rows > 0 {
		step = max(ceilDiv(size.Width, cols), ceilDiv(size.Height, rows*2), 1)
	}
	t.mu.Lock()
	t.step = step
	t.mu.Unlock()
}

func (t *Terminal) Present() error {
	t.mu.Lock()
	step := t.step
	t.mu.Unlock()

	img := t.raster.Pixels()
	size := t.raster.Size()
	cols, rows := t.screen.Size()
	for cy := 0; cy < rows; cy++ {
		py := cy * 2 * step
		if py >= size.Height {
			break
		}
		for cx := 0; cx < cols; cx++ {
			px := cx * step
			if px >= size.Width {
				break
			}
			top := img.RGBAAt(px, py)
			bottom := img.RGBAAt(px, py+step)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			t.screen.SetContent(cx, cy, '▀', nil, style)
		}
	}
	t.screen.Show()
	return nil
}

func (t *Terminal) PollEvents() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	events := t.events
	t.events = nil
	return events
}

func (t *Terminal) Pointer() geom.Point {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pointer
}

func (t *Terminal) Close() error {
	select {
	case <-t.done:
		return nil
	default:
		close(t.done)
	}
	t.screen.Fini()
	return nil
}

func (t *Terminal) handleTcellEvents() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case <-t.done:
			return
		default:
		}

		switch ev := ev.(type) {
		case *tcell.EventResize:
			t.resize()
			t.screen.Sync()
		case *tcell.EventMouse:
			t.handleMouseEvent(ev)
		case *tcell.EventKey:
			if out, ok := keyEvent(ev); ok {
				t.push(out)
			}
		}
	}
}

func (t *Terminal) push(ev Event) {
	t.mu.Lock()
	t.events = append(t.events, ev)
	t.mu.Unlock()
}

func (t *Terminal) handleMouseEvent(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons() & (tcell.Button1 | tcell.Button2 | tcell.Button3)
	mods := modifiersFromTcell(ev.Modifiers())

	t.mu.Lock()
	pos := geom.Point{X: x * t.step, Y: y * 2 * t.step}
	t.pointer = pos
	pressed := buttons &^ t.buttons
	released := t.buttons &^ buttons
	t.buttons = buttons
	t.mu.Unlock()

	for _, b := range []struct {
		mask   tcell.ButtonMask
		button Button
	}{
		{tcell.Button1, ButtonLeft},
		{tcell.Button3, ButtonMiddle},
		{tcell.Button2, ButtonRight},
	} {
		if pressed&b.mask != 0 {
			t.push(Event{Kind: EventMouseDown, Pos: pos, Button: b.button, Mods: mods})
		}
		if released&b.mask != 0 {
			t.push(Event{Kind: EventMouseUp, Pos: pos, Button: b.button, Mods: mods})
		}
	}
}

var tcellKeyNames = map[tcell.Key]string{
	tcell.KeyLeft:       "Left",
	tcell.KeyRight:      "Right",
	tcell.KeyUp:         "Up",
	tcell.KeyDown:       "Down",
	tcell.KeyHome:       "Home",
	tcell.KeyEnd:        "End",
	tcell.KeyPgUp:       "PageUp",
	tcell.KeyPgDn:       "PageDown",
	tcell.KeyDelete:     "Delete",
	tcell.KeyBackspace:  "Backspace",
	tcell.KeyBackspace2: "Backspace",
	tcell.KeyEnter:      "Return",
	tcell.KeyTab:        "Tab",
	tcell.KeyEscape:     "Escape",
}

// keyEvent maps a tcell key to the backend-neutral key names.
func keyEvent(ev *tcell.EventKey) (Event, bool) {
	mods := modifiersFromTcell(ev.Modifiers())
	if name, ok := tcellKeyNames[ev.Key()]; ok {
		return Event{Kind: EventKeyDown, Key: name, Mods: mods}, true
	}

	if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ {
		mods.Control = true
		letter := rune('A' + ev.Key() - tcell.KeyCtrlA)
		return Event{Kind: EventKeyDown, Key: string(letter), Mods: mods}, true
	}

	if ev.Key() != tcell.KeyRune {
		return Event{}, false
	}
	r := ev.Rune()
	switch {
	case r == ' ':
		return Event{Kind: EventKeyDown, Key: "Space", Mods: mods}, true
	case unicode.IsLetter(r) && r < unicode.MaxASCII:
		if unicode.IsUpper(r) {
			mods.Shift = true
		}
		return Event{Kind: EventKeyDown, Key: strings.ToUpper(string(r)), Mods: mods}, true
	case r > ' ' && r < unicode.MaxASCII:
		return Event{Kind: EventKeyDown, Key: string(r), Mods: mods}, true
	}
	return Event{}, false
}

func modifiersFromTcell(m tcell.ModMask) Modifiers {
	return Modifiers{
		Shift:   m&tcell.ModShift != 0,
		Control: m&tcell.ModCtrl != 0,
		Alt:     m&tcell.ModAlt != 0,
		Meta:    m&tcell.ModMeta != 0,
	}
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}
