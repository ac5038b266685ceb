package x11

import (
	"fmt"
	"image"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xgraphics"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

const displayEventMask = xproto.EventMaskKeyPress |
	xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskPointerMotion |
	xproto.EventMaskExposure |
	xproto.EventMaskStructureNotify

// Display is a top-level X window backed by an xgraphics image.
type Display struct {
	conn       *Connection
	win        *xwindow.Window
	img        *xgraphics.Image
	deleteAtom xproto.Atom
	width      int
	height     int
}

// OpenDisplay creates and maps a window of the given pixel size.
func (c *Connection) OpenDisplay(title string, width, height int) (*Display, error) {
	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate window id: %w", err)
	}
	if err := win.CreateChecked(c.Root, 0, 0, width, height,
		xproto.CwBackPixel|xproto.CwEventMask, 0, displayEventMask); err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	if err := ewmh.WmNameSet(c.XUtil, win.Id, title); err != nil {
		// Not fatal; some window managers lack EWMH
		_ = icccm.WmNameSet(c.XUtil, win.Id, title)
	}
	if err := icccm.WmProtocolsSet(c.XUtil, win.Id, []string{"WM_DELETE_WINDOW"}); err != nil {
		win.Destroy()
		return nil, fmt.Errorf("failed to set WM_PROTOCOLS: %w", err)
	}
	deleteAtom, err := xprop.Atm(c.XUtil, "WM_DELETE_WINDOW")
	if err != nil {
		win.Destroy()
		return nil, fmt.Errorf("failed to intern WM_DELETE_WINDOW: %w", err)
	}

	img := xgraphics.New(c.XUtil, image.Rect(0, 0, width, height))
	if err := img.XSurfaceSet(win.Id); err != nil {
		img.Destroy()
		win.Destroy()
		return nil, fmt.Errorf("failed to create drawing surface: %w", err)
	}
	win.Map()

	return &Display{
		conn:       c,
		win:        win,
		img:        img,
		deleteAtom: deleteAtom,
		width:      width,
		height:     height,
	}, nil
}

// Window returns the X window id.
func (d *Display) Window() xproto.Window {
	return d.win.Id
}

// IsDeleteRequest reports whether ev is the window manager asking us to close.
func (d *Display) IsDeleteRequest(ev xproto.ClientMessageEvent) bool {
	return ev.Format == 32 && len(ev.Data.Data32) > 0 &&
		xproto.Atom(ev.Data.Data32[0]) == d.deleteAtom
}

// Paint converts src to the server's BGRA layout and pushes it to the window.
func (d *Display) Paint(src *image.RGBA) {
	b := src.Bounds()
	w, h := min(b.Dx(), d.width), min(b.Dy(), d.height)
	for y := 0; y < h; y++ {
		si := src.PixOffset(b.Min.X, b.Min.Y+y)
		di := y * d.img.Stride
		for x := 0; x < w; x++ {
			d.img.Pix[di+0] = src.Pix[si+2]
			d.img.Pix[di+1] = src.Pix[si+1]
			d.img.Pix[di+2] = src.Pix[si+0]
			d.img.Pix[di+3] = 0xff
			si += 4
			di += 4
		}
	}
	d.img.XDraw()
	d.img.XPaint(d.win.Id)
}

// Close destroys the window and its pixmap.
func (d *Display) Close() {
	d.img.Destroy()
	d.win.Destroy()
}
