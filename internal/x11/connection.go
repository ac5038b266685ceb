package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
)

// Connection is an X client connection with the keyboard mapping loaded.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection connects to the named display, or to $DISPLAY when name
// is empty.
func NewConnection(name string) (*Connection, error) {
	xu, err := xgbutil.NewConnDisplay(name)
	if err != nil {
		return nil, fmt.Errorf("connect to display %q: %w", name, err)
	}

	// KeyName looks keysyms up in the mapping keybind loads.
	keybind.Initialize(xu)

	return &Connection{XUtil: xu, Root: xu.RootWin()}, nil
}

// RootSize is the default screen's size in pixels.
func (c *Connection) RootSize() (width, height int) {
	s := c.XUtil.Screen()
	return int(s.WidthInPixels), int(s.HeightInPixels)
}

func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
