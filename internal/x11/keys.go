package x11

import (
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"
)

// Keysym constants for the non-printing keys we name
const (
	keysymBackspace = 0xff08
	keysymTab       = 0xff09
	keysymReturn    = 0xff0d
	keysymEscape    = 0xff1b
	keysymHome      = 0xff50
	keysymLeft      = 0xff51
	keysymUp        = 0xff52
	keysymRight     = 0xff53
	keysymDown      = 0xff54
	keysymPageUp    = 0xff55
	keysymPageDown  = 0xff56
	keysymEnd       = 0xff57
	keysymKPEnter   = 0xff8d
	keysymDelete    = 0xffff
	keysymSpace     = 0x0020
)

var keysymNames = map[xproto.Keysym]string{
	keysymBackspace: "Backspace",
	keysymTab:       "Tab",
	keysymReturn:    "Return",
	keysymKPEnter:   "Return",
	keysymEscape:    "Escape",
	keysymHome:      "Home",
	keysymLeft:      "Left",
	keysymUp:        "Up",
	keysymRight:     "Right",
	keysymDown:      "Down",
	keysymPageUp:    "PageUp",
	keysymPageDown:  "PageDown",
	keysymEnd:       "End",
	keysymDelete:    "Delete",
	keysymSpace:     "Space",
}

// KeyName returns the unshifted key name for a keycode, or "" when the key
// has no name we forward.
func (c *Connection) KeyName(code xproto.Keycode) string {
	return KeysymName(keybind.KeysymGet(c.XUtil, code, 0))
}

// KeysymName names a keysym: letters are upper case, other printable ASCII
// is the character itself.
func KeysymName(sym xproto.Keysym) string {
	if name, ok := keysymNames[sym]; ok {
		return name
	}
	if sym > 0x20 && sym < 0x7f {
		return strings.ToUpper(string(rune(sym)))
	}
	return ""
}
