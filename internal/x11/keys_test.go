package x11

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"
)

func TestKeysymName(t *testing.T) {
	tests := map[uint32]string{
		0x0061: "A",
		0x0041: "A",
		0x0037: "7",
		0x003b: ";",
		0x0020: "Space",
		0xff51: "Left",
		0xff08: "Backspace",
		0xff8d: "Return",
		0xffe1: "",
	}
	for sym, want := range tests {
		if got := KeysymName(xproto.Keysym(sym)); got != want {
			t.Errorf("KeysymName(%#x) = %q, want %q", sym, got, want)
		}
	}
}
