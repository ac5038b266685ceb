package input

import "strings"

// codeOverrides lists key names whose code is not "Key"+name.
var codeOverrides = map[string]string{
	"Left":      "ArrowLeft",
	"Right":     "ArrowRight",
	"Up":        "ArrowUp",
	"Down":      "ArrowDown",
	"Backspace": "Backspace",
	"Space":     "Space",
}

// shiftedKeys is the US layout's shifted symbol row and punctuation.
var shiftedKeys = map[string]string{
	"1":  "!",
	"2":  "@",
	"3":  "#",
	"4":  "$",
	"5":  "%",
	"6":  "^",
	"7":  "&",
	"8":  "*",
	"9":  "(",
	"0":  ")",
	"-":  "_",
	"=":  "+",
	"[":  "{",
	"]":  "}",
	"\\": "|",
	";":  ":",
	"'":  "\"",
	",":  "<",
	".":  ">",
	"/":  "?",
	"`":  "~",
}

// Translate maps a key name to the (code, key) pair sent to window owners.
func Translate(name string, shift bool) (code, key string) {
	code = "Key" + name
	if override, ok := codeOverrides[name]; ok {
		code = override
	}
	if name == "Space" {
		return code, " "
	}
	if shift {
		if sym, ok := shiftedKeys[name]; ok {
			return code, sym
		}
		return code, strings.ToUpper(name)
	}
	return code, strings.ToLower(name)
}
