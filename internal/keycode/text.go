package keycode

import "inputhook/internal/event"

// keyText holds the unshifted US-layout text produced by each printable
// key. Used to populate Event.Name on key presses; best effort only, keys
// without an entry decode to the empty string.
var keyText = map[event.Key]string{
	event.KeySpace:         " ",
	event.KeyBackQuote:     "`",
	event.KeyNum1:          "1",
	event.KeyNum2:          "2",
	event.KeyNum3:          "3",
	event.KeyNum4:          "4",
	event.KeyNum5:          "5",
	event.KeyNum6:          "6",
	event.KeyNum7:          "7",
	event.KeyNum8:          "8",
	event.KeyNum9:          "9",
	event.KeyNum0:          "0",
	event.KeyMinus:         "-",
	event.KeyEqual:         "=",
	event.KeyQ:             "q",
	event.KeyW:             "w",
	event.KeyE:             "e",
	event.KeyR:             "r",
	event.KeyT:             "t",
	event.KeyY:             "y",
	event.KeyU:             "u",
	event.KeyI:             "i",
	event.KeyO:             "o",
	event.KeyP:             "p",
	event.KeyLeftBracket:   "[",
	event.KeyRightBracket:  "]",
	event.KeyA:             "a",
	event.KeyS:             "s",
	event.KeyD:             "d",
	event.KeyF:             "f",
	event.KeyG:             "g",
	event.KeyH:             "h",
	event.KeyJ:             "j",
	event.KeyK:             "k",
	event.KeyL:             "l",
	event.KeySemiColon:     ";",
	event.KeyQuote:         "'",
	event.KeyBackSlash:     "\\",
	event.KeyIntlBackslash: "\\",
	event.KeyZ:             "z",
	event.KeyX:             "x",
	event.KeyC:             "c",
	event.KeyV:             "v",
	event.KeyB:             "b",
	event.KeyN:             "n",
	event.KeyM:             "m",
	event.KeyComma:         ",",
	event.KeyDot:           ".",
	event.KeySlash:         "/",
	event.KeyKpMinus:       "-",
	event.KeyKpPlus:        "+",
	event.KeyKpMultiply:    "*",
	event.KeyKpDivide:      "/",
	event.KeyKp0:           "0",
	event.KeyKp1:           "1",
	event.KeyKp2:           "2",
	event.KeyKp3:           "3",
	event.KeyKp4:           "4",
	event.KeyKp5:           "5",
	event.KeyKp6:           "6",
	event.KeyKp7:           "7",
	event.KeyKp8:           "8",
	event.KeyKp9:           "9",
}

// Text returns the character a key press produces under the unshifted US
// layout, or "" when the key has no printable text.
func Text(k event.Key) string {
	return keyText[k]
}
