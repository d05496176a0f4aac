package keycode

import "inputhook/internal/event"

// x11Table maps keys to X11 keycodes (evdev code + 8). X11 uses a single
// code space, so there is no separate scan code on this platform.
var x11Table = []struct {
	key  event.Key
	code uint32
}{
	{event.KeyAlt, 64},
	{event.KeyAltGr, 108},
	{event.KeyBackspace, 22},
	{event.KeyCapsLock, 66},
	{event.KeyControlLeft, 37},
	{event.KeyControlRight, 105},
	{event.KeyDelete, 119},
	{event.KeyDownArrow, 116},
	{event.KeyEnd, 115},
	{event.KeyEscape, 9},
	{event.KeyF1, 67},
	{event.KeyF2, 68},
	{event.KeyF3, 69},
	{event.KeyF4, 70},
	{event.KeyF5, 71},
	{event.KeyF6, 72},
	{event.KeyF7, 73},
	{event.KeyF8, 74},
	{event.KeyF9, 75},
	{event.KeyF10, 76},
	{event.KeyF11, 95},
	{event.KeyF12, 96},
	{event.KeyHome, 110},
	{event.KeyInsert, 118},
	{event.KeyLeftArrow, 113},
	{event.KeyMetaLeft, 133},
	{event.KeyMetaRight, 134},
	{event.KeyPageDown, 117},
	{event.KeyPageUp, 112},
	{event.KeyReturn, 36},
	{event.KeyRightArrow, 114},
	{event.KeyShiftLeft, 50},
	{event.KeyShiftRight, 62},
	{event.KeySpace, 65},
	{event.KeyTab, 23},
	{event.KeyUpArrow, 111},
	{event.KeyPrintScreen, 107},
	{event.KeyScrollLock, 78},
	{event.KeyPause, 127},
	{event.KeyNumLock, 77},
	{event.KeyBackQuote, 49},
	{event.KeyNum1, 10},
	{event.KeyNum2, 11},
	{event.KeyNum3, 12},
	{event.KeyNum4, 13},
	{event.KeyNum5, 14},
	{event.KeyNum6, 15},
	{event.KeyNum7, 16},
	{event.KeyNum8, 17},
	{event.KeyNum9, 18},
	{event.KeyNum0, 19},
	{event.KeyMinus, 20},
	{event.KeyEqual, 21},
	{event.KeyQ, 24},
	{event.KeyW, 25},
	{event.KeyE, 26},
	{event.KeyR, 27},
	{event.KeyT, 28},
	{event.KeyY, 29},
	{event.KeyU, 30},
	{event.KeyI, 31},
	{event.KeyO, 32},
	{event.KeyP, 33},
	{event.KeyLeftBracket, 34},
	{event.KeyRightBracket, 35},
	{event.KeyA, 38},
	{event.KeyS, 39},
	{event.KeyD, 40},
	{event.KeyF, 41},
	{event.KeyG, 42},
	{event.KeyH, 43},
	{event.KeyJ, 44},
	{event.KeyK, 45},
	{event.KeyL, 46},
	{event.KeySemiColon, 47},
	{event.KeyQuote, 48},
	{event.KeyBackSlash, 51},
	{event.KeyIntlBackslash, 94},
	{event.KeyZ, 52},
	{event.KeyX, 53},
	{event.KeyC, 54},
	{event.KeyV, 55},
	{event.KeyB, 56},
	{event.KeyN, 57},
	{event.KeyM, 58},
	{event.KeyComma, 59},
	{event.KeyDot, 60},
	{event.KeySlash, 61},
	{event.KeyKpReturn, 104},
	{event.KeyKpMinus, 82},
	{event.KeyKpPlus, 86},
	{event.KeyKpMultiply, 63},
	{event.KeyKpDivide, 106},
	{event.KeyKp0, 90},
	{event.KeyKp1, 87},
	{event.KeyKp2, 88},
	{event.KeyKp3, 89},
	{event.KeyKp4, 83},
	{event.KeyKp5, 84},
	{event.KeyKp6, 85},
	{event.KeyKp7, 79},
	{event.KeyKp8, 80},
	{event.KeyKp9, 81},
	{event.KeyKpDelete, 91},
}

var (
	x11ByKey = func() map[event.Key]uint32 {
		m := make(map[event.Key]uint32, len(x11Table))
		for _, e := range x11Table {
			m[e.key] = e.code
		}
		return m
	}()

	x11ByCode = func() map[uint32]event.Key {
		m := make(map[uint32]event.Key, len(x11Table))
		for _, e := range x11Table {
			if _, dup := m[e.code]; !dup {
				m[e.code] = e.key
			}
		}
		return m
	}()
)

// X11Keycode returns the X11 keycode for a key, or 0 for keys outside the
// enumeration.
func X11Keycode(k event.Key) uint32 {
	return x11ByKey[k]
}

// KeyFromX11Code resolves an X11 keycode to a logical key. Unmapped codes
// resolve to KeyUnknown.
func KeyFromX11Code(code uint32) event.Key {
	if k, ok := x11ByCode[code]; ok {
		return k
	}
	return event.KeyUnknown
}
