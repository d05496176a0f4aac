// Package keycode maps between the logical key enumeration and native
// platform codes. The tables are pure data and compile on every platform so
// both code spaces stay testable everywhere.
package keycode

import "inputhook/internal/event"

// Virtual-key codes referenced by the synthesis rules.
const (
	// VKAltGr is the right-Alt virtual key. Synthesis always forces this
	// code for AltGr; the scan-code conversion never overrides it.
	VKAltGr uint16 = 0xA5

	// VKHangul replaces an AltGr press while a Korean keyboard layout
	// (LOWORD 0x0412) is active.
	VKHangul uint16 = 0x15
)

type winEntry struct {
	key  event.Key
	vk   uint16
	scan uint16 // Set-1 make code; 0 for E0-extended keys
}

// windowsTable is ordered by the key enumeration. Extended keys (the
// navigation block, right-side modifiers, keypad enter/divide) carry scan
// code 0: their tabulated virtual key is used directly instead of going
// through the scan-code conversion.
var windowsTable = []winEntry{
	{event.KeyAlt, 0xA4, 0x38},
	{event.KeyAltGr, VKAltGr, 0},
	{event.KeyBackspace, 0x08, 0x0E},
	{event.KeyCapsLock, 0x14, 0x3A},
	{event.KeyControlLeft, 0xA2, 0x1D},
	{event.KeyControlRight, 0xA3, 0},
	{event.KeyDelete, 0x2E, 0},
	{event.KeyDownArrow, 0x28, 0},
	{event.KeyEnd, 0x23, 0},
	{event.KeyEscape, 0x1B, 0x01},
	{event.KeyF1, 0x70, 0x3B},
	{event.KeyF2, 0x71, 0x3C},
	{event.KeyF3, 0x72, 0x3D},
	{event.KeyF4, 0x73, 0x3E},
	{event.KeyF5, 0x74, 0x3F},
	{event.KeyF6, 0x75, 0x40},
	{event.KeyF7, 0x76, 0x41},
	{event.KeyF8, 0x77, 0x42},
	{event.KeyF9, 0x78, 0x43},
	{event.KeyF10, 0x79, 0x44},
	{event.KeyF11, 0x7A, 0x57},
	{event.KeyF12, 0x7B, 0x58},
	{event.KeyHome, 0x24, 0},
	{event.KeyInsert, 0x2D, 0},
	{event.KeyLeftArrow, 0x25, 0},
	{event.KeyMetaLeft, 0x5B, 0},
	{event.KeyMetaRight, 0x5C, 0},
	{event.KeyPageDown, 0x22, 0},
	{event.KeyPageUp, 0x21, 0},
	{event.KeyReturn, 0x0D, 0x1C},
	{event.KeyRightArrow, 0x27, 0},
	{event.KeyShiftLeft, 0xA0, 0x2A},
	{event.KeyShiftRight, 0xA1, 0x36},
	{event.KeySpace, 0x20, 0x39},
	{event.KeyTab, 0x09, 0x0F},
	{event.KeyUpArrow, 0x26, 0},
	{event.KeyPrintScreen, 0x2C, 0},
	{event.KeyScrollLock, 0x91, 0x46},
	{event.KeyPause, 0x13, 0},
	{event.KeyNumLock, 0x90, 0x45},
	{event.KeyBackQuote, 0xC0, 0x29},
	{event.KeyNum1, 0x31, 0x02},
	{event.KeyNum2, 0x32, 0x03},
	{event.KeyNum3, 0x33, 0x04},
	{event.KeyNum4, 0x34, 0x05},
	{event.KeyNum5, 0x35, 0x06},
	{event.KeyNum6, 0x36, 0x07},
	{event.KeyNum7, 0x37, 0x08},
	{event.KeyNum8, 0x38, 0x09},
	{event.KeyNum9, 0x39, 0x0A},
	{event.KeyNum0, 0x30, 0x0B},
	{event.KeyMinus, 0xBD, 0x0C},
	{event.KeyEqual, 0xBB, 0x0D},
	{event.KeyQ, 0x51, 0x10},
	{event.KeyW, 0x57, 0x11},
	{event.KeyE, 0x45, 0x12},
	{event.KeyR, 0x52, 0x13},
	{event.KeyT, 0x54, 0x14},
	{event.KeyY, 0x59, 0x15},
	{event.KeyU, 0x55, 0x16},
	{event.KeyI, 0x49, 0x17},
	{event.KeyO, 0x4F, 0x18},
	{event.KeyP, 0x50, 0x19},
	{event.KeyLeftBracket, 0xDB, 0x1A},
	{event.KeyRightBracket, 0xDD, 0x1B},
	{event.KeyA, 0x41, 0x1E},
	{event.KeyS, 0x53, 0x1F},
	{event.KeyD, 0x44, 0x20},
	{event.KeyF, 0x46, 0x21},
	{event.KeyG, 0x47, 0x22},
	{event.KeyH, 0x48, 0x23},
	{event.KeyJ, 0x4A, 0x24},
	{event.KeyK, 0x4B, 0x25},
	{event.KeyL, 0x4C, 0x26},
	{event.KeySemiColon, 0xBA, 0x27},
	{event.KeyQuote, 0xDE, 0x28},
	{event.KeyBackSlash, 0xDC, 0x2B},
	{event.KeyIntlBackslash, 0xE2, 0x56},
	{event.KeyZ, 0x5A, 0x2C},
	{event.KeyX, 0x58, 0x2D},
	{event.KeyC, 0x43, 0x2E},
	{event.KeyV, 0x56, 0x2F},
	{event.KeyB, 0x42, 0x30},
	{event.KeyN, 0x4E, 0x31},
	{event.KeyM, 0x4D, 0x32},
	{event.KeyComma, 0xBC, 0x33},
	{event.KeyDot, 0xBE, 0x34},
	{event.KeySlash, 0xBF, 0x35},
	{event.KeyKpReturn, 0x0D, 0},
	{event.KeyKpMinus, 0x6D, 0x4A},
	{event.KeyKpPlus, 0x6B, 0x4E},
	{event.KeyKpMultiply, 0x6A, 0x37},
	{event.KeyKpDivide, 0x6F, 0},
	{event.KeyKp0, 0x60, 0x52},
	{event.KeyKp1, 0x61, 0x4F},
	{event.KeyKp2, 0x62, 0x50},
	{event.KeyKp3, 0x63, 0x51},
	{event.KeyKp4, 0x64, 0x4B},
	{event.KeyKp5, 0x65, 0x4C},
	{event.KeyKp6, 0x66, 0x4D},
	{event.KeyKp7, 0x67, 0x47},
	{event.KeyKp8, 0x68, 0x48},
	{event.KeyKp9, 0x69, 0x49},
	{event.KeyKpDelete, 0x6E, 0x53},
}

// WindowsReverseExceptions lists keys whose virtual key collides with an
// earlier entry, so the reverse mapping legitimately resolves to the other
// key. KpReturn shares VK_RETURN with the main Return key.
var WindowsReverseExceptions = map[event.Key]bool{
	event.KeyKpReturn: true,
}

var (
	windowsByKey = func() map[event.Key]winEntry {
		m := make(map[event.Key]winEntry, len(windowsTable))
		for _, e := range windowsTable {
			m[e.key] = e
		}
		return m
	}()

	windowsByVK = func() map[uint16]event.Key {
		m := make(map[uint16]event.Key, len(windowsTable))
		for _, e := range windowsTable {
			if _, dup := m[e.vk]; !dup {
				m[e.vk] = e.key
			}
		}
		return m
	}()
)

// WindowsCode returns the virtual-key and Set-1 scan code for a key. Both
// are zero for keys outside the enumeration.
func WindowsCode(k event.Key) (vk, scan uint16) {
	e, ok := windowsByKey[k]
	if !ok {
		return 0, 0
	}
	return e.vk, e.scan
}

// KeyFromWindowsCode resolves a virtual-key code to a logical key. Unmapped
// codes resolve to KeyUnknown; the function is total so the capture loop
// never fails on an unexpected code.
func KeyFromWindowsCode(vk uint16) event.Key {
	if k, ok := windowsByVK[vk]; ok {
		return k
	}
	return event.KeyUnknown
}
