// Package event defines the platform-neutral input event model shared by
// the capture, translation and synthesis layers.
package event

import (
	"fmt"
	"time"
)

// Key identifies a logical keyboard key independent of platform and layout.
// The set is closed; KeyUnknown is the defined placeholder that unmapped
// native codes resolve to.
type Key int

const (
	KeyUnknown Key = iota
	KeyAlt
	KeyAltGr
	KeyBackspace
	KeyCapsLock
	KeyControlLeft
	KeyControlRight
	KeyDelete
	KeyDownArrow
	KeyEnd
	KeyEscape
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyHome
	KeyInsert
	KeyLeftArrow
	KeyMetaLeft
	KeyMetaRight
	KeyPageDown
	KeyPageUp
	KeyReturn
	KeyRightArrow
	KeyShiftLeft
	KeyShiftRight
	KeySpace
	KeyTab
	KeyUpArrow
	KeyPrintScreen
	KeyScrollLock
	KeyPause
	KeyNumLock
	KeyBackQuote
	KeyNum1
	KeyNum2
	KeyNum3
	KeyNum4
	KeyNum5
	KeyNum6
	KeyNum7
	KeyNum8
	KeyNum9
	KeyNum0
	KeyMinus
	KeyEqual
	KeyQ
	KeyW
	KeyE
	KeyR
	KeyT
	KeyY
	KeyU
	KeyI
	KeyO
	KeyP
	KeyLeftBracket
	KeyRightBracket
	KeyA
	KeyS
	KeyD
	KeyF
	KeyG
	KeyH
	KeyJ
	KeyK
	KeyL
	KeySemiColon
	KeyQuote
	KeyBackSlash
	KeyIntlBackslash
	KeyZ
	KeyX
	KeyC
	KeyV
	KeyB
	KeyN
	KeyM
	KeyComma
	KeyDot
	KeySlash
	KeyKpReturn
	KeyKpMinus
	KeyKpPlus
	KeyKpMultiply
	KeyKpDivide
	KeyKp0
	KeyKp1
	KeyKp2
	KeyKp3
	KeyKp4
	KeyKp5
	KeyKp6
	KeyKp7
	KeyKp8
	KeyKp9
	KeyKpDelete

	keySentinel // must stay last
)

var keyNames = [...]string{
	KeyUnknown:       "Unknown",
	KeyAlt:           "Alt",
	KeyAltGr:         "AltGr",
	KeyBackspace:     "Backspace",
	KeyCapsLock:      "CapsLock",
	KeyControlLeft:   "ControlLeft",
	KeyControlRight:  "ControlRight",
	KeyDelete:        "Delete",
	KeyDownArrow:     "DownArrow",
	KeyEnd:           "End",
	KeyEscape:        "Escape",
	KeyF1:            "F1",
	KeyF2:            "F2",
	KeyF3:            "F3",
	KeyF4:            "F4",
	KeyF5:            "F5",
	KeyF6:            "F6",
	KeyF7:            "F7",
	KeyF8:            "F8",
	KeyF9:            "F9",
	KeyF10:           "F10",
	KeyF11:           "F11",
	KeyF12:           "F12",
	KeyHome:          "Home",
	KeyInsert:        "Insert",
	KeyLeftArrow:     "LeftArrow",
	KeyMetaLeft:      "MetaLeft",
	KeyMetaRight:     "MetaRight",
	KeyPageDown:      "PageDown",
	KeyPageUp:        "PageUp",
	KeyReturn:        "Return",
	KeyRightArrow:    "RightArrow",
	KeyShiftLeft:     "ShiftLeft",
	KeyShiftRight:    "ShiftRight",
	KeySpace:         "Space",
	KeyTab:           "Tab",
	KeyUpArrow:       "UpArrow",
	KeyPrintScreen:   "PrintScreen",
	KeyScrollLock:    "ScrollLock",
	KeyPause:         "Pause",
	KeyNumLock:       "NumLock",
	KeyBackQuote:     "BackQuote",
	KeyNum1:          "Num1",
	KeyNum2:          "Num2",
	KeyNum3:          "Num3",
	KeyNum4:          "Num4",
	KeyNum5:          "Num5",
	KeyNum6:          "Num6",
	KeyNum7:          "Num7",
	KeyNum8:          "Num8",
	KeyNum9:          "Num9",
	KeyNum0:          "Num0",
	KeyMinus:         "Minus",
	KeyEqual:         "Equal",
	KeyQ:             "Q",
	KeyW:             "W",
	KeyE:             "E",
	KeyR:             "R",
	KeyT:             "T",
	KeyY:             "Y",
	KeyU:             "U",
	KeyI:             "I",
	KeyO:             "O",
	KeyP:             "P",
	KeyLeftBracket:   "LeftBracket",
	KeyRightBracket:  "RightBracket",
	KeyA:             "A",
	KeyS:             "S",
	KeyD:             "D",
	KeyF:             "F",
	KeyG:             "G",
	KeyH:             "H",
	KeyJ:             "J",
	KeyK:             "K",
	KeyL:             "L",
	KeySemiColon:     "SemiColon",
	KeyQuote:         "Quote",
	KeyBackSlash:     "BackSlash",
	KeyIntlBackslash: "IntlBackslash",
	KeyZ:             "Z",
	KeyX:             "X",
	KeyC:             "C",
	KeyV:             "V",
	KeyB:             "B",
	KeyN:             "N",
	KeyM:             "M",
	KeyComma:         "Comma",
	KeyDot:           "Dot",
	KeySlash:         "Slash",
	KeyKpReturn:      "KpReturn",
	KeyKpMinus:       "KpMinus",
	KeyKpPlus:        "KpPlus",
	KeyKpMultiply:    "KpMultiply",
	KeyKpDivide:      "KpDivide",
	KeyKp0:           "Kp0",
	KeyKp1:           "Kp1",
	KeyKp2:           "Kp2",
	KeyKp3:           "Kp3",
	KeyKp4:           "Kp4",
	KeyKp5:           "Kp5",
	KeyKp6:           "Kp6",
	KeyKp7:           "Kp7",
	KeyKp8:           "Kp8",
	KeyKp9:           "Kp9",
	KeyKpDelete:      "KpDelete",
}

var keysByName = func() map[string]Key {
	m := make(map[string]Key, len(keyNames))
	for k, name := range keyNames {
		m[name] = Key(k)
	}
	return m
}()

// String returns the stable name of the key, e.g. "ControlLeft".
func (k Key) String() string {
	if k < 0 || int(k) >= len(keyNames) {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return keyNames[k]
}

// ParseKey resolves a key name produced by Key.String. The second return
// value is false for unrecognized names.
func ParseKey(name string) (Key, bool) {
	k, ok := keysByName[name]
	return k, ok
}

// Keys returns every enumerated key except KeyUnknown, in declaration order.
// The grabbing pass and the mapping tests iterate this slice.
func Keys() []Key {
	keys := make([]Key, 0, int(keySentinel)-1)
	for k := KeyAlt; k < keySentinel; k++ {
		keys = append(keys, k)
	}
	return keys
}

// Button identifies a mouse button. The three standard buttons are the
// named constants; side/extra buttons are built with ExtraButton and carry
// the extraButtonFlag bit so their platform codes can never collide with
// the standard values (XBUTTON1 is platform code 1, not a left click).
type Button uint16

const (
	ButtonNone   Button = 0
	ButtonLeft   Button = 1
	ButtonMiddle Button = 2
	ButtonRight  Button = 3

	extraButtonFlag Button = 0x8000
)

// ExtraButton wraps a platform-specific code for buttons beyond the three
// standard ones. Codes use the low 15 bits.
func ExtraButton(code uint16) Button {
	return extraButtonFlag | Button(code&0x7FFF)
}

// Extra reports whether b is an extra button and, if so, its platform code.
func (b Button) Extra() (uint16, bool) {
	if b&extraButtonFlag == 0 {
		return 0, false
	}
	return uint16(b &^ extraButtonFlag), true
}

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "Left"
	case ButtonMiddle:
		return "Middle"
	case ButtonRight:
		return "Right"
	}
	if code, ok := b.Extra(); ok {
		return fmt.Sprintf("Button(%d)", code)
	}
	return fmt.Sprintf("Button(%d)", uint16(b))
}

// EventType is the tagged union of input event shapes. The concrete types
// are KeyPress, KeyRelease, ButtonPress, ButtonRelease, Wheel and MouseMove.
type EventType interface {
	isEventType()
}

// KeyPress reports a key going down.
type KeyPress struct {
	Key Key
}

// KeyRelease reports a key going up.
type KeyRelease struct {
	Key Key
}

// ButtonPress reports a mouse button going down.
type ButtonPress struct {
	Button Button
}

// ButtonRelease reports a mouse button going up.
type ButtonRelease struct {
	Button Button
}

// Wheel reports scroll motion in signed wheel ticks.
type Wheel struct {
	DeltaX int64
	DeltaY int64
}

// MouseMove reports an absolute pointer position in screen coordinates.
type MouseMove struct {
	X float64
	Y float64
}

func (KeyPress) isEventType()      {}
func (KeyRelease) isEventType()    {}
func (ButtonPress) isEventType()   {}
func (ButtonRelease) isEventType() {}
func (Wheel) isEventType()         {}
func (MouseMove) isEventType()     {}

// Event is a translated input event. Time is captured at translation time,
// not at hardware generation time. Name carries the decoded text of a key
// press when known. Code and ScanCode are the best-effort native codes and
// may be zero when the reverse mapping is unknown.
type Event struct {
	Type     EventType
	Time     time.Time
	Name     string
	Code     uint32
	ScanCode uint32
}
