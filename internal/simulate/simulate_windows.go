//go:build windows

package simulate

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"inputhook/internal/event"
	"inputhook/internal/keycode"
)

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	procSendInput                = user32.NewProc("SendInput")
	procGetSystemMetrics         = user32.NewProc("GetSystemMetrics")
	procMapVirtualKeyExW         = user32.NewProc("MapVirtualKeyExW")
	procVkKeyScanW               = user32.NewProc("VkKeyScanW")
	procGetKeyboardLayout        = user32.NewProc("GetKeyboardLayout")
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
)

const (
	inputMouse    = 0
	inputKeyboard = 1

	keyeventfKeyup   = 0x0002
	keyeventfUnicode = 0x0004

	mapvkVscToVkEx = 3

	mouseeventfMove        = 0x0001
	mouseeventfLeftDown    = 0x0002
	mouseeventfLeftUp      = 0x0004
	mouseeventfRightDown   = 0x0008
	mouseeventfRightUp     = 0x0010
	mouseeventfMiddleDown  = 0x0020
	mouseeventfMiddleUp    = 0x0040
	mouseeventfXDown       = 0x0080
	mouseeventfXUp         = 0x0100
	mouseeventfWheel       = 0x0800
	mouseeventfHWheel      = 0x1000
	mouseeventfVirtualDesk = 0x4000
	mouseeventfAbsolute    = 0x8000

	smCxVirtualScreen = 78
	smCyVirtualScreen = 79

	koreanLayout = 0x0412
)

type mouseInput struct {
	dx          int32
	dy          int32
	mouseData   uint32
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

type keyboardInput struct {
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

type mouseInputPacket struct {
	inputType uint32
	mi        mouseInput
}

type keyboardInputPacket struct {
	inputType uint32
	ki        keyboardInput
	_         [8]byte // pad the union to MOUSEINPUT size
}

// sendMouseInput dispatches one synthetic mouse event. SendInput must
// report exactly one event consumed; anything else is surfaced to the
// caller, who cannot assume the event had any effect.
func sendMouseInput(flags uint32, data int32, dx, dy int32) error {
	in := mouseInputPacket{
		inputType: inputMouse,
		mi: mouseInput{
			dx:        dx,
			dy:        dy,
			mouseData: uint32(data),
			dwFlags:   flags,
		},
	}
	ret, _, _ := procSendInput.Call(1, uintptr(unsafe.Pointer(&in)), unsafe.Sizeof(in))
	if ret != 1 {
		return simErr("mouse input", "SendInput consumed %d events, want 1", ret)
	}
	return nil
}

func sendKeyboardInput(flags uint32, vk, scan uint16) error {
	in := keyboardInputPacket{
		inputType: inputKeyboard,
		ki: keyboardInput{
			wVk:     vk,
			wScan:   scan,
			dwFlags: flags,
		},
	}
	ret, _, _ := procSendInput.Call(1, uintptr(unsafe.Pointer(&in)), unsafe.Sizeof(in))
	if ret != 1 {
		return simErr("keyboard input", "SendInput consumed %d events, want 1", ret)
	}
	return nil
}

// currentLayout returns the keyboard layout of the foreground window's
// thread. Queried on every keyboard call: the active layout can change
// between calls and must never be cached.
func currentLayout() uintptr {
	hwnd, _, _ := procGetForegroundWindow.Call()
	tid, _, _ := procGetWindowThreadProcessId.Call(hwnd, 0)
	layout, _, _ := procGetKeyboardLayout.Call(tid)
	return layout
}

// resolveVirtualKey applies the platform translation policy: AltGr always
// keeps its fixed code (except that a press under the Korean layout becomes
// Hangul), and a non-zero scan code is converted through
// MapVirtualKeyEx, which is authoritative over the tabulated virtual key.
func resolveVirtualKey(k event.Key, press bool) (uint16, error) {
	vk, scan := keycode.WindowsCode(k)
	if vk == keycode.VKAltGr {
		if press && uint16(currentLayout()&0xFFFF) == koreanLayout {
			return keycode.VKHangul, nil
		}
		return keycode.VKAltGr, nil
	}
	if scan != 0 {
		mapped, _, _ := procMapVirtualKeyExW.Call(uintptr(scan), mapvkVscToVkEx, currentLayout())
		if mapped > 0xFFFF {
			return 0, simErr("key", "mapped virtual key %#x does not fit uint16", mapped)
		}
		return uint16(mapped), nil
	}
	return vk, nil
}

// Simulate injects one event into the OS input queue.
func Simulate(et event.EventType) error {
	switch t := et.(type) {
	case event.KeyPress:
		vk, err := resolveVirtualKey(t.Key, true)
		if err != nil {
			return err
		}
		return sendKeyboardInput(0, vk, 0)

	case event.KeyRelease:
		vk, err := resolveVirtualKey(t.Key, false)
		if err != nil {
			return err
		}
		return sendKeyboardInput(keyeventfKeyup, vk, 0)

	case event.ButtonPress:
		switch t.Button {
		case event.ButtonLeft:
			return sendMouseInput(mouseeventfLeftDown, 0, 0, 0)
		case event.ButtonMiddle:
			return sendMouseInput(mouseeventfMiddleDown, 0, 0, 0)
		case event.ButtonRight:
			return sendMouseInput(mouseeventfRightDown, 0, 0, 0)
		default:
			code, ok := t.Button.Extra()
			if !ok {
				return simErr("button", "cannot synthesize button %v", t.Button)
			}
			return sendMouseInput(mouseeventfXDown, int32(code), 0, 0)
		}

	case event.ButtonRelease:
		switch t.Button {
		case event.ButtonLeft:
			return sendMouseInput(mouseeventfLeftUp, 0, 0, 0)
		case event.ButtonMiddle:
			return sendMouseInput(mouseeventfMiddleUp, 0, 0, 0)
		case event.ButtonRight:
			return sendMouseInput(mouseeventfRightUp, 0, 0, 0)
		default:
			code, ok := t.Button.Extra()
			if !ok {
				return simErr("button", "cannot synthesize button %v", t.Button)
			}
			return sendMouseInput(mouseeventfXUp, int32(code), 0, 0)
		}

	case event.Wheel:
		// Horizontal first; a failing axis aborts the remaining one.
		if t.DeltaX != 0 {
			amount, err := wheelAmount(t.DeltaX)
			if err != nil {
				return err
			}
			if err := sendMouseInput(mouseeventfHWheel, amount, 0, 0); err != nil {
				return err
			}
		}
		if t.DeltaY != 0 {
			amount, err := wheelAmount(t.DeltaY)
			if err != nil {
				return err
			}
			return sendMouseInput(mouseeventfWheel, amount, 0, 0)
		}
		return nil

	case event.MouseMove:
		w, _, _ := procGetSystemMetrics.Call(smCxVirtualScreen)
		h, _, _ := procGetSystemMetrics.Call(smCyVirtualScreen)
		dx, dy, err := virtualDesktopPoint(t.X, t.Y, int32(w), int32(h))
		if err != nil {
			return err
		}
		return sendMouseInput(mouseeventfMove|mouseeventfAbsolute|mouseeventfVirtualDesk, 0, dx, dy)

	default:
		return simErr("event", "unsupported event type %T", et)
	}
}

// SimulateChar synthesizes a literal character. The character is first
// resolved to a virtual key through the active layout; characters the
// layout cannot produce fall back to a raw Unicode injection that bypasses
// further keycode translation.
func SimulateChar(ch rune, pressed bool) error {
	if ch > 0xFFFF {
		return simErr("char", "character %q outside the basic multilingual plane", ch)
	}
	res, _, _ := procVkKeyScanW.Call(uintptr(uint16(ch)))

	var (
		flags uint32
		vk    uint16
		scan  uint16
	)
	if (res>>8)&0xFF == 0 {
		vk = uint16(res & 0xFF)
	} else {
		scan = uint16(ch)
		flags = keyeventfUnicode
	}
	if !pressed {
		flags |= keyeventfKeyup
	}
	return sendKeyboardInput(flags, vk, scan)
}
