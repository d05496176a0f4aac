//go:build linux && cgo

package simulate

/*
#cgo pkg-config: x11 xtst
#include <X11/Xlib.h>
#include <X11/extensions/XTest.h>

static Display* sim_open_display(void) {
	return XOpenDisplay(NULL);
}
*/
import "C"

import (
	"sync"

	"inputhook/internal/event"
	"inputhook/internal/keycode"
)

// X11 core button numbers. Wheel motion is expressed as button clicks.
const (
	x11ButtonLeft      = 1
	x11ButtonMiddle    = 2
	x11ButtonRight     = 3
	x11WheelUp         = 4
	x11WheelDown       = 5
	x11WheelLeft       = 6
	x11WheelRight      = 7
	x11ExtraButtonBase = 8
)

// The synthesis path owns its own display connection, independent of the
// capture loop's handle. Opened lazily, reused for the process lifetime.
var (
	displayMu sync.Mutex
	display   *C.Display
)

func simDisplay() (*C.Display, error) {
	if display == nil {
		display = C.sim_open_display()
		if display == nil {
			return nil, simErr("display", "cannot open X display")
		}
	}
	return display, nil
}

func fakeKey(code uint32, press bool) error {
	displayMu.Lock()
	defer displayMu.Unlock()

	d, err := simDisplay()
	if err != nil {
		return err
	}
	isPress := C.int(0)
	if press {
		isPress = 1
	}
	if C.XTestFakeKeyEvent(d, C.uint(code), isPress, 0) == 0 {
		return simErr("key", "XTestFakeKeyEvent rejected keycode %d", code)
	}
	C.XFlush(d)
	return nil
}

func fakeButton(button uint32, press bool) error {
	displayMu.Lock()
	defer displayMu.Unlock()

	d, err := simDisplay()
	if err != nil {
		return err
	}
	isPress := C.int(0)
	if press {
		isPress = 1
	}
	if C.XTestFakeButtonEvent(d, C.uint(button), isPress, 0) == 0 {
		return simErr("button", "XTestFakeButtonEvent rejected button %d", button)
	}
	C.XFlush(d)
	return nil
}

// fakeWheel emits one press/release click pair per tick.
func fakeWheel(button uint32, ticks int16) error {
	n := int(ticks)
	if n < 0 {
		n = -n
	}
	for i := 0; i < n; i++ {
		if err := fakeButton(button, true); err != nil {
			return err
		}
		if err := fakeButton(button, false); err != nil {
			return err
		}
	}
	return nil
}

func buttonNumber(b event.Button) uint32 {
	switch b {
	case event.ButtonLeft:
		return x11ButtonLeft
	case event.ButtonMiddle:
		return x11ButtonMiddle
	case event.ButtonRight:
		return x11ButtonRight
	default:
		code, ok := b.Extra()
		if !ok {
			return 0
		}
		return x11ExtraButtonBase + uint32(code)
	}
}

// Simulate injects one event through the XTest extension.
func Simulate(et event.EventType) error {
	switch t := et.(type) {
	case event.KeyPress:
		return fakeKey(keycode.X11Keycode(t.Key), true)

	case event.KeyRelease:
		return fakeKey(keycode.X11Keycode(t.Key), false)

	case event.ButtonPress:
		return fakeButton(buttonNumber(t.Button), true)

	case event.ButtonRelease:
		return fakeButton(buttonNumber(t.Button), false)

	case event.Wheel:
		// Horizontal first; a failing axis aborts the remaining one.
		if t.DeltaX != 0 {
			ticks, err := wheelTicks(t.DeltaX)
			if err != nil {
				return err
			}
			button := uint32(x11WheelRight)
			if ticks < 0 {
				button = x11WheelLeft
			}
			if err := fakeWheel(button, ticks); err != nil {
				return err
			}
		}
		if t.DeltaY != 0 {
			ticks, err := wheelTicks(t.DeltaY)
			if err != nil {
				return err
			}
			button := uint32(x11WheelUp)
			if ticks < 0 {
				button = x11WheelDown
			}
			return fakeWheel(button, ticks)
		}
		return nil

	case event.MouseMove:
		displayMu.Lock()
		defer displayMu.Unlock()

		d, err := simDisplay()
		if err != nil {
			return err
		}
		screen := C.XDefaultScreen(d)
		if C.XTestFakeMotionEvent(d, screen, C.int(t.X), C.int(t.Y), 0) == 0 {
			return simErr("mouse move", "XTestFakeMotionEvent rejected (%v, %v)", t.X, t.Y)
		}
		C.XFlush(d)
		return nil

	default:
		return simErr("event", "unsupported event type %T", et)
	}
}

// SimulateChar synthesizes a literal character by resolving its keysym to a
// keycode under the current layout. Characters the layout cannot produce
// are an error on this platform.
func SimulateChar(ch rune, pressed bool) error {
	displayMu.Lock()
	d, err := simDisplay()
	if err != nil {
		displayMu.Unlock()
		return err
	}

	keysym := C.KeySym(ch)
	if ch >= 0x100 {
		// Unicode keysym range.
		keysym = C.KeySym(0x01000000 + uint32(ch))
	}
	code := C.XKeysymToKeycode(d, keysym)
	displayMu.Unlock()

	if code == 0 {
		return simErr("char", "no keycode produces %q under the current layout", ch)
	}
	return fakeKey(uint32(code), pressed)
}
