//go:build linux && cgo

package capture

/*
#cgo pkg-config: x11
#include <X11/Xlib.h>

static Display* cap_open_display(void) {
	return XOpenDisplay(NULL);
}
*/
import "C"

import (
	"errors"
	"unsafe"

	"inputhook/internal/event"
	"inputhook/internal/keycode"
)

const (
	xKeyPress   = 2
	xKeyRelease = 3

	// Grabs are taken with no modifier mask, matching the plain key.
	xGrabModifiers = 0
)

// x11Backend owns the capture display connection and the root window it
// grabs on. The connection is used only from the session goroutine and is
// independent of the synthesis path's handle.
type x11Backend struct {
	display *C.Display
	root    C.Window
}

func newBackend() backend {
	return &x11Backend{}
}

func (b *x11Backend) Open() error {
	d := C.cap_open_display()
	if d == nil {
		return errors.New("cannot open X display")
	}
	b.display = d
	b.root = C.XDefaultRootWindow(d)
	C.XSelectInput(d, b.root, C.KeyPressMask|C.KeyReleaseMask)
	return nil
}

func (b *x11Backend) Close() error {
	if b.display == nil {
		return nil
	}
	C.XCloseDisplay(b.display)
	b.display = nil
	return nil
}

func (b *x11Backend) GrabKey(code uint32) error {
	C.XGrabKey(b.display, C.int(code), xGrabModifiers, b.root, 1,
		C.GrabModeAsync, C.GrabModeAsync)
	C.XFlush(b.display)
	return nil
}

func (b *x11Backend) UngrabKey(code uint32) error {
	C.XUngrabKey(b.display, C.int(code), xGrabModifiers, b.root)
	C.XFlush(b.display)
	return nil
}

// Next blocks on the X event queue until a key event arrives. Non-key
// events are skipped.
func (b *x11Backend) Next() (nativeEvent, error) {
	var xev C.XEvent
	for {
		if C.XNextEvent(b.display, &xev) != 0 {
			return nativeEvent{}, errors.New("XNextEvent failed")
		}
		any := (*C.XAnyEvent)(unsafe.Pointer(&xev))
		if any._type != xKeyPress && any._type != xKeyRelease {
			continue
		}
		key := (*C.XKeyEvent)(unsafe.Pointer(&xev))
		return nativeEvent{
			Code:  uint32(key.keycode),
			Press: any._type == xKeyPress,
		}, nil
	}
}

func (b *x11Backend) Translate(k event.Key) (code, scan uint32) {
	// X11 has a single code space: the keycode stands in for both.
	c := keycode.X11Keycode(k)
	return c, c
}

func (b *x11Backend) Key(code uint32) event.Key {
	return keycode.KeyFromX11Code(code)
}
