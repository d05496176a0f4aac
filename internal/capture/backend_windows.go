//go:build windows

package capture

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/windows"

	"inputhook/internal/event"
	"inputhook/internal/keycode"
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procSetWindowsHookEx    = user32.NewProc("SetWindowsHookExW")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procPeekMessage         = user32.NewProc("PeekMessageW")
)

const (
	whKeyboardLL = 13
	wmKeydown    = 0x0100
	wmKeyup      = 0x0101
	wmSyskeydown = 0x0104
	wmSyskeyup   = 0x0105
	pmRemove     = 0x0001
)

type kbdllhookstruct struct {
	vkCode      uint32
	scanCode    uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

type msg struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      struct{ x, y int32 }
}

// The hook procedure is registered with windows.NewCallback exactly once
// for the process: callbacks are never reclaimed, so minting one per Open
// would leak toward the hard callback cap. The active backend is routed
// through a package-level pointer instead.
var (
	hookCbOnce sync.Once
	hookCbPtr  uintptr
	activeHook atomic.Pointer[windowsBackend]
)

func hookCallback() uintptr {
	hookCbOnce.Do(func() {
		hookCbPtr = windows.NewCallback(lowLevelKeyboardProc)
	})
	return hookCbPtr
}

func lowLevelKeyboardProc(nCode int32, wParam uintptr, lParam uintptr) uintptr {
	if nCode >= 0 {
		if b := activeHook.Load(); b != nil {
			kb := (*kbdllhookstruct)(unsafe.Pointer(lParam))
			press := wParam == wmKeydown || wParam == wmSyskeydown
			select {
			case b.events <- nativeEvent{Code: kb.vkCode, Press: press}:
			default:
				// Queue full; dropping beats stalling the hook chain.
			}
			if b.isGrabbed(kb.vkCode) {
				return 1
			}
		}
	}
	r, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return r
}

// windowsBackend captures through a low-level keyboard hook. "Grabbing" a
// key means the hook swallows it (returns nonzero) instead of passing it
// down the hook chain, which suppresses its system-wide effect.
type windowsBackend struct {
	mu      sync.Mutex
	grabbed map[uint32]bool

	events chan nativeEvent
	done   chan struct{}
	hook   uintptr
}

func newBackend() backend {
	return &windowsBackend{grabbed: make(map[uint32]bool)}
}

func (b *windowsBackend) Open() error {
	b.events = make(chan nativeEvent, 256)
	b.done = make(chan struct{})

	// Hook installation and the message loop must share one OS thread.
	errCh := make(chan error, 1)
	go b.runHook(errCh)
	return <-errCh
}

func (b *windowsBackend) runHook(errCh chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	activeHook.Store(b)
	hook, _, err := procSetWindowsHookEx.Call(
		whKeyboardLL,
		hookCallback(),
		0,
		0,
	)
	if hook == 0 {
		activeHook.Store(nil)
		errCh <- fmt.Errorf("SetWindowsHookEx: %w", err)
		return
	}
	b.hook = hook
	errCh <- nil

	var m msg
	for {
		select {
		case <-b.done:
			activeHook.CompareAndSwap(b, nil)
			procUnhookWindowsHookEx.Call(b.hook)
			b.hook = 0
			close(b.events)
			return
		default:
			r, _, _ := procPeekMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0, pmRemove)
			if r == 0 {
				runtime.Gosched()
			}
		}
	}
}

func (b *windowsBackend) Close() error {
	select {
	case <-b.done:
	default:
		close(b.done)
	}
	return nil
}

func (b *windowsBackend) isGrabbed(code uint32) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.grabbed[code]
}

func (b *windowsBackend) GrabKey(code uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.grabbed[code] = true
	return nil
}

func (b *windowsBackend) UngrabKey(code uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.grabbed, code)
	return nil
}

func (b *windowsBackend) Next() (nativeEvent, error) {
	ne, ok := <-b.events
	if !ok {
		return nativeEvent{}, errors.New("capture hook closed")
	}
	return ne, nil
}

func (b *windowsBackend) Translate(k event.Key) (code, scan uint32) {
	vk, sc := keycode.WindowsCode(k)
	return uint32(vk), uint32(sc)
}

func (b *windowsBackend) Key(code uint32) event.Key {
	if code > 0xFFFF {
		return event.KeyUnknown
	}
	return keycode.KeyFromWindowsCode(uint16(code))
}
