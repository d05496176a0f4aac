// Package simulate synthesizes input events that the OS delivers as if
// generated by real hardware.
package simulate

import (
	"fmt"
	"time"
)

// wheelDelta is the native wheel unit: one tick of a scroll wheel.
const wheelDelta = 120

// settleDelay gives the receiving application time to process an injected
// event before the caller proceeds. Fixed, not adaptive.
const settleDelay = 20 * time.Millisecond

// Error reports a failed synthesis call. The OS rejected the injection, a
// value could not be represented in the native type, or a required system
// metric was unavailable.
type Error struct {
	Op    string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("simulate %s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("simulate %s failed", e.Op)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func simErr(op string, format string, args ...interface{}) *Error {
	return &Error{Op: op, Cause: fmt.Errorf(format, args...)}
}

// wheelTicks range-checks a wheel delta against the native signed 16-bit
// ticks type. Out-of-range deltas are an error, never a truncation.
func wheelTicks(delta int64) (int16, error) {
	if delta < -32768 || delta > 32767 {
		return 0, simErr("wheel", "delta %d exceeds native tick range", delta)
	}
	return int16(delta), nil
}

// wheelAmount scales a tick count into the native mouseData value.
func wheelAmount(delta int64) (int32, error) {
	ticks, err := wheelTicks(delta)
	if err != nil {
		return 0, err
	}
	return int32(ticks) * wheelDelta, nil
}

// virtualDesktopPoint maps absolute screen coordinates into the
// virtual-desktop-normalized 0..65535 space. A zero-size desktop cannot be
// normalized against and is an error, checked before any injection call.
func virtualDesktopPoint(x, y float64, width, height int32) (dx, dy int32, err error) {
	if width == 0 || height == 0 {
		return 0, 0, simErr("mouse move", "virtual desktop reports zero size (%dx%d)", width, height)
	}
	dx = (int32(x) + 1) * 65535 / width
	dy = (int32(y) + 1) * 65535 / height
	return dx, dy, nil
}

// WithDelay runs fn and then sleeps for the fixed settle delay so the
// receiving application can catch up. Use when pacing a burst of synthetic
// events.
func WithDelay(fn func() error) error {
	if err := fn(); err != nil {
		return err
	}
	time.Sleep(settleDelay)
	return nil
}
