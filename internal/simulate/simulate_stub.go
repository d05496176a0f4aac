//go:build !windows && (!linux || !cgo)

package simulate

import "inputhook/internal/event"

// Stub implementation for platforms without a synthesis backend.

// Simulate injects one event (stub).
func Simulate(et event.EventType) error {
	return simErr("event", "input synthesis not supported on this platform")
}

// SimulateChar synthesizes a literal character (stub).
func SimulateChar(ch rune, pressed bool) error {
	return simErr("char", "input synthesis not supported on this platform")
}
