//go:build windows

package capture

import "testing"

// NewCallback registrations are never reclaimed by the runtime, so the hook
// procedure must be minted once for the process and shared by every Open.
func TestHookCallbackRegisteredOnce(t *testing.T) {
	first := hookCallback()
	if first == 0 {
		t.Fatal("hook callback pointer is zero")
	}
	if second := hookCallback(); second != first {
		t.Errorf("hook callback re-registered: %#x then %#x", first, second)
	}
}
