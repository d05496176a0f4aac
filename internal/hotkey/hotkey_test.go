package hotkey

import (
	"testing"
	"time"

	"inputhook/internal/event"
)

func press(k event.Key) event.Event {
	return event.Event{Type: event.KeyPress{Key: k}, Time: time.Now()}
}

func release(k event.Key) event.Event {
	return event.Event{Type: event.KeyRelease{Key: k}, Time: time.Now()}
}

func TestComboMatch(t *testing.T) {
	m := NewManager()
	fired := make(chan struct{}, 1)
	if _, err := m.Register("Ctrl+Alt+Shift+Esc", func() { fired <- struct{}{} }); err != nil {
		t.Fatal(err)
	}

	m.Feed(press(event.KeyControlLeft))
	m.Feed(press(event.KeyAlt))
	m.Feed(press(event.KeyShiftLeft))
	m.Feed(press(event.KeyEscape))

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("combo did not fire")
	}
}

func TestPartialComboDoesNotFire(t *testing.T) {
	m := NewManager()
	fired := make(chan struct{}, 1)
	m.Register("Ctrl+Alt+Q", func() { fired <- struct{}{} })

	m.Feed(press(event.KeyControlLeft))
	m.Feed(press(event.KeyQ))

	select {
	case <-fired:
		t.Fatal("partial combo fired")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestReleaseBreaksCombo(t *testing.T) {
	m := NewManager()
	fired := make(chan struct{}, 1)
	m.Register("Ctrl+P", func() { fired <- struct{}{} })

	m.Feed(press(event.KeyControlRight))
	m.Feed(release(event.KeyControlRight))
	m.Feed(press(event.KeyP))

	select {
	case <-fired:
		t.Fatal("combo fired after modifier release")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRightModifierCounts(t *testing.T) {
	m := NewManager()
	fired := make(chan struct{}, 1)
	m.Register("Ctrl+Alt+X", func() { fired <- struct{}{} })

	// Right-side control and AltGr fold into the same combo parts.
	m.Feed(press(event.KeyControlRight))
	m.Feed(press(event.KeyAltGr))
	m.Feed(press(event.KeyX))

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("combo did not fire with right-side modifiers")
	}
}

func TestClear(t *testing.T) {
	m := NewManager()
	fired := make(chan struct{}, 1)
	m.Register("Ctrl+C", func() { fired <- struct{}{} })
	m.Clear()

	m.Feed(press(event.KeyControlLeft))
	m.Feed(press(event.KeyC))

	select {
	case <-fired:
		t.Fatal("cleared hotkey fired")
	case <-time.After(50 * time.Millisecond):
	}
}
