// Package hotkey matches key combinations against the captured event stream.
package hotkey

import (
	"log"
	"strings"
	"sync"

	"inputhook/internal/event"
)

// Manager handles hotkey registration and matching. It is fed from a
// capture session via Feed rather than installing hooks of its own.
type Manager struct {
	mu           sync.RWMutex
	hotkeys      []*registeredHotkey
	currentState map[string]bool // map of current keys pressed
}

type registeredHotkey struct {
	parts    []string // e.g., ["CTRL", "ALT", "ESC"]
	original string
	callback func()
}

// NewManager creates a new hotkey manager
func NewManager() *Manager {
	return &Manager{
		currentState: make(map[string]bool),
	}
}

// Register registers a hotkey string (e.g. "Ctrl+Alt+Shift+Esc") and a callback.
func (m *Manager) Register(hotkeyStr string, callback func()) (int, error) {
	if hotkeyStr == "" {
		return 0, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	parts := strings.Split(strings.ToUpper(hotkeyStr), "+")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}

	m.hotkeys = append(m.hotkeys, &registeredHotkey{
		parts:    parts,
		original: hotkeyStr,
		callback: callback,
	})

	return len(m.hotkeys) - 1, nil
}

// Clear removes all registered hotkeys
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hotkeys = nil
}

// Feed updates hotkey state from a captured event. Non-key events are ignored.
func (m *Manager) Feed(ev event.Event) {
	switch t := ev.Type.(type) {
	case event.KeyPress:
		m.UpdateState(stateName(t.Key), true)
	case event.KeyRelease:
		m.UpdateState(stateName(t.Key), false)
	}
}

// stateName folds left/right modifier pairs into the name hotkey strings use.
func stateName(k event.Key) string {
	switch k {
	case event.KeyControlLeft, event.KeyControlRight:
		return "CTRL"
	case event.KeyAlt, event.KeyAltGr:
		return "ALT"
	case event.KeyShiftLeft, event.KeyShiftRight:
		return "SHIFT"
	case event.KeyMetaLeft, event.KeyMetaRight:
		return "META"
	case event.KeyEscape:
		return "ESC"
	default:
		return strings.ToUpper(k.String())
	}
}

// UpdateState updates the internal state of a key and checks for matches.
func (m *Manager) UpdateState(key string, isDown bool) {
	m.mu.Lock()
	key = strings.ToUpper(key)
	if isDown {
		m.currentState[key] = true
	} else {
		delete(m.currentState, key)
	}
	m.mu.Unlock()

	if isDown {
		m.checkMatches()
	}
}

func (m *Manager) checkMatches() {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, hk := range m.hotkeys {
		match := true
		// All parts of the hotkey must be in currentState
		for _, part := range hk.parts {
			if !m.currentState[part] {
				match = false
				break
			}
		}

		if match {
			// Basic match found, trigger callback in a goroutine
			log.Printf("Hotkey triggered: %s", hk.original)
			go hk.callback()
		}
	}
}
