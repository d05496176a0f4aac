package capture

import "inputhook/internal/event"

// nativeEvent is one event dequeued from the native input stream. Press or
// release comes from the native event's own type field.
type nativeEvent struct {
	Code  uint32
	Press bool
}

// backend abstracts the platform input subsystem so the session state
// machine stays platform-neutral. Open and Close bracket the handle's
// lifetime; Next blocks until the next native key event. GrabKey and
// UngrabKey are idempotent at the OS-call level: issuing either twice is
// not an error.
type backend interface {
	Open() error
	Close() error
	GrabKey(code uint32) error
	UngrabKey(code uint32) error
	Next() (nativeEvent, error)

	// Translate returns the native code and scan code for a key; Key is
	// the reverse direction and must be total (unmapped codes resolve to
	// KeyUnknown).
	Translate(k event.Key) (code, scan uint32)
	Key(code uint32) event.Key
}
