//go:build !windows && (!linux || !cgo)

package capture

import (
	"errors"

	"inputhook/internal/event"
)

// Stub backend for platforms without a capture implementation.

type stubBackend struct{}

func newBackend() backend {
	return stubBackend{}
}

func (stubBackend) Open() error {
	return errors.New("input capture not supported on this platform")
}

func (stubBackend) Close() error                  { return nil }
func (stubBackend) GrabKey(code uint32) error     { return nil }
func (stubBackend) UngrabKey(code uint32) error   { return nil }
func (stubBackend) Next() (nativeEvent, error) {
	return nativeEvent{}, errors.New("input capture not supported on this platform")
}
func (stubBackend) Translate(k event.Key) (uint32, uint32) { return 0, 0 }
func (stubBackend) Key(code uint32) event.Key              { return event.KeyUnknown }
