// Package capture runs the system-wide input interception loop: it listens
// to the native input stream, translates each native event into the
// abstract model, offers it to a filter callback, and grabs at the OS level
// every key the callback decides to swallow.
package capture

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"inputhook/internal/event"
	"inputhook/internal/grab"
	"inputhook/internal/keycode"
)

// Callback filters captured events. Returning nil swallows the event's key:
// during the grabbing pass the key is grabbed at the OS level so its normal
// system-wide effect is suppressed. A non-nil return lets the key pass; the
// returned event is only used as a signal and is not re-injected.
type Callback func(event.Event) *event.Event

// ErrSessionActive is returned when a capture session is started while
// another one is running. Only one session per process is supported.
var ErrSessionActive = errors.New("a capture session is already active")

// GrabError reports a failure to establish the capture session, typically
// an inability to open the native input subsystem.
type GrabError struct {
	Cause error
}

func (e *GrabError) Error() string {
	return fmt.Sprintf("open capture: %v", e.Cause)
}

func (e *GrabError) Unwrap() error {
	return e.Cause
}

// sessionActive enforces the one-session-per-process contract.
var sessionActive atomic.Bool

// Options configures a capture session.
type Options struct {
	// Callback is the filter consulted for every event. Required. It is
	// fixed for the session's lifetime; there is no supported way to
	// replace it while the session runs.
	Callback Callback

	// ListenOnly skips the grabbing pass: every event is observed and
	// forwarded, nothing is suppressed.
	ListenOnly bool

	// backend overrides the platform backend. Test seam.
	backend backend
}

// Session owns the capture state: the native handle, the grab registry and
// the background goroutine running the interception loop. Lifecycle is
// Start, Stop, Wait; a stopped session can be started again, and every
// start reruns the grabbing pass so the OS grab set always reflects the
// callback's current decisions.
type Session struct {
	cb         Callback
	listenOnly bool
	backend    backend
	registry   *grab.Registry

	mu        sync.Mutex
	running   bool
	enabled   atomic.Bool
	listening atomic.Bool
	done      chan struct{}
	runErr    error
}

// NewSession validates options and builds a session. The platform backend
// is not opened until Start.
func NewSession(opts Options) (*Session, error) {
	if opts.Callback == nil {
		return nil, errors.New("capture: callback is required")
	}
	b := opts.backend
	if b == nil {
		b = newBackend()
	}
	return &Session{
		cb:         opts.Callback,
		listenOnly: opts.ListenOnly,
		backend:    b,
		registry:   grab.NewRegistry(),
	}, nil
}

// Registry exposes the grab state for inspection.
func (s *Session) Registry() *grab.Registry {
	return s.registry
}

// Listening reports whether the session has finished the grabbing pass and
// is consuming real native events. Callback invocations made while this is
// false are the grabbing pass's hypothetical key offers, not captured
// input; consumers that forward events elsewhere must check it.
func (s *Session) Listening() bool {
	return s.listening.Load()
}

// Start opens the native input handle and launches the interception loop.
// It fails with ErrSessionActive if any session in the process is already
// running, and with GrabError when the native subsystem cannot be opened.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrSessionActive
	}
	if !sessionActive.CompareAndSwap(false, true) {
		return ErrSessionActive
	}

	if err := s.backend.Open(); err != nil {
		sessionActive.Store(false)
		return &GrabError{Cause: err}
	}

	s.running = true
	s.enabled.Store(true)
	s.done = make(chan struct{})
	s.runErr = nil
	go s.run()
	return nil
}

// Stop asks the loop to exit. The loop observes the flag before each
// grabbing pass and after each dequeued event, so shutdown latency is
// bounded by the processing of one pending native event. Stop does not
// wait; use Wait for that.
func (s *Session) Stop() {
	s.enabled.Store(false)
}

// Wait blocks until the loop has exited and every grabbed key has been
// released, then returns the error that terminated the loop, if any.
func (s *Session) Wait() error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done == nil {
		return nil
	}
	<-done

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runErr
}

func (s *Session) run() {
	defer func() {
		s.listening.Store(false)
		s.releaseGrabs()
		if err := s.backend.Close(); err != nil {
			log.Printf("capture: closing input handle: %v", err)
		}
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		// Free the process-wide slot before unblocking Wait, so a caller
		// restarting right after Wait returns never sees ErrSessionActive.
		sessionActive.Store(false)
		close(s.done)
	}()

	if !s.listenOnly {
		s.grabPass()
	}
	s.listening.Store(true)
	s.listen()
}

// grabPass offers a hypothetical press of every enumerated key to the
// callback and grabs the ones it would swallow. Filtering is decided here;
// the listening loop only observes.
func (s *Session) grabPass() {
	for _, k := range event.Keys() {
		if !s.enabled.Load() {
			return
		}
		if s.cb(s.convert(k, true)) != nil {
			continue
		}
		if s.registry.IsGrabbed(k) {
			continue
		}
		code, _ := s.backend.Translate(k)
		if err := s.backend.GrabKey(code); err != nil {
			log.Printf("capture: grab %v (code %d): %v", k, code, err)
			continue
		}
		s.registry.MarkGrabbed(k)
	}
}

// listen blocks on the native event queue and forwards each translated
// event to the callback. Press/release is taken from the native event's own
// flag, never inferred from history. Callback invocations never overlap:
// the next event is dequeued only after the callback returns.
func (s *Session) listen() {
	for s.enabled.Load() {
		ne, err := s.backend.Next()
		if err != nil {
			if s.enabled.Load() {
				s.mu.Lock()
				s.runErr = fmt.Errorf("capture: next event: %w", err)
				s.mu.Unlock()
				s.enabled.Store(false)
			}
			return
		}
		if !s.enabled.Load() {
			return
		}
		s.cb(s.convert(s.backend.Key(ne.Code), ne.Press))
	}
}

// convert builds an abstract Event for a key. Time is captured here, at
// translation time. Unmapped codes have already been folded to KeyUnknown
// by the backend, so conversion is total.
func (s *Session) convert(k event.Key, press bool) event.Event {
	code, scan := s.backend.Translate(k)
	ev := event.Event{
		Time:     time.Now(),
		Code:     code,
		ScanCode: scan,
	}
	if press {
		ev.Type = event.KeyPress{Key: k}
		ev.Name = keycode.Text(k)
	} else {
		ev.Type = event.KeyRelease{Key: k}
	}
	return ev
}

// releaseGrabs ungrabs every key the session grabbed. Runs on every exit
// path, including cancellation.
func (s *Session) releaseGrabs() {
	for _, k := range s.registry.Grabbed() {
		code, _ := s.backend.Translate(k)
		if err := s.backend.UngrabKey(code); err != nil {
			log.Printf("capture: ungrab %v (code %d): %v", k, code, err)
		}
		s.registry.Unmark(k)
	}
}

// Grab installs the filter callback and captures until the session is
// stopped from the callback side or fails. It blocks for the session's
// duration, preserving the original single-call contract; use NewSession
// directly for a start/stop/wait lifecycle.
func Grab(cb Callback) error {
	s, err := NewSession(Options{Callback: cb})
	if err != nil {
		return err
	}
	if err := s.Start(); err != nil {
		return err
	}
	return s.Wait()
}

// Listen observes every event without suppressing any. Blocks like Grab.
func Listen(cb func(event.Event)) error {
	s, err := NewSession(Options{
		Callback: func(ev event.Event) *event.Event {
			cb(ev)
			return &ev
		},
		ListenOnly: true,
	})
	if err != nil {
		return err
	}
	if err := s.Start(); err != nil {
		return err
	}
	return s.Wait()
}
