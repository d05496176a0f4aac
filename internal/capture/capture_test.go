package capture

import (
	"errors"
	"sync"
	"testing"
	"time"

	"inputhook/internal/event"
)

// fakeBackend drives the session state machine without touching the OS.
// Native codes are the key values themselves; scan codes are offset by 1000
// so tests can tell the two apart.
type fakeBackend struct {
	mu        sync.Mutex
	grabbed   map[uint32]bool
	ungrabbed []uint32
	openErr   error
	closed    bool
	events    chan nativeEvent
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		grabbed: make(map[uint32]bool),
		events:  make(chan nativeEvent, 16),
	}
}

func (f *fakeBackend) Open() error {
	return f.openErr
}

func (f *fakeBackend) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) GrabKey(code uint32) error {
	f.mu.Lock()
	f.grabbed[code] = true
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) UngrabKey(code uint32) error {
	f.mu.Lock()
	f.ungrabbed = append(f.ungrabbed, code)
	delete(f.grabbed, code)
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) Next() (nativeEvent, error) {
	ne, ok := <-f.events
	if !ok {
		return nativeEvent{}, errors.New("event stream closed")
	}
	return ne, nil
}

func (f *fakeBackend) Translate(k event.Key) (code, scan uint32) {
	return uint32(k), uint32(k) + 1000
}

func (f *fakeBackend) Key(code uint32) event.Key {
	return event.Key(code)
}

func (f *fakeBackend) grabbedCodes() []uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	codes := make([]uint32, 0, len(f.grabbed))
	for c := range f.grabbed {
		codes = append(codes, c)
	}
	return codes
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// stopSession flips the stop flag and pushes one dummy event so the
// blocking dequeue observes it.
func stopSession(s *Session, f *fakeBackend) error {
	s.Stop()
	f.events <- nativeEvent{Code: uint32(event.KeySpace), Press: true}
	return s.Wait()
}

func TestGrabPassSwallowsOnlyRequested(t *testing.T) {
	f := newFakeBackend()
	var (
		offeredMu sync.Mutex
		offered   int
	)

	s, err := NewSession(Options{
		Callback: func(ev event.Event) *event.Event {
			offeredMu.Lock()
			offered++
			offeredMu.Unlock()
			if p, ok := ev.Type.(event.KeyPress); ok && p.Key == event.KeyAlt {
				return nil
			}
			return &ev
		},
		backend: f,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	// The grab pass offers every enumerated key once.
	waitFor(t, "grab pass", func() bool {
		offeredMu.Lock()
		defer offeredMu.Unlock()
		return offered >= len(event.Keys())
	})

	if !s.Registry().IsGrabbed(event.KeyAlt) {
		t.Error("Alt should be grabbed")
	}

	if got := s.Registry().Len(); got != 1 {
		t.Errorf("registry holds %d keys, want 1", got)
	}
	if codes := f.grabbedCodes(); len(codes) != 1 || codes[0] != uint32(event.KeyAlt) {
		t.Errorf("backend grabbed %v, want just Alt", codes)
	}

	if err := stopSession(s, f); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	// Every grab is released on shutdown.
	if got := s.Registry().Len(); got != 0 {
		t.Errorf("registry holds %d keys after stop, want 0", got)
	}
	if len(f.ungrabbed) != 1 || f.ungrabbed[0] != uint32(event.KeyAlt) {
		t.Errorf("ungrabbed %v, want just Alt", f.ungrabbed)
	}
	f.mu.Lock()
	closed := f.closed
	f.mu.Unlock()
	if !closed {
		t.Error("backend not closed after Wait")
	}
}

func TestListenOnlySkipsGrabPass(t *testing.T) {
	f := newFakeBackend()

	s, err := NewSession(Options{
		Callback: func(ev event.Event) *event.Event {
			return nil // would swallow everything in grab mode
		},
		ListenOnly: true,
		backend:    f,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	if err := stopSession(s, f); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if got := len(f.grabbedCodes()); got != 0 {
		t.Errorf("listen-only session grabbed %d keys", got)
	}
}

// Consumers that forward captured events elsewhere key off Listening to
// tell real input from the grabbing pass's hypothetical offers. A session
// must not report Listening until the pass is over.
func TestGrabOffersPrecedeListeningPhase(t *testing.T) {
	f := newFakeBackend()

	var (
		mu     sync.Mutex
		sess   *Session
		offers int
		live   int
	)

	s, err := NewSession(Options{
		Callback: func(ev event.Event) *event.Event {
			mu.Lock()
			defer mu.Unlock()
			if sess.Listening() {
				live++
			} else {
				offers++
			}
			return &ev
		},
		backend: f,
	})
	if err != nil {
		t.Fatal(err)
	}
	sess = s

	if s.Listening() {
		t.Error("Listening before Start")
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	waitFor(t, "grab pass offers", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return offers >= len(event.Keys())
	})
	waitFor(t, "listening phase", s.Listening)

	mu.Lock()
	if live != 0 {
		t.Errorf("%d grab offers reported as live input", live)
	}
	mu.Unlock()

	f.events <- nativeEvent{Code: uint32(event.KeyA), Press: true}
	waitFor(t, "live event", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return live == 1
	})

	mu.Lock()
	if offers != len(event.Keys()) {
		t.Errorf("offers = %d, want %d", offers, len(event.Keys()))
	}
	mu.Unlock()

	if err := stopSession(s, f); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if s.Listening() {
		t.Error("Listening after stop")
	}
}

// Wait returning must mean the process-wide slot is free: a caller that
// restarts back-to-back never sees ErrSessionActive.
func TestRestartImmediatelyAfterWait(t *testing.T) {
	pass := func(ev event.Event) *event.Event { return &ev }
	for i := 0; i < 5; i++ {
		f := newFakeBackend()
		s, err := NewSession(Options{Callback: pass, ListenOnly: true, backend: f})
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Start(); err != nil {
			t.Fatalf("cycle %d: Start: %v", i, err)
		}
		if err := stopSession(s, f); err != nil {
			t.Fatalf("cycle %d: Wait: %v", i, err)
		}
	}
}

func TestEventTranslationAndOrdering(t *testing.T) {
	f := newFakeBackend()

	type rec struct {
		key   event.Key
		press bool
		code  uint32
		scan  uint32
		name  string
	}
	var (
		mu   sync.Mutex
		seen []rec
	)

	s, err := NewSession(Options{
		Callback: func(ev event.Event) *event.Event {
			r := rec{code: ev.Code, scan: ev.ScanCode, name: ev.Name}
			switch t := ev.Type.(type) {
			case event.KeyPress:
				r.key, r.press = t.Key, true
			case event.KeyRelease:
				r.key = t.Key
			}
			mu.Lock()
			seen = append(seen, r)
			mu.Unlock()
			return &ev
		},
		ListenOnly: true,
		backend:    f,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	// Interleaved sequence; press/release must come from each native
	// event's own flag.
	f.events <- nativeEvent{Code: uint32(event.KeyA), Press: true}
	f.events <- nativeEvent{Code: uint32(event.KeyB), Press: true}
	f.events <- nativeEvent{Code: uint32(event.KeyA), Press: false}
	f.events <- nativeEvent{Code: uint32(event.KeyB), Press: false}

	waitFor(t, "four events", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 4
	})

	want := []rec{
		{key: event.KeyA, press: true, code: uint32(event.KeyA), scan: uint32(event.KeyA) + 1000, name: "a"},
		{key: event.KeyB, press: true, code: uint32(event.KeyB), scan: uint32(event.KeyB) + 1000, name: "b"},
		{key: event.KeyA, press: false, code: uint32(event.KeyA), scan: uint32(event.KeyA) + 1000},
		{key: event.KeyB, press: false, code: uint32(event.KeyB), scan: uint32(event.KeyB) + 1000},
	}
	mu.Lock()
	defer mu.Unlock()
	for i, w := range want {
		if seen[i] != w {
			t.Errorf("event %d = %+v, want %+v", i, seen[i], w)
		}
	}

	s.Stop()
	f.events <- nativeEvent{Code: uint32(event.KeySpace), Press: true}
	if err := s.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func TestSecondSessionRejected(t *testing.T) {
	f1 := newFakeBackend()
	pass := func(ev event.Event) *event.Event { return &ev }

	s1, err := NewSession(Options{Callback: pass, ListenOnly: true, backend: f1})
	if err != nil {
		t.Fatal(err)
	}
	if err := s1.Start(); err != nil {
		t.Fatal(err)
	}

	s2, err := NewSession(Options{Callback: pass, ListenOnly: true, backend: newFakeBackend()})
	if err != nil {
		t.Fatal(err)
	}
	if err := s2.Start(); !errors.Is(err, ErrSessionActive) {
		t.Errorf("second Start = %v, want ErrSessionActive", err)
	}

	if err := stopSession(s1, f1); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	// Once the first session is fully stopped the slot frees up.
	f2 := newFakeBackend()
	s3, err := NewSession(Options{Callback: pass, ListenOnly: true, backend: f2})
	if err != nil {
		t.Fatal(err)
	}
	if err := s3.Start(); err != nil {
		t.Fatalf("Start after stop: %v", err)
	}
	if err := stopSession(s3, f2); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func TestOpenFailureIsGrabError(t *testing.T) {
	f := newFakeBackend()
	f.openErr = errors.New("no display")

	s, err := NewSession(Options{
		Callback: func(ev event.Event) *event.Event { return &ev },
		backend:  f,
	})
	if err != nil {
		t.Fatal(err)
	}

	err = s.Start()
	var ge *GrabError
	if !errors.As(err, &ge) {
		t.Fatalf("Start = %v, want *GrabError", err)
	}
	if !errors.Is(err, f.openErr) {
		t.Errorf("GrabError does not wrap the cause: %v", err)
	}

	// A failed open must not leave the process-wide slot taken.
	f2 := newFakeBackend()
	s2, err := NewSession(Options{
		Callback:   func(ev event.Event) *event.Event { return &ev },
		ListenOnly: true,
		backend:    f2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s2.Start(); err != nil {
		t.Fatalf("Start after failed open: %v", err)
	}
	if err := stopSession(s2, f2); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func TestStreamErrorSurfacesFromWait(t *testing.T) {
	f := newFakeBackend()

	s, err := NewSession(Options{
		Callback:   func(ev event.Event) *event.Event { return &ev },
		ListenOnly: true,
		backend:    f,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	close(f.events)

	if err := s.Wait(); err == nil {
		t.Error("Wait should return the stream error")
	}
}

func TestNewSessionRequiresCallback(t *testing.T) {
	if _, err := NewSession(Options{}); err == nil {
		t.Error("NewSession without callback should fail")
	}
}
