// InputHook - global input capture, suppression and synthesis service
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"inputhook/internal/api"
	"inputhook/internal/autostart"
	"inputhook/internal/capture"
	"inputhook/internal/config"
	"inputhook/internal/event"
	"inputhook/internal/hotkey"
	"inputhook/internal/network"
	"inputhook/internal/osutils"
	"inputhook/internal/protocol"
	"inputhook/internal/simulate"
	"inputhook/internal/tray"
)

var (
	version     = "0.3.0"
	listenMode  = flag.Bool("listen", false, "Print input events without suppressing anything")
	connectAddr = flag.String("connect", "", "Connect to a remote capture host (ip:port)")
	injectMode  = flag.Bool("inject", false, "With -connect: replay received events locally")
	simulateArg = flag.String("simulate", "", "Synthesize one event and exit (e.g. key:Return, text:hi, move:100,200, wheel:0,-3, button:1)")
	discover    = flag.Bool("discover", false, "Scan the LAN for capture hosts")
	showVer     = flag.Bool("version", false, "Show version")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("inputhook version %s\n", version)
		return
	}

	// Initialize config
	cfgMgr, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}
	if err := cfgMgr.Load(); err != nil {
		log.Printf("Warning: failed to load config: %v", err)
	}

	switch {
	case *listenMode:
		runListen()
	case *simulateArg != "":
		runSimulate(*simulateArg)
	case *connectAddr != "":
		runConnect(cfgMgr, *connectAddr, *injectMode)
	case *discover:
		runDiscover(cfgMgr)
	default:
		runService(cfgMgr)
	}
}

// runListen observes the event stream without suppressing anything.
func runListen() {
	log.Println("Listening for input events. Press Ctrl+C to stop.")

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		os.Exit(0)
	}()

	err := capture.Listen(func(ev event.Event) {
		fmt.Println(formatEvent(ev))
	})
	if err != nil {
		log.Fatalf("Listen failed: %v", err)
	}
}

func formatEvent(ev event.Event) string {
	ts := ev.Time.Format("15:04:05.000")
	switch t := ev.Type.(type) {
	case event.KeyPress:
		return fmt.Sprintf("%s key press   %-14s code=%d scan=%d name=%q", ts, t.Key, ev.Code, ev.ScanCode, ev.Name)
	case event.KeyRelease:
		return fmt.Sprintf("%s key release %-14s code=%d scan=%d", ts, t.Key, ev.Code, ev.ScanCode)
	case event.ButtonPress:
		return fmt.Sprintf("%s button press %s", ts, t.Button)
	case event.ButtonRelease:
		return fmt.Sprintf("%s button release %s", ts, t.Button)
	case event.Wheel:
		return fmt.Sprintf("%s wheel dx=%d dy=%d", ts, t.DeltaX, t.DeltaY)
	case event.MouseMove:
		return fmt.Sprintf("%s move x=%.0f y=%.0f", ts, t.X, t.Y)
	default:
		return fmt.Sprintf("%s unknown event", ts)
	}
}

// runSimulate synthesizes a single event described by spec and exits.
func runSimulate(spec string) {
	if err := doSimulate(spec); err != nil {
		log.Fatalf("Simulate failed: %v", err)
	}
}

func doSimulate(spec string) error {
	kind, arg, ok := strings.Cut(spec, ":")
	if !ok {
		return fmt.Errorf("bad simulate spec %q, want kind:arg", spec)
	}

	switch kind {
	case "key":
		k, ok := event.ParseKey(arg)
		if !ok {
			return fmt.Errorf("unknown key %q", arg)
		}
		if err := simulate.WithDelay(func() error {
			return simulate.Simulate(event.KeyPress{Key: k})
		}); err != nil {
			return err
		}
		return simulate.WithDelay(func() error {
			return simulate.Simulate(event.KeyRelease{Key: k})
		})

	case "text":
		for _, ch := range arg {
			if err := simulate.WithDelay(func() error {
				return simulate.SimulateChar(ch, true)
			}); err != nil {
				return err
			}
			if err := simulate.WithDelay(func() error {
				return simulate.SimulateChar(ch, false)
			}); err != nil {
				return err
			}
		}
		return nil

	case "move":
		x, y, err := parsePair(arg)
		if err != nil {
			return err
		}
		return simulate.Simulate(event.MouseMove{X: float64(x), Y: float64(y)})

	case "wheel":
		dx, dy, err := parsePair(arg)
		if err != nil {
			return err
		}
		return simulate.Simulate(event.Wheel{DeltaX: dx, DeltaY: dy})

	case "button":
		n, err := strconv.ParseUint(arg, 10, 16)
		if err != nil {
			return fmt.Errorf("bad button %q: %w", arg, err)
		}
		var b event.Button
		switch n {
		case 1:
			b = event.ButtonLeft
		case 2:
			b = event.ButtonMiddle
		case 3:
			b = event.ButtonRight
		default:
			b = event.ExtraButton(uint16(n))
		}
		if err := simulate.WithDelay(func() error {
			return simulate.Simulate(event.ButtonPress{Button: b})
		}); err != nil {
			return err
		}
		return simulate.WithDelay(func() error {
			return simulate.Simulate(event.ButtonRelease{Button: b})
		})

	default:
		return fmt.Errorf("unknown simulate kind %q", kind)
	}
}

func parsePair(arg string) (int64, int64, error) {
	a, b, ok := strings.Cut(arg, ",")
	if !ok {
		return 0, 0, fmt.Errorf("bad pair %q, want x,y", arg)
	}
	x, err := strconv.ParseInt(strings.TrimSpace(a), 10, 64)
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.ParseInt(strings.TrimSpace(b), 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// runConnect attaches to a remote capture host and prints (or replays) its
// event stream. Uses the UDP fast path when available and falls back to the
// WebSocket stream otherwise.
func runConnect(cfgMgr *config.Manager, addr string, inject bool) {
	cfg := cfgMgr.Get()

	handle := func(et event.EventType, ts int64) {
		ev := event.Event{Type: et, Time: time.UnixMilli(ts)}
		fmt.Println(formatEvent(ev))
		if inject {
			if err := simulate.Simulate(et); err != nil {
				log.Printf("Inject failed: %v", err)
			}
		}
	}

	udp := network.NewUDPReceiver(addr)
	if udp.Probe() {
		udp.OnEvent = handle
		if err := udp.Start(); err != nil {
			log.Fatalf("UDP receiver failed: %v", err)
		}
		defer udp.Stop()
	} else {
		log.Println("UDP path blocked, using WebSocket stream")
		ws := network.NewWSClient(addr, cfg.General.APIToken)
		ws.OnEvent = func(p protocol.EventPayload) {
			et, err := p.EventType()
			if err != nil {
				return
			}
			handle(et, p.Time)
		}
		ws.Start()
		defer ws.Close()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("Disconnecting...")
}

// runDiscover scans the LAN for other capture hosts.
func runDiscover(cfgMgr *config.Manager) {
	cfg := cfgMgr.Get()
	log.Printf("Scanning LAN on port %d...", cfg.General.APIPort)

	hosts, err := network.ScanLAN(cfg.General.APIPort)
	if err != nil {
		log.Fatalf("Scan failed: %v", err)
	}

	if len(hosts) == 0 {
		fmt.Println("No capture hosts found")
		return
	}
	for _, h := range hosts {
		fmt.Printf("%s:%d  capturing=%v  version=%s\n", h.IP, h.Port, h.Capturing, h.Version)
	}
}

// captureService owns the capture session and fans captured events out to
// the configured sinks. It implements api.CaptureController.
type captureService struct {
	cfgMgr *config.Manager

	mu      sync.Mutex
	session *capture.Session
	swallow map[event.Key]bool

	sinksMu sync.RWMutex
	sinks   []func(event.Event)
}

func newCaptureService(cfgMgr *config.Manager) *captureService {
	return &captureService{cfgMgr: cfgMgr}
}

// AddSink registers a consumer for captured events.
func (s *captureService) AddSink(fn func(event.Event)) {
	s.sinksMu.Lock()
	s.sinks = append(s.sinks, fn)
	s.sinksMu.Unlock()
}

func (s *captureService) callback(ev event.Event) *event.Event {
	// Sinks see captured input only. While the session is still in its
	// grabbing pass the callback receives hypothetical key offers, which
	// must not reach the hotkey manager or the network streams.
	s.mu.Lock()
	sess := s.session
	s.mu.Unlock()
	if sess != nil && sess.Listening() {
		s.sinksMu.RLock()
		for _, sink := range s.sinks {
			sink(ev)
		}
		s.sinksMu.RUnlock()
	}

	switch t := ev.Type.(type) {
	case event.KeyPress:
		if s.swallow[t.Key] {
			return nil
		}
	case event.KeyRelease:
		if s.swallow[t.Key] {
			return nil
		}
	}
	return &ev
}

// Capturing reports whether a session is currently running.
func (s *captureService) Capturing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil
}

// GrabbedKeys lists the keys currently held by the session's grab registry.
func (s *captureService) GrabbedKeys() []string {
	s.mu.Lock()
	sess := s.session
	s.mu.Unlock()

	if sess == nil {
		return nil
	}
	keys := sess.Registry().Grabbed()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return names
}

// StartCapture creates and starts a capture session.
func (s *captureService) StartCapture() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil {
		return capture.ErrSessionActive
	}

	cfg := s.cfgMgr.Get()
	swallow := make(map[event.Key]bool, len(cfg.General.SwallowKeys))
	for _, name := range cfg.General.SwallowKeys {
		k, ok := event.ParseKey(name)
		if !ok {
			log.Printf("Warning: unknown swallow key %q in config", name)
			continue
		}
		swallow[k] = true
	}
	s.swallow = swallow

	sess, err := capture.NewSession(capture.Options{
		Callback:   s.callback,
		ListenOnly: cfg.General.ListenOnly,
	})
	if err != nil {
		return err
	}
	if err := sess.Start(); err != nil {
		return err
	}
	s.session = sess

	go func() {
		if err := sess.Wait(); err != nil {
			log.Printf("Capture session ended: %v", err)
		}
		s.mu.Lock()
		if s.session == sess {
			s.session = nil
		}
		s.mu.Unlock()
	}()

	return nil
}

// StopCapture asks the current session to stop, if any.
func (s *captureService) StopCapture() {
	s.mu.Lock()
	sess := s.session
	s.mu.Unlock()

	if sess != nil {
		sess.Stop()
	}
}

func runService(cfgMgr *config.Manager) {
	log.Println("InputHook service starting...")

	cfg := cfgMgr.Get()
	svc := newCaptureService(cfgMgr)

	// API server with WebSocket event stream
	var apiServer *api.Server
	if cfg.General.APIEnabled {
		// Ensure firewall rule exists on Windows
		if runtime.GOOS == "windows" {
			go func() {
				if err := osutils.EnsureFirewallRule(cfg.General.APIPort); err != nil {
					log.Printf("Firewall warning: %v", err)
				}
			}()
		}

		apiServer = api.NewServer(cfgMgr, svc, version)
		svc.AddSink(apiServer.PublishEvent)

		go func() {
			if err := apiServer.Start(cfg.General.APIPort); err != nil {
				log.Printf("API server error: %v", err)
			}
		}()
	}

	// UDP broadcast of captured events
	if cfg.General.UDPStreamEnabled {
		udpSender := network.NewUDPSender(cfg.General.APIPort)
		if err := udpSender.Start(); err != nil {
			log.Printf("Warning: UDP sender failed to start: %v", err)
		} else {
			svc.AddSink(udpSender.BroadcastEvent)
			defer udpSender.Stop()
		}
	}

	// Hotkey manager, fed from the captured stream
	hkMgr := hotkey.NewManager()
	svc.AddSink(hkMgr.Feed)

	// Debouncer for hotkeys
	var lastHkTime time.Time
	var hkMux sync.Mutex
	debounce := func() bool {
		hkMux.Lock()
		defer hkMux.Unlock()
		if time.Since(lastHkTime) < 500*time.Millisecond {
			return false
		}
		lastHkTime = time.Now()
		return true
	}

	t := tray.New("InputHook - input capture service")
	var captureItem int

	refreshHotkeys := func() {
		cfg := cfgMgr.Get()
		hkMgr.Clear()

		if cfg.General.EscapeHotkey != "" {
			_, err := hkMgr.Register(cfg.General.EscapeHotkey, func() {
				if !debounce() {
					return
				}
				log.Printf("EMERGENCY: Escape hotkey pressed - stopping capture")
				svc.StopCapture()
				t.SetItemChecked(captureItem, false)
			})
			if err != nil {
				log.Printf("Warning: failed to register escape hotkey: %v", err)
			} else {
				log.Printf("Registered emergency escape hotkey: %s", cfg.General.EscapeHotkey)
			}
		}
	}

	refreshHotkeys()
	cfgMgr.RegisterChangeCallback(refreshHotkeys)

	if runtime.GOOS == "windows" && !osutils.IsAdmin() {
		log.Println("Note: running without administrator privileges; some windows may not deliver events")
	}

	// Start capturing immediately unless tray-controlled startup is preferred
	if err := svc.StartCapture(); err != nil {
		log.Printf("Warning: capture failed to start: %v", err)
	}

	if !cfg.General.TrayEnabled {
		// Headless: block on signals
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		svc.StopCapture()
		return
	}

	captureItem = t.AddMenuItem("Capture enabled", func() {
		if svc.Capturing() {
			svc.StopCapture()
			t.SetItemChecked(captureItem, false)
		} else {
			if err := svc.StartCapture(); err != nil {
				log.Printf("Capture start error: %v", err)
				return
			}
			t.SetItemChecked(captureItem, true)
		}
	})

	autostartItem := 0
	autostartItem = t.AddMenuItem("Start on login", func() {
		if autostart.IsEnabled() {
			if err := autostart.Disable(); err != nil {
				log.Printf("Autostart disable error: %v", err)
				return
			}
			t.SetItemChecked(autostartItem, false)
		} else {
			if err := autostart.Enable(); err != nil {
				log.Printf("Autostart enable error: %v", err)
				return
			}
			t.SetItemChecked(autostartItem, true)
		}
	})

	t.AddSeparator()

	t.AddMenuItem("Quit", func() {
		t.Stop()
	})

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		t.Stop()
	}()

	log.Println("InputHook service running. Press Ctrl+C to stop.")
	t.Run()
	svc.StopCapture()
}
