package keycode

import (
	"testing"

	"inputhook/internal/event"
)

func TestWindowsCodeKnownKeys(t *testing.T) {
	cases := []struct {
		key  event.Key
		vk   uint16
		scan uint16
	}{
		{event.KeyAlt, 0xA4, 0x38},
		{event.KeyAltGr, VKAltGr, 0},
		{event.KeyReturn, 0x0D, 0x1C},
		{event.KeyKpReturn, 0x0D, 0},
		{event.KeySpace, 0x20, 0x39},
		{event.KeyA, 0x41, 0x1E},
		{event.KeyEscape, 0x1B, 0x01},
	}
	for _, c := range cases {
		vk, scan := WindowsCode(c.key)
		if vk != c.vk || scan != c.scan {
			t.Errorf("WindowsCode(%v) = (0x%X, 0x%X), want (0x%X, 0x%X)", c.key, vk, scan, c.vk, c.scan)
		}
	}
}

func TestWindowsRoundTrip(t *testing.T) {
	for _, k := range event.Keys() {
		if WindowsReverseExceptions[k] {
			continue
		}
		vk, _ := WindowsCode(k)
		if vk == 0 {
			t.Errorf("key %v has no virtual-key mapping", k)
			continue
		}
		if back := KeyFromWindowsCode(vk); back != k {
			t.Errorf("KeyFromWindowsCode(0x%X) = %v, want %v", vk, back, k)
		}
	}
}

func TestWindowsReverseException(t *testing.T) {
	// KpReturn shares VK_RETURN with the main Return key, so the reverse
	// lookup resolves to Return.
	vk, _ := WindowsCode(event.KeyKpReturn)
	if vk != 0x0D {
		t.Fatalf("WindowsCode(KpReturn) vk = 0x%X, want 0x0D", vk)
	}
	if k := KeyFromWindowsCode(vk); k != event.KeyReturn {
		t.Errorf("KeyFromWindowsCode(0x0D) = %v, want Return", k)
	}
}

func TestKeyFromWindowsCodeTotal(t *testing.T) {
	for vk := 0; vk <= 0xFFFF; vk++ {
		k := KeyFromWindowsCode(uint16(vk))
		if k != event.KeyUnknown && k.String() == "Unknown" {
			t.Fatalf("vk 0x%X mapped to unnamed key %d", vk, int(k))
		}
	}
}

func TestX11RoundTrip(t *testing.T) {
	for _, k := range event.Keys() {
		code := X11Keycode(k)
		if code == 0 {
			t.Errorf("key %v has no X11 keycode", k)
			continue
		}
		if back := KeyFromX11Code(code); back != k {
			t.Errorf("KeyFromX11Code(%d) = %v, want %v", code, back, k)
		}
	}
}

func TestX11KnownCodes(t *testing.T) {
	cases := []struct {
		key  event.Key
		code uint32
	}{
		{event.KeyEscape, 9},
		{event.KeyQ, 24},
		{event.KeyAlt, 64},
		{event.KeySpace, 65},
		{event.KeyAltGr, 108},
		{event.KeyMetaLeft, 133},
	}
	for _, c := range cases {
		if got := X11Keycode(c.key); got != c.code {
			t.Errorf("X11Keycode(%v) = %d, want %d", c.key, got, c.code)
		}
	}
}

func TestKeyFromX11CodeTotal(t *testing.T) {
	for code := uint32(0); code < 256; code++ {
		k := KeyFromX11Code(code)
		if k != event.KeyUnknown && k.String() == "Unknown" {
			t.Fatalf("code %d mapped to unnamed key %d", code, int(k))
		}
	}
}

func TestText(t *testing.T) {
	cases := []struct {
		key  event.Key
		want string
	}{
		{event.KeyA, "a"},
		{event.KeyNum1, "1"},
		{event.KeySpace, " "},
		{event.KeyAlt, ""},
		{event.KeyF1, ""},
	}
	for _, c := range cases {
		if got := Text(c.key); got != c.want {
			t.Errorf("Text(%v) = %q, want %q", c.key, got, c.want)
		}
	}
}
