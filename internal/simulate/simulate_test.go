package simulate

import (
	"errors"
	"testing"
)

func TestWheelTicksRange(t *testing.T) {
	for _, delta := range []int64{0, 1, -1, 32767, -32768} {
		got, err := wheelTicks(delta)
		if err != nil {
			t.Errorf("wheelTicks(%d) unexpected error: %v", delta, err)
			continue
		}
		if int64(got) != delta {
			t.Errorf("wheelTicks(%d) = %d", delta, got)
		}
	}
}

func TestWheelTicksOverflow(t *testing.T) {
	for _, delta := range []int64{32768, -32769, 1 << 40} {
		_, err := wheelTicks(delta)
		if err == nil {
			t.Errorf("wheelTicks(%d) should fail", delta)
			continue
		}
		var simErr *Error
		if !errors.As(err, &simErr) {
			t.Errorf("wheelTicks(%d) error type %T, want *Error", delta, err)
		}
	}
}

func TestWheelAmountScaling(t *testing.T) {
	got, err := wheelAmount(3)
	if err != nil {
		t.Fatalf("wheelAmount(3): %v", err)
	}
	if got != 360 {
		t.Errorf("wheelAmount(3) = %d, want 360", got)
	}

	got, err = wheelAmount(-2)
	if err != nil {
		t.Fatalf("wheelAmount(-2): %v", err)
	}
	if got != -240 {
		t.Errorf("wheelAmount(-2) = %d, want -240", got)
	}
}

func TestVirtualDesktopPoint(t *testing.T) {
	dx, dy, err := virtualDesktopPoint(0, 0, 1920, 1080)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dx != 65535/1920 || dy != 65535/1080 {
		t.Errorf("origin mapped to (%d, %d)", dx, dy)
	}

	// The far corner lands at the top of the normalized range.
	dx, dy, err = virtualDesktopPoint(1919, 1079, 1920, 1080)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dx != 65535 || dy != 65535 {
		t.Errorf("far corner mapped to (%d, %d), want (65535, 65535)", dx, dy)
	}
}

func TestVirtualDesktopPointZeroSize(t *testing.T) {
	if _, _, err := virtualDesktopPoint(10, 10, 0, 1080); err == nil {
		t.Error("zero width should fail")
	}
	if _, _, err := virtualDesktopPoint(10, 10, 1920, 0); err == nil {
		t.Error("zero height should fail")
	}
}

func TestWithDelayPropagatesError(t *testing.T) {
	want := errors.New("boom")
	if err := WithDelay(func() error { return want }); !errors.Is(err, want) {
		t.Errorf("WithDelay returned %v, want %v", err, want)
	}
	if err := WithDelay(func() error { return nil }); err != nil {
		t.Errorf("WithDelay returned %v, want nil", err)
	}
}
