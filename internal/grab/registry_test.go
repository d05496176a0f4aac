package grab

import (
	"testing"

	"inputhook/internal/event"
)

func TestMarkGrabbedIdempotent(t *testing.T) {
	r := NewRegistry()

	r.MarkGrabbed(event.KeyAlt)
	r.MarkGrabbed(event.KeyAlt)

	if !r.IsGrabbed(event.KeyAlt) {
		t.Fatal("Alt should be grabbed")
	}
	if got := r.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestUnmark(t *testing.T) {
	r := NewRegistry()

	r.MarkGrabbed(event.KeyEscape)
	r.Unmark(event.KeyEscape)
	if r.IsGrabbed(event.KeyEscape) {
		t.Error("Escape should not be grabbed after Unmark")
	}

	// Unmark of an absent key is a no-op
	r.Unmark(event.KeyTab)
	if got := r.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
}

func TestGrabbedSorted(t *testing.T) {
	r := NewRegistry()

	r.MarkGrabbed(event.KeySpace)
	r.MarkGrabbed(event.KeyAlt)
	r.MarkGrabbed(event.KeyEscape)

	got := r.Grabbed()
	if len(got) != 3 {
		t.Fatalf("Grabbed() returned %d keys, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("Grabbed() not sorted: %v", got)
		}
	}
}
