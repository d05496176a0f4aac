package event

import "testing"

func TestKeyNameRoundTrip(t *testing.T) {
	for _, k := range Keys() {
		name := k.String()
		if name == "" || name == "Unknown" {
			t.Errorf("key %d has no name", int(k))
			continue
		}
		back, ok := ParseKey(name)
		if !ok {
			t.Errorf("ParseKey(%q) failed", name)
			continue
		}
		if back != k {
			t.Errorf("ParseKey(%q) = %v, want %v", name, back, k)
		}
	}
}

func TestParseKeyUnknown(t *testing.T) {
	if _, ok := ParseKey("NotAKey"); ok {
		t.Error("ParseKey accepted an unknown name")
	}
	if _, ok := ParseKey(""); ok {
		t.Error("ParseKey accepted an empty name")
	}
}

func TestKeysExcludesUnknown(t *testing.T) {
	for _, k := range Keys() {
		if k == KeyUnknown {
			t.Fatal("Keys() includes KeyUnknown")
		}
	}
	if len(Keys()) == 0 {
		t.Fatal("Keys() is empty")
	}
}

func TestButtonString(t *testing.T) {
	cases := []struct {
		b    Button
		want string
	}{
		{ButtonLeft, "Left"},
		{ButtonMiddle, "Middle"},
		{ButtonRight, "Right"},
		{ExtraButton(7), "Button(7)"},
	}
	for _, c := range cases {
		if got := c.b.String(); got != c.want {
			t.Errorf("Button(%d).String() = %q, want %q", c.b, got, c.want)
		}
	}
}

// Windows XBUTTON side buttons have platform codes 1 and 2; they must stay
// distinct from the standard left and middle buttons.
func TestExtraButtonDistinctFromStandard(t *testing.T) {
	standard := []Button{ButtonLeft, ButtonMiddle, ButtonRight}
	for code := uint16(1); code <= 3; code++ {
		for _, std := range standard {
			if ExtraButton(code) == std {
				t.Errorf("ExtraButton(%d) collides with %v", code, std)
			}
		}
	}
}

func TestButtonExtra(t *testing.T) {
	for _, code := range []uint16{1, 2, 7, 0x7FFF} {
		got, ok := ExtraButton(code).Extra()
		if !ok || got != code {
			t.Errorf("ExtraButton(%d).Extra() = %d, %v", code, got, ok)
		}
	}
	for _, std := range []Button{ButtonNone, ButtonLeft, ButtonMiddle, ButtonRight} {
		if _, ok := std.Extra(); ok {
			t.Errorf("%v reports itself as an extra button", std)
		}
	}
}
