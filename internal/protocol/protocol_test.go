package protocol

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
	"time"

	"inputhook/internal/event"
)

func TestEventPayloadRoundTrip(t *testing.T) {
	now := time.Now().Truncate(time.Millisecond)
	cases := []event.EventType{
		event.KeyPress{Key: event.KeyAltGr},
		event.KeyRelease{Key: event.KeyEscape},
		event.ButtonPress{Button: event.ButtonLeft},
		event.ButtonRelease{Button: event.ExtraButton(9)},
		event.Wheel{DeltaX: -2, DeltaY: 5},
		event.MouseMove{X: 640, Y: 360},
	}

	for _, et := range cases {
		ev := event.Event{Type: et, Time: now, Code: 42, ScanCode: 7, Name: "x"}
		p := FromEvent(ev)

		// Survive a JSON round trip the way the WebSocket path does.
		data, err := json.Marshal(p)
		if err != nil {
			t.Fatalf("marshal %T: %v", et, err)
		}
		var back EventPayload
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %T: %v", et, err)
		}

		got, err := back.EventType()
		if err != nil {
			t.Fatalf("EventType for %T: %v", et, err)
		}
		if !reflect.DeepEqual(got, et) {
			t.Errorf("round trip %T: got %#v", et, got)
		}
		if !back.Timestamp().Equal(now) {
			t.Errorf("timestamp %v, want %v", back.Timestamp(), now)
		}
	}
}

func TestEventPayloadBadKind(t *testing.T) {
	_, err := EventPayload{Kind: "resize"}.EventType()
	if err == nil {
		t.Error("unknown kind should fail")
	}
	_, err = EventPayload{Kind: KindKeyPress, Key: "NotAKey"}.EventType()
	if err == nil {
		t.Error("unknown key name should fail")
	}
}

func TestUDPPacketRoundTrip(t *testing.T) {
	cases := []*UDPPacket{
		{Type: UDPPacketMouseMove, Seq: 1, Timestamp: 1234, X: -5, Y: 900},
		{Type: UDPPacketMouseButton, Seq: 2, Timestamp: 1235, Button: 3, Pressed: 1},
		{Type: UDPPacketWheel, Seq: 3, Timestamp: 1236, DeltaX: -1, DeltaY: 4},
		{Type: UDPPacketKeyEvent, Seq: 4, Timestamp: 1237, Key: uint16(event.KeyReturn), Pressed: 0},
		{Type: UDPPacketRegister, Timestamp: 1238},
		{Type: UDPPacketHeartbeat, Timestamp: 1239},
		{Type: UDPPacketAck, Timestamp: 1240},
	}

	for _, pkt := range cases {
		data := EncodeUDPPacket(pkt)
		got, err := DecodeUDPPacket(data)
		if err != nil {
			t.Fatalf("decode type 0x%X: %v", pkt.Type, err)
		}
		if !reflect.DeepEqual(got, pkt) {
			t.Errorf("type 0x%X: got %+v, want %+v", pkt.Type, got, pkt)
		}
	}
}

func TestUDPDecodeErrors(t *testing.T) {
	if _, err := DecodeUDPPacket([]byte{0x01, 0x02}); err == nil {
		t.Error("short packet should fail")
	}

	// Header-only event packet is missing its payload.
	hdr := EncodeUDPPacket(&UDPPacket{Type: UDPPacketRegister})
	hdr[0] = UDPPacketKeyEvent
	if _, err := DecodeUDPPacket(hdr); err == nil {
		t.Error("truncated key event should fail")
	}

	bad := EncodeUDPPacket(&UDPPacket{Type: UDPPacketRegister})
	bad[0] = 0x7F
	if _, err := DecodeUDPPacket(bad); err == nil {
		t.Error("unknown type should fail")
	}
}

func TestUDPFromEvent(t *testing.T) {
	now := time.Now()
	ev := event.Event{Type: event.KeyPress{Key: event.KeyA}, Time: now}
	pkt := UDPFromEvent(ev, 77)
	if pkt == nil {
		t.Fatal("key press should encode")
	}
	if pkt.Seq != 77 || pkt.Type != UDPPacketKeyEvent || pkt.Pressed != 1 {
		t.Errorf("unexpected packet %+v", pkt)
	}

	et, err := pkt.EventType()
	if err != nil {
		t.Fatal(err)
	}
	if et != (event.KeyPress{Key: event.KeyA}) {
		t.Errorf("EventType = %#v", et)
	}

	if _, err := (&UDPPacket{Type: UDPPacketHeartbeat}).EventType(); err == nil {
		t.Error("heartbeat is not an event packet")
	}
}

// Wheel deltas beyond the wire's int32 must not be truncated onto the fast
// path; such events travel over the WebSocket stream only.
func TestUDPFromEventWheelRange(t *testing.T) {
	now := time.Now()

	pkt := UDPFromEvent(event.Event{Type: event.Wheel{DeltaX: -3, DeltaY: math.MaxInt32}, Time: now}, 1)
	if pkt == nil {
		t.Fatal("in-range wheel should encode")
	}
	if pkt.DeltaX != -3 || pkt.DeltaY != math.MaxInt32 {
		t.Errorf("deltas = (%d, %d)", pkt.DeltaX, pkt.DeltaY)
	}

	for _, d := range []int64{math.MaxInt32 + 1, math.MinInt32 - 1} {
		if pkt := UDPFromEvent(event.Event{Type: event.Wheel{DeltaY: d}, Time: now}, 1); pkt != nil {
			t.Errorf("delta %d should not encode, got %+v", d, pkt)
		}
		if pkt := UDPFromEvent(event.Event{Type: event.Wheel{DeltaX: d}, Time: now}, 1); pkt != nil {
			t.Errorf("delta %d should not encode, got %+v", d, pkt)
		}
	}
}
