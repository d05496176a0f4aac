// Package protocol defines the wire messages of the remote-control
// surface: a JSON envelope for the WebSocket stream and a compact binary
// encoding for the low-latency UDP event path.
package protocol

import (
	"fmt"
	"time"

	"inputhook/internal/event"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// TypeAuth is sent by a client immediately after connection to authenticate
	TypeAuth MessageType = "auth"

	// TypeEvent carries one captured input event, server to client
	TypeEvent MessageType = "event"

	// TypeSimulate asks the server to synthesize one input event
	TypeSimulate MessageType = "simulate"

	// TypePing can be used for application-level heartbeats if needed
	TypePing MessageType = "ping"
)

// Message is the generic container for all WebSocket messages
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// AuthPayload is the payload for TypeAuth
type AuthPayload struct {
	Token         string `json:"token"`
	ClientName    string `json:"client_name"`
	ClientVersion string `json:"client_version"`
}

// Event payload kinds.
const (
	KindKeyPress      = "key_press"
	KindKeyRelease    = "key_release"
	KindButtonPress   = "button_press"
	KindButtonRelease = "button_release"
	KindWheel         = "wheel"
	KindMouseMove     = "mouse_move"
)

// EventPayload is the wire form of an input event, used both for the
// captured-event stream (TypeEvent) and for simulate requests
// (TypeSimulate).
type EventPayload struct {
	Kind     string  `json:"kind"`
	Key      string  `json:"key,omitempty"`
	Button   uint16  `json:"button,omitempty"`
	DeltaX   int64   `json:"dx,omitempty"`
	DeltaY   int64   `json:"dy,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	Name     string  `json:"name,omitempty"`
	Code     uint32  `json:"code,omitempty"`
	ScanCode uint32  `json:"scan_code,omitempty"`
	Time     int64   `json:"ts,omitempty"` // Unix ms
}

// FromEvent encodes a captured event for the wire.
func FromEvent(ev event.Event) EventPayload {
	p := EventPayload{
		Name:     ev.Name,
		Code:     ev.Code,
		ScanCode: ev.ScanCode,
	}
	if !ev.Time.IsZero() {
		p.Time = ev.Time.UnixMilli()
	}
	switch t := ev.Type.(type) {
	case event.KeyPress:
		p.Kind = KindKeyPress
		p.Key = t.Key.String()
	case event.KeyRelease:
		p.Kind = KindKeyRelease
		p.Key = t.Key.String()
	case event.ButtonPress:
		p.Kind = KindButtonPress
		p.Button = uint16(t.Button)
	case event.ButtonRelease:
		p.Kind = KindButtonRelease
		p.Button = uint16(t.Button)
	case event.Wheel:
		p.Kind = KindWheel
		p.DeltaX = t.DeltaX
		p.DeltaY = t.DeltaY
	case event.MouseMove:
		p.Kind = KindMouseMove
		p.X = t.X
		p.Y = t.Y
	}
	return p
}

// EventType decodes the payload back into an abstract event type, e.g. to
// hand it to the synthesizer.
func (p EventPayload) EventType() (event.EventType, error) {
	switch p.Kind {
	case KindKeyPress, KindKeyRelease:
		k, ok := event.ParseKey(p.Key)
		if !ok {
			return nil, fmt.Errorf("unknown key %q", p.Key)
		}
		if p.Kind == KindKeyPress {
			return event.KeyPress{Key: k}, nil
		}
		return event.KeyRelease{Key: k}, nil
	case KindButtonPress:
		return event.ButtonPress{Button: event.Button(p.Button)}, nil
	case KindButtonRelease:
		return event.ButtonRelease{Button: event.Button(p.Button)}, nil
	case KindWheel:
		return event.Wheel{DeltaX: p.DeltaX, DeltaY: p.DeltaY}, nil
	case KindMouseMove:
		return event.MouseMove{X: p.X, Y: p.Y}, nil
	default:
		return nil, fmt.Errorf("unknown event kind %q", p.Kind)
	}
}

// Timestamp converts the payload's Unix ms time back to time.Time. Zero
// payload time yields the zero time.
func (p EventPayload) Timestamp() time.Time {
	if p.Time == 0 {
		return time.Time{}
	}
	return time.UnixMilli(p.Time)
}

// EventMessage wraps a captured event in a broadcast message.
func EventMessage(ev event.Event) Message {
	return Message{Type: TypeEvent, Payload: FromEvent(ev)}
}
