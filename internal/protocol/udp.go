package protocol

import (
	"encoding/binary"
	"errors"
	"math"

	"inputhook/internal/event"
)

// UDP Packet types
const (
	UDPPacketMouseMove   uint8 = 0x01
	UDPPacketMouseButton uint8 = 0x02
	UDPPacketWheel       uint8 = 0x03
	UDPPacketKeyEvent    uint8 = 0x04
	UDPPacketRegister    uint8 = 0x10
	UDPPacketHeartbeat   uint8 = 0x11
	UDPPacketAck         uint8 = 0x12 // Host -> Client: confirms UDP path is open
)

// Header: [type(1)] [seq(4)] [timestamp(8)] = 13 bytes
const UDPHeaderSize = 13

// UDPPacket represents a binary-encoded input event for low-latency UDP transport.
//
// Wire format per type:
//
//	MouseMove   (0x01): header + x(int32) + y(int32)          = 21 bytes
//	MouseButton (0x02): header + button(uint16) + pressed(1)  = 16 bytes
//	Wheel       (0x03): header + dx(int32) + dy(int32)        = 21 bytes
//	KeyEvent    (0x04): header + key(uint16) + pressed(1)     = 16 bytes
//	Register    (0x10): header only                           = 13 bytes
//	Heartbeat   (0x11): header only                           = 13 bytes
type UDPPacket struct {
	Type      uint8
	Seq       uint32
	Timestamp int64
	X         int32  // mouse move, screen pixels
	Y         int32  // mouse move, screen pixels
	Button    uint16 // mouse button code
	Pressed   uint8  // mouse button / key (1=pressed, 0=released)
	DeltaX    int32  // wheel horizontal ticks
	DeltaY    int32  // wheel vertical ticks
	Key       uint16 // event.Key value
}

// EncodeUDPPacket serializes a UDPPacket to wire format.
func EncodeUDPPacket(pkt *UDPPacket) []byte {
	size := UDPHeaderSize
	switch pkt.Type {
	case UDPPacketMouseMove:
		size += 8 // x(4) + y(4)
	case UDPPacketMouseButton:
		size += 3 // button(2) + pressed(1)
	case UDPPacketWheel:
		size += 8 // dx(4) + dy(4)
	case UDPPacketKeyEvent:
		size += 3 // key(2) + pressed(1)
	}

	buf := make([]byte, size)
	buf[0] = pkt.Type
	binary.BigEndian.PutUint32(buf[1:5], pkt.Seq)
	binary.BigEndian.PutUint64(buf[5:13], uint64(pkt.Timestamp))

	payload := buf[UDPHeaderSize:]
	switch pkt.Type {
	case UDPPacketMouseMove:
		binary.BigEndian.PutUint32(payload[0:4], uint32(pkt.X))
		binary.BigEndian.PutUint32(payload[4:8], uint32(pkt.Y))
	case UDPPacketMouseButton:
		binary.BigEndian.PutUint16(payload[0:2], pkt.Button)
		payload[2] = pkt.Pressed
	case UDPPacketWheel:
		binary.BigEndian.PutUint32(payload[0:4], uint32(pkt.DeltaX))
		binary.BigEndian.PutUint32(payload[4:8], uint32(pkt.DeltaY))
	case UDPPacketKeyEvent:
		binary.BigEndian.PutUint16(payload[0:2], pkt.Key)
		payload[2] = pkt.Pressed
	}

	return buf
}

// DecodeUDPPacket deserializes wire bytes into a UDPPacket.
func DecodeUDPPacket(data []byte) (*UDPPacket, error) {
	if len(data) < UDPHeaderSize {
		return nil, errors.New("udp: packet too short")
	}

	pkt := &UDPPacket{
		Type:      data[0],
		Seq:       binary.BigEndian.Uint32(data[1:5]),
		Timestamp: int64(binary.BigEndian.Uint64(data[5:13])),
	}

	payload := data[UDPHeaderSize:]
	switch pkt.Type {
	case UDPPacketMouseMove:
		if len(payload) < 8 {
			return nil, errors.New("udp: mouse move payload too short")
		}
		pkt.X = int32(binary.BigEndian.Uint32(payload[0:4]))
		pkt.Y = int32(binary.BigEndian.Uint32(payload[4:8]))
	case UDPPacketMouseButton:
		if len(payload) < 3 {
			return nil, errors.New("udp: mouse button payload too short")
		}
		pkt.Button = binary.BigEndian.Uint16(payload[0:2])
		pkt.Pressed = payload[2]
	case UDPPacketWheel:
		if len(payload) < 8 {
			return nil, errors.New("udp: wheel payload too short")
		}
		pkt.DeltaX = int32(binary.BigEndian.Uint32(payload[0:4]))
		pkt.DeltaY = int32(binary.BigEndian.Uint32(payload[4:8]))
	case UDPPacketKeyEvent:
		if len(payload) < 3 {
			return nil, errors.New("udp: key event payload too short")
		}
		pkt.Key = binary.BigEndian.Uint16(payload[0:2])
		pkt.Pressed = payload[2]
	case UDPPacketRegister, UDPPacketHeartbeat, UDPPacketAck:
		// no payload
	default:
		return nil, errors.New("udp: unknown packet type")
	}

	return pkt, nil
}

// UDPFromEvent builds an event packet from a captured event. Returns nil
// for event types that are not carried over UDP.
func UDPFromEvent(ev event.Event, seq uint32) *UDPPacket {
	pkt := &UDPPacket{Seq: seq, Timestamp: ev.Time.UnixMilli()}
	switch t := ev.Type.(type) {
	case event.KeyPress:
		pkt.Type = UDPPacketKeyEvent
		pkt.Key = uint16(t.Key)
		pkt.Pressed = 1
	case event.KeyRelease:
		pkt.Type = UDPPacketKeyEvent
		pkt.Key = uint16(t.Key)
	case event.ButtonPress:
		pkt.Type = UDPPacketMouseButton
		pkt.Button = uint16(t.Button)
		pkt.Pressed = 1
	case event.ButtonRelease:
		pkt.Type = UDPPacketMouseButton
		pkt.Button = uint16(t.Button)
	case event.Wheel:
		// Deltas that do not fit the wire's int32 are not carried; the
		// WebSocket stream delivers them at full precision.
		if t.DeltaX < math.MinInt32 || t.DeltaX > math.MaxInt32 ||
			t.DeltaY < math.MinInt32 || t.DeltaY > math.MaxInt32 {
			return nil
		}
		pkt.Type = UDPPacketWheel
		pkt.DeltaX = int32(t.DeltaX)
		pkt.DeltaY = int32(t.DeltaY)
	case event.MouseMove:
		pkt.Type = UDPPacketMouseMove
		pkt.X = int32(t.X)
		pkt.Y = int32(t.Y)
	default:
		return nil
	}
	return pkt
}

// EventType reconstructs the abstract event carried by an event packet.
func (pkt *UDPPacket) EventType() (event.EventType, error) {
	switch pkt.Type {
	case UDPPacketKeyEvent:
		k := event.Key(pkt.Key)
		if pkt.Pressed != 0 {
			return event.KeyPress{Key: k}, nil
		}
		return event.KeyRelease{Key: k}, nil
	case UDPPacketMouseButton:
		b := event.Button(pkt.Button)
		if pkt.Pressed != 0 {
			return event.ButtonPress{Button: b}, nil
		}
		return event.ButtonRelease{Button: b}, nil
	case UDPPacketWheel:
		return event.Wheel{DeltaX: int64(pkt.DeltaX), DeltaY: int64(pkt.DeltaY)}, nil
	case UDPPacketMouseMove:
		return event.MouseMove{X: float64(pkt.X), Y: float64(pkt.Y)}, nil
	default:
		return nil, errors.New("udp: not an event packet")
	}
}
