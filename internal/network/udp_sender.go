package network

import (
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"inputhook/internal/event"
	"inputhook/internal/protocol"
)

// UDPSender broadcasts binary-encoded captured events to all registered
// clients with minimal overhead.
type UDPSender struct {
	conn      *net.UDPConn
	port      int
	clients   map[string]*udpClient
	clientsMu sync.RWMutex
	seq       uint32 // atomic, monotonically increasing
	done      chan struct{}
}

type udpClient struct {
	addr     *net.UDPAddr
	lastSeen time.Time
}

// NewUDPSender creates a new UDP sender.
// port should typically match the API port (TCP and UDP can share port numbers).
func NewUDPSender(port int) *UDPSender {
	return &UDPSender{
		port:    port,
		clients: make(map[string]*udpClient),
		done:    make(chan struct{}),
	}
}

// Start binds the UDP socket and begins listening for client registrations.
func (s *UDPSender) Start() error {
	addr := &net.UDPAddr{Port: s.port}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return err
	}
	s.conn = conn

	// 1 MB write buffer for burst writes
	conn.SetWriteBuffer(1 << 20)
	// 64 KB read buffer for register/heartbeat
	conn.SetReadBuffer(1 << 16)

	log.Printf("UDP Sender: Listening on :%d", s.port)

	go s.readLoop()
	go s.cleanupLoop()

	return nil
}

// readLoop listens for register and heartbeat packets from clients.
func (s *UDPSender) readLoop() {
	buf := make([]byte, 64)
	for {
		n, remoteAddr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				continue
			}
		}

		pkt, err := protocol.DecodeUDPPacket(buf[:n])
		if err != nil {
			continue
		}

		switch pkt.Type {
		case protocol.UDPPacketRegister:
			key := remoteAddr.String()
			s.clientsMu.Lock()
			if _, exists := s.clients[key]; !exists {
				log.Printf("UDP Sender: Client registered from %s", key)
			}
			s.clients[key] = &udpClient{addr: remoteAddr, lastSeen: time.Now()}
			s.clientsMu.Unlock()

			// Reply with Ack so the client can confirm UDP connectivity
			ack := &protocol.UDPPacket{
				Type:      protocol.UDPPacketAck,
				Timestamp: time.Now().UnixMilli(),
			}
			s.conn.WriteToUDP(protocol.EncodeUDPPacket(ack), remoteAddr)

		case protocol.UDPPacketHeartbeat:
			key := remoteAddr.String()
			s.clientsMu.Lock()
			if _, exists := s.clients[key]; !exists {
				log.Printf("UDP Sender: Client registered from %s (via heartbeat)", key)
			}
			s.clients[key] = &udpClient{addr: remoteAddr, lastSeen: time.Now()}
			s.clientsMu.Unlock()
		}
	}
}

// cleanupLoop removes clients that haven't sent a heartbeat recently.
func (s *UDPSender) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.clientsMu.Lock()
			for key, c := range s.clients {
				if time.Since(c.lastSeen) > 30*time.Second {
					log.Printf("UDP Sender: Removing stale client %s", key)
					delete(s.clients, key)
				}
			}
			s.clientsMu.Unlock()
		case <-s.done:
			return
		}
	}
}

// BroadcastEvent encodes a captured event as a binary UDP packet and sends
// it to all registered clients. Discrete events (key, button) are sent
// multiple times for redundancy since UDP has no delivery guarantee; mouse
// moves are sent once, a lost sample is superseded by the next one.
func (s *UDPSender) BroadcastEvent(ev event.Event) {
	seq := atomic.AddUint32(&s.seq, 1)

	pkt := protocol.UDPFromEvent(ev, seq)
	if pkt == nil {
		return
	}

	redundancy := 1
	switch pkt.Type {
	case protocol.UDPPacketKeyEvent, protocol.UDPPacketMouseButton:
		redundancy = 3
	case protocol.UDPPacketWheel:
		redundancy = 2
	}

	data := protocol.EncodeUDPPacket(pkt)
	s.broadcast(data, redundancy)
}

// broadcast sends data to all registered clients.
func (s *UDPSender) broadcast(data []byte, redundancy int) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, c := range s.clients {
		for i := 0; i < redundancy; i++ {
			s.conn.WriteToUDP(data, c.addr)
		}
	}
}

// HasClients returns true if at least one client is registered.
func (s *UDPSender) HasClients() bool {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients) > 0
}

// Stop shuts down the UDP sender.
func (s *UDPSender) Stop() {
	close(s.done)
	if s.conn != nil {
		s.conn.Close()
	}
}
