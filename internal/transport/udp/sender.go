// SPDX-License-Identifier: MIT
package udp

import (
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"ambient/internal/log"
	"ambient/internal/transport"
)

// MaxDatagram is the largest payload sent in a single packet. Larger
// messages are rejected rather than fragmented.
const MaxDatagram = 65507

// Envelope wraps each message with a monotonically increasing sequence
// number so receivers can detect loss and reordering.
type Envelope struct {
	Seq  uint32 `json:"seq"`
	Data any    `json:"data"`
}

// Sender sends JSON-encoded messages as UDP datagrams.
type Sender struct {
	conn   *net.UDPConn
	mu     sync.Mutex // Protects conn, seq and closed
	seq    uint32
	closed bool
}

// NewSender creates a Sender targeting the specified address.
// The address should be in the format "host:port", e.g., "127.0.0.1:9090".
func NewSender(targetAddress string) (*Sender, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", targetAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve UDP target address '%s': %w", targetAddress, err)
	}

	// No local bind needed for sending.
	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial UDP for target '%s': %w", targetAddress, err)
	}

	log.Infof("UDP Sender: Connection established to %s", conn.RemoteAddr().String())
	return &Sender{conn: conn}, nil
}

// Send encodes data in an Envelope and transmits it as one datagram.
func (s *Sender) Send(data any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return transport.ErrClosed
	}

	payload, err := json.Marshal(Envelope{Seq: s.seq, Data: data})
	if err != nil {
		return fmt.Errorf("failed to encode UDP message: %w", err)
	}
	if len(payload) > MaxDatagram {
		return fmt.Errorf("UDP message of %d bytes exceeds %d", len(payload), MaxDatagram)
	}
	if _, err := s.conn.Write(payload); err != nil {
		log.Warnf("UDP Sender: Error sending packet: %v", err)
		return fmt.Errorf("failed to send UDP packet: %w", err)
	}
	s.seq++
	return nil
}

// Close closes the underlying UDP connection.
func (s *Sender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	log.Debugf("UDP Sender: Closing connection to %s", s.conn.RemoteAddr().String())
	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("failed to close UDP connection: %w", err)
	}
	return nil
}

// Ensure Sender satisfies the transport interface.
var _ transport.Transport = (*Sender)(nil)
