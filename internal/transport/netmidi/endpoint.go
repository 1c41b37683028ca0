package netmidi

import (
	"net"
	"sync/atomic"

	"github.com/leandrodaf/midi-router/internal/ump"
	"github.com/leandrodaf/midi-router/sdk/contracts"
)

// Endpoint is a discovered Network-MIDI 2.0 peer: a UDP address and the
// display name it sent in its discovery reply, recovered from
// original_source/components/midi_wifi/midi_wifi_discovery.c's discovery
// reply (spec.md §9 supplemental feature, not present in the distilled
// spec's session framing section).
type Endpoint struct {
	Addr *net.UDPAddr
	Name string
}

// SessionState tracks one peer connection's handshake progress.
type SessionState int

const (
	StateIdle SessionState = iota
	StateStarting
	StateActive
	StateEnded
)

// Session manages the sequence-numbered framing for one peer over a
// shared net.PacketConn; the ethernet and wifi transports each own one
// Session per connected peer, recovering the shared structure
// original_source splits across midi_wifi_session.c/midi_ethernet_session.c.
type Session struct {
	conn  net.PacketConn
	peer  net.Addr
	state SessionState
	seq   atomic.Uint32
}

// NewSession wraps conn for communication with peer.
func NewSession(conn net.PacketConn, peer net.Addr) *Session {
	return &Session{conn: conn, peer: peer}
}

// Start sends SessionStart and marks the session as awaiting an ack.
func (s *Session) Start() error {
	s.state = StateStarting
	return s.writeFrame(Frame{Type: FrameSessionStart, Sequence: s.nextSeq()})
}

// HandleAck transitions the session to Active: a Starting session on
// receipt of a SessionAck, or a still-Idle session created in answer to a
// peer's SessionStart when that start is accepted.
func (s *Session) HandleAck() {
	if s.state == StateStarting || s.state == StateIdle {
		s.state = StateActive
	}
}

// End sends SessionEnd and marks the session ended.
func (s *Session) End() error {
	err := s.writeFrame(Frame{Type: FrameSessionEnd, Sequence: s.nextSeq()})
	s.state = StateEnded
	return err
}

// Keepalive sends a Keepalive frame.
func (s *Session) Keepalive() error {
	return s.writeFrame(Frame{Type: FrameKeepalive, Sequence: s.nextSeq()})
}

// SendUMP sends one UMP packet as a FrameUMP frame.
func (s *Session) SendUMP(packet *ump.Packet) error {
	if s.state != StateActive {
		return contracts.NewError("SendUMP", contracts.InvalidState, nil)
	}
	_, err := s.conn.WriteTo(EncodeUMPFrame(s.nextSeq(), packet), s.peer)
	if err != nil {
		return contracts.NewError("SendUMP", contracts.IoFailure, err)
	}
	return nil
}

func (s *Session) writeFrame(f Frame) error {
	_, err := s.conn.WriteTo(Encode(f), s.peer)
	if err != nil {
		return contracts.NewError("writeFrame", contracts.IoFailure, err)
	}
	return nil
}

func (s *Session) nextSeq() uint32 {
	return s.seq.Add(1)
}

// State reports the session's current handshake state.
func (s *Session) State() SessionState {
	return s.state
}
