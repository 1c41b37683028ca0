// Package ethernet implements the Network-MIDI 2.0 transport over a UDP
// net.PacketConn (spec.md §4.7). The original firmware drives a W5500 SPI
// Ethernet controller directly
// (original_source/components/midi_ethernet/midi_ethernet_w5500.c); that
// chip-level SPI driver is hardware glue out of this module's scope
// (spec.md §1's non-goal on peripheral drivers), so this transport starts
// one layer up, at the point the original hands UDP datagrams to its
// session framing.
package ethernet

import (
	"net"
	"sync"

	"github.com/leandrodaf/midi-router/internal/transport/netmidi"
	"github.com/leandrodaf/midi-router/internal/ump"
	"github.com/leandrodaf/midi-router/sdk/contracts"
)

// Transport is one UDP-based Network-MIDI 2.0 endpoint with a single
// active peer session.
type Transport struct {
	logger  contracts.Logger
	conn    *net.UDPConn
	session *netmidi.Session
	Receive func(packet *ump.Packet)

	mu      sync.Mutex
	peer    *net.UDPAddr
	stopped bool
}

// Listen opens a UDP socket on localAddr (e.g. ":5004") for this transport.
func Listen(logger contracts.Logger, localAddr string) (*Transport, error) {
	addr, err := net.ResolveUDPAddr("udp", localAddr)
	if err != nil {
		return nil, contracts.NewError("Listen", contracts.InvalidArgument, err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, contracts.NewError("Listen", contracts.IoFailure, err)
	}
	return &Transport{logger: logger, conn: conn}, nil
}

// Connect starts a session with a peer at remoteAddr (e.g. a configured
// destination's "host:port"), sending SessionStart.
func (t *Transport) Connect(remoteAddr string) error {
	addr, err := net.ResolveUDPAddr("udp", remoteAddr)
	if err != nil {
		return contracts.NewError("Connect", contracts.InvalidArgument, err)
	}
	t.mu.Lock()
	t.peer = addr
	t.session = netmidi.NewSession(t.conn, addr)
	t.mu.Unlock()
	return t.session.Start()
}

// Run reads datagrams until the socket is closed, dispatching session
// control frames to the session state machine and UMP payload frames to
// Receive.
func (t *Transport) Run() error {
	buf := make([]byte, 2048)
	for {
		n, addr, err := t.conn.ReadFromUDP(buf)
		if err != nil {
			t.mu.Lock()
			stopped := t.stopped
			t.mu.Unlock()
			if stopped {
				return nil
			}
			return contracts.NewError("Run", contracts.IoFailure, err)
		}

		frame, err := netmidi.Decode(buf[:n])
		if err != nil {
			t.logger.Warn("dropped malformed netmidi frame")
			continue
		}

		switch frame.Type {
		case netmidi.FrameSessionStart:
			t.acceptSession(addr)
		case netmidi.FrameSessionAck:
			t.mu.Lock()
			if t.session != nil {
				t.session.HandleAck()
			}
			t.mu.Unlock()
		case netmidi.FrameUMP:
			t.deliverWords(frame.Words)
		case netmidi.FrameSessionEnd, netmidi.FrameKeepalive, netmidi.FrameRetransmitRequest:
			// Session lifecycle/retransmission bookkeeping only; no router-
			// visible payload.
		}
	}
}

func (t *Transport) acceptSession(addr *net.UDPAddr) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.peer = addr
	t.session = netmidi.NewSession(t.conn, addr)
	t.session.HandleAck() // a peer-initiated start is accepted immediately
	ack := netmidi.Encode(netmidi.Frame{Type: netmidi.FrameSessionAck})
	t.conn.WriteToUDP(ack, addr)
}

func (t *Transport) deliverWords(words []uint32) {
	if len(words) == 0 || t.Receive == nil {
		return
	}
	var p ump.Packet
	if err := ump.Decode(words, &p); err != nil {
		t.logger.Warn("dropped undecodable UMP words from netmidi frame")
		return
	}
	t.Receive(&p)
}

// Send implements contracts.Transmitter; only UMP-format packets are
// supported since this destination is MIDI-2-only.
func (t *Transport) Send(packet contracts.Packet) error {
	p, ok := packet.UMP.(*ump.Packet)
	if !ok {
		return contracts.NewError("Send", contracts.UnsupportedMessageType, nil)
	}
	t.mu.Lock()
	session := t.session
	t.mu.Unlock()
	if session == nil {
		return contracts.NewError("Send", contracts.InvalidState, nil)
	}
	return session.SendUMP(p)
}

// Close marks the transport stopped and closes the socket.
func (t *Transport) Close() error {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
	return t.conn.Close()
}
