// Package wifi implements the Network-MIDI 2.0 transport over UDP on a
// Wi-Fi interface (spec.md §4.7). The underlying framing is identical to
// transport/ethernet's; the two transports exist separately because the
// original firmware's midi_wifi and midi_ethernet components each own a
// distinct interface bring-up and discovery story
// (original_source/components/midi_wifi, midi_ethernet), and spec.md
// lists them as separate [MODULE]s.
package wifi

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/leandrodaf/midi-router/internal/transport/netmidi"
	"github.com/leandrodaf/midi-router/internal/ump"
	"github.com/leandrodaf/midi-router/sdk/contracts"
)

// Transport is one UDP-based Network-MIDI 2.0 endpoint reachable over a
// Wi-Fi network interface.
type Transport struct {
	logger  contracts.Logger
	conn    *net.UDPConn
	session *netmidi.Session
	Receive func(packet *ump.Packet)

	mu      sync.Mutex
	peer    *net.UDPAddr
	stopped bool
}

// Listen opens a UDP socket on localAddr for this transport.
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

// Connect starts a session with a peer at remoteAddr.
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

// Run reads datagrams until the socket is closed, handling session control
// frames and delivering UMP payload frames to Receive.
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
		}
	}
}

func (t *Transport) acceptSession(addr *net.UDPAddr) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.peer = addr
	t.session = netmidi.NewSession(t.conn, addr)
	t.session.HandleAck()
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

// Send implements contracts.Transmitter.
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

const discoveryProbe = "midi-router-discover"

// Discover broadcasts a discovery probe on broadcastAddr (e.g.
// "255.255.255.255:5353") and collects replies until ctx is done,
// recovering midi_wifi_discovery.c's UDP broadcast probe/reply exchange
// as a supplemental feature (spec.md §9 — not present in the distilled
// spec's transport section).
func Discover(ctx context.Context, broadcastAddr string) ([]netmidi.Endpoint, error) {
	addr, err := net.ResolveUDPAddr("udp", broadcastAddr)
	if err != nil {
		return nil, contracts.NewError("Discover", contracts.InvalidArgument, err)
	}
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: 0})
	if err != nil {
		return nil, contracts.NewError("Discover", contracts.IoFailure, err)
	}
	defer conn.Close()

	if _, err := conn.WriteToUDP([]byte(discoveryProbe), addr); err != nil {
		return nil, contracts.NewError("Discover", contracts.IoFailure, err)
	}

	var endpoints []netmidi.Endpoint
	buf := make([]byte, 256)
	for {
		deadline, ok := ctx.Deadline()
		if !ok {
			deadline = time.Now().Add(2 * time.Second)
		}
		conn.SetReadDeadline(deadline)

		n, from, err := conn.ReadFromUDP(buf)
		if err != nil {
			break
		}
		name := string(buf[:n])
		if name == discoveryProbe {
			continue // ignore our own probe if it loops back
		}
		endpoints = append(endpoints, netmidi.Endpoint{Addr: from, Name: name})

		select {
		case <-ctx.Done():
			return endpoints, nil
		default:
		}
	}
	return endpoints, nil
}
