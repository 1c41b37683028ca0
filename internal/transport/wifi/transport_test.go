package wifi

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/leandrodaf/midi-router/internal/logger"
	"github.com/leandrodaf/midi-router/internal/transport/netmidi"
	"github.com/leandrodaf/midi-router/internal/ump"
	"github.com/leandrodaf/midi-router/sdk/contracts"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition never became true")
}

func TestSessionHandshakeAndUMPDelivery(t *testing.T) {
	log := logger.NewZapLogger()

	server, err := Listen(log, "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen server: %v", err)
	}
	defer server.Close()

	client, err := Listen(log, "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen client: %v", err)
	}
	defer client.Close()

	var received *ump.Packet
	server.Receive = func(p *ump.Packet) { received = p }

	go server.Run()
	go client.Run()

	if err := client.Connect(server.conn.LocalAddr().String()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	waitFor(t, func() bool {
		client.mu.Lock()
		defer client.mu.Unlock()
		return client.session != nil && client.session.State() == netmidi.StateActive
	})

	var p ump.Packet
	if err := ump.BuildMIDI2NoteOn(0, 0, 60, 32768, 0, 0, &p); err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := client.Send(contracts.Packet{Format: contracts.FormatMIDI2, UMP: &p}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	waitFor(t, func() bool { return received != nil })
	if received.Words[0] != p.Words[0] {
		t.Errorf("got word0 %#x, want %#x", received.Words[0], p.Words[0])
	}
}

func TestDiscoverReturnsRespondingPeers(t *testing.T) {
	addr, err := net.ResolveUDPAddr("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	replier, err := net.ListenUDP("udp", addr)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer replier.Close()

	go func() {
		buf := make([]byte, 64)
		n, from, err := replier.ReadFromUDP(buf)
		if err != nil {
			return
		}
		if string(buf[:n]) != discoveryProbe {
			return
		}
		replier.WriteToUDP([]byte("studio-bridge"), from)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	endpoints, err := Discover(ctx, replier.LocalAddr().String())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(endpoints) != 1 || endpoints[0].Name != "studio-bridge" {
		t.Fatalf("got %+v, want one studio-bridge endpoint", endpoints)
	}
}
