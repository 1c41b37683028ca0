package router

import (
	"sync"
	"testing"
	"time"

	"github.com/leandrodaf/midi-router/internal/logger"
	"github.com/leandrodaf/midi-router/internal/midi1"
	"github.com/leandrodaf/midi-router/sdk/contracts"
)

type recordingTx struct {
	mu       sync.Mutex
	received []contracts.Packet
}

func (t *recordingTx) Send(p contracts.Packet) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.received = append(t.received, p)
	return nil
}

func (t *recordingTx) snapshot() []contracts.Packet {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]contracts.Packet(nil), t.received...)
}

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	cfg := contracts.DefaultRouterConfig()
	cfg.AutoTranslate = false
	r := New(logger.NewZapLogger(), &cfg)
	if err := r.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { _ = r.Deinit() })
	return r
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for condition")
}

func noteOnPacket(src contracts.TransportID) contracts.Packet {
	msg, _ := midi1.NewNoteOn(0, 60, 100)
	return contracts.Packet{Source: src, Format: contracts.FormatMIDI1, MIDI1: &msg}
}

func TestLoopbackSuppression(t *testing.T) {
	r := newTestRouter(t)
	r.SetRoute(contracts.Serial, contracts.Serial, true)
	r.SetRoute(contracts.Serial, contracts.USB, true)

	serialTx := &recordingTx{}
	usbTx := &recordingTx{}
	r.RegisterTx(contracts.Serial, serialTx)
	r.RegisterTx(contracts.USB, usbTx)

	if err := r.Send(noteOnPacket(contracts.Serial)); err != nil {
		t.Fatalf("Send: %v", err)
	}

	waitFor(t, func() bool { return len(usbTx.snapshot()) == 1 })
	if len(serialTx.snapshot()) != 0 {
		t.Errorf("got %d packets delivered to the source itself, want 0 (loopback suppression)", len(serialTx.snapshot()))
	}
}

func TestFilterBlocksDisallowedChannel(t *testing.T) {
	r := newTestRouter(t)
	r.SetRoute(contracts.Serial, contracts.USB, true)
	r.SetFilter(contracts.Serial, contracts.Filter{Enabled: true, ChannelMask: 0x0002}) // channel 1 only

	usbTx := &recordingTx{}
	r.RegisterTx(contracts.USB, usbTx)

	if err := r.Send(noteOnPacket(contracts.Serial)); err != nil { // channel 0
		t.Fatalf("Send: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	stats := r.GetStats()
	if stats.PacketsFiltered[contracts.Serial] == 0 {
		t.Error("expected PacketsFiltered to increment")
	}
	if len(usbTx.snapshot()) != 0 {
		t.Error("expected packet to be filtered, not delivered")
	}
}

func TestOrderingPreservedPerSourceDestination(t *testing.T) {
	r := newTestRouter(t)
	r.SetRoute(contracts.Serial, contracts.USB, true)

	usbTx := &recordingTx{}
	r.RegisterTx(contracts.USB, usbTx)

	for i := uint8(0); i < 10; i++ {
		msg, _ := midi1.NewNoteOn(0, i, 100)
		if err := r.Send(contracts.Packet{Source: contracts.Serial, Format: contracts.FormatMIDI1, MIDI1: &msg}); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}

	waitFor(t, func() bool { return len(usbTx.snapshot()) == 10 })
	packets := usbTx.snapshot()
	for i, p := range packets {
		msg := p.MIDI1.(*midi1.Message)
		if msg.Data[0] != uint8(i) {
			t.Fatalf("packet %d has note %d, want %d (ordering violated)", i, msg.Data[0], i)
		}
	}
}

func TestMergeInputsRoutesWithoutExplicitMatrixEntry(t *testing.T) {
	r := newTestRouter(t)
	r.SetMergeMode(true)

	usbTx := &recordingTx{}
	r.RegisterTx(contracts.USB, usbTx)

	if err := r.Send(noteOnPacket(contracts.Serial)); err != nil {
		t.Fatalf("Send: %v", err)
	}
	waitFor(t, func() bool { return len(usbTx.snapshot()) == 1 })
}

func TestQueueFullReturnsError(t *testing.T) {
	q := NewQueue(2)
	p := contracts.Packet{}
	if err := q.Push(p); err != nil {
		t.Fatalf("Push 1: %v", err)
	}
	if err := q.Push(p); err != nil {
		t.Fatalf("Push 2: %v", err)
	}
	if err := q.Push(p); err == nil {
		t.Error("expected QueueFull on third push into capacity-2 queue")
	}
}
