package translate

import (
	"errors"
	"testing"

	"github.com/leandrodaf/midi-router/internal/midi1"
	"github.com/leandrodaf/midi-router/internal/ump"
	"github.com/leandrodaf/midi-router/sdk/contracts"
)

func defaultOptions() Options {
	return Options{Mode: contracts.Default, DefaultGroup: 0, PreserveTiming: true}
}

// TestNoteOnRoundTrip locks in spec.md §8 scenario 4: a Note On with
// velocity 64 upscales, translates to MIDI 1.0-space via the UMP
// builder, then downscales back to 64 exactly (64 is a Min-Center-Max
// fixed point).
func TestNoteOnRoundTrip(t *testing.T) {
	tr := New(defaultOptions())
	msg, err := midi1.NewNoteOn(0, 60, 64)
	if err != nil {
		t.Fatalf("NewNoteOn: %v", err)
	}

	packets, err := tr.Translate1To2(msg)
	if err != nil {
		t.Fatalf("Translate1To2: %v", err)
	}
	if len(packets) != 1 {
		t.Fatalf("got %d packets, want 1", len(packets))
	}

	back, err := tr.Translate2To1(packets[0])
	if err != nil {
		t.Fatalf("Translate2To1: %v", err)
	}
	if back.Data[0] != 60 || back.Data[1] != 64 {
		t.Errorf("got note=%d vel=%d, want note=60 vel=64", back.Data[0], back.Data[1])
	}
	if !back.IsNoteOn() {
		t.Error("expected IsNoteOn() == true")
	}
}

// TestBuildMIDI2NoteOnThenDecode locks in spec.md §8 scenario 5: building
// a MIDI 2.0 Note On packet directly with velocity 32768 (the upscaled
// center point) and reading the fields back out.
func TestBuildMIDI2NoteOnThenDecode(t *testing.T) {
	var p ump.Packet
	if err := ump.BuildMIDI2NoteOn(0, 0, 60, 32768, ump.AttrNone, 0, &p); err != nil {
		t.Fatalf("build: %v", err)
	}

	tr := New(defaultOptions())
	msg, err := tr.Translate2To1(p)
	if err != nil {
		t.Fatalf("Translate2To1: %v", err)
	}
	if msg.Data[0] != 60 || msg.Data[1] != 64 {
		t.Errorf("got note=%d vel=%d, want note=60 vel=64", msg.Data[0], msg.Data[1])
	}
}

func TestControlChangeRoundTrip(t *testing.T) {
	tr := New(defaultOptions())
	msg, err := midi1.NewControlChange(2, 7, 100)
	if err != nil {
		t.Fatalf("NewControlChange: %v", err)
	}

	packets, err := tr.Translate1To2(msg)
	if err != nil {
		t.Fatalf("Translate1To2: %v", err)
	}
	back, err := tr.Translate2To1(packets[0])
	if err != nil {
		t.Fatalf("Translate2To1: %v", err)
	}
	if back.Channel != 2 || back.Data[0] != 7 {
		t.Errorf("got channel=%d controller=%d, want channel=2 controller=7", back.Channel, back.Data[0])
	}
}

func TestPitchBendRoundTrip(t *testing.T) {
	tr := New(defaultOptions())
	msg, err := midi1.NewPitchBend(5, 8192)
	if err != nil {
		t.Fatalf("NewPitchBend: %v", err)
	}

	packets, err := tr.Translate1To2(msg)
	if err != nil {
		t.Fatalf("Translate1To2: %v", err)
	}
	back, err := tr.Translate2To1(packets[0])
	if err != nil {
		t.Fatalf("Translate2To1: %v", err)
	}
	if back.PitchBendValue() != 8192 {
		t.Errorf("got pitch bend %d, want 8192", back.PitchBendValue())
	}
}

func TestMPEModeMapsChannelToGroup(t *testing.T) {
	tr := New(Options{Mode: contracts.MPE, DefaultGroup: 0})
	msg, err := midi1.NewNoteOn(3, 60, 100)
	if err != nil {
		t.Fatalf("NewNoteOn: %v", err)
	}

	packets, err := tr.Translate1To2(msg)
	if err != nil {
		t.Fatalf("Translate1To2: %v", err)
	}
	if packets[0].Group != 3 {
		t.Errorf("got group %d, want 3 (MPE maps channel to group)", packets[0].Group)
	}
}

func TestDefaultModeFoldsOntoDefaultGroup(t *testing.T) {
	tr := New(Options{Mode: contracts.Default, DefaultGroup: 5})
	msg, err := midi1.NewNoteOn(3, 60, 100)
	if err != nil {
		t.Fatalf("NewNoteOn: %v", err)
	}

	packets, err := tr.Translate1To2(msg)
	if err != nil {
		t.Fatalf("Translate1To2: %v", err)
	}
	if packets[0].Group != 5 {
		t.Errorf("got group %d, want 5 (default group)", packets[0].Group)
	}
}

func TestSysExFragmentationAndReassembly(t *testing.T) {
	tr := New(defaultOptions())
	payload := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09}

	packets, err := tr.Translate1To2(midi1.Message{
		Kind:  midi1.KindSystemExclusive,
		SysEx: midi1.SysExView{Data: payload, Len: len(payload)},
	})
	if err != nil {
		t.Fatalf("Translate1To2: %v", err)
	}
	if len(packets) != 2 {
		t.Fatalf("got %d packets, want 2 (9 bytes / 6 per packet)", len(packets))
	}

	reasm := NewSysExReassembler()
	var out []byte
	for _, p := range packets {
		if got, done := reasm.Feed(p); done {
			out = got
		}
	}
	if len(out) != len(payload) {
		t.Fatalf("reassembled %d bytes, want %d", len(out), len(payload))
	}
	for i := range payload {
		if out[i] != payload[i] {
			t.Errorf("byte %d = %#x, want %#x", i, out[i], payload[i])
		}
	}
}

func TestSysExSmallPayloadIsComplete(t *testing.T) {
	tr := New(defaultOptions())
	payload := []byte{0x7E, 0x7F}

	packets, err := tr.Translate1To2(midi1.Message{
		Kind:  midi1.KindSystemExclusive,
		SysEx: midi1.SysExView{Data: payload, Len: len(payload)},
	})
	if err != nil {
		t.Fatalf("Translate1To2: %v", err)
	}
	if len(packets) != 1 {
		t.Fatalf("got %d packets, want 1", len(packets))
	}

	reasm := NewSysExReassembler()
	out, done := reasm.Feed(packets[0])
	if !done {
		t.Fatal("expected single Complete fragment to finish immediately")
	}
	if len(out) != len(payload) || out[0] != payload[0] || out[1] != payload[1] {
		t.Errorf("got %v, want %v", out, payload)
	}
}

func TestRealTimeTranslation(t *testing.T) {
	tr := New(defaultOptions())
	msg := midi1.Message{Kind: midi1.KindSystemRealTime, Status: midi1.StatusTimingClock}

	packets, err := tr.Translate1To2(msg)
	if err != nil {
		t.Fatalf("Translate1To2: %v", err)
	}
	back, err := tr.Translate2To1(packets[0])
	if err != nil {
		t.Fatalf("Translate2To1: %v", err)
	}
	if back.Kind != midi1.KindSystemRealTime || back.Status != midi1.StatusTimingClock {
		t.Errorf("got %+v, want TimingClock real-time message", back)
	}
}

func TestUnsupportedMessageType(t *testing.T) {
	tr := New(defaultOptions())
	_, err := tr.Translate2To1(ump.Packet{MessageType: ump.MTFlexData, NumWords: 4})

	var ce *contracts.Error
	if !errors.As(err, &ce) || ce.Kind != contracts.NotSupported {
		t.Fatalf("got %v, want NotSupported error", err)
	}
}
