package midi1

import (
	"errors"
	"testing"

	"github.com/leandrodaf/midi-router/sdk/contracts"
)

func TestNewNoteOnValidation(t *testing.T) {
	if _, err := NewNoteOn(16, 60, 100); err == nil {
		t.Fatal("expected error for channel 16")
	}
	if _, err := NewNoteOn(0, 128, 100); err == nil {
		t.Fatal("expected error for note 128")
	}
	msg, err := NewNoteOn(9, 60, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Status != 0x99 || msg.Channel != 9 {
		t.Errorf("msg = %+v, want status 0x99 channel 9", msg)
	}
}

func TestNewNoteOnErrorKind(t *testing.T) {
	_, err := NewNoteOn(16, 60, 100)
	var ce *contracts.Error
	if !errors.As(err, &ce) {
		t.Fatalf("err is not *contracts.Error: %v", err)
	}
	if ce.Kind != contracts.InvalidArgument {
		t.Errorf("kind = %v, want InvalidArgument", ce.Kind)
	}
}

func TestBytesRoundTripChannelVoice(t *testing.T) {
	msg, _ := NewControlChange(3, 7, 100)
	b := msg.Bytes()
	want := []byte{0xB3, 0x07, 0x64}
	if len(b) != len(want) {
		t.Fatalf("len(b) = %d, want %d", len(b), len(want))
	}
	for i := range want {
		if b[i] != want[i] {
			t.Errorf("b[%d] = %x, want %x", i, b[i], want[i])
		}
	}
}

func TestBytesSysEx(t *testing.T) {
	msg := Message{Kind: KindSystemExclusive, SysEx: SysExView{Data: []byte{1, 2, 3}, Len: 3}}
	b := msg.Bytes()
	want := []byte{0xF0, 1, 2, 3, 0xF7}
	if len(b) != len(want) {
		t.Fatalf("len(b) = %d, want %d", len(b), len(want))
	}
	for i := range want {
		if b[i] != want[i] {
			t.Errorf("b[%d] = %x, want %x", i, b[i], want[i])
		}
	}
}

func TestPitchBendRoundTrip(t *testing.T) {
	msg, err := NewPitchBend(0, 8192)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := msg.PitchBendValue(); got != 8192 {
		t.Errorf("PitchBendValue() = %d, want 8192", got)
	}
}

func TestIsNoteOnOff(t *testing.T) {
	on, _ := NewNoteOn(0, 60, 100)
	if !on.IsNoteOn() || on.IsNoteOff() {
		t.Errorf("NoteOn classified wrong: on=%v off=%v", on.IsNoteOn(), on.IsNoteOff())
	}
	zeroVel, _ := NewNoteOn(0, 60, 0)
	if !zeroVel.IsNoteOff() || zeroVel.IsNoteOn() {
		t.Errorf("NoteOn vel=0 classified wrong: on=%v off=%v", zeroVel.IsNoteOn(), zeroVel.IsNoteOff())
	}
}
