package netmidi

import (
	"testing"

	"github.com/leandrodaf/midi-router/internal/ump"
)

func TestEncodeDecodeUMPFrame(t *testing.T) {
	var p ump.Packet
	if err := ump.BuildMIDI2NoteOn(0, 0, 60, 32768, 0, 0, &p); err != nil {
		t.Fatalf("build: %v", err)
	}

	raw := EncodeUMPFrame(42, &p)
	frame, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if frame.Type != FrameUMP || frame.Sequence != 42 {
		t.Fatalf("got type=%v seq=%d, want UMP/42", frame.Type, frame.Sequence)
	}
	if len(frame.Words) != int(p.NumWords) {
		t.Fatalf("got %d words, want %d", len(frame.Words), p.NumWords)
	}
	for i := range frame.Words {
		if frame.Words[i] != p.Words[i] {
			t.Errorf("word %d = %#x, want %#x", i, frame.Words[i], p.Words[i])
		}
	}
}

func TestDecodeRejectsShortFrame(t *testing.T) {
	if _, err := Decode([]byte{0x00, 0x01}); err == nil {
		t.Error("expected error decoding a too-short frame")
	}
}

func TestDecodeSessionControlFrame(t *testing.T) {
	raw := Encode(Frame{Type: FrameSessionAck, Sequence: 7})
	frame, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if frame.Type != FrameSessionAck || frame.Sequence != 7 || frame.Words != nil {
		t.Errorf("got %+v", frame)
	}
}
