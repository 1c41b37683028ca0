package ump

import "testing"

func TestDecodeEncodeRoundTrip(t *testing.T) {
	var built Packet
	if err := BuildMIDI2NoteOn(0, 0, 60, 32768, 0, 0, &built); err != nil {
		t.Fatalf("build: %v", err)
	}

	var words [4]uint32
	if err := Encode(&built, words[:]); err != nil {
		t.Fatalf("encode: %v", err)
	}

	var decoded Packet
	if err := Decode(words[:built.NumWords], &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if decoded != built {
		t.Errorf("decoded = %+v, want %+v", decoded, built)
	}
}

func TestSizeForAllMessageTypes(t *testing.T) {
	cases := map[byte]uint8{
		MTUtility: 1, MTSystem: 1, MT1ChannelVoice: 1,
		MTReserved6: 1, MTReserved7: 1,
		MTData64: 2, MT2ChannelVoice: 2, MTReserved8: 2, MTReserved9: 2, MTReservedA: 2,
		MTReservedB: 3, MTReservedC: 3,
		MTData128: 4, MTFlexData: 4, MTReservedE: 4, MTUMPStream: 4,
	}
	for mt, want := range cases {
		if got := SizeFor(mt); got != want {
			t.Errorf("SizeFor(%#x) = %d, want %d", mt, got, want)
		}
	}
}

func TestDecodeUtilitySingleWord(t *testing.T) {
	words := []uint32{uint32(MTUtility)<<28 | uint32(3)<<24}
	var p Packet
	if err := Decode(words, &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.NumWords != 1 || p.Group != 3 || p.MessageType != MTUtility {
		t.Errorf("p = %+v, want NumWords=1 Group=3 MT=Utility", p)
	}
}

func TestBuildMIDI2NoteOnInvalidArgs(t *testing.T) {
	var p Packet
	if err := BuildMIDI2NoteOn(16, 0, 60, 0, 0, 0, &p); err == nil {
		t.Error("expected error for group=16")
	}
	if err := BuildMIDI2NoteOn(0, 0, 128, 0, 0, 0, &p); err == nil {
		t.Error("expected error for note=128")
	}
}

func TestBuildMIDI2NoteOnRoundTripFields(t *testing.T) {
	var p Packet
	if err := BuildMIDI2NoteOn(0, 0, 60, 32768, 0, 0, &p); err != nil {
		t.Fatalf("build: %v", err)
	}
	group := byte((p.Words[0] >> 24) & 0x0F)
	status := byte((p.Words[0] >> 16) & 0xFF)
	note := byte((p.Words[0] >> 8) & 0xFF)
	velocity := uint16(p.Words[1] >> 16)

	if group != 0 || status != 0x90 || note != 60 || velocity != 32768 {
		t.Errorf("got group=%d status=%#x note=%d velocity=%d", group, status, note, velocity)
	}
	if !IsValid(&p) {
		t.Error("IsValid() = false, want true")
	}
}

func TestEncodeInsufficientCapacity(t *testing.T) {
	var p Packet
	_ = BuildMIDI2NoteOn(0, 0, 60, 0, 0, 0, &p)
	var small [1]uint32
	if err := Encode(&p, small[:]); err == nil {
		t.Error("expected InsufficientCapacity error")
	}
}

func TestIsValidRejectsBadNumWords(t *testing.T) {
	p := Packet{MessageType: MT2ChannelVoice, NumWords: 1}
	if IsValid(&p) {
		t.Error("IsValid() = true, want false for wrong NumWords")
	}
}
