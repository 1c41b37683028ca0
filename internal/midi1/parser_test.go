package midi1

import (
	"reflect"
	"testing"
)

func feed(t *testing.T, s *State, bytes ...byte) []Message {
	t.Helper()
	var out []Message
	for _, b := range bytes {
		if msg, complete := s.ParseByte(b); complete {
			out = append(out, msg)
		}
	}
	return out
}

func TestRunningStatusTwoNoteOns(t *testing.T) {
	s := NewState(nil, nil)
	msgs := feed(t, s, 0x90, 0x3C, 0x64, 0x40, 0x70)

	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	want := []Message{
		{Kind: KindChannelVoice, Status: 0x90, Channel: 0, Data: [2]byte{0x3C, 0x64}, Len: 2},
		{Kind: KindChannelVoice, Status: 0x90, Channel: 0, Data: [2]byte{0x40, 0x70}, Len: 2},
	}
	for i, w := range want {
		if !reflect.DeepEqual(msgs[i], w) {
			t.Errorf("msg[%d] = %+v, want %+v", i, msgs[i], w)
		}
	}
}

func TestRealTimeInjection(t *testing.T) {
	s := NewState(nil, nil)
	msgs := feed(t, s, 0x90, 0x3C, 0xF8, 0x64)

	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Kind != KindSystemRealTime || msgs[0].Status != 0xF8 {
		t.Errorf("msg[0] = %+v, want clock", msgs[0])
	}
	want := Message{Kind: KindChannelVoice, Status: 0x90, Channel: 0, Data: [2]byte{0x3C, 0x64}, Len: 2}
	if !reflect.DeepEqual(msgs[1], want) {
		t.Errorf("msg[1] = %+v, want %+v", msgs[1], want)
	}
}

func TestSysExCapture(t *testing.T) {
	buf := make([]byte, 16)
	s := NewState(buf, nil)
	msgs := feed(t, s, 0xF0, 0x01, 0x02, 0x03, 0xF7)

	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	got := msgs[0]
	if got.Kind != KindSystemExclusive {
		t.Fatalf("kind = %v, want SystemExclusive", got.Kind)
	}
	want := []byte{0x01, 0x02, 0x03}
	gotBytes := got.SysEx.Bytes()
	if len(gotBytes) != len(want) {
		t.Fatalf("sysex len = %d, want %d", len(gotBytes), len(want))
	}
	for i := range want {
		if gotBytes[i] != want[i] {
			t.Errorf("sysex[%d] = %x, want %x", i, gotBytes[i], want[i])
		}
	}
}

func TestSysExRealTimeDoesNotDisturbCapture(t *testing.T) {
	buf := make([]byte, 16)
	s := NewState(buf, nil)
	msgs := feed(t, s, 0xF0, 0x01, 0xF8, 0x02, 0xF7)

	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2 (clock + sysex)", len(msgs))
	}
	if msgs[0].Kind != KindSystemRealTime {
		t.Errorf("msg[0] kind = %v, want SystemRealTime", msgs[0].Kind)
	}
	if got := msgs[1].SysEx.Bytes(); len(got) != 2 || got[0] != 0x01 || got[1] != 0x02 {
		t.Errorf("sysex bytes = %v, want [1 2]", got)
	}
}

func TestSysExOverflowCountsError(t *testing.T) {
	buf := make([]byte, 1)
	s := NewState(buf, nil)
	feed(t, s, 0xF0, 0x01, 0x02, 0xF7)

	if s.ParseErrors == 0 {
		t.Errorf("ParseErrors = 0, want > 0 after overflow")
	}
}

func TestSysExTerminatedByNewStatus(t *testing.T) {
	buf := make([]byte, 16)
	s := NewState(buf, nil)
	// A Note On status interrupts an in-progress SysEx; no SysEx message
	// is emitted, and the interrupting status starts a fresh message.
	msgs := feed(t, s, 0xF0, 0x01, 0x90, 0x3C, 0x64)

	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1 (no truncated sysex emitted)", len(msgs))
	}
	want := Message{Kind: KindChannelVoice, Status: 0x90, Channel: 0, Data: [2]byte{0x3C, 0x64}, Len: 2}
	if !reflect.DeepEqual(msgs[0], want) {
		t.Errorf("msg[0] = %+v, want %+v", msgs[0], want)
	}
}

func TestSystemCommonClearsRunningStatus(t *testing.T) {
	s := NewState(nil, nil)
	// Note On running status, then Song Position (system common, 2 data
	// bytes), then a bare data byte that should be ignored because
	// running status was cleared.
	msgs := feed(t, s, 0x90, 0x3C, 0x64, 0xF2, 0x01, 0x02, 0x10)

	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[1].Kind != KindSystemCommon || msgs[1].Status != 0xF2 {
		t.Errorf("msg[1] = %+v, want SongPosition", msgs[1])
	}
}

func TestUndefinedStatusCountsErrorAndIsDropped(t *testing.T) {
	s := NewState(nil, nil)
	msgs := feed(t, s, 0xF4, 0x10)
	if len(msgs) != 0 {
		t.Fatalf("got %d messages, want 0", len(msgs))
	}
	if s.ParseErrors != 1 {
		t.Errorf("ParseErrors = %d, want 1", s.ParseErrors)
	}
}

func TestDataByteWithNoRunningStatusIgnored(t *testing.T) {
	s := NewState(nil, nil)
	msgs := feed(t, s, 0x3C, 0x64)
	if len(msgs) != 0 {
		t.Fatalf("got %d messages, want 0", len(msgs))
	}
}

func TestResetPreservesStatistics(t *testing.T) {
	s := NewState(nil, nil)
	feed(t, s, 0x90, 0x3C, 0x64)
	if s.MessagesParsed != 1 {
		t.Fatalf("MessagesParsed = %d, want 1", s.MessagesParsed)
	}
	s.Reset()
	if s.MessagesParsed != 1 {
		t.Errorf("MessagesParsed = %d after Reset, want unchanged 1", s.MessagesParsed)
	}
	if s.runningStatus != 0 {
		t.Errorf("runningStatus = %x after Reset, want 0", s.runningStatus)
	}
}
