// Package midi1 implements the stateful MIDI 1.0 byte-stream parser and
// message model: running status, real-time interleaving, and System
// Exclusive framing (spec.md §4.1, §3).
package midi1

import "github.com/leandrodaf/midi-router/sdk/contracts"

// Kind tags the variant a Message carries, resolving the Open Question in
// spec.md §9 (the source's two incompatible midi_message_t shapes) in
// favor of one uniform tagged-struct shape used throughout.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindChannelVoice
	KindSystemCommon
	KindSystemRealTime
	KindSystemExclusive
)

func (k Kind) String() string {
	switch k {
	case KindChannelVoice:
		return "ChannelVoice"
	case KindSystemCommon:
		return "SystemCommon"
	case KindSystemRealTime:
		return "SystemRealTime"
	case KindSystemExclusive:
		return "SystemExclusive"
	default:
		return "Unknown"
	}
}

// Status byte ranges and values (MIDI 1.0 spec).
const (
	StatusNoteOff         byte = 0x80
	StatusNoteOn          byte = 0x90
	StatusPolyPressure    byte = 0xA0
	StatusControlChange   byte = 0xB0
	StatusProgramChange   byte = 0xC0
	StatusChannelPressure byte = 0xD0
	StatusPitchBend       byte = 0xE0

	StatusSysExStart    byte = 0xF0
	StatusMTCQuarter    byte = 0xF1
	StatusSongPosition  byte = 0xF2
	StatusSongSelect    byte = 0xF3
	StatusTuneRequest   byte = 0xF6
	StatusSysExEnd      byte = 0xF7
	StatusTimingClock   byte = 0xF8
	StatusStart         byte = 0xFA
	StatusContinue      byte = 0xFB
	StatusStop          byte = 0xFC
	StatusActiveSensing byte = 0xFE
	StatusSystemReset   byte = 0xFF

	channelMask    byte = 0x0F
	statusTypeMask byte = 0xF0
)

// SysExView is a non-owning view over a caller-provided SysEx buffer,
// per spec.md §9: "Borrowed SysEx buffers → represent as an explicit view
// over caller-owned storage with a separate length; do not allocate inside
// the parser."
type SysExView struct {
	Data []byte // caller-owned storage, len(Data) == capacity
	Len  int    // valid prefix length
}

// Bytes returns the valid SysEx payload slice.
func (v SysExView) Bytes() []byte {
	if v.Data == nil {
		return nil
	}
	return v.Data[:v.Len]
}

// Message is the tagged-union MIDI 1.0 message of spec.md §3.
type Message struct {
	Kind    Kind
	Status  byte
	Channel uint8    // valid for ChannelVoice only
	Data    [2]byte  // channel voice / system common payload
	Len     uint8    // number of valid bytes in Data (0, 1, or 2)
	SysEx   SysExView
}

// IsChannelMessage reports whether status is a Channel Voice/Mode status
// byte (0x80-0xEF).
func IsChannelMessage(status byte) bool {
	return status >= 0x80 && status <= 0xEF
}

// IsSystemCommonMessage reports whether status is a System Common status
// byte (0xF0-0xF7).
func IsSystemCommonMessage(status byte) bool {
	return status >= 0xF0 && status <= 0xF7
}

// IsRealTimeMessage reports whether b is a System Real-Time byte
// (0xF8-0xFF).
func IsRealTimeMessage(b byte) bool {
	return b >= 0xF8
}

// IsStatusByte reports whether b has its top bit set (a status byte,
// 0x80-0xFF) as opposed to a data byte (0x00-0x7F).
func IsStatusByte(b byte) bool {
	return b&0x80 != 0
}

// IsDataByte reports whether b is a 7-bit data byte.
func IsDataByte(b byte) bool {
	return b&0x80 == 0
}

// DataByteCount returns the number of data bytes a status byte expects,
// per the table in spec.md §4.1. SysEx Start returns 0 (variable length,
// terminated by 0xF7) and undefined statuses return 0.
func DataByteCount(status byte) uint8 {
	if IsChannelMessage(status) {
		switch status & statusTypeMask {
		case StatusProgramChange, StatusChannelPressure:
			return 1
		default:
			return 2
		}
	}
	if IsSystemCommonMessage(status) {
		switch status {
		case StatusMTCQuarter, StatusSongSelect:
			return 1
		case StatusSongPosition:
			return 2
		case StatusTuneRequest, StatusSysExEnd, StatusSysExStart:
			return 0
		default:
			return 0 // 0xF4, 0xF5: undefined, ignored
		}
	}
	return 0 // real-time
}

// newError is a small constructor to keep call sites in this package
// terse; every parser failure path uses it.
func newError(op string, kind contracts.ErrorKind, cause error) *contracts.Error {
	return contracts.NewError(op, kind, cause)
}
