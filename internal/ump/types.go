// Package ump implements the Universal MIDI Packet codec: size
// classification by Message Type, decode/encode, and MIDI 2.0 Channel
// Voice builders (spec.md §4.2).
package ump

import "github.com/leandrodaf/midi-router/sdk/contracts"

// Message Type (top nibble of word 0).
const (
	MTUtility            byte = 0x0
	MTSystem             byte = 0x1
	MT1ChannelVoice      byte = 0x2
	MTData64             byte = 0x3
	MT2ChannelVoice      byte = 0x4
	MTData128            byte = 0x5
	MTReserved6          byte = 0x6
	MTReserved7          byte = 0x7
	MTReserved8          byte = 0x8
	MTReserved9          byte = 0x9
	MTReservedA          byte = 0xA
	MTReservedB          byte = 0xB
	MTReservedC          byte = 0xC
	MTFlexData           byte = 0xD
	MTReservedE          byte = 0xE
	MTUMPStream          byte = 0xF
)

// SysEx7 Format field values (spec.md §4.3).
const (
	SysEx7Complete byte = 0x0
	SysEx7Start    byte = 0x1
	SysEx7Continue byte = 0x2
	SysEx7End      byte = 0x3
)

// Packet is the UMP entity of spec.md §3: 1-4 32-bit words plus the
// denormalized Message Type and Group extracted from word 0.
type Packet struct {
	Words       [4]uint32
	NumWords    uint8
	MessageType uint8
	Group       uint8
}

// SizeFor returns the word count mandated by a Message Type, per the
// table in spec.md §4.2. It never fails: every 4-bit nibble 0x0-0xF maps
// to a size, including the reserved ranges.
func SizeFor(mt byte) uint8 {
	switch mt {
	case MTUtility, MTSystem, MT1ChannelVoice, MTReserved6, MTReserved7:
		return 1
	case MTData64, MT2ChannelVoice, MTReserved8, MTReserved9, MTReservedA:
		return 2
	case MTReservedB, MTReservedC:
		return 3
	case MTData128, MTFlexData, MTReservedE, MTUMPStream:
		return 4
	default:
		return 0 // unreachable: mt is a 4-bit nibble, all 16 values handled above
	}
}

func messageType(word0 uint32) byte { return byte(word0 >> 28) }
func group(word0 uint32) byte       { return byte((word0 >> 24) & 0x0F) }

func newError(op string, kind contracts.ErrorKind, cause error) *contracts.Error {
	return contracts.NewError(op, kind, cause)
}
