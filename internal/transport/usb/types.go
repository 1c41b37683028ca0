// Package usb implements the USB-MIDI 1.0 transport: a codec for the
// USB-MIDI Event Packet wire format used in device role (spec.md §4.7,
// original_source/components/midi_usb), and a host-role Transport that
// sits on top of a desktop MIDI subsystem (CoreMIDI, WinMM, or a
// cross-platform portmidi fallback) acting as a USB host talking to
// external MIDI gear. Transport runs in host role only; it does not use
// the Event Packet codec.
package usb

import "github.com/leandrodaf/midi-router/sdk/contracts"

// Role names the two sides of a USB link. Transport takes no Role: it
// always runs in host role.
type Role int

const (
	// RoleDevice is the side that enumerates as a USB-MIDI device and
	// frames its traffic as USB-MIDI Event Packets, as the original
	// firmware's midi_usb component does (see EncodeMessage).
	RoleDevice Role = iota
	// RoleHost delegates to a HostBackend talking to a platform MIDI API,
	// used when this process is itself the USB host (a PC bridging to
	// external USB-MIDI class-compliant gear).
	RoleHost
)

// Code Index Number values for USB-MIDI Event Packets (USB-MIDI 1.0 Event
// Packet spec, Table 4-1), keyed by MIDI 1.0 status nibble.
const (
	cinMisc         byte = 0x0
	cinSysExStart   byte = 0x4
	cinSysExEnd1    byte = 0x5
	cinSysExEnd2    byte = 0x6
	cinSysExEnd3    byte = 0x7
	cinNoteOff      byte = 0x8
	cinNoteOn       byte = 0x9
	cinPolyPress    byte = 0xA
	cinCC           byte = 0xB
	cinProgramChg   byte = 0xC
	cinChanPress    byte = 0xD
	cinPitchBend    byte = 0xE
	cinSingleByte   byte = 0xF
)

// cinFor returns the Code Index Number for a channel voice status byte's
// top nibble.
func cinFor(statusHighNibble byte) byte {
	switch statusHighNibble {
	case 0x80:
		return cinNoteOff
	case 0x90:
		return cinNoteOn
	case 0xA0:
		return cinPolyPress
	case 0xB0:
		return cinCC
	case 0xC0:
		return cinProgramChg
	case 0xD0:
		return cinChanPress
	case 0xE0:
		return cinPitchBend
	default:
		return cinSingleByte
	}
}

// EventPacket is one 4-byte USB-MIDI Event Packet: a Cable Number /Code
// Index Number header byte followed by up to 3 MIDI 1.0 bytes.
type EventPacket struct {
	Cable uint8
	CIN   uint8
	Data  [3]byte
}

// Bytes serializes the packet to its 4-byte wire form.
func (p EventPacket) Bytes() [4]byte {
	return [4]byte{(p.Cable&0x0F)<<4 | (p.CIN & 0x0F), p.Data[0], p.Data[1], p.Data[2]}
}

// ParseEventPacket decodes a 4-byte USB-MIDI Event Packet.
func ParseEventPacket(raw [4]byte) (EventPacket, error) {
	return EventPacket{
		Cable: raw[0] >> 4,
		CIN:   raw[0] & 0x0F,
		Data:  [3]byte{raw[1], raw[2], raw[3]},
	}, nil
}

func newErr(op string, kind contracts.ErrorKind) *contracts.Error {
	return contracts.NewError(op, kind, nil)
}
