package ump

import "github.com/leandrodaf/midi-router/sdk/contracts"

// AttrType constants for Note On/Off attribute data (MIDI 2.0 UMP §7.3.1).
const (
	AttrNone       uint8 = 0x00
	AttrManufacturer uint8 = 0x01
	AttrProfile    uint8 = 0x02
	AttrPitch7_9   uint8 = 0x03
)

func checkGroupChannel(op string, group, channel uint8) error {
	if group > 0x0F || channel > 0x0F {
		return newError(op, contracts.InvalidArgument, nil)
	}
	return nil
}

func word0ChannelVoice(group, status, channel, idx uint8) uint32 {
	return uint32(MT2ChannelVoice)<<28 |
		uint32(group&0x0F)<<24 |
		uint32(status|channel&0x0F)<<16 |
		uint32(idx)<<8
}

func finishPacket(out *Packet, group uint8, word0, word1 uint32) {
	out.Words[0] = word0
	out.Words[1] = word1
	out.Words[2] = 0
	out.Words[3] = 0
	out.NumWords = 2
	out.MessageType = MT2ChannelVoice
	out.Group = group
}

// word1NoteWord packs the documented MIDI 2.0 Note On/Off word 1 layout:
// Velocity in bits 31..16, Attribute Type in bits 15..8, Attribute Data
// truncated to bits 7..0. This resolves the Open Question in spec.md §9
// on the source's structurally impossible 16+8+16 packing: the corpus
// comments claim a 16-bit Attribute Data field, which cannot coexist with
// a 16-bit Velocity and an 8-bit Attribute Type in a single 32-bit word,
// so Attribute Data is implemented as 8 bits wide per the MIDI
// Association UMP specification.
func word1NoteWord(velocity16 uint16, attrType uint8, attrData uint16) uint32 {
	return uint32(velocity16)<<16 | uint32(attrType)<<8 | uint32(byte(attrData))
}

// BuildMIDI2NoteOn builds a MIDI 2.0 Channel Voice Note On packet.
func BuildMIDI2NoteOn(group, channel, note uint8, velocity16 uint16, attrType uint8, attrData uint16, out *Packet) error {
	if err := checkGroupChannel("BuildMIDI2NoteOn", group, channel); err != nil {
		return err
	}
	if note > 0x7F {
		return newError("BuildMIDI2NoteOn", contracts.InvalidArgument, nil)
	}
	w0 := word0ChannelVoice(group, 0x90, channel, note)
	w1 := word1NoteWord(velocity16, attrType, attrData)
	finishPacket(out, group, w0, w1)
	return nil
}

// BuildMIDI2NoteOff builds a MIDI 2.0 Channel Voice Note Off packet.
func BuildMIDI2NoteOff(group, channel, note uint8, velocity16 uint16, attrType uint8, attrData uint16, out *Packet) error {
	if err := checkGroupChannel("BuildMIDI2NoteOff", group, channel); err != nil {
		return err
	}
	if note > 0x7F {
		return newError("BuildMIDI2NoteOff", contracts.InvalidArgument, nil)
	}
	w0 := word0ChannelVoice(group, 0x80, channel, note)
	w1 := word1NoteWord(velocity16, attrType, attrData)
	finishPacket(out, group, w0, w1)
	return nil
}

// BuildMIDI2PolyPressure builds a MIDI 2.0 Channel Voice Polyphonic Key
// Pressure packet; word 1 is the full 32-bit pressure value.
func BuildMIDI2PolyPressure(group, channel, note uint8, pressure32 uint32, out *Packet) error {
	if err := checkGroupChannel("BuildMIDI2PolyPressure", group, channel); err != nil {
		return err
	}
	if note > 0x7F {
		return newError("BuildMIDI2PolyPressure", contracts.InvalidArgument, nil)
	}
	w0 := word0ChannelVoice(group, 0xA0, channel, note)
	finishPacket(out, group, w0, pressure32)
	return nil
}

// BuildMIDI2ControlChange builds a MIDI 2.0 Channel Voice Control Change
// packet; word 1 is the full 32-bit controller value.
func BuildMIDI2ControlChange(group, channel, controller uint8, value32 uint32, out *Packet) error {
	if err := checkGroupChannel("BuildMIDI2ControlChange", group, channel); err != nil {
		return err
	}
	if controller > 0x7F {
		return newError("BuildMIDI2ControlChange", contracts.InvalidArgument, nil)
	}
	w0 := word0ChannelVoice(group, 0xB0, channel, controller)
	finishPacket(out, group, w0, value32)
	return nil
}

// BuildMIDI2ProgramChange builds a MIDI 2.0 Channel Voice Program Change
// packet. When bankValid is true, word 1's high 16 bits carry
// BankMSB/BankLSB and word 0 bit 0 records the Bank Valid flag; the low
// 16 bits of word 1 are reserved (spec.md §4.2).
func BuildMIDI2ProgramChange(group, channel, program uint8, bankValid bool, bankMSB, bankLSB uint8, out *Packet) error {
	if err := checkGroupChannel("BuildMIDI2ProgramChange", group, channel); err != nil {
		return err
	}
	if program > 0x7F {
		return newError("BuildMIDI2ProgramChange", contracts.InvalidArgument, nil)
	}
	w0 := word0ChannelVoice(group, 0xC0, channel, program)
	if bankValid {
		w0 |= 0x01
	}
	var w1 uint32
	if bankValid {
		w1 = uint32(bankMSB)<<24 | uint32(bankLSB)<<16
	}
	finishPacket(out, group, w0, w1)
	return nil
}

// BuildMIDI2ChannelPressure builds a MIDI 2.0 Channel Voice Channel
// Pressure packet; word 1 is the full 32-bit pressure value.
func BuildMIDI2ChannelPressure(group, channel uint8, pressure32 uint32, out *Packet) error {
	if err := checkGroupChannel("BuildMIDI2ChannelPressure", group, channel); err != nil {
		return err
	}
	w0 := word0ChannelVoice(group, 0xD0, channel, 0)
	finishPacket(out, group, w0, pressure32)
	return nil
}

// BuildMIDI2PitchBend builds a MIDI 2.0 Channel Voice Pitch Bend packet;
// word 1 is the full 32-bit value, unsigned, center 0x80000000.
func BuildMIDI2PitchBend(group, channel uint8, value32 uint32, out *Packet) error {
	if err := checkGroupChannel("BuildMIDI2PitchBend", group, channel); err != nil {
		return err
	}
	w0 := word0ChannelVoice(group, 0xE0, channel, 0)
	finishPacket(out, group, w0, value32)
	return nil
}
