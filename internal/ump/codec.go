package ump

import "github.com/leandrodaf/midi-router/sdk/contracts"

// Decode reads words[0] to classify the packet size, copies exactly that
// many words into out, and sets MessageType/Group. It fails with
// UnsupportedMessageType only if the size cannot be determined, which
// spec.md §4.2 notes never actually happens for 0x0-0xF — SizeFor never
// returns 0 for the nibble range, but the check is kept for defense
// against a future non-exhaustive Message Type table.
func Decode(words []uint32, out *Packet) error {
	if len(words) == 0 || out == nil {
		return newError("Decode", contracts.InvalidArgument, nil)
	}

	mt := messageType(words[0])
	n := SizeFor(mt)
	if n == 0 {
		return newError("Decode", contracts.UnsupportedMessageType, nil)
	}
	if len(words) < int(n) {
		return newError("Decode", contracts.InvalidArgument, nil)
	}

	var packet Packet
	copy(packet.Words[:n], words[:n])
	packet.NumWords = n
	packet.MessageType = mt
	packet.Group = group(words[0])
	*out = packet
	return nil
}

// Encode writes packet.NumWords words into wordsOut, failing with
// InsufficientCapacity if the caller's buffer is too short.
func Encode(packet *Packet, wordsOut []uint32) error {
	if packet == nil {
		return newError("Encode", contracts.InvalidArgument, nil)
	}
	if len(wordsOut) < int(packet.NumWords) {
		return newError("Encode", contracts.InsufficientCapacity, nil)
	}
	copy(wordsOut, packet.Words[:packet.NumWords])
	return nil
}

// IsValid checks structural validity: NumWords matches the Message
// Type's mandated size, Group ≤ 15 (always true given Group is a 4-bit
// extraction, checked for documentation parity with spec.md §4.2), and
// MIDI 2.0 Channel Voice subfields (note, controller, program) are ≤ 127
// where applicable.
func IsValid(packet *Packet) bool {
	if packet == nil {
		return false
	}
	if packet.NumWords != SizeFor(packet.MessageType) {
		return false
	}
	if packet.Group > 15 {
		return false
	}
	if packet.MessageType == MT2ChannelVoice {
		status := byte((packet.Words[0] >> 16) & 0xF0)
		idx := byte((packet.Words[0] >> 8) & 0xFF)
		switch status {
		case 0x90, 0x80, 0xA0, 0xB0, 0xC0:
			// Note On/Off, Poly Pressure: idx is a note number.
			// Control Change: idx is a controller index.
			// Program Change: idx is the program number.
			if idx > 0x7F {
				return false
			}
		}
	}
	return true
}
