package translate

import "github.com/leandrodaf/midi-router/internal/ump"

// sysEx7ChunkSize is the number of MIDI 1.0 data bytes carried per Data64
// (SysEx7) UMP packet word 1/2, per the MIDI Association UMP 1.1
// specification (spec.md §4.3 resolved ambiguity).
const sysEx7ChunkSize = 6

// FragmentSysEx7 splits a complete SysEx payload (the bytes strictly
// between 0xF0 and 0xF7, exclusive of both) into a sequence of Data64
// UMP packets, each carrying up to 6 data bytes and a Format nibble
// marking its position in the sequence: Complete when the whole message
// fits in one packet, otherwise Start/Continue/End.
func FragmentSysEx7(group uint8, payload []byte) []ump.Packet {
	if len(payload) == 0 {
		return []ump.Packet{buildSysEx7(group, ump.SysEx7Complete, nil)}
	}

	n := (len(payload) + sysEx7ChunkSize - 1) / sysEx7ChunkSize
	packets := make([]ump.Packet, 0, n)
	for i := 0; i < len(payload); i += sysEx7ChunkSize {
		end := i + sysEx7ChunkSize
		if end > len(payload) {
			end = len(payload)
		}
		chunk := payload[i:end]

		var format byte
		switch {
		case n == 1:
			format = ump.SysEx7Complete
		case i == 0:
			format = ump.SysEx7Start
		case end == len(payload):
			format = ump.SysEx7End
		default:
			format = ump.SysEx7Continue
		}
		packets = append(packets, buildSysEx7(group, format, chunk))
	}
	return packets
}

func buildSysEx7(group, format byte, chunk []byte) ump.Packet {
	word0 := uint32(ump.MTData64)<<28 | uint32(group&0x0F)<<24 | uint32(format)<<20 | uint32(len(chunk))<<16
	for i, b := range chunk[:min(2, len(chunk))] {
		word0 |= uint32(b) << (8 * (1 - i))
	}

	var word1 uint32
	for i := 2; i < len(chunk); i++ {
		word1 |= uint32(chunk[i]) << (8 * (3 - (i - 2)))
	}

	return ump.Packet{
		Words:       [4]uint32{word0, word1},
		NumWords:    2,
		MessageType: ump.MTData64,
		Group:       group & 0x0F,
	}
}

// sysEx7Bytes extracts the data bytes carried by a single Data64 packet,
// given the byte count encoded in word 0 bits 19..16.
func sysEx7Bytes(packet ump.Packet) []byte {
	count := byte((packet.Words[0] >> 16) & 0x0F)
	if count > 6 {
		count = 6
	}
	buf := make([]byte, 0, count)
	for i := byte(0); i < count && i < 2; i++ {
		buf = append(buf, byte(packet.Words[0]>>(8*(1-i))))
	}
	for i := byte(2); i < count; i++ {
		buf = append(buf, byte(packet.Words[1]>>(8*(3-(i-2)))))
	}
	return buf
}

func sysEx7Format(packet ump.Packet) byte {
	return byte((packet.Words[0] >> 20) & 0x0F)
}

// SysExReassembler reconstructs a complete MIDI 1.0 SysEx payload from a
// stream of fragmented Data64 packets. It is stateful: a single incoming
// UMP packet carries only one fragment, so the caller feeds packets in
// arrival order and receives a complete payload only once an End (or
// Complete) fragment closes the sequence.
type SysExReassembler struct {
	buf      []byte
	capturing bool
}

// NewSysExReassembler returns a reassembler with no in-progress capture.
func NewSysExReassembler() *SysExReassembler {
	return &SysExReassembler{}
}

// Feed processes one Data64 packet. It returns (payload, true) once a
// Complete or End fragment closes a message; otherwise it returns
// (nil, false) and retains the accumulated bytes internally. An
// out-of-sequence Start while already capturing silently restarts the
// capture, mirroring the parser's own silent-resynchronization behavior
// on interrupted SysEx (spec.md §4.1 / SPEC_FULL.md §4.1).
func (r *SysExReassembler) Feed(packet ump.Packet) ([]byte, bool) {
	if packet.MessageType != ump.MTData64 {
		return nil, false
	}
	chunk := sysEx7Bytes(packet)

	switch sysEx7Format(packet) {
	case ump.SysEx7Complete:
		r.buf = nil
		r.capturing = false
		return chunk, true

	case ump.SysEx7Start:
		r.buf = append([]byte(nil), chunk...)
		r.capturing = true
		return nil, false

	case ump.SysEx7Continue:
		if !r.capturing {
			return nil, false
		}
		r.buf = append(r.buf, chunk...)
		return nil, false

	case ump.SysEx7End:
		if !r.capturing {
			return chunk, true
		}
		r.buf = append(r.buf, chunk...)
		r.capturing = false
		out := r.buf
		r.buf = nil
		return out, true

	default:
		return nil, false
	}
}

// Reset discards any in-progress capture.
func (r *SysExReassembler) Reset() {
	r.buf = nil
	r.capturing = false
}
