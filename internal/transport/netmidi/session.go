// Package netmidi implements the minimal Network-MIDI 2.0 session framing
// shared by the ethernet and wifi transports (spec.md §6): a one-byte
// frame type, a little-endian sequence number, and for UMP-payload frames
// a sequence of UMP words. Grounded on
// CiaranWoodward-broadcast_hub__protocol.go's tagged header style,
// adapted to a fixed binary layout (encoding/binary) since this is wire
// framing rather than a config blob.
package netmidi

import (
	"encoding/binary"

	"github.com/leandrodaf/midi-router/internal/ump"
	"github.com/leandrodaf/midi-router/sdk/contracts"
)

// FrameType is the first byte of every Network-MIDI 2.0 session frame.
type FrameType byte

const (
	FrameUMP               FrameType = 0x00
	FrameSessionStart      FrameType = 0x01
	FrameSessionAck        FrameType = 0x02
	FrameSessionEnd        FrameType = 0x03
	FrameKeepalive         FrameType = 0x04
	FrameRetransmitRequest FrameType = 0x05
)

const headerSize = 5 // 1 type byte + 4-byte little-endian sequence number

// Frame is one decoded session frame: its type, sequence number, and (for
// FrameUMP) the UMP words it carries.
type Frame struct {
	Type     FrameType
	Sequence uint32
	Words    []uint32
}

// Encode serializes f to its wire bytes.
func Encode(f Frame) []byte {
	out := make([]byte, headerSize+4*len(f.Words))
	out[0] = byte(f.Type)
	binary.LittleEndian.PutUint32(out[1:5], f.Sequence)
	for i, w := range f.Words {
		binary.LittleEndian.PutUint32(out[headerSize+4*i:], w)
	}
	return out
}

// Decode parses raw into a Frame. UMP payload frames must carry a whole
// number of 32-bit words.
func Decode(raw []byte) (Frame, error) {
	if len(raw) < headerSize {
		return Frame{}, contracts.NewError("Decode", contracts.InvalidArgument, nil)
	}
	f := Frame{Type: FrameType(raw[0]), Sequence: binary.LittleEndian.Uint32(raw[1:5])}

	if f.Type != FrameUMP {
		return f, nil
	}
	payload := raw[headerSize:]
	if len(payload)%4 != 0 {
		return Frame{}, contracts.NewError("Decode", contracts.InvalidArgument, nil)
	}
	f.Words = make([]uint32, len(payload)/4)
	for i := range f.Words {
		f.Words[i] = binary.LittleEndian.Uint32(payload[4*i:])
	}
	return f, nil
}

// EncodeUMPFrame is a convenience wrapper building a FrameUMP frame
// carrying exactly one UMP packet's words.
func EncodeUMPFrame(sequence uint32, packet *ump.Packet) []byte {
	words := packet.Words[:packet.NumWords]
	return Encode(Frame{Type: FrameUMP, Sequence: sequence, Words: append([]uint32(nil), words...)})
}
