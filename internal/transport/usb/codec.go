package usb

import (
	"github.com/leandrodaf/midi-router/internal/midi1"
	"github.com/leandrodaf/midi-router/sdk/contracts"
)

// EncodeMessage frames a MIDI 1.0 message as one or more USB-MIDI Event
// Packets on the given cable. Channel voice, system common, and
// real-time messages fit in a single packet; System Exclusive is split
// into 3-byte chunks (cinSysExStart) with a final 1-3 byte chunk tagged
// by its own CIN (cinSysExEnd1/2/3), per the USB-MIDI 1.0 Event Packet
// spec.
func EncodeMessage(cable uint8, msg midi1.Message) []EventPacket {
	if msg.Kind == midi1.KindSystemExclusive {
		return encodeSysEx(cable, msg.SysEx.Bytes())
	}

	raw := msg.Bytes()
	cin := cinFor(msg.Status & 0xF0)
	if msg.Kind == midi1.KindSystemCommon || msg.Kind == midi1.KindSystemRealTime {
		cin = cinForSystem(len(raw))
	}

	var data [3]byte
	copy(data[:], raw)
	return []EventPacket{{Cable: cable, CIN: cin, Data: data}}
}

func cinForSystem(n int) byte {
	switch n {
	case 1:
		return cinSingleByte
	case 2:
		return 0x2
	case 3:
		return 0x3
	default:
		return cinSingleByte
	}
}

func encodeSysEx(cable uint8, payload []byte) []EventPacket {
	full := append([]byte{midi1.StatusSysExStart}, payload...)
	full = append(full, midi1.StatusSysExEnd)

	var out []EventPacket
	for i := 0; i < len(full); i += 3 {
		end := i + 3
		if end > len(full) {
			end = len(full)
		}
		chunk := full[i:end]
		var data [3]byte
		copy(data[:], chunk)

		cin := cinSysExStart
		if end == len(full) {
			switch len(chunk) {
			case 1:
				cin = cinSysExEnd1
			case 2:
				cin = cinSysExEnd2
			case 3:
				cin = cinSysExEnd3
			}
		}
		out = append(out, EventPacket{Cable: cable, CIN: cin, Data: data})
	}
	return out
}

// SysExAssembler reconstructs a complete SysEx payload from a stream of
// Event Packets on a single cable (stateful, mirroring
// translate.SysExReassembler for the same reason: one packet carries
// only a fragment).
type SysExAssembler struct {
	buf []byte
}

// Feed processes one Event Packet. It returns (payload, true) once a
// terminating chunk (cinSysExEnd1/2/3) closes the capture.
func (a *SysExAssembler) Feed(p EventPacket) ([]byte, bool) {
	switch p.CIN {
	case cinSysExStart:
		a.buf = append(a.buf, p.Data[0], p.Data[1], p.Data[2])
		return nil, false
	case cinSysExEnd1:
		a.buf = append(a.buf, p.Data[0])
	case cinSysExEnd2:
		a.buf = append(a.buf, p.Data[0], p.Data[1])
	case cinSysExEnd3:
		a.buf = append(a.buf, p.Data[0], p.Data[1], p.Data[2])
	default:
		return nil, false
	}

	out := a.buf
	a.buf = nil
	// Strip the 0xF0/0xF7 framing bytes, leaving the bare payload to match
	// midi1.SysExView's convention.
	if len(out) >= 2 && out[0] == midi1.StatusSysExStart && out[len(out)-1] == midi1.StatusSysExEnd {
		out = out[1 : len(out)-1]
	}
	return out, true
}

// DecodeChannelVoice builds a midi1.Message from a non-SysEx Event
// Packet. Callers should route SysEx packets (CIN 0x4-0x7) through a
// SysExAssembler instead.
func DecodeChannelVoice(p EventPacket) (midi1.Message, error) {
	status := p.Data[0]
	if !midi1.IsStatusByte(status) {
		return midi1.Message{}, contracts.NewError("DecodeChannelVoice", contracts.InvalidArgument, nil)
	}

	switch {
	case midi1.IsChannelMessage(status):
		n := midi1.DataByteCount(status)
		kind := midi1.KindChannelVoice
		return midi1.Message{
			Kind: kind, Status: status, Channel: status & 0x0F,
			Data: [2]byte{p.Data[1], p.Data[2]}, Len: n,
		}, nil
	case midi1.IsRealTimeMessage(status):
		return midi1.Message{Kind: midi1.KindSystemRealTime, Status: status}, nil
	case midi1.IsSystemCommonMessage(status):
		n := midi1.DataByteCount(status)
		return midi1.Message{Kind: midi1.KindSystemCommon, Status: status, Data: [2]byte{p.Data[1], p.Data[2]}, Len: n}, nil
	default:
		return midi1.Message{}, contracts.NewError("DecodeChannelVoice", contracts.InvalidArgument, nil)
	}
}
