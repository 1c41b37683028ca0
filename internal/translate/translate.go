package translate

import (
	"github.com/leandrodaf/midi-router/internal/midi1"
	"github.com/leandrodaf/midi-router/internal/ump"
	"github.com/leandrodaf/midi-router/sdk/contracts"
)

// Options reuses the public TranslateMode/TranslateOptions shape so the
// router's configuration and the translator's construction share one
// schema (spec.md §9: "Translation mode configuration → a struct of
// options whose recognized fields are {mode, default_group,
// preserve_timing}").
type Options = contracts.TranslateOptions

// Translator converts between MIDI 1.0 messages and UMP packets. It holds
// no mutable state beyond its configured Options; Translate1To2 and
// Translate2To1 are pure functions of their inputs, per spec.md §5: "The
// UMP codec and translator are pure functions of their inputs and hold no
// mutable state."
type Translator struct {
	opts Options
}

// New constructs a Translator with the given options.
func New(opts Options) *Translator {
	return &Translator{opts: opts}
}

func newErr(op string, kind contracts.ErrorKind) *contracts.Error {
	return contracts.NewError(op, kind, nil)
}

// groupFor resolves the destination Group for a MIDI 1.0 channel. In MPE
// mode each channel maps to its own Group, preserving per-note addressing
// across a zone; Default and Custom modes fold every channel onto the
// configured DefaultGroup (see SPEC_FULL.md §4.3).
func (t *Translator) groupFor(channel uint8) uint8 {
	if t.opts.Mode == contracts.MPE {
		return channel & 0x0F
	}
	return t.opts.DefaultGroup & 0x0F
}

// Translate1To2 translates a MIDI 1.0 message into one or more UMP
// packets. Most messages produce exactly one packet; System Exclusive
// fragments into multiple Data64 (SysEx7) packets carrying up to 6 data
// bytes each (spec.md §4.3). It returns NotSupported for message kinds
// with no defined UMP mapping.
func (t *Translator) Translate1To2(msg midi1.Message) ([]ump.Packet, error) {
	switch msg.Kind {
	case midi1.KindChannelVoice:
		p, err := t.channelVoice1To2(msg)
		if err != nil {
			return nil, err
		}
		return []ump.Packet{p}, nil

	case midi1.KindSystemRealTime:
		return []ump.Packet{t.system1To2(msg.Status, 0, 0)}, nil

	case midi1.KindSystemCommon:
		return []ump.Packet{t.system1To2(msg.Status, msg.Data[0], msg.Data[1])}, nil

	case midi1.KindSystemExclusive:
		return FragmentSysEx7(t.opts.DefaultGroup, msg.SysEx.Bytes()), nil

	default:
		return nil, newErr("Translate1To2", contracts.NotSupported)
	}
}

func (t *Translator) system1To2(status, d0, d1 byte) ump.Packet {
	word0 := uint32(ump.MTSystem)<<28 |
		uint32(t.opts.DefaultGroup&0x0F)<<24 |
		uint32(status)<<16 |
		uint32(d0)<<8 |
		uint32(d1)
	return ump.Packet{
		Words:       [4]uint32{word0},
		NumWords:    1,
		MessageType: ump.MTSystem,
		Group:       t.opts.DefaultGroup & 0x0F,
	}
}

func (t *Translator) channelVoice1To2(msg midi1.Message) (ump.Packet, error) {
	var out ump.Packet
	group := t.groupFor(msg.Channel)

	switch msg.Status & 0xF0 {
	case midi1.StatusNoteOn:
		v := Upscale7To16(msg.Data[1])
		err := ump.BuildMIDI2NoteOn(group, msg.Channel, msg.Data[0], v, ump.AttrNone, 0, &out)
		return out, err

	case midi1.StatusNoteOff:
		v := Upscale7To16(msg.Data[1])
		err := ump.BuildMIDI2NoteOff(group, msg.Channel, msg.Data[0], v, ump.AttrNone, 0, &out)
		return out, err

	case midi1.StatusPolyPressure:
		v := Upscale7To16(msg.Data[1])
		err := ump.BuildMIDI2PolyPressure(group, msg.Channel, msg.Data[0], uint32(v)<<16, &out)
		return out, err

	case midi1.StatusControlChange:
		v := Upscale7To16(msg.Data[1])
		err := ump.BuildMIDI2ControlChange(group, msg.Channel, msg.Data[0], uint32(v)<<16, &out)
		return out, err

	case midi1.StatusProgramChange:
		err := ump.BuildMIDI2ProgramChange(group, msg.Channel, msg.Data[0], false, 0, 0, &out)
		return out, err

	case midi1.StatusChannelPressure:
		v := Upscale7To16(msg.Data[0])
		err := ump.BuildMIDI2ChannelPressure(group, msg.Channel, uint32(v)<<16, &out)
		return out, err

	case midi1.StatusPitchBend:
		v := Upscale14To32(msg.PitchBendValue())
		err := ump.BuildMIDI2PitchBend(group, msg.Channel, v, &out)
		return out, err

	default:
		return ump.Packet{}, newErr("Translate1To2", contracts.NotSupported)
	}
}

// Translate2To1 translates a single UMP packet into a MIDI 1.0 message.
// MIDI 2.0 Channel Voice messages with no MIDI 1.0 equivalent (per-note
// pitch bend, per-note controllers, registered/assignable controllers —
// none of which this codec's builders produce, so none of which this
// decoder needs to recognize beyond rejecting them) return NotSupported,
// as do Message Types this translator does not model (Data 64/128, Flex
// Data, UMP Stream; use FragmentSysEx7/a SysExReassembler for Data64).
func (t *Translator) Translate2To1(packet ump.Packet) (midi1.Message, error) {
	switch packet.MessageType {
	case ump.MT2ChannelVoice:
		return t.channelVoice2To1(packet)
	case ump.MTSystem:
		return t.system2To1(packet)
	default:
		return midi1.Message{}, newErr("Translate2To1", contracts.NotSupported)
	}
}

func (t *Translator) system2To1(packet ump.Packet) (midi1.Message, error) {
	status := byte((packet.Words[0] >> 16) & 0xFF)
	d0 := byte((packet.Words[0] >> 8) & 0x7F)
	d1 := byte(packet.Words[0] & 0x7F)

	if midi1.IsRealTimeMessage(status) {
		return midi1.Message{Kind: midi1.KindSystemRealTime, Status: status}, nil
	}
	if midi1.IsSystemCommonMessage(status) {
		n := midi1.DataByteCount(status)
		return midi1.Message{Kind: midi1.KindSystemCommon, Status: status, Data: [2]byte{d0, d1}, Len: n}, nil
	}
	return midi1.Message{}, newErr("Translate2To1", contracts.NotSupported)
}

func (t *Translator) channelVoice2To1(packet ump.Packet) (midi1.Message, error) {
	status := byte((packet.Words[0] >> 16) & 0xF0)
	channel := byte((packet.Words[0] >> 16) & 0x0F)
	idx := byte((packet.Words[0] >> 8) & 0xFF)

	switch status {
	case midi1.StatusNoteOn, midi1.StatusNoteOff:
		velocity16 := uint16(packet.Words[1] >> 16)
		vel7 := Downscale16To7(velocity16)
		return midi1.Message{
			Kind: midi1.KindChannelVoice, Status: status | channel, Channel: channel,
			Data: [2]byte{idx, vel7}, Len: 2,
		}, nil

	case midi1.StatusPolyPressure:
		pressure7 := Downscale16To7(uint16(packet.Words[1] >> 16))
		return midi1.Message{
			Kind: midi1.KindChannelVoice, Status: status | channel, Channel: channel,
			Data: [2]byte{idx, pressure7}, Len: 2,
		}, nil

	case midi1.StatusControlChange:
		value7 := Downscale16To7(uint16(packet.Words[1] >> 16))
		return midi1.Message{
			Kind: midi1.KindChannelVoice, Status: status | channel, Channel: channel,
			Data: [2]byte{idx, value7}, Len: 2,
		}, nil

	case midi1.StatusProgramChange:
		return midi1.Message{
			Kind: midi1.KindChannelVoice, Status: status | channel, Channel: channel,
			Data: [2]byte{idx, 0}, Len: 1,
		}, nil

	case midi1.StatusChannelPressure:
		pressure7 := Downscale16To7(uint16(packet.Words[1] >> 16))
		return midi1.Message{
			Kind: midi1.KindChannelVoice, Status: status | channel, Channel: channel,
			Data: [2]byte{pressure7, 0}, Len: 1,
		}, nil

	case midi1.StatusPitchBend:
		value14 := Downscale32To14(packet.Words[1])
		return midi1.Message{
			Kind: midi1.KindChannelVoice, Status: status | channel, Channel: channel,
			Data: [2]byte{byte(value14 & 0x7F), byte((value14 >> 7) & 0x7F)}, Len: 2,
		}, nil

	default:
		// Registered/assignable controllers, relative controllers, and
		// per-note messages use status nibbles this codec does not
		// build (0x0-0x7, 0xF0-0xFF within MT2ChannelVoice); none has a
		// MIDI 1.0 equivalent.
		return midi1.Message{}, newErr("Translate2To1", contracts.NotSupported)
	}
}
