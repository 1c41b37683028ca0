package midi1

import "github.com/leandrodaf/midi-router/sdk/contracts"

// The constructors below validate their arguments the same way the
// original's midi_create_* family does (channel/note/velocity ≤ 127,
// channel ≤ 15) and return contracts.Error{Kind: InvalidArgument} on
// violation instead of silently clamping.

func validateChannel(op string, channel uint8) error {
	if channel > 15 {
		return newError(op, contracts.InvalidArgument, nil)
	}
	return nil
}

func validate7bit(op string, vals ...uint8) error {
	for _, v := range vals {
		if v > 0x7F {
			return newError(op, contracts.InvalidArgument, nil)
		}
	}
	return nil
}

func channelVoice(status byte, channel uint8, d0, d1 uint8, n uint8) Message {
	return Message{
		Kind:    KindChannelVoice,
		Status:  status | channel,
		Channel: channel,
		Data:    [2]byte{d0, d1},
		Len:     n,
	}
}

// NewNoteOn builds a Note On message.
func NewNoteOn(channel, note, velocity uint8) (Message, error) {
	if err := validateChannel("NewNoteOn", channel); err != nil {
		return Message{}, err
	}
	if err := validate7bit("NewNoteOn", note, velocity); err != nil {
		return Message{}, err
	}
	return channelVoice(StatusNoteOn, channel, note, velocity, 2), nil
}

// NewNoteOff builds a Note Off message.
func NewNoteOff(channel, note, velocity uint8) (Message, error) {
	if err := validateChannel("NewNoteOff", channel); err != nil {
		return Message{}, err
	}
	if err := validate7bit("NewNoteOff", note, velocity); err != nil {
		return Message{}, err
	}
	return channelVoice(StatusNoteOff, channel, note, velocity, 2), nil
}

// NewPolyPressure builds a Polyphonic Key Pressure message.
func NewPolyPressure(channel, note, pressure uint8) (Message, error) {
	if err := validateChannel("NewPolyPressure", channel); err != nil {
		return Message{}, err
	}
	if err := validate7bit("NewPolyPressure", note, pressure); err != nil {
		return Message{}, err
	}
	return channelVoice(StatusPolyPressure, channel, note, pressure, 2), nil
}

// NewControlChange builds a Control Change message.
func NewControlChange(channel, controller, value uint8) (Message, error) {
	if err := validateChannel("NewControlChange", channel); err != nil {
		return Message{}, err
	}
	if err := validate7bit("NewControlChange", controller, value); err != nil {
		return Message{}, err
	}
	return channelVoice(StatusControlChange, channel, controller, value, 2), nil
}

// NewProgramChange builds a Program Change message.
func NewProgramChange(channel, program uint8) (Message, error) {
	if err := validateChannel("NewProgramChange", channel); err != nil {
		return Message{}, err
	}
	if err := validate7bit("NewProgramChange", program); err != nil {
		return Message{}, err
	}
	return channelVoice(StatusProgramChange, channel, program, 0, 1), nil
}

// NewChannelPressure builds a Channel Pressure message.
func NewChannelPressure(channel, pressure uint8) (Message, error) {
	if err := validateChannel("NewChannelPressure", channel); err != nil {
		return Message{}, err
	}
	if err := validate7bit("NewChannelPressure", pressure); err != nil {
		return Message{}, err
	}
	return channelVoice(StatusChannelPressure, channel, pressure, 0, 1), nil
}

// NewPitchBend builds a Pitch Bend message from a 14-bit value
// (0..16383, center 8192).
func NewPitchBend(channel uint8, value14 uint16) (Message, error) {
	if err := validateChannel("NewPitchBend", channel); err != nil {
		return Message{}, err
	}
	if value14 > 0x3FFF {
		return Message{}, newError("NewPitchBend", contracts.InvalidArgument, nil)
	}
	lsb := uint8(value14 & 0x7F)
	msb := uint8((value14 >> 7) & 0x7F)
	return channelVoice(StatusPitchBend, channel, lsb, msb, 2), nil
}

// PitchBendValue reassembles a Pitch Bend message's 14-bit value.
func (m Message) PitchBendValue() uint16 {
	return uint16(m.Data[0]) | (uint16(m.Data[1]) << 7)
}

// IsNoteOn reports whether m is a Note On with velocity > 0.
func (m Message) IsNoteOn() bool {
	return m.Kind == KindChannelVoice && m.Status&statusTypeMask == StatusNoteOn && m.Data[1] > 0
}

// IsNoteOff reports whether m is an explicit Note Off, or a Note On with
// velocity 0 (the MIDI 1.0 running-status idiom for note-off).
func (m Message) IsNoteOff() bool {
	if m.Kind != KindChannelVoice {
		return false
	}
	t := m.Status & statusTypeMask
	return t == StatusNoteOff || (t == StatusNoteOn && m.Data[1] == 0)
}

// messageLength returns the on-wire length (status + data bytes) for all
// message kinds except SysEx, which is variable and handled separately by
// Bytes.
func messageLength(status byte) int {
	if status >= 0xF8 {
		return 1
	}
	if status >= 0xF0 {
		switch status {
		case StatusMTCQuarter, StatusSongSelect:
			return 2
		case StatusSongPosition:
			return 3
		case StatusTuneRequest:
			return 1
		default:
			return 1
		}
	}
	switch status & statusTypeMask {
	case StatusNoteOff, StatusNoteOn, StatusPolyPressure, StatusControlChange, StatusPitchBend:
		return 3
	case StatusProgramChange, StatusChannelPressure:
		return 2
	default:
		return 1
	}
}

// Bytes serializes m to its on-wire MIDI 1.0 byte form, for transports
// (serial, USB) that emit raw byte streams.
func (m Message) Bytes() []byte {
	if m.Kind == KindSystemExclusive {
		payload := m.SysEx.Bytes()
		out := make([]byte, 0, len(payload)+2)
		out = append(out, StatusSysExStart)
		out = append(out, payload...)
		out = append(out, StatusSysExEnd)
		return out
	}

	n := messageLength(m.Status)
	out := make([]byte, n)
	out[0] = m.Status
	if n > 1 {
		out[1] = m.Data[0]
	}
	if n > 2 {
		out[2] = m.Data[1]
	}
	return out
}
