package usb

import (
	"github.com/leandrodaf/midi-router/internal/midi1"
	"github.com/leandrodaf/midi-router/sdk/contracts"
)

// Transport wires a USB-MIDI host backend (CoreMIDI, WinMM, or portmidi)
// to the router: every decoded MIDI 1.0 message is handed to Receive,
// and Send serializes an outgoing contracts.Packet's MIDI1 payload
// through the backend.
type Transport struct {
	logger  contracts.Logger
	backend HostBackend
	cable   uint8
	Receive func(msg midi1.Message)
}

// NewTransport constructs a USB transport over the given host backend.
// deviceID selects which enumerated device to open; Receive is invoked
// for every message decoded off the wire, typically wired to the
// router's ingress for this transport slot.
func NewTransport(logger contracts.Logger, backend HostBackend, deviceID int) (*Transport, error) {
	t := &Transport{logger: logger, backend: backend}
	if err := backend.Connect(deviceID, func(msg midi1.Message) {
		if t.Receive != nil {
			t.Receive(msg)
		}
	}); err != nil {
		return nil, contracts.NewError("NewTransport", contracts.IoFailure, err)
	}
	return t, nil
}

// Send implements contracts.Transmitter by forwarding the packet's MIDI
// 1.0 payload to the host backend. UMP payloads are rejected: the USB
// Event Packet transport in host role only understands MIDI 1.0 class-
// compliant gear (spec.md §4.7). The router treats USB as accepting either
// format and does not translate packets bound for it, so a UMP packet
// routed here fails with UnsupportedMessageType.
func (t *Transport) Send(packet contracts.Packet) error {
	msg, ok := packet.MIDI1.(*midi1.Message)
	if !ok {
		return contracts.NewError("Send", contracts.UnsupportedMessageType, nil)
	}
	return t.backend.Send(*msg)
}

// Close releases the underlying backend.
func (t *Transport) Close() error {
	return t.backend.Close()
}

// ListDevices delegates to the backend.
func (t *Transport) ListDevices() ([]contracts.DeviceInfo, error) {
	return t.backend.ListDevices()
}
