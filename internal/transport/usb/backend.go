package usb

import (
	"github.com/leandrodaf/midi-router/internal/midi1"
	"github.com/leandrodaf/midi-router/sdk/contracts"
)

// HostBackend is the seam between the USB transport and a platform MIDI
// subsystem when this process acts as the USB host. internal/midi's
// per-OS clients (mididarwin, midiwindows) and the cross-platform
// portmidi backend all implement this.
type HostBackend interface {
	ListDevices() ([]contracts.DeviceInfo, error)
	Connect(deviceID int, onMessage func(midi1.Message)) error
	Send(msg midi1.Message) error
	Close() error
}
