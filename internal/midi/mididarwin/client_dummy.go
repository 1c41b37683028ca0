//go:build !darwin
// +build !darwin

package mididarwin

import (
	"fmt"

	"github.com/leandrodaf/midi-router/internal/midi1"
	"github.com/leandrodaf/midi-router/sdk/contracts"
)

// Backend is a no-op stand-in for the CoreMIDI-backed usb.HostBackend on
// non-Darwin platforms, so usb.Transport can reference it unconditionally
// without build-tag branching at the call site.
type Backend struct {
	logger contracts.Logger
}

// NewBackend returns a Backend that reports MIDI functionality as
// unavailable on this platform.
func NewBackend(logger contracts.Logger, clientName string) (*Backend, error) {
	logger.Info("CoreMIDI host backend unavailable on this platform")
	return &Backend{logger: logger}, nil
}

func (b *Backend) ListDevices() ([]contracts.DeviceInfo, error) {
	return nil, fmt.Errorf("CoreMIDI is not available on this platform")
}

func (b *Backend) Connect(deviceID int, onMessage func(midi1.Message)) error {
	return fmt.Errorf("CoreMIDI is not available on this platform")
}

func (b *Backend) Send(msg midi1.Message) error {
	return fmt.Errorf("CoreMIDI is not available on this platform")
}

func (b *Backend) Close() error {
	return nil
}
