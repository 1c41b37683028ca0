//go:build !windows
// +build !windows

package midiwindows

import (
	"fmt"

	"github.com/leandrodaf/midi-router/internal/midi1"
	"github.com/leandrodaf/midi-router/sdk/contracts"
)

// Backend is a no-op stand-in for the WinMM-backed usb.HostBackend on
// non-Windows platforms.
type Backend struct {
	logger contracts.Logger
}

// NewBackend returns a Backend that reports MIDI functionality as
// unavailable on this platform.
func NewBackend(logger contracts.Logger, clientName string) (*Backend, error) {
	logger.Info("WinMM host backend unavailable on this platform")
	return &Backend{logger: logger}, nil
}

func (b *Backend) ListDevices() ([]contracts.DeviceInfo, error) {
	return nil, fmt.Errorf("WinMM is not available on this platform")
}

func (b *Backend) Connect(deviceID int, onMessage func(midi1.Message)) error {
	return fmt.Errorf("WinMM is not available on this platform")
}

func (b *Backend) Send(msg midi1.Message) error {
	return fmt.Errorf("WinMM is not available on this platform")
}

func (b *Backend) Close() error {
	return nil
}
