//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"
	"sync"

	"github.com/leandrodaf/midi-router/internal/midi1"
	"github.com/leandrodaf/midi-router/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// Error definitions for MIDI connection and handling issues.
var (
	ErrNoMIDIDevices       = errors.New("no MIDI devices found")
	ErrInvalidMIDIDevice   = errors.New("invalid MIDI device")
	ErrMIDIConnectionError = errors.New("error connecting to MIDI device")
	ErrCreateInputPort     = errors.New("error creating input port")
)

// internalPortConnection is an interface for handling disconnection from a MIDI port.
type internalPortConnection interface {
	Disconnect()
}

// Backend implements usb.HostBackend on macOS via CoreMIDI: this process
// is the USB host, CoreMIDI enumerates class-compliant USB-MIDI gear as
// sources/destinations the same way it does for any other MIDI endpoint.
type Backend struct {
	logger      contracts.Logger
	client      coremidi.Client
	inputPort   coremidi.InputPort
	outputPort  coremidi.OutputPort
	portConn    internalPortConnection
	destination *coremidi.Destination
	mu          sync.Mutex
	onMessage   func(midi1.Message)
}

// NewBackend creates a CoreMIDI-backed usb.HostBackend.
func NewBackend(logger contracts.Logger, clientName string) (*Backend, error) {
	client, err := coremidi.NewClient(clientName)
	if err != nil {
		return nil, err
	}
	outputPort, err := coremidi.NewOutputPort(client, "Output Port")
	if err != nil {
		return nil, err
	}
	logger.Info("USB host backend created (CoreMIDI)")

	return &Backend{logger: logger, client: client, outputPort: outputPort}, nil
}

// ListDevices returns the USB-MIDI sources CoreMIDI currently sees.
func (b *Backend) ListDevices() ([]contracts.DeviceInfo, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sources: %w", err)
	}
	if len(sources) == 0 {
		b.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, len(sources))
	for i, source := range sources {
		entity := source.Entity()
		devices[i] = contracts.DeviceInfo{
			Name:         source.Name(),
			EntityName:   entity.Name(),
			Manufacturer: entity.Manufacturer(),
		}
	}
	return devices, nil
}

// Connect selects a source by ID and a matching destination for Send,
// delivering every decoded channel voice/system message to onMessage.
func (b *Backend) Connect(deviceID int, onMessage func(midi1.Message)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	sources, err := coremidi.AllSources()
	if err != nil {
		return fmt.Errorf("error retrieving MIDI sources: %w", err)
	}
	if deviceID < 0 || deviceID >= len(sources) {
		b.logger.Error(ErrInvalidMIDIDevice.Error())
		return ErrInvalidMIDIDevice
	}

	if b.portConn != nil {
		b.portConn.Disconnect()
		b.portConn = nil
	}

	b.onMessage = onMessage
	source := sources[deviceID]

	b.inputPort, err = coremidi.NewInputPort(b.client, "Input Port", b.handlePacket)
	if err != nil {
		b.logger.Error(ErrCreateInputPort.Error())
		return fmt.Errorf("%w: %v", ErrCreateInputPort, err)
	}
	b.portConn, err = b.inputPort.Connect(source)
	if err != nil {
		b.logger.Error(ErrMIDIConnectionError.Error())
		return fmt.Errorf("%w: %v", ErrMIDIConnectionError, err)
	}

	destinations, err := coremidi.AllDestinations()
	if err == nil && deviceID < len(destinations) {
		dest := destinations[deviceID]
		b.destination = &dest
	}

	b.logger.Info("USB host backend connected", b.logger.Field().Int("deviceID", deviceID))
	return nil
}

// handlePacket decodes each CoreMIDI packet byte-by-byte through the
// shared MIDI 1.0 parser, since a single CoreMIDI packet may carry more
// than one message back-to-back.
func (b *Backend) handlePacket(source coremidi.Source, packet coremidi.Packet) {
	state := midi1.NewState(make([]byte, 4096), b.logger)
	for _, raw := range packet.Data {
		if msg, ok := state.ParseByte(raw); ok && b.onMessage != nil {
			b.onMessage(msg)
		}
	}
}

// Send transmits msg to the connected destination.
func (b *Backend) Send(msg midi1.Message) error {
	b.mu.Lock()
	dest := b.destination
	b.mu.Unlock()

	if dest == nil {
		return contracts.NewError("Send", contracts.InvalidState, ErrInvalidMIDIDevice)
	}
	if err := b.outputPort.Send(*dest, msg.Bytes()); err != nil {
		return contracts.NewError("Send", contracts.IoFailure, err)
	}
	return nil
}

// Close disconnects the input port.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.portConn != nil {
		b.portConn.Disconnect()
		b.portConn = nil
	}
	b.logger.Info("USB host backend closed")
	return nil
}
