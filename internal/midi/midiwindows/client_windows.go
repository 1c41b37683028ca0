//go:build windows
// +build windows

package midiwindows

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/leandrodaf/midi-router/internal/midi1"
	"github.com/leandrodaf/midi-router/sdk/contracts"
	"golang.org/x/sys/windows"
)

// Type definitions for MIDI handles.
type hmidiin windows.Handle
type hmidiout windows.Handle

// Constants for callback flags.
const (
	callbackFunction = 0x00030000
	midiIOStatus     = 0x00000020
)

// Constants for MIDI input message types.
const (
	mimOpen      = 0x3C1
	mimClose     = 0x3C2
	mimData      = 0x3C3
	mimError     = 0x3C5
	mimLongError = 0x3C6
	mimMoreData  = 0x3CC
)

// midiInCaps mirrors the Win32 MIDIINCAPS structure.
type midiInCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	dwSupport      uint32
}

var (
	winmm                 = windows.NewLazySystemDLL("winmm.dll")
	procMidiInGetNumDevs  = winmm.NewProc("midiInGetNumDevs")
	procMidiInGetDevCaps  = winmm.NewProc("midiInGetDevCapsW")
	procMidiInOpen        = winmm.NewProc("midiInOpen")
	procMidiInStart       = winmm.NewProc("midiInStart")
	procMidiInStop        = winmm.NewProc("midiInStop")
	procMidiInClose       = winmm.NewProc("midiInClose")
	procMidiOutOpen       = winmm.NewProc("midiOutOpen")
	procMidiOutShortMsg   = winmm.NewProc("midiOutShortMsg")
	procMidiOutClose      = winmm.NewProc("midiOutClose")
)

// Backend implements usb.HostBackend on Windows via the WinMM MIDI API:
// this process is the USB host, WinMM enumerates class-compliant
// USB-MIDI gear as MIDI-in/MIDI-out devices like any other MIDI endpoint.
type Backend struct {
	logger    contracts.Logger
	inHandle  hmidiin
	outHandle hmidiout
	connected bool
	mu        sync.Mutex
	callback  uintptr
	onMessage func(midi1.Message)
	state     *midi1.State
}

// NewBackend creates a WinMM-backed usb.HostBackend.
func NewBackend(logger contracts.Logger, clientName string) (*Backend, error) {
	logger.Info("USB host backend created (WinMM)")
	return &Backend{logger: logger, state: midi1.NewState(make([]byte, 4096), logger)}, nil
}

// ListDevices returns the MIDI-in devices WinMM currently sees.
func (b *Backend) ListDevices() ([]contracts.DeviceInfo, error) {
	r0, _, _ := procMidiInGetNumDevs.Call()
	numDevices := uint32(r0)
	if numDevices == 0 {
		b.logger.Warn("no MIDI devices found")
		return nil, errors.New("no MIDI devices found")
	}

	devices := make([]contracts.DeviceInfo, numDevices)
	for i := uint32(0); i < numDevices; i++ {
		var caps midiInCaps
		r1, _, _ := procMidiInGetDevCaps.Call(
			uintptr(i),
			uintptr(unsafe.Pointer(&caps)),
			unsafe.Sizeof(caps),
		)
		if r1 != 0 {
			b.logger.Warn(fmt.Sprintf("failed to get information for MIDI device %d", i))
			continue
		}
		name := windows.UTF16ToString(caps.szPname[:])
		devices[i] = contracts.DeviceInfo{
			Name:         name,
			EntityName:   name,
			Manufacturer: fmt.Sprintf("MID: %d PID: %d", caps.wMid, caps.wPid),
		}
	}
	return devices, nil
}

// Connect opens the given device ID for input (callback-driven) and, best
// effort, a matching output device of the same index for Send.
func (b *Backend) Connect(deviceID int, onMessage func(midi1.Message)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.connected {
		if err := b.closeLocked(); err != nil {
			return fmt.Errorf("failed to stop previous MIDI capture: %w", err)
		}
	}

	b.onMessage = onMessage
	b.callback = windows.NewCallback(midiInCallback)
	fdwOpen := uintptr(callbackFunction | midiIOStatus)

	r1, _, err := procMidiInOpen.Call(
		uintptr(unsafe.Pointer(&b.inHandle)),
		uintptr(deviceID),
		b.callback,
		uintptr(unsafe.Pointer(b)),
		fdwOpen,
	)
	if r1 != 0 {
		b.logger.Error(fmt.Sprintf("failed to open MIDI device %d: %v", deviceID, err))
		return fmt.Errorf("failed to open MIDI device %d: %v", deviceID, err)
	}

	if r1, _, _ := procMidiOutOpen.Call(
		uintptr(unsafe.Pointer(&b.outHandle)), uintptr(deviceID), 0, 0, 0,
	); r1 != 0 {
		b.logger.Warn(fmt.Sprintf("no MIDI output device %d available", deviceID))
		b.outHandle = 0
	}

	r1, _, err = procMidiInStart.Call(uintptr(b.inHandle))
	if r1 != 0 {
		b.logger.Error(fmt.Sprintf("failed to start MIDI capture: %v", err))
		return fmt.Errorf("failed to start MIDI capture: %v", err)
	}

	b.connected = true
	b.logger.Info("USB host backend connected", b.logger.Field().Int("deviceID", deviceID))
	return nil
}

// midiInCallback processes incoming MIDI messages and decodes them
// through the shared MIDI 1.0 parser.
func midiInCallback(hMidiIn uintptr, wMsg uint32, dwInstance uintptr, dwParam1 uintptr, dwParam2 uintptr) uintptr {
	b := (*Backend)(unsafe.Pointer(dwInstance))

	switch wMsg {
	case mimOpen:
		b.logger.Info("MIDI device opened")
	case mimClose:
		b.logger.Info("MIDI device closed")
	case mimData:
		status := byte(dwParam1 & 0xFF)
		data1 := byte((dwParam1 >> 8) & 0xFF)
		data2 := byte((dwParam1 >> 16) & 0xFF)

		for _, raw := range []byte{status, data1, data2} {
			if msg, ok := b.state.ParseByte(raw); ok && b.onMessage != nil {
				b.onMessage(msg)
			}
		}
	case mimError, mimLongError:
		b.logger.Error(fmt.Sprintf("MIDI error: msg=0x%X", wMsg))
	case mimMoreData:
		b.logger.Debug("received MIM_MOREDATA message; ignored")
	default:
		b.logger.Warn(fmt.Sprintf("unknown MIDI message: 0x%X", wMsg))
	}
	return 0
}

// Send transmits a channel voice/system common message via midiOutShortMsg.
// System Exclusive is not supported through this short-message API.
func (b *Backend) Send(msg midi1.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.outHandle == 0 {
		return contracts.NewError("Send", contracts.InvalidState, errors.New("no MIDI output device open"))
	}
	if msg.Kind == midi1.KindSystemExclusive {
		return contracts.NewError("Send", contracts.NotSupported, errors.New("SysEx not supported via midiOutShortMsg"))
	}

	raw := msg.Bytes()
	var packed uint32
	for i, b := range raw {
		if i > 2 {
			break
		}
		packed |= uint32(b) << (8 * i)
	}

	r1, _, err := procMidiOutShortMsg.Call(uintptr(b.outHandle), uintptr(packed))
	if r1 != 0 {
		return contracts.NewError("Send", contracts.IoFailure, err)
	}
	return nil
}

// Close stops capture and releases both handles.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closeLocked()
}

func (b *Backend) closeLocked() error {
	if !b.connected {
		return nil
	}
	if b.inHandle != 0 {
		procMidiInStop.Call(uintptr(b.inHandle))
		procMidiInClose.Call(uintptr(b.inHandle))
		b.inHandle = 0
	}
	if b.outHandle != 0 {
		procMidiOutClose.Call(uintptr(b.outHandle))
		b.outHandle = 0
	}
	b.connected = false
	b.logger.Info("USB host backend closed")
	return nil
}
