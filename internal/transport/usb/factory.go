package usb

import (
	"runtime"

	"github.com/leandrodaf/midi-router/internal/midi/mididarwin"
	"github.com/leandrodaf/midi-router/internal/midi/midiwindows"
	"github.com/leandrodaf/midi-router/sdk/contracts"
)

// hostBackendInitializers maps OS names to the native host backend for
// that platform, generalizing the teacher's midi_client_factory.go
// clientInitializers map (which dispatched mididarwin/midiwindows
// directly) to this package's HostBackend seam.
var hostBackendInitializers = map[string]func(contracts.Logger, string) (HostBackend, error){
	"darwin": func(l contracts.Logger, name string) (HostBackend, error) {
		return mididarwin.NewBackend(l, name)
	},
	"windows": func(l contracts.Logger, name string) (HostBackend, error) {
		return midiwindows.NewBackend(l, name)
	},
}

// NewDefaultHostBackend selects the native CoreMIDI/WinMM backend for the
// current OS, falling back to the cross-platform PortmidiBackend when no
// native backend is registered for runtime.GOOS (e.g. Linux) or when the
// native backend fails to initialize (no hardware client available).
func NewDefaultHostBackend(logger contracts.Logger, clientName string) (HostBackend, error) {
	if initializer, ok := hostBackendInitializers[runtime.GOOS]; ok {
		backend, err := initializer(logger, clientName)
		if err == nil {
			return backend, nil
		}
		logger.Warn("native USB host backend unavailable, falling back to portmidi")
	}
	return NewPortmidiBackend(logger)
}
