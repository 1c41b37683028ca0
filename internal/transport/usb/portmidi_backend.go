package usb

import (
	"sync"
	"time"

	"github.com/leandrodaf/midi-router/internal/midi1"
	"github.com/leandrodaf/midi-router/sdk/contracts"
	"github.com/rakyll/portmidi"
)

// PortmidiBackend implements HostBackend using the cross-platform
// portmidi library, for platforms (Linux, or macOS/Windows builds that
// skip CGo-heavy CoreMIDI/WinMM bindings) where the per-OS backend is
// unavailable. Grounded on fragglet-sc55ctl's portmidi-based device
// enumeration and short-message send/receive loop.
type PortmidiBackend struct {
	logger    contracts.Logger
	in        *portmidi.Stream
	out       *portmidi.Stream
	onMessage func(midi1.Message)
	state     *midi1.State
	mu        sync.Mutex
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewPortmidiBackend initializes the portmidi library.
func NewPortmidiBackend(logger contracts.Logger) (*PortmidiBackend, error) {
	if err := portmidi.Initialize(); err != nil {
		return nil, contracts.NewError("NewPortmidiBackend", contracts.IoFailure, err)
	}
	return &PortmidiBackend{
		logger: logger,
		state:  midi1.NewState(make([]byte, 4096), logger),
	}, nil
}

// ListDevices returns every portmidi device with input capability.
func (b *PortmidiBackend) ListDevices() ([]contracts.DeviceInfo, error) {
	count := portmidi.CountDevices()
	var devices []contracts.DeviceInfo
	for i := 0; i < count; i++ {
		info := portmidi.Info(portmidi.DeviceID(i))
		if info == nil || !info.IsInputAvailable {
			continue
		}
		devices = append(devices, contracts.DeviceInfo{
			Name:         info.Name,
			EntityName:   info.Name,
			Manufacturer: info.Interface,
		})
	}
	if len(devices) == 0 {
		return nil, contracts.NewError("ListDevices", contracts.NotSupported, nil)
	}
	return devices, nil
}

// Connect opens the given device ID for input and a matching output
// device, then polls the input stream on a background goroutine.
func (b *PortmidiBackend) Connect(deviceID int, onMessage func(midi1.Message)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	in, err := portmidi.NewInputStream(portmidi.DeviceID(deviceID), 1024)
	if err != nil {
		return contracts.NewError("Connect", contracts.IoFailure, err)
	}
	b.in = in
	b.onMessage = onMessage

	if out, err := portmidi.NewOutputStream(portmidi.DeviceID(deviceID), 1024, 0); err == nil {
		b.out = out
	} else {
		b.logger.Warn("no portmidi output stream for device", b.logger.Field().Int("deviceID", deviceID))
	}

	b.stopCh = make(chan struct{})
	b.wg.Add(1)
	go b.pollLoop()

	b.logger.Info("USB host backend connected (portmidi)", b.logger.Field().Int("deviceID", deviceID))
	return nil
}

func (b *PortmidiBackend) pollLoop() {
	defer b.wg.Done()
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopCh:
			return
		case <-ticker.C:
			events, err := b.in.Read(64)
			if err != nil {
				continue
			}
			for _, ev := range events {
				for _, raw := range []byte{byte(ev.Status), byte(ev.Data1), byte(ev.Data2)} {
					if msg, ok := b.state.ParseByte(raw); ok && b.onMessage != nil {
						b.onMessage(msg)
					}
				}
			}
		}
	}
}

// Send writes a short message to the output stream. SysEx is not
// supported through this path.
func (b *PortmidiBackend) Send(msg midi1.Message) error {
	b.mu.Lock()
	out := b.out
	b.mu.Unlock()

	if out == nil {
		return contracts.NewError("Send", contracts.InvalidState, nil)
	}
	if msg.Kind == midi1.KindSystemExclusive {
		return contracts.NewError("Send", contracts.NotSupported, nil)
	}

	raw := msg.Bytes()
	var d0, d1 int64
	if len(raw) > 1 {
		d0 = int64(raw[1])
	}
	if len(raw) > 2 {
		d1 = int64(raw[2])
	}
	if err := out.WriteShort(int64(raw[0]), d0, d1); err != nil {
		return contracts.NewError("Send", contracts.IoFailure, err)
	}
	return nil
}

// Close stops the poll loop and releases both streams.
func (b *PortmidiBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopCh != nil {
		close(b.stopCh)
		b.wg.Wait()
		b.stopCh = nil
	}
	if b.in != nil {
		b.in.Close()
		b.in = nil
	}
	if b.out != nil {
		b.out.Close()
		b.out = nil
	}
	return nil
}
