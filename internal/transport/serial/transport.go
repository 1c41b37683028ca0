// Package serial implements the DIN MIDI serial transport (spec.md §4.7,
// original_source/components/midi_uart): raw MIDI 1.0 byte stream in and
// out over an io.ReadWriteCloser, fed through the shared midi1 parser.
package serial

import (
	"io"
	"sync"

	"github.com/leandrodaf/midi-router/internal/midi1"
	"github.com/leandrodaf/midi-router/sdk/contracts"
)

// Transport wraps a byte-stream port (typically go.bug.st/serial, but any
// io.ReadWriteCloser works, matching the teacher's client_dummy
// platform-independent-fallback pattern). A receive goroutine parses
// incoming bytes and calls Receive for every complete message; Send
// serializes an outgoing packet's MIDI1 payload via Message.Bytes().
type Transport struct {
	logger  contracts.Logger
	port    io.ReadWriteCloser
	state   *midi1.State
	Receive func(msg midi1.Message)

	mu      sync.Mutex
	stopped bool
}

// Open wraps an already-opened port. sysexBuf sizes the parser's SysEx
// capture buffer (nil disables SysEx capture for this stream).
func Open(logger contracts.Logger, port io.ReadWriteCloser, sysexBuf []byte) *Transport {
	return &Transport{
		logger: logger,
		port:   port,
		state:  midi1.NewState(sysexBuf, logger),
	}
}

// Run starts the receive loop; it blocks until the port is closed or
// returns an error, matching larsks-midicat__main.go's byte-at-a-time
// stdin reader loop adapted to a serial port.
func (t *Transport) Run() error {
	buf := make([]byte, 256)
	for {
		n, err := t.port.Read(buf)
		if err != nil {
			t.mu.Lock()
			stopped := t.stopped
			t.mu.Unlock()
			if stopped || err == io.EOF {
				return nil
			}
			return contracts.NewError("Run", contracts.IoFailure, err)
		}
		for i := 0; i < n; i++ {
			if msg, ok := t.state.ParseByte(buf[i]); ok && t.Receive != nil {
				t.Receive(msg)
			}
		}
	}
}

// Send implements contracts.Transmitter.
func (t *Transport) Send(packet contracts.Packet) error {
	msg, ok := packet.MIDI1.(*midi1.Message)
	if !ok {
		return contracts.NewError("Send", contracts.UnsupportedMessageType, nil)
	}
	if _, err := t.port.Write(msg.Bytes()); err != nil {
		return contracts.NewError("Send", contracts.IoFailure, err)
	}
	return nil
}

// Close stops the receive loop and closes the underlying port.
func (t *Transport) Close() error {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
	return t.port.Close()
}
