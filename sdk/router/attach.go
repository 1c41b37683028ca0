package router

import (
	"github.com/leandrodaf/midi-router/internal/midi1"
	"github.com/leandrodaf/midi-router/internal/transport/ethernet"
	"github.com/leandrodaf/midi-router/internal/transport/serial"
	"github.com/leandrodaf/midi-router/internal/transport/usb"
	"github.com/leandrodaf/midi-router/internal/transport/wifi"
	"github.com/leandrodaf/midi-router/internal/ump"
	"github.com/leandrodaf/midi-router/sdk/contracts"
)

// AttachSerial registers tr as the serial transport's sink and wires its
// Receive callback to enqueue onto the router's ingress, generalizing the
// teacher's single onMessage callback wiring (mididarwin.Backend.Connect)
// to a router source/destination pair.
func (r *Router) AttachSerial(tr *serial.Transport) {
	tr.Receive = func(msg midi1.Message) {
		m := msg
		r.Send(contracts.Packet{Source: contracts.Serial, Format: contracts.FormatMIDI1, MIDI1: &m})
	}
	r.RegisterTx(contracts.Serial, tr)
	r.track(tr)
}

// AttachUSB registers tr as the USB transport's sink.
func (r *Router) AttachUSB(tr *usb.Transport) {
	tr.Receive = func(msg midi1.Message) {
		m := msg
		r.Send(contracts.Packet{Source: contracts.USB, Format: contracts.FormatMIDI1, MIDI1: &m})
	}
	r.RegisterTx(contracts.USB, tr)
	r.track(tr)
}

// AttachEthernet registers tr as the Ethernet transport's sink.
func (r *Router) AttachEthernet(tr *ethernet.Transport) {
	tr.Receive = func(p *ump.Packet) {
		r.Send(contracts.Packet{Source: contracts.Ethernet, Format: contracts.FormatMIDI2, UMP: p})
	}
	r.RegisterTx(contracts.Ethernet, tr)
	r.track(tr)
}

// AttachWiFi registers tr as the Wi-Fi transport's sink.
func (r *Router) AttachWiFi(tr *wifi.Transport) {
	tr.Receive = func(p *ump.Packet) {
		r.Send(contracts.Packet{Source: contracts.WiFi, Format: contracts.FormatMIDI2, UMP: p})
	}
	r.RegisterTx(contracts.WiFi, tr)
	r.track(tr)
}
