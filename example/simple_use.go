// Package main demonstrates wiring a serial DIN MIDI port to a USB class-
// compliant device through the router, generalizing the teacher's
// single-device capture example (example/simple_use.go) to a
// multi-transport routing scenario.
package main

import (
	"fmt"

	"github.com/leandrodaf/midi-router/internal/logger"
	"github.com/leandrodaf/midi-router/internal/transport/serial"
	"github.com/leandrodaf/midi-router/internal/transport/usb"
	"github.com/leandrodaf/midi-router/sdk/contracts"
	midirouter "github.com/leandrodaf/midi-router/sdk/router"

	goserial "go.bug.st/serial"
)

func main() {
	log := logger.NewZapLogger()

	r, err := midirouter.NewRouter(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
	)
	if err != nil {
		log.Error("failed to build router", log.Field().Error("error", err))
		return
	}

	port, err := goserial.Open("/dev/ttyUSB0", &goserial.Mode{BaudRate: 31250})
	if err != nil {
		log.Error("failed to open serial port", log.Field().Error("error", err))
		return
	}
	serialTransport := serial.Open(log, port, make([]byte, 4096))
	r.AttachSerial(serialTransport)

	backend, err := usb.NewDefaultHostBackend(log, "midirouterd-example")
	if err != nil {
		log.Error("failed to init USB host backend", log.Field().Error("error", err))
		return
	}
	devices, err := backend.ListDevices()
	if err != nil || len(devices) == 0 {
		log.Error("no USB MIDI devices found", log.Field().Error("error", err))
		return
	}
	fmt.Println("Available USB MIDI devices:", devices)

	usbTransport, err := usb.NewTransport(log, backend, 0)
	if err != nil {
		log.Error("failed to connect USB device", log.Field().Error("error", err))
		return
	}
	r.AttachUSB(usbTransport)

	// Route both directions between the serial DIN port and the USB
	// device; auto-translate is on by default so either side can speak
	// MIDI 1.0 without the caller converting anything by hand.
	r.SetRoute(contracts.Serial, contracts.USB, true)
	r.SetRoute(contracts.USB, contracts.Serial, true)

	if err := r.Init(); err != nil {
		log.Error("failed to start router", log.Field().Error("error", err))
		return
	}
	defer r.Close()

	go serialTransport.Run()

	fmt.Println("Routing serial <-> USB MIDI. Press Ctrl+C to exit.")
	select {} // run indefinitely
}
