package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	goserial "go.bug.st/serial"

	"github.com/leandrodaf/midi-router/internal/config"
	"github.com/leandrodaf/midi-router/internal/logger"
	"github.com/leandrodaf/midi-router/internal/transport/ethernet"
	"github.com/leandrodaf/midi-router/internal/transport/serial"
	"github.com/leandrodaf/midi-router/internal/transport/usb"
	"github.com/leandrodaf/midi-router/internal/transport/wifi"
	"github.com/leandrodaf/midi-router/sdk/contracts"
	midirouter "github.com/leandrodaf/midi-router/sdk/router"

	"github.com/google/subcommands"
)

// runCmd starts the daemon: it attaches whichever transports were
// requested by flag, loads a persisted configuration if one exists, and
// blocks until interrupted.
type runCmd struct {
	configPath  string
	serialPort  string
	serialBaud  int
	usbDeviceID int
	ethListen   string
	ethPeer     string
	wifiListen  string
	wifiPeer    string
	mergeInputs bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "run the router daemon" }
func (*runCmd) Usage() string {
	return "run [flags]:\n  Start the router, wiring the requested transports together.\n"
}

func (c *runCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "path to a persisted router configuration (JSON)")
	f.StringVar(&c.serialPort, "serial-port", "", "DIN MIDI serial port device path, e.g. /dev/ttyUSB0")
	f.IntVar(&c.serialBaud, "serial-baud", 31250, "serial port baud rate")
	f.IntVar(&c.usbDeviceID, "usb-device", -1, "USB host backend device ID to connect (-1 disables USB)")
	f.StringVar(&c.ethListen, "eth-listen", "", "UDP address to listen on for Ethernet Network-MIDI 2.0, e.g. :5004")
	f.StringVar(&c.ethPeer, "eth-peer", "", "UDP address of the Ethernet Network-MIDI 2.0 peer to connect to")
	f.StringVar(&c.wifiListen, "wifi-listen", "", "UDP address to listen on for Wi-Fi Network-MIDI 2.0")
	f.StringVar(&c.wifiPeer, "wifi-peer", "", "UDP address of the Wi-Fi Network-MIDI 2.0 peer to connect to")
	f.BoolVar(&c.mergeInputs, "merge-inputs", false, "route every source to every other destination regardless of the matrix")
}

func (c *runCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := logger.NewZapLogger()

	opts := []contracts.Option{contracts.WithLogger(log)}
	if c.configPath != "" {
		opts = append(opts, contracts.WithConfigStore(config.NewFileStore(c.configPath)))
	}

	r, err := midirouter.NewRouter(opts...)
	if err != nil {
		log.Error("failed to build router", log.Field().Error("error", err))
		return subcommands.ExitFailure
	}
	if c.mergeInputs {
		r.SetMergeMode(true)
	}

	if err := c.attachTransports(r, log); err != nil {
		log.Error("failed to attach transports", log.Field().Error("error", err))
		return subcommands.ExitFailure
	}

	if err := r.Init(); err != nil {
		log.Error("failed to start router", log.Field().Error("error", err))
		return subcommands.ExitFailure
	}
	defer r.Close()

	log.Info("router running, press Ctrl+C to stop")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	return subcommands.ExitSuccess
}

func (c *runCmd) attachTransports(r *midirouter.Router, log contracts.Logger) error {
	if c.serialPort != "" {
		port, err := goserial.Open(c.serialPort, &goserial.Mode{BaudRate: c.serialBaud})
		if err != nil {
			return fmt.Errorf("open serial port %q: %w", c.serialPort, err)
		}
		tr := serial.Open(log, port, make([]byte, 4096))
		r.AttachSerial(tr)
		go tr.Run()
	}

	if c.usbDeviceID >= 0 {
		backend, err := usb.NewDefaultHostBackend(log, "midirouterd")
		if err != nil {
			return fmt.Errorf("init USB host backend: %w", err)
		}
		tr, err := usb.NewTransport(log, backend, c.usbDeviceID)
		if err != nil {
			return fmt.Errorf("connect USB device %d: %w", c.usbDeviceID, err)
		}
		r.AttachUSB(tr)
	}

	if c.ethListen != "" {
		tr, err := ethernet.Listen(log, c.ethListen)
		if err != nil {
			return fmt.Errorf("listen ethernet %q: %w", c.ethListen, err)
		}
		r.AttachEthernet(tr)
		go tr.Run()
		if c.ethPeer != "" {
			if err := tr.Connect(c.ethPeer); err != nil {
				return fmt.Errorf("connect ethernet peer %q: %w", c.ethPeer, err)
			}
		}
	}

	if c.wifiListen != "" {
		tr, err := wifi.Listen(log, c.wifiListen)
		if err != nil {
			return fmt.Errorf("listen wifi %q: %w", c.wifiListen, err)
		}
		r.AttachWiFi(tr)
		go tr.Run()
		if c.wifiPeer != "" {
			if err := tr.Connect(c.wifiPeer); err != nil {
				return fmt.Errorf("connect wifi peer %q: %w", c.wifiPeer, err)
			}
		}
	}

	return nil
}
