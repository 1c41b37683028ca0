package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/leandrodaf/midi-router/internal/logger"
	"github.com/leandrodaf/midi-router/internal/transport/usb"
)

// listDevicesCmd enumerates USB host backend devices available to attach
// with "run -usb-device".
type listDevicesCmd struct{}

func (*listDevicesCmd) Name() string     { return "list-devices" }
func (*listDevicesCmd) Synopsis() string { return "list USB MIDI devices available to the host backend" }
func (*listDevicesCmd) Usage() string {
	return "list-devices:\n  Print every enumerated USB host backend device and its ID.\n"
}
func (*listDevicesCmd) SetFlags(*flag.FlagSet) {}

func (*listDevicesCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := logger.NewZapLogger()

	backend, err := usb.NewDefaultHostBackend(log, "midirouterd")
	if err != nil {
		fmt.Println("failed to initialize USB host backend:", err)
		return subcommands.ExitFailure
	}
	defer backend.Close()

	devices, err := backend.ListDevices()
	if err != nil {
		fmt.Println("no devices found:", err)
		return subcommands.ExitFailure
	}
	for i, d := range devices {
		fmt.Printf("%d: %s (%s)\n", i, d.Name, d.Manufacturer)
	}
	return subcommands.ExitSuccess
}
