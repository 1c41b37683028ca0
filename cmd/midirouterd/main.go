// Command midirouterd is the router daemon: it wires the four transports
// spec.md §3 names (serial, USB, Ethernet, Wi-Fi) into one running
// router and exposes a subcommand CLI for operating it, grounded on
// fragglet-sc55ctl's google/subcommands-based command table.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

func main() {
	flag.Parse()
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&runCmd{}, "")
	subcommands.Register(&listDevicesCmd{}, "")
	subcommands.Register(&showConfigCmd{}, "")
	subcommands.Register(&resetConfigCmd{}, "")

	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
