package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/leandrodaf/midi-router/internal/config"
	"github.com/leandrodaf/midi-router/sdk/contracts"
)

// showConfigCmd prints a persisted router configuration: the routing
// matrix, per-source filters, and translation options. It reads the
// config file directly rather than talking to a running daemon, since
// the daemon has no IPC surface (spec.md names persistence, not remote
// control, as an explicit concern).
type showConfigCmd struct {
	configPath string
}

func (*showConfigCmd) Name() string     { return "show-config" }
func (*showConfigCmd) Synopsis() string { return "print a persisted router configuration" }
func (*showConfigCmd) Usage() string {
	return "show-config -config <path>:\n  Print the routing matrix, filters, and translate options saved at <path>.\n"
}
func (c *showConfigCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "path to a persisted router configuration (JSON)")
}

func (c *showConfigCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.configPath == "" {
		fmt.Println("missing -config")
		return subcommands.ExitUsageError
	}

	blob, err := config.NewFileStore(c.configPath).Load()
	if err != nil {
		fmt.Println("failed to read config:", err)
		return subcommands.ExitFailure
	}

	var cfg contracts.RouterConfig
	if err := json.Unmarshal(blob, &cfg); err != nil {
		fmt.Println("failed to parse config:", err)
		return subcommands.ExitFailure
	}

	pretty, _ := json.MarshalIndent(cfg, "", "  ")
	fmt.Println(string(pretty))
	return subcommands.ExitSuccess
}

// resetConfigCmd writes the compiled-in default configuration to a file,
// useful for bootstrapping a fresh config to then hand-edit.
type resetConfigCmd struct {
	configPath string
}

func (*resetConfigCmd) Name() string     { return "reset-config" }
func (*resetConfigCmd) Synopsis() string { return "write the default router configuration to a file" }
func (*resetConfigCmd) Usage() string {
	return "reset-config -config <path>:\n  Overwrite <path> with the compiled-in default configuration.\n"
}
func (c *resetConfigCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "path to write the default router configuration (JSON)")
}

func (c *resetConfigCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.configPath == "" {
		fmt.Println("missing -config")
		return subcommands.ExitUsageError
	}

	blob, err := json.MarshalIndent(contracts.DefaultRouterConfig(), "", "  ")
	if err != nil {
		fmt.Println("failed to marshal default config:", err)
		return subcommands.ExitFailure
	}
	if err := config.NewFileStore(c.configPath).Save(blob); err != nil {
		fmt.Println("failed to write config:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
