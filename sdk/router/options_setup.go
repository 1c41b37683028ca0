package router

import (
	"github.com/leandrodaf/midi-router/internal/logger"
	"github.com/leandrodaf/midi-router/sdk/contracts"
)

// applyDefaultOptions sets defaults for any RouterOptions field the caller
// left unset, generalizing the teacher's sdk/midi.applyDefaultOptions
// (which defaults Logger/LogLevel/CoreMIDIConfig) to this router's own
// option set (Logger/LogLevel/Config).
func applyDefaultOptions(opts ...contracts.Option) contracts.RouterOptions {
	options := &contracts.RouterOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.LogLevel == 0 {
		options.LogLevel = contracts.InfoLevel
	}
	if options.Config == nil {
		cfg := contracts.DefaultRouterConfig()
		options.Config = &cfg
	}

	options.Logger.SetLevel(options.LogLevel)
	return *options
}
