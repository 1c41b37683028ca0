// Package router is the public façade over internal/router, mirroring the
// teacher's sdk/midi package: a functional-options constructor
// (NewRouter, generalizing sdk/midi.NewMIDIClient) that applies defaults
// and returns a ready-to-Init value, plus thin wiring helpers for
// attaching the four transports spec.md §3 names.
package router

import (
	"io"

	internalrouter "github.com/leandrodaf/midi-router/internal/router"
	"github.com/leandrodaf/midi-router/sdk/contracts"
)

// Router is the embeddable public handle returned by NewRouter. Every
// configuration/stats/persistence operation is promoted from the embedded
// *internalrouter.Router; this type itself only adds transport lifecycle
// tracking so a single Close tears down everything NewRouter wired up.
type Router struct {
	*internalrouter.Router

	logger  contracts.Logger
	closers []io.Closer
}

// NewRouter builds a Router with defaults applied the way
// sdk/midi.applyDefaultOptions does: a zap logger at InfoLevel and the
// compiled-in default RouterConfig unless the caller supplied its own.
func NewRouter(opts ...contracts.Option) (*Router, error) {
	options := applyDefaultOptions(opts...)

	r := &Router{
		Router: internalrouter.New(options.Logger, options.Config),
		logger: options.Logger,
	}

	if options.Store != nil {
		if err := r.LoadConfig(options.Store); err != nil {
			r.logger.Warn("no persisted configuration found, starting from defaults")
		}
	}

	return r, nil
}

// track registers a transport's Close method so Router.Close tears it
// down along with the dispatcher.
func (r *Router) track(c io.Closer) {
	r.closers = append(r.closers, c)
}

// Close deinitializes the dispatcher and closes every tracked transport,
// in attach order, collecting the first error encountered (matching the
// teacher's client.Close, which stops CoreMIDI before releasing its
// logger).
func (r *Router) Close() error {
	var firstErr error
	if err := r.Deinit(); err != nil && firstErr == nil {
		firstErr = err
	}
	for _, c := range r.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
