package router

import (
	"github.com/leandrodaf/midi-router/internal/translate"
	"github.com/leandrodaf/midi-router/sdk/contracts"
)

// SetRoute enables or disables the src->dst route, publishing a new
// immutable configuration snapshot for the dispatcher to read.
func (r *Router) SetRoute(src, dst contracts.TransportID, enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := *r.cfg.Load()
	next.Matrix[src][dst] = enabled
	r.cfg.Store(&next)
}

// GetRoute reports whether src->dst is currently enabled.
func (r *Router) GetRoute(src, dst contracts.TransportID) bool {
	return r.cfg.Load().Matrix[src][dst]
}

// SetFilter replaces the filter record for a source transport.
func (r *Router) SetFilter(src contracts.TransportID, f contracts.Filter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := *r.cfg.Load()
	next.Filters[src] = f
	r.cfg.Store(&next)
}

// GetFilter returns the filter record currently configured for src.
func (r *Router) GetFilter(src contracts.TransportID) contracts.Filter {
	return r.cfg.Load().Filters[src]
}

// SetMergeMode toggles merge_inputs: when true, every source is implicitly
// routed to every other destination regardless of the matrix.
func (r *Router) SetMergeMode(merge bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := *r.cfg.Load()
	next.MergeInputs = merge
	r.cfg.Store(&next)
}

// SetTranslateOptions updates the translator's mode/default-group/timing
// options and rebuilds the pure-function Translator over them.
func (r *Router) SetTranslateOptions(opts contracts.TranslateOptions) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := *r.cfg.Load()
	next.Translate = opts
	r.cfg.Store(&next)
	r.tr.Store(translate.New(opts))
}

// GetStats copies out the current statistics.
func (r *Router) GetStats() Stats {
	return r.stats
}

// ResetStats zeroes every counter.
func (r *Router) ResetStats() {
	r.stats = Stats{}
}

// SaveConfig marshals the current configuration through store.
func (r *Router) SaveConfig(store contracts.ConfigStore) error {
	cfg := r.cfg.Load()
	blob, err := marshalConfig(cfg)
	if err != nil {
		return contracts.NewError("SaveConfig", contracts.IoFailure, err)
	}
	if err := store.Save(blob); err != nil {
		return contracts.NewError("SaveConfig", contracts.IoFailure, err)
	}
	return nil
}

// LoadConfig replaces the current configuration with the one persisted in
// store.
func (r *Router) LoadConfig(store contracts.ConfigStore) error {
	blob, err := store.Load()
	if err != nil {
		return contracts.NewError("LoadConfig", contracts.IoFailure, err)
	}
	cfg, err := unmarshalConfig(blob)
	if err != nil {
		return contracts.NewError("LoadConfig", contracts.InvalidArgument, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg.Store(cfg)
	r.tr.Store(translate.New(cfg.Translate))
	return nil
}

// ResetConfig restores the compiled-in default configuration.
func (r *Router) ResetConfig() {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfg := contracts.DefaultRouterConfig()
	r.cfg.Store(&cfg)
	r.tr.Store(translate.New(cfg.Translate))
}
