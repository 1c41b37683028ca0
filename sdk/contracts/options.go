package contracts

// TranslateMode selects how the translator resolves ambiguous channel
// mappings, per spec.md §9's "Translation mode configuration" struct.
type TranslateMode int

const (
	// Default maps every MIDI 1.0 channel onto a single UMP Group.
	Default TranslateMode = iota
	// MPE preserves per-channel addressing across a zone by mapping each
	// MIDI 1.0 channel onto a distinct UMP Group instead of folding them
	// onto DefaultGroup. Supplemental behavior recovered from the domain;
	// see SPEC_FULL.md §4.3.
	MPE
	// Custom defers entirely to DefaultGroup/PreserveTiming without any
	// built-in channel remapping policy.
	Custom
)

// TranslateOptions configures the MIDI1<->UMP translator.
type TranslateOptions struct {
	Mode           TranslateMode `json:"mode"`
	DefaultGroup   uint8         `json:"default_group"`
	PreserveTiming bool          `json:"preserve_timing"`
}

// Filter is a per-source input filter record (spec.md §3/§4.4).
type Filter struct {
	Enabled            bool   `json:"enabled"`
	ChannelMask        uint16 `json:"channel_mask"`
	BlockActiveSensing bool   `json:"block_active_sensing"`
	BlockClock         bool   `json:"block_clock"`
}

// RouterConfig is the router's persisted, swappable configuration: the
// N×N routing matrix, per-source filters, and global flags (spec.md §3).
// It is also the JSON schema saved/loaded through a ConfigStore, hence the
// struct tags and Version field (ambient addition, see SPEC_FULL.md §3).
type RouterConfig struct {
	Version       int                                `json:"version"`
	Matrix        [TransportCount][TransportCount]bool `json:"matrix"`
	Filters       [TransportCount]Filter              `json:"filters"`
	AutoTranslate bool                                `json:"auto_translate"`
	MergeInputs   bool                                `json:"merge_inputs"`
	DefaultGroup  uint8                               `json:"default_group"`
	DrainBudget   int                                 `json:"drain_budget"`
	Translate     TranslateOptions                    `json:"translate"`
}

// DefaultRouterConfig returns the zero-value-safe default configuration:
// no routes enabled, filters disabled, auto-translate on, merge off.
func DefaultRouterConfig() RouterConfig {
	var cfg RouterConfig
	cfg.Version = 1
	cfg.AutoTranslate = true
	cfg.DrainBudget = 64
	for i := range cfg.Filters {
		cfg.Filters[i] = Filter{Enabled: false, ChannelMask: 0xFFFF}
	}
	return cfg
}

// RouterOptions are the options accepted by the public router
// constructor, following the teacher's ClientOptions/functional-option
// pattern (sdk/midi.NewMIDIClient generalized to sdk/router.NewRouter).
type RouterOptions struct {
	Logger      Logger
	Store       ConfigStore
	Config      *RouterConfig
	LogLevel    LogLevel
}

// Option mutates RouterOptions during construction.
type Option func(*RouterOptions)

// WithLogger sets the logger used by the router and every transport it
// wires together.
func WithLogger(l Logger) Option {
	return func(o *RouterOptions) { o.Logger = l }
}

// WithLogLevel sets the router's logging level.
func WithLogLevel(level LogLevel) Option {
	return func(o *RouterOptions) { o.LogLevel = level }
}

// WithConfigStore sets the persistence collaborator used by SaveConfig
// and LoadConfig.
func WithConfigStore(s ConfigStore) Option {
	return func(o *RouterOptions) { o.Store = s }
}

// WithConfig seeds the router with an explicit configuration instead of
// the compiled-in default.
func WithConfig(cfg RouterConfig) Option {
	return func(o *RouterOptions) { o.Config = &cfg }
}
