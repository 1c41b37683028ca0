package router

import "encoding/json"

// marshalConfig/unmarshalConfig serialize the routing configuration to
// JSON via Config's own struct tags, matching
// leafo-midirouter__main.go's whole-config-as-one-JSON-blob persistence
// style (spec.md §4.5).
func marshalConfig(cfg *Config) ([]byte, error) {
	return json.MarshalIndent(cfg, "", "  ")
}

func unmarshalConfig(blob []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(blob, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
