// Package config implements a JSON-file-backed contracts.ConfigStore,
// grounded on leafo-midirouter__main.go's encoding/json + file read/write
// persistence pattern (spec.md §4.5).
package config

import (
	"os"

	"github.com/leandrodaf/midi-router/sdk/contracts"
)

// FileStore persists an opaque configuration blob to a single file on
// disk. The core treats the blob as opaque bytes; router.marshalConfig/
// unmarshalConfig own its JSON shape.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes blob to the configured path, creating it if necessary.
func (s *FileStore) Save(blob []byte) error {
	if err := os.WriteFile(s.path, blob, 0o644); err != nil {
		return contracts.NewError("Save", contracts.IoFailure, err)
	}
	return nil
}

// Load reads the configured path. A missing file is reported as
// IoFailure; callers fall back to contracts.DefaultRouterConfig() on
// first run.
func (s *FileStore) Load() ([]byte, error) {
	blob, err := os.ReadFile(s.path)
	if err != nil {
		return nil, contracts.NewError("Load", contracts.IoFailure, err)
	}
	return blob, nil
}
