package config

import (
	"encoding/json"
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "router-config.json")
	store := NewFileStore(path)

	type payload struct {
		Version int `json:"version"`
	}
	blob, err := json.Marshal(payload{Version: 3})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := store.Save(blob); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var out payload
	if err := json.Unmarshal(got, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Version != 3 {
		t.Errorf("got version %d, want 3", out.Version)
	}
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing.json"))
	if _, err := store.Load(); err == nil {
		t.Error("expected error loading a missing file")
	}
}
