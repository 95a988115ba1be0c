package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.toml")
	body := `
[connection]
host = "game.example.com"
port = 14901
generation = 2

[reconnect]
enabled = false
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Connection.Host != "game.example.com" || cfg.Connection.Port != 14901 {
		t.Fatalf("connection not overlaid: %+v", cfg.Connection)
	}
	if cfg.Connection.Generation != 2 {
		t.Fatalf("got generation %d, want 2", cfg.Connection.Generation)
	}
	if cfg.Reconnect.Enabled {
		t.Fatalf("reconnect.enabled should be overlaid to false")
	}
	// Fields left unset in the file keep their defaults.
	if cfg.Connection.PacketsPerSecond != 60 {
		t.Fatalf("got packets_per_second %d, want default 60", cfg.Connection.PacketsPerSecond)
	}
	if cfg.Reconnect.Backoff != time.Second {
		t.Fatalf("got backoff %v, want default 1s", cfg.Reconnect.Backoff)
	}
}
