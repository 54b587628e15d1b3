package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Persistence.Driver != "file" {
		t.Errorf("Expected default driver 'file', got %q", cfg.Persistence.Driver)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected default log level 'info', got %q", cfg.Log.Level)
	}
	if cfg.DataDir == "" {
		t.Error("Expected a default data dir")
	}
}

func TestLoad_ParsesConfigFile(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	dir := filepath.Join(configHome, "tasklist")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	content := `
data_dir: /tmp/tasklist-data
persistence:
  driver: sqlite
  dsn: /tmp/tasklist.db
log:
  level: debug
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DataDir != "/tmp/tasklist-data" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Persistence.Driver != "sqlite" || cfg.Persistence.DSN != "/tmp/tasklist.db" {
		t.Errorf("Persistence = %+v", cfg.Persistence)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoad_PartialConfigGetsDefaults(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	dir := filepath.Join(configHome, "tasklist")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("data_dir: /custom\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DataDir != "/custom" {
		t.Errorf("DataDir = %q, want /custom", cfg.DataDir)
	}
	if cfg.Persistence.Driver != "file" {
		t.Errorf("Missing driver should default to 'file', got %q", cfg.Persistence.Driver)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &Config{DataDir: "/data"}
	cfg.applyDefaults()
	cfg.Persistence.Driver = "postgres"
	cfg.Persistence.DSN = "postgres://localhost/tasklist?sslmode=disable"

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Persistence.Driver != "postgres" || loaded.Persistence.DSN != cfg.Persistence.DSN {
		t.Errorf("Roundtrip mismatch: %+v", loaded.Persistence)
	}
}
