package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.FullResyncHours != 24 {
		t.Errorf("FullResyncHours = %d, want 24", cfg.FullResyncHours)
	}
	if cfg.PageSize != 100 {
		t.Errorf("PageSize = %d, want 100", cfg.PageSize)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `{"relay_url": "https://relay.example.com", "full_resync_hours": 48}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.RelayURL != "https://relay.example.com" {
		t.Errorf("RelayURL = %q", cfg.RelayURL)
	}
	if cfg.FullResyncHours != 48 {
		t.Errorf("FullResyncHours = %d, want 48", cfg.FullResyncHours)
	}
	// Untouched scalar keeps default
	if cfg.PageSize != 100 {
		t.Errorf("PageSize = %d, want 100", cfg.PageSize)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PRESSROOM_RELAY_URL", "https://env.example.com")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.RelayURL != "https://env.example.com" {
		t.Errorf("RelayURL = %q, want env value", cfg.RelayURL)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{nope"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(dir); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestMerge_Arrays(t *testing.T) {
	base := &Config{DisabledTools: []string{"content_sync"}}
	overlay := &Config{DisabledTools: []string{"content_draft"}}

	merged := Merge(base, overlay)
	if len(merged.DisabledTools) != 2 {
		t.Errorf("DisabledTools = %v, want both entries", merged.DisabledTools)
	}
}
