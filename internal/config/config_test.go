// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() config invalid: %v", err)
	}
	if cfg.API.BaseURL == "" {
		t.Error("Default() BaseURL is empty")
	}
	if cfg.API.RecommendTopK != 3 {
		t.Errorf("RecommendTopK = %d, want 3", cfg.API.RecommendTopK)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"empty base url", func(c *Config) { c.API.BaseURL = "" }, true},
		{"bad scheme", func(c *Config) { c.API.BaseURL = "ftp://host" }, true},
		{"relative url", func(c *Config) { c.API.BaseURL = "localhost:8000" }, true},
		{"https accepted", func(c *Config) { c.API.BaseURL = "https://api.example.com/api/v1" }, false},
		{"unknown theme", func(c *Config) { c.UI.Theme = "neon" }, true},
		{"zero timeout", func(c *Config) { c.API.TimeoutSeconds = 0 }, true},
		{"negative retries", func(c *Config) { c.API.MaxRetries = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("SENSA_API_URL", "https://override.example.com/api/v1")
	t.Setenv("SENSA_TIMEOUT", "120")
	t.Setenv("SENSA_THEME", "dark")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.API.BaseURL != "https://override.example.com/api/v1" {
		t.Errorf("BaseURL = %q, want env override", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSeconds != 120 {
		t.Errorf("TimeoutSeconds = %d, want 120", cfg.API.TimeoutSeconds)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("Theme = %q, want dark", cfg.UI.Theme)
	}
}

func TestApplyEnvOverridesIgnoresBadTimeout(t *testing.T) {
	t.Setenv("SENSA_TIMEOUT", "soon")
	cfg := Default()
	cfg.ApplyEnvOverrides()
	if cfg.API.TimeoutSeconds != Default().API.TimeoutSeconds {
		t.Errorf("TimeoutSeconds = %d, want default", cfg.API.TimeoutSeconds)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != Default().API.BaseURL {
		t.Errorf("BaseURL = %q, want default", cfg.API.BaseURL)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := Default()
	cfg.API.BaseURL = "https://sensors.example.com/api/v1"
	cfg.UI.Theme = "light"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	path, _ := ConfigPath()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config perm = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.API.BaseURL != cfg.API.BaseURL {
		t.Errorf("BaseURL = %q, want %q", loaded.API.BaseURL, cfg.API.BaseURL)
	}
	if loaded.UI.Theme != "light" {
		t.Errorf("Theme = %q, want light", loaded.UI.Theme)
	}
}

func TestLoadLegacyJSON(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".sensa")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}
	jsonBody := `{"api":{"base_url":"https://legacy.example.com/api/v1"}}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(jsonBody), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != "https://legacy.example.com/api/v1" {
		t.Errorf("BaseURL = %q, want legacy value", cfg.API.BaseURL)
	}
	// Unset fields are filled from defaults.
	if cfg.API.TimeoutSeconds != Default().API.TimeoutSeconds {
		t.Errorf("TimeoutSeconds = %d, want default fill", cfg.API.TimeoutSeconds)
	}
}

func TestIsConfigFile(t *testing.T) {
	if !isConfigFile("/home/x/.sensa/config.toml") {
		t.Error("config.toml not recognized")
	}
	if isConfigFile("/home/x/.sensa/token") {
		t.Error("token wrongly recognized")
	}
}
