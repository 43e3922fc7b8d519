// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config manages sensa client configuration: the backend endpoint,
// UI preferences, and quotation output paths. Configuration lives at
// ~/.sensa/config.toml with a JSON fallback for older installs.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/morganforge/sensa/internal/util"
)

// ============================================================================
// Config types
// ============================================================================

// Config is the full client configuration.
type Config struct {
	API   APIConfig   `toml:"api" json:"api"`
	UI    UIConfig    `toml:"ui" json:"ui"`
	Quote QuoteConfig `toml:"quote" json:"quote"`
	Log   LogConfig   `toml:"log" json:"log"`
}

// APIConfig configures the backend HTTP client.
type APIConfig struct {
	// BaseURL is the root of the backend API, including the version prefix.
	BaseURL string `toml:"base_url" json:"base_url"`

	// TimeoutSeconds bounds each HTTP request.
	TimeoutSeconds int `toml:"timeout_seconds" json:"timeout_seconds"`

	// MaxRetries is the retry count for idempotent requests.
	MaxRetries int `toml:"max_retries" json:"max_retries"`

	// RecommendTopK is how many product sources a recommendation query
	// asks for.
	RecommendTopK int `toml:"recommend_top_k" json:"recommend_top_k"`
}

// UIConfig configures the terminal interface.
type UIConfig struct {
	// Theme selects the color scheme: auto, dark, or light.
	Theme string `toml:"theme" json:"theme"`

	// Markdown enables glamour rendering of assistant replies.
	Markdown bool `toml:"markdown" json:"markdown"`
}

// QuoteConfig configures quotation output.
type QuoteConfig struct {
	// OutputDir is where generated PDFs are saved. Empty means the
	// current working directory.
	OutputDir string `toml:"output_dir" json:"output_dir"`
}

// LogConfig configures the diagnostic log file.
type LogConfig struct {
	Enabled bool   `toml:"enabled" json:"enabled"`
	File    string `toml:"file" json:"file"`
}

// ============================================================================
// Defaults
// ============================================================================

// Default returns a configuration with sensible defaults for a local
// backend.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:8000/api/v1",
			TimeoutSeconds: 60,
			MaxRetries:     3,
			RecommendTopK:  3,
		},
		UI: UIConfig{
			Theme:    "auto",
			Markdown: true,
		},
		Quote: QuoteConfig{
			OutputDir: "",
		},
		Log: LogConfig{
			Enabled: false,
			File:    "",
		},
	}
}

// fillDefaults populates zero-valued fields after a partial config load.
func (c *Config) fillDefaults() {
	def := Default()
	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = def.API.TimeoutSeconds
	}
	if c.API.MaxRetries < 0 {
		c.API.MaxRetries = def.API.MaxRetries
	}
	if c.API.RecommendTopK <= 0 {
		c.API.RecommendTopK = def.API.RecommendTopK
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
}

// ============================================================================
// Paths
// ============================================================================

// ConfigDir returns the sensa configuration directory, ~/.sensa.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".sensa"), nil
}

// EnsureConfigDir creates the configuration directory if needed.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// ConfigPath returns the path of the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// jsonConfigPath is the legacy JSON location checked when no TOML file
// exists.
func jsonConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// TokenPath returns the path of the persisted access token.
func TokenPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "token"), nil
}

// QuotesDir returns the directory holding quotation history records.
func QuotesDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "quotes"), nil
}

// ============================================================================
// Load / Save
// ============================================================================

// Load reads the configuration, trying TOML first, then the legacy JSON
// file, then falling back to defaults. Environment overrides are applied
// last so they always win.
func Load() (*Config, error) {
	cfg, err := loadFromDisk()
	if err != nil {
		return nil, err
	}

	cfg.fillDefaults()
	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromDisk() (*Config, error) {
	tomlPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	if data, err := os.ReadFile(tomlPath); err == nil {
		var cfg Config
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", tomlPath, err)
		}
		ensureSecurePermissions(tomlPath)
		return &cfg, nil
	}

	jsonPath, err := jsonConfigPath()
	if err != nil {
		return nil, err
	}
	if data, err := os.ReadFile(jsonPath); err == nil {
		var cfg Config
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", jsonPath, err)
		}
		ensureSecurePermissions(jsonPath)
		return &cfg, nil
	}

	return Default(), nil
}

// Save writes the configuration as TOML with a short header comment.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("# sensa configuration\n")
	sb.WriteString("# Edit by hand or via `sensa config set`.\n\n")
	enc := toml.NewEncoder(&sb)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return util.AtomicWriteFile(path, []byte(sb.String()), 0600)
}

// ============================================================================
// Overrides and validation
// ============================================================================

// ApplyEnvOverrides applies SENSA_* environment variables over the loaded
// configuration.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("SENSA_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("SENSA_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.API.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("SENSA_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("SENSA_QUOTE_DIR"); v != "" {
		c.Quote.OutputDir = v
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api.base_url %q", c.API.BaseURL)
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return fmt.Errorf("api.base_url scheme must be http or https, got %q", u.Scheme)
	}

	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		return fmt.Errorf("ui.theme must be auto, dark, or light, got %q", c.UI.Theme)
	}

	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("api.timeout_seconds must be positive")
	}
	if c.API.MaxRetries < 0 {
		return fmt.Errorf("api.max_retries must not be negative")
	}
	return nil
}

// ensureSecurePermissions tightens permissions on config files that may
// have been created with a looser umask.
func ensureSecurePermissions(path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.Mode().Perm()&0077 != 0 {
		os.Chmod(path, 0600)
	}
}
