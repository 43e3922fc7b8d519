// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

// SetupLogging routes the standard logger to the diagnostic log file when
// enabled, and silences it otherwise so log lines never corrupt the TUI.
// The returned closer flushes and closes the log file; it is safe to call
// when logging is disabled.
func SetupLogging(cfg *Config) (func(), error) {
	if !cfg.Log.Enabled {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}

	path := cfg.Log.File
	if path == "" {
		dir, err := ConfigDir()
		if err != nil {
			log.SetOutput(io.Discard)
			return func() {}, err
		}
		path = filepath.Join(dir, "sensa.log")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		log.SetOutput(io.Discard)
		return func() {}, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		log.SetOutput(io.Discard)
		return func() {}, err
	}

	log.SetOutput(f)
	log.SetFlags(log.LstdFlags)
	return func() { f.Close() }, nil
}
