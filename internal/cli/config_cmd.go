// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - "sensa config" subcommands.
package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/morganforge/sensa/internal/config"
)

// HandleConfig dispatches "config show", "config set <key> <value>",
// and "config path".
func HandleConfig(args Args) int {
	switch args.Subcommand {
	case "", "show":
		return configShow()

	case "path":
		path, err := config.ConfigPath()
		if err != nil {
			return Fail(err)
		}
		fmt.Println(path)
		return 0

	case "set":
		if args.ConfigKey == "" || args.ConfigVal == "" {
			fmt.Fprintln(os.Stderr, "Usage: sensa config set <key> <value>")
			fmt.Fprintln(os.Stderr, "Keys: api.base_url, api.timeout_seconds, api.recommend_top_k, ui.theme, ui.markdown, quote.output_dir")
			return 1
		}
		return configSet(args.ConfigKey, args.ConfigVal)

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args.Subcommand)
		fmt.Fprintln(os.Stderr, "Usage: sensa config [show|set <key> <value>|path]")
		return 1
	}
}

func configShow() int {
	cfg, err := config.Load()
	if err != nil {
		return Fail(err)
	}

	fmt.Println(labelStyle.Render("api"))
	fmt.Printf("  base_url         = %s\n", cfg.API.BaseURL)
	fmt.Printf("  timeout_seconds  = %d\n", cfg.API.TimeoutSeconds)
	fmt.Printf("  max_retries      = %d\n", cfg.API.MaxRetries)
	fmt.Printf("  recommend_top_k  = %d\n", cfg.API.RecommendTopK)
	fmt.Println(labelStyle.Render("ui"))
	fmt.Printf("  theme            = %s\n", cfg.UI.Theme)
	fmt.Printf("  markdown         = %t\n", cfg.UI.Markdown)
	fmt.Println(labelStyle.Render("quote"))
	outputDir := cfg.Quote.OutputDir
	if outputDir == "" {
		outputDir = "(current directory)"
	}
	fmt.Printf("  output_dir       = %s\n", outputDir)
	return 0
}

func configSet(key, value string) int {
	cfg, err := config.Load()
	if err != nil {
		return Fail(err)
	}

	switch key {
	case "api.base_url":
		cfg.API.BaseURL = value
	case "api.timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return Failf("invalid timeout: %s", value)
		}
		cfg.API.TimeoutSeconds = n
	case "api.max_retries":
		n, err := strconv.Atoi(value)
		if err != nil {
			return Failf("invalid retry count: %s", value)
		}
		cfg.API.MaxRetries = n
	case "api.recommend_top_k":
		n, err := strconv.Atoi(value)
		if err != nil {
			return Failf("invalid top-k: %s", value)
		}
		cfg.API.RecommendTopK = n
	case "ui.theme":
		cfg.UI.Theme = value
	case "ui.markdown":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return Failf("invalid boolean: %s", value)
		}
		cfg.UI.Markdown = b
	case "quote.output_dir":
		cfg.Quote.OutputDir = value
	default:
		return Failf("unknown config key: %s", key)
	}

	if err := cfg.Validate(); err != nil {
		return Fail(err)
	}
	if err := cfg.Save(); err != nil {
		return Fail(err)
	}
	fmt.Println(successStyle.Render("✓ ") + key + " = " + value)
	return 0
}
