// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot recommendation query for the sensa CLI.
//
// Handles "sensa ask" which sends a single product question to the
// recommendation endpoint. No login is required.
//
// Examples:
//   sensa ask "proximity sensor for conveyor belts"
//   sensa ask --json "IP67 photoelectric sensor"
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/morganforge/sensa/internal/api"
	"github.com/morganforge/sensa/internal/config"
)

// askTimeout bounds the recommendation request.
const askTimeout = 60 * time.Second

var markdownRenderer *glamour.TermRenderer

func init() {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err == nil {
		markdownRenderer = renderer
	}
}

// HandleAsk runs the ask command and returns the process exit code.
func HandleAsk(args Args) int {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		fmt.Fprintln(os.Stderr, "Usage: sensa ask \"your question\"")
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		return Fail(err)
	}
	client := api.NewClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	resp, err := client.Recommend(ctx, query, cfg.API.RecommendTopK)
	if err != nil {
		return Fail(err)
	}

	if args.JSON {
		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return Fail(err)
		}
		fmt.Println(string(out))
		return 0
	}

	displayAnswer(resp)
	return 0
}

// displayAnswer prints the answer text, rendered as markdown on a TTY,
// followed by one card per product source.
func displayAnswer(resp api.RecommendResponse) {
	answer := resp.Answer
	if IsStdoutTTY() && markdownRenderer != nil {
		if rendered, err := markdownRenderer.Render(answer); err == nil {
			answer = strings.TrimRight(rendered, "\n")
		}
	}
	fmt.Println(answer)

	if len(resp.Sources) == 0 {
		return
	}

	fmt.Println()
	if ColorEnabled() {
		fmt.Println(labelStyle.Render("Recommended products:"))
		for _, src := range resp.Sources {
			line := "  " + productStyle.Render(src.Name)
			if src.SKU != "" {
				line += "  " + labelStyle.Render(src.SKU)
			}
			fmt.Println(line)
		}
		return
	}
	fmt.Println("Recommended products:")
	for _, src := range resp.Sources {
		line := "  " + src.Name
		if src.SKU != "" {
			line += "  (" + src.SKU + ")"
		}
		fmt.Println(line)
	}
}
