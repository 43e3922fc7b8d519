// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/sensa/internal/ui/styles"
)

var (
	// Prompt style
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Teal).
			Bold(true)

	// Welcome banner style
	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Teal).
			Bold(true)

	// Info style
	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	// Success style
	successStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)

	// Error style
	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	// Label style for key/value output
	labelStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	// Product name in source cards
	productStyle = lipgloss.NewStyle().
			Foreground(styles.Teal).
			Bold(true)
)
