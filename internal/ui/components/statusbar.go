// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/sensa/internal/ui/styles"
)

// Shortcut is one key hint shown in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBarView renders the bottom status bar: the signed-in user on the
// left, key hints on the right.
func StatusBarView(theme *styles.Theme, userName string, shortcuts []Shortcut, width int) string {
	left := ""
	if userName != "" {
		left = theme.StatusUser.Render(userName)
	}

	parts := make([]string, 0, len(shortcuts))
	for _, sc := range shortcuts {
		parts = append(parts, theme.ShortcutKey.Render(sc.Key)+" "+theme.ShortcutDesc.Render(sc.Desc))
	}
	right := strings.Join(parts, "  ")

	// lipgloss.Width ignores the ANSI sequences the styles added.
	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	return theme.StatusBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
