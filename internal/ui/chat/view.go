// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/sensa/internal/ui/components"
)

// View renders the chat screen.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.theme.Header.Width(m.width).Render("sensa — sensor assistant")

	sidebar := m.sessionList.View(m.theme, m.viewport.Height)
	thread := m.viewport.View()
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", thread)

	spinnerLine := m.spinner.View(m.theme)
	if spinnerLine == "" {
		spinnerLine = " "
	}

	inputLine := m.theme.InputContainer.Width(m.width - 2).Render(m.input.View())

	userName := ""
	if u := m.account.User(); u != nil {
		userName = u.DisplayName()
	}
	statusBar := components.StatusBarView(m.theme, userName, []components.Shortcut{
		{Key: "tab", Desc: "sessions"},
		{Key: "^N", Desc: "new"},
		{Key: "^Q", Desc: "quote"},
		{Key: "^D", Desc: "logout"},
		{Key: "^C", Desc: "quit"},
	}, m.width)

	sections := []string{header, body, spinnerLine, inputLine, statusBar}

	if m.toasts.HasToasts() {
		sections = append(sections, components.RenderToasts(m.theme, m.toasts.Toasts(), m.width-4))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderThread renders the message history for the viewport.
func (m *Model) renderThread() string {
	if len(m.messages) == 0 {
		if m.loadingThread {
			return ""
		}
		return m.theme.FormHint.Render("\n  Ask about sensor selection, specs, or compatibility.")
	}

	parts := make([]string, 0, len(m.messages))
	for _, msg := range m.messages {
		parts = append(parts, components.MessageView(m.theme, msg, m.viewport.Width, m.cfg.UI.Markdown))
	}
	return strings.Join(parts, "\n\n")
}
