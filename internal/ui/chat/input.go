// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/sensa/internal/model"
)

// submitInput runs the send pipeline: validate, clear the input box, append
// the user message optimistically, then hand off to the async send. The
// user entry is always in the thread before any reply can arrive.
func (m *Model) submitInput() tea.Cmd {
	trimmed := strings.TrimSpace(m.input.Value())
	if trimmed == "" {
		return nil
	}
	if m.sending {
		return nil
	}

	if strings.HasPrefix(trimmed, "/") {
		m.input.Reset()
		return m.handleSlashCommand(trimmed)
	}

	m.input.Reset()

	userMsg := model.NewUserMessage(trimmed)
	m.messages = append(m.messages, userMsg)
	m.sending = true
	m.refreshViewport()

	return tea.Batch(
		SendMessageCmd(m.client, m.activeSessionID, userMsg, m.gen),
		m.spinner.Start("Thinking"),
	)
}

// handleSlashCommand dispatches the /commands typed into the input line.
func (m *Model) handleSlashCommand(cmd string) tea.Cmd {
	parts := strings.Fields(cmd)
	switch parts[0] {
	case "/help":
		m.toasts.AddStatus("Commands: /export saves the transcript, /new starts a chat, /quit exits")
		return nil
	case "/new":
		m.startNewChat()
		return nil
	case "/export":
		title := ""
		if s := m.sessionList.Selected(); s != nil {
			title = s.Title
		}
		return ExportThreadCmd(title, m.messages)
	case "/quit":
		return tea.Quit
	default:
		m.toasts.AddError("Unknown command: " + parts[0])
		return nil
	}
}
