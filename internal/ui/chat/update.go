// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/sensa/internal/api"
	"github.com/morganforge/sensa/internal/model"
	"github.com/morganforge/sensa/internal/ui/components"
)

// Update handles all chat screen messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SessionsLoadedMsg:
		if msg.Err != nil {
			m.toasts.AddError(api.UserMessage(msg.Err))
			return m, nil
		}
		m.sessionList.SetSessions(msg.Sessions)
		if m.activeSessionID != 0 {
			m.sessionList.SelectSession(m.activeSessionID)
		}
		return m, nil

	case ThreadLoadedMsg:
		// A result for a thread the user already left is dropped whole.
		if msg.Gen != m.gen {
			return m, nil
		}
		m.loadingThread = false
		m.spinner.Stop()
		if msg.Err != nil {
			m.toasts.AddError(api.UserMessage(msg.Err))
			return m, nil
		}
		m.messages = msg.Messages
		m.refreshViewport()
		return m, nil

	case SendResultMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		m.sending = false
		m.spinner.Stop()
		if msg.Err != nil {
			m.toasts.AddError(api.UserMessage(msg.Err))
			return m, nil
		}
		if m.activeSessionID == 0 {
			m.activeSessionID = msg.SessionID
		}
		m.messages = append(m.messages, model.NewAssistantMessage(msg.Reply))
		if msg.Sessions != nil {
			m.sessionList.SetSessions(msg.Sessions)
			m.sessionList.SelectSession(m.activeSessionID)
		}
		m.refreshViewport()
		return m, nil

	case ExportedMsg:
		if msg.Err != nil {
			m.toasts.AddError("Export failed: " + msg.Err.Error())
		} else {
			m.toasts.AddSuccess("Transcript saved to " + msg.Path)
		}
		return m, nil

	case components.ToastTickMsg:
		m.toasts.Tick()
		return m, toastTickCmd()
	}

	// Spinner frames and anything else the focused widgets consume.
	if cmd := m.spinner.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// handleKey routes key presses by focus.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Logout):
		return m, func() tea.Msg { return LogoutMsg{} }

	case key.Matches(msg, m.keys.OpenQuote):
		return m, func() tea.Msg { return OpenQuoteMsg{} }

	case key.Matches(msg, m.keys.NewChat):
		m.startNewChat()
		return m, nil

	case key.Matches(msg, m.keys.FocusNext):
		if m.focus == FocusInput {
			m.focus = FocusSessions
			m.input.Blur()
		} else {
			m.focus = FocusInput
			m.input.Focus()
		}
		return m, nil
	}

	if m.focus == FocusSessions {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.sessionList.CursorUp()
			return m, nil
		case key.Matches(msg, m.keys.Down):
			m.sessionList.CursorDown()
			return m, nil
		case key.Matches(msg, m.keys.SelectItem):
			m.focus = FocusInput
			m.input.Focus()
			if s := m.sessionList.Selected(); s != nil {
				if s.ID == m.activeSessionID {
					return m, nil
				}
				return m, m.selectSession(s.ID)
			}
			m.startNewChat()
			return m, nil
		}
		return m, nil
	}

	// Input focus.
	switch {
	case key.Matches(msg, m.keys.Send):
		return m, m.submitInput()
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}
