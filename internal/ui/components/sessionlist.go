// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/morganforge/sensa/internal/model"
	"github.com/morganforge/sensa/internal/ui/styles"
	"github.com/morganforge/sensa/internal/util"
)

// SessionList is the sidebar listing chat sessions. Index 0 is always the
// synthetic "new chat" entry; stored sessions follow in the backend's
// order.
type SessionList struct {
	sessions []model.Session
	cursor   int
	width    int
}

// NewSessionList creates an empty session list with the cursor on the "new
// chat" entry.
func NewSessionList() *SessionList {
	return &SessionList{width: 28}
}

// SetSessions replaces the list contents. The cursor is clamped but
// otherwise kept, so a refresh does not jump the selection around.
func (l *SessionList) SetSessions(sessions []model.Session) {
	l.sessions = sessions
	if l.cursor > len(l.sessions) {
		l.cursor = len(l.sessions)
	}
}

// Sessions returns the current session slice.
func (l *SessionList) Sessions() []model.Session {
	return l.sessions
}

// SetWidth sets the rendered width of the sidebar.
func (l *SessionList) SetWidth(w int) {
	if w < 16 {
		w = 16
	}
	l.width = w
}

// CursorUp moves the selection up one entry.
func (l *SessionList) CursorUp() {
	if l.cursor > 0 {
		l.cursor--
	}
}

// CursorDown moves the selection down one entry.
func (l *SessionList) CursorDown() {
	if l.cursor < len(l.sessions) {
		l.cursor++
	}
}

// SelectSession moves the cursor onto the given session id, if present.
func (l *SessionList) SelectSession(id int64) {
	for i, s := range l.sessions {
		if s.ID == id {
			l.cursor = i + 1
			return
		}
	}
}

// SelectNew moves the cursor onto the "new chat" entry.
func (l *SessionList) SelectNew() {
	l.cursor = 0
}

// Selected returns the session under the cursor, or nil when the "new
// chat" entry is selected.
func (l *SessionList) Selected() *model.Session {
	if l.cursor == 0 || l.cursor > len(l.sessions) {
		return nil
	}
	s := l.sessions[l.cursor-1]
	return &s
}

// View renders the sidebar.
func (l *SessionList) View(theme *styles.Theme, height int) string {
	var b strings.Builder

	render := func(idx int, label string) {
		style := theme.SessionItem
		if idx == l.cursor {
			style = theme.SessionItemSelected
		}
		b.WriteString(style.Render(util.TruncateWidth(label, l.width-4)))
		b.WriteString("\n")
	}

	render(0, "+ New Chat")
	for i, s := range l.sessions {
		render(i+1, s.Title)
	}

	return theme.SessionList.
		Width(l.width).
		Height(height).
		Render(strings.TrimRight(b.String(), "\n"))
}
