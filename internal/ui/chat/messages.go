// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the main chat screen: the session sidebar, the
// message thread, and the input line.
package chat

import (
	"github.com/morganforge/sensa/internal/model"
)

// ============================================================================
// ASYNC RESULT MESSAGES
// ============================================================================
// Every async result carries the generation it was started under. The model
// bumps its generation each time the active thread changes, so results from
// an abandoned session select or send are recognized and dropped instead of
// landing in the wrong thread.

// SessionsLoadedMsg delivers the session list.
type SessionsLoadedMsg struct {
	Sessions []model.Session
	Err      error
}

// ThreadLoadedMsg delivers the message history of a selected session.
type ThreadLoadedMsg struct {
	Gen       uint64
	SessionID int64
	Messages  []model.Message
	Err       error
}

// SendResultMsg delivers the outcome of one send: the assistant reply, the
// session the message landed in (fresh for a first message), and the
// refreshed session list.
type SendResultMsg struct {
	Gen       uint64
	SessionID int64
	Reply     string
	Sessions  []model.Session
	Err       error
}

// ExportedMsg delivers the outcome of a transcript export.
type ExportedMsg struct {
	Path string
	Err  error
}

// ============================================================================
// NAVIGATION MESSAGES
// ============================================================================
// These bubble up to the root model, which owns the quote overlay and the
// auth state.

// OpenQuoteMsg asks the root model to open the quote form.
type OpenQuoteMsg struct{}

// LogoutMsg asks the root model to log out and return to the login screen.
type LogoutMsg struct{}
