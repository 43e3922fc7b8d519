// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"

	"github.com/morganforge/sensa/internal/util"
)

// TitleMaxRunes is the maximum number of characters carried into a session
// title derived from the first message.
const TitleMaxRunes = 30

// Session is a chat session as listed by the backend. IDs are assigned
// server-side.
type Session struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// DeriveTitle builds a session title from the first message of a new
// session: the first TitleMaxRunes characters, with "..." appended when the
// message was longer.
func DeriveTitle(firstMessage string) string {
	trimmed := strings.TrimSpace(firstMessage)
	if trimmed == "" {
		return "New Chat"
	}
	return util.TruncateRunes(trimmed, TitleMaxRunes)
}
