// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/sensa/internal/model"
	"github.com/morganforge/sensa/internal/ui/styles"
)

// markdownWrap is the word-wrap width handed to glamour.
const markdownWrap = 76

var (
	mdRenderer     *glamour.TermRenderer
	mdRendererOnce sync.Once
)

func markdownRenderer() *glamour.TermRenderer {
	mdRendererOnce.Do(func() {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(markdownWrap),
		)
		if err == nil {
			mdRenderer = r
		}
	})
	return mdRenderer
}

// RenderMarkdown renders markdown for terminal display, falling back to the
// raw text when glamour is unavailable.
func RenderMarkdown(text string) string {
	r := markdownRenderer()
	if r == nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// MessageView renders one chat message as a bubble. Assistant replies go
// through the markdown renderer when useMarkdown is set; user messages are
// always shown verbatim.
func MessageView(theme *styles.Theme, msg model.Message, width int, useMarkdown bool) string {
	bubbleWidth := width - 8
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	author := theme.MessageAuthor.Render(msg.Role.DisplayName())
	timestamp := ""
	if !msg.Timestamp.IsZero() {
		timestamp = " " + theme.MessageTime.Render(msg.Timestamp.Local().Format("15:04"))
	}

	content := msg.Content
	var bubble string
	switch msg.Role {
	case model.RoleUser:
		bubble = theme.UserBubble.MaxWidth(bubbleWidth).Render(content)
	default:
		if useMarkdown {
			content = RenderMarkdown(content)
		} else {
			content = ParseCodeBlocks(content, bubbleWidth)
		}
		bubble = theme.AssistantBubble.MaxWidth(bubbleWidth).Render(content)
	}

	header := author + timestamp
	if msg.Role == model.RoleUser {
		header = lipgloss.NewStyle().MarginLeft(4).Render(header)
	}
	return header + "\n" + bubble
}
