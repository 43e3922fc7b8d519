// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/sensa/internal/api"
	"github.com/morganforge/sensa/internal/model"
	"github.com/morganforge/sensa/internal/ui/components"
)

// requestTimeout bounds the API calls issued from the TUI. Chat completions
// can take a while on the backend, so this is generous.
const requestTimeout = 120 * time.Second

// LoadSessionsCmd fetches the session list.
func LoadSessionsCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		sessions, err := client.ListSessions(ctx)
		return SessionsLoadedMsg{Sessions: sessions, Err: err}
	}
}

// LoadThreadCmd fetches a session's message history under the given
// generation.
func LoadThreadCmd(client *api.Client, sessionID int64, gen uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		messages, err := client.ListMessages(ctx, sessionID)
		return ThreadLoadedMsg{Gen: gen, SessionID: sessionID, Messages: messages, Err: err}
	}
}

// SendMessageCmd delivers one user message. With sessionID 0 it first
// creates a session titled from the message text. After a successful send
// the session list is re-fetched so titles and ordering match the server;
// a failed refresh is not an error, the reply already arrived.
func SendMessageCmd(client *api.Client, sessionID int64, msg model.Message, gen uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if sessionID == 0 {
			session, err := client.CreateSession(ctx, model.DeriveTitle(msg.Content))
			if err != nil {
				return SendResultMsg{Gen: gen, Err: err}
			}
			sessionID = session.ID
		}

		reply, err := client.SendMessage(ctx, sessionID, msg)
		if err != nil {
			return SendResultMsg{Gen: gen, SessionID: sessionID, Err: err}
		}

		sessions, _ := client.ListSessions(ctx)
		return SendResultMsg{Gen: gen, SessionID: sessionID, Reply: reply, Sessions: sessions}
	}
}

// ExportThreadCmd writes the thread as a Markdown transcript next to the
// working directory and reports the path.
func ExportThreadCmd(title string, messages []model.Message) tea.Cmd {
	msgs := append([]model.Message(nil), messages...)
	return func() tea.Msg {
		if len(msgs) == 0 {
			return ExportedMsg{Err: fmt.Errorf("nothing to export")}
		}

		var sb strings.Builder
		if title == "" {
			title = "Chat transcript"
		}
		fmt.Fprintf(&sb, "# %s\n\n", title)
		for _, msg := range msgs {
			fmt.Fprintf(&sb, "## %s", msg.Role.DisplayName())
			if !msg.Timestamp.IsZero() {
				fmt.Fprintf(&sb, " (%s)", msg.Timestamp.Local().Format("2006-01-02 15:04"))
			}
			fmt.Fprintf(&sb, "\n\n%s\n\n", msg.Content)
		}

		name := fmt.Sprintf("sensa_chat_%s.md", time.Now().Format("20060102_150405"))
		wd, err := os.Getwd()
		if err != nil {
			return ExportedMsg{Err: err}
		}
		path := filepath.Join(wd, name)
		if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
			return ExportedMsg{Err: err}
		}
		return ExportedMsg{Path: path}
	}
}

// toastTickCmd drives toast expiry.
func toastTickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return components.ToastTickMsg{Time: t}
	})
}
