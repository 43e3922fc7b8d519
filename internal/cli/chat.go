// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat in the plain terminal, without the TUI.
//
// Handles "sensa chat", a readline-style loop against the chat endpoints.
// Useful over slow links and in terminals where the full-screen UI is
// unwanted.
//
// Interactive commands:
//   /help               Show available commands
//   /new                Start a new session
//   /sessions           List your sessions
//   /open <id>          Switch to a session and show its history
//   /quit               Exit (Ctrl+D also works)
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/morganforge/sensa/internal/api"
	"github.com/morganforge/sensa/internal/auth"
	"github.com/morganforge/sensa/internal/config"
	"github.com/morganforge/sensa/internal/model"
)

// chatTimeout bounds one chat round-trip; completions can be slow.
const chatTimeout = 120 * time.Second

// ============================================================================
// INPUT HISTORY
// ============================================================================

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI with history loaded from the config dir.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	c.loadHistory()
	return c
}

func (c *ChatCLI) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line, recording non-empty input into history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

func (c *ChatCLI) saveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.saveHistory()
	c.line.Close()
}

// ============================================================================
// CHAT LOOP
// ============================================================================

// chatState is the REPL's view of the active session.
type chatState struct {
	client    *api.Client
	session   *auth.Session
	sessionID int64
}

// HandleChat runs the interactive chat loop.
func HandleChat(args Args) int {
	if !IsTTY() {
		fmt.Fprintln(os.Stderr, "chat requires an interactive terminal")
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		return Fail(err)
	}
	client := api.NewClient(cfg)
	session := auth.NewSession(client)

	ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
	ok, _ := session.Load(ctx)
	cancel()
	if !ok {
		fmt.Fprintln(os.Stderr, "Not signed in. Run `sensa login` first.")
		return 1
	}

	if !args.Quiet {
		fmt.Println(welcomeStyle.Render("sensa chat") + infoStyle.Render("  ·  /help for commands, /quit to exit"))
	}

	input := NewChatCLI()
	defer input.Close()

	state := &chatState{client: client, session: session}

	for {
		line, err := input.ReadInput(promptStyle.Render("you> "))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println()
				return 0
			}
			return Fail(err)
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "/") {
			if quit := state.handleCommand(trimmed); quit {
				return 0
			}
			continue
		}

		state.send(trimmed)
	}
}

// send posts one message, creating the session on first use.
func (s *chatState) send(text string) {
	ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
	defer cancel()

	if s.sessionID == 0 {
		created, err := s.client.CreateSession(ctx, model.DeriveTitle(text))
		if err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render(api.UserMessage(err)))
			return
		}
		s.sessionID = created.ID
	}

	reply, err := s.client.SendMessage(ctx, s.sessionID, model.NewUserMessage(text))
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(api.UserMessage(err)))
		return
	}

	printReply(reply)
}

// handleCommand dispatches slash commands; returns true to exit.
func (s *chatState) handleCommand(cmd string) bool {
	parts := strings.Fields(cmd)
	switch parts[0] {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h":
		fmt.Println(`Commands:
  /new          Start a new session
  /sessions     List your sessions
  /open <id>    Switch to a session and show its history
  /quit         Exit`)

	case "/new":
		s.sessionID = 0
		fmt.Println(infoStyle.Render("Started a new chat."))

	case "/sessions":
		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()
		sessions, err := s.client.ListSessions(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render(api.UserMessage(err)))
			return false
		}
		if len(sessions) == 0 {
			fmt.Println(infoStyle.Render("No sessions yet."))
			return false
		}
		for _, sess := range sessions {
			marker := "  "
			if sess.ID == s.sessionID {
				marker = "* "
			}
			fmt.Printf("%s%d  %s\n", marker, sess.ID, sess.Title)
		}

	case "/open":
		if len(parts) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: /open <id>")
			return false
		}
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Invalid session id: "+parts[1])
			return false
		}

		ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
		defer cancel()
		messages, err := s.client.ListMessages(ctx, id)
		if err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render(api.UserMessage(err)))
			return false
		}
		s.sessionID = id
		for _, msg := range messages {
			if msg.Role == model.RoleUser {
				fmt.Println(promptStyle.Render("you> ") + msg.Content)
			} else {
				printReply(msg.Content)
			}
		}

	default:
		fmt.Fprintln(os.Stderr, "Unknown command: "+parts[0])
	}
	return false
}

// printReply renders an assistant reply, markdown-formatted on a TTY.
func printReply(reply string) {
	if IsStdoutTTY() && markdownRenderer != nil {
		if rendered, err := markdownRenderer.Render(reply); err == nil {
			fmt.Println(strings.TrimRight(rendered, "\n"))
			return
		}
	}
	fmt.Println(reply)
}
