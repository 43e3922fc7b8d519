// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"testing"

	"github.com/morganforge/sensa/internal/api"
	"github.com/morganforge/sensa/internal/auth"
	"github.com/morganforge/sensa/internal/config"
	"github.com/morganforge/sensa/internal/model"
	"github.com/morganforge/sensa/internal/ui/styles"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.Default()
	client := api.NewClient(cfg)
	account := auth.NewSession(client)
	m := New(styles.NewTheme(), cfg, client, account)
	m.setSize(100, 30)
	return m
}

func TestSubmitAppendsUserMessageFirst(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("Need a proximity sensor")

	cmd := (&m).submitInput()
	if cmd == nil {
		t.Fatal("submitInput() returned no command")
	}

	if len(m.messages) != 1 {
		t.Fatalf("messages len = %d, want 1 (the user entry)", len(m.messages))
	}
	if m.messages[0].Role != model.RoleUser {
		t.Errorf("first message role = %q, want user", m.messages[0].Role)
	}
	if m.messages[0].Content != "Need a proximity sensor" {
		t.Errorf("content = %q", m.messages[0].Content)
	}
	if m.input.Value() != "" {
		t.Error("input not cleared on submit")
	}
	if !m.sending {
		t.Error("sending flag not set")
	}
}

func TestSubmitIgnoresWhitespaceOnly(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("   ")

	if cmd := (&m).submitInput(); cmd != nil {
		t.Error("whitespace-only input produced a command")
	}
	if len(m.messages) != 0 {
		t.Error("whitespace-only input appended a message")
	}
}

func TestSubmitBlockedWhileSending(t *testing.T) {
	m := newTestModel(t)
	m.sending = true
	m.input.SetValue("second message")

	if cmd := (&m).submitInput(); cmd != nil {
		t.Error("submit while sending produced a command")
	}
	if len(m.messages) != 0 {
		t.Error("submit while sending appended a message")
	}
}

func TestSendResultAppendsReplyAndAdoptsSession(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("Need a proximity sensor")
	(&m).submitInput()

	m, _ = m.Update(SendResultMsg{
		Gen:       m.gen,
		SessionID: 7,
		Reply:     "The IR100 should work.",
		Sessions:  []model.Session{{ID: 7, Title: "Need a proximity sensor"}},
	})

	if m.sending {
		t.Error("sending flag still set after result")
	}
	if m.activeSessionID != 7 {
		t.Errorf("activeSessionID = %d, want 7", m.activeSessionID)
	}
	if len(m.messages) != 2 {
		t.Fatalf("messages len = %d, want 2", len(m.messages))
	}
	if m.messages[0].Role != model.RoleUser || m.messages[1].Role != model.RoleAssistant {
		t.Error("user message does not precede assistant reply")
	}
	if m.messages[1].Content != "The IR100 should work." {
		t.Errorf("reply content = %q", m.messages[1].Content)
	}
	if got := len(m.sessionList.Sessions()); got != 1 {
		t.Errorf("session list len = %d, want 1 (replaced, not merged)", got)
	}
}

func TestStaleSendResultDiscarded(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("first question")
	(&m).submitInput()
	staleGen := m.gen

	// User abandons the thread before the reply lands.
	(&m).startNewChat()

	m, _ = m.Update(SendResultMsg{Gen: staleGen, SessionID: 3, Reply: "late reply"})

	if len(m.messages) != 0 {
		t.Errorf("stale reply landed in the new thread: %v", m.messages)
	}
	if m.activeSessionID != 0 {
		t.Errorf("stale result adopted a session: %d", m.activeSessionID)
	}
}

func TestStaleThreadLoadDiscarded(t *testing.T) {
	m := newTestModel(t)
	m.sessionList.SetSessions([]model.Session{{ID: 1, Title: "X"}, {ID: 2, Title: "Y"}})

	// Select X, then Y before X's history arrives.
	(&m).selectSession(1)
	genX := m.gen
	(&m).selectSession(2)

	m, _ = m.Update(ThreadLoadedMsg{
		Gen:       genX,
		SessionID: 1,
		Messages:  []model.Message{model.NewUserMessage("from X")},
	})
	if len(m.messages) != 0 {
		t.Error("session X's history landed while Y was selected")
	}

	// Y's own result is applied.
	m, _ = m.Update(ThreadLoadedMsg{
		Gen:       m.gen,
		SessionID: 2,
		Messages:  []model.Message{model.NewUserMessage("from Y")},
	})
	if len(m.messages) != 1 || m.messages[0].Content != "from Y" {
		t.Errorf("thread = %v, want only session Y's history", m.messages)
	}
}

func TestSendFailureShowsToastAndKeepsThread(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("hello")
	(&m).submitInput()

	m, _ = m.Update(SendResultMsg{Gen: m.gen, Err: &api.Error{Status: 500, Message: "boom"}})

	if m.sending {
		t.Error("sending flag still set after failure")
	}
	if !m.toasts.HasToasts() {
		t.Error("failure produced no toast")
	}
	// The optimistic user entry stays visible.
	if len(m.messages) != 1 {
		t.Errorf("messages len = %d, want 1", len(m.messages))
	}
}

func TestSessionsLoadedKeepsActiveSelection(t *testing.T) {
	m := newTestModel(t)
	m.activeSessionID = 2

	m, _ = m.Update(SessionsLoadedMsg{Sessions: []model.Session{
		{ID: 3, Title: "C"}, {ID: 2, Title: "B"}, {ID: 1, Title: "A"},
	}})

	if sel := m.sessionList.Selected(); sel == nil || sel.ID != 2 {
		t.Errorf("Selected() = %v, want active session 2", sel)
	}
}

func TestSlashCommands(t *testing.T) {
	m := newTestModel(t)

	m.input.SetValue("/help")
	if cmd := (&m).submitInput(); cmd != nil {
		t.Error("/help produced a command")
	}
	if !m.toasts.HasToasts() {
		t.Error("/help produced no toast")
	}

	m.input.SetValue("/bogus")
	(&m).submitInput()
	if len(m.messages) != 0 {
		t.Error("slash command appended a chat message")
	}

	m.messages = []model.Message{model.NewUserMessage("hi")}
	m.input.SetValue("/new")
	(&m).submitInput()
	if len(m.messages) != 0 {
		t.Error("/new did not reset the thread")
	}
}
