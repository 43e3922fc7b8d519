// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package login

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/sensa/internal/api"
	"github.com/morganforge/sensa/internal/auth"
	"github.com/morganforge/sensa/internal/config"
	"github.com/morganforge/sensa/internal/ui/styles"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.Default()
	return New(styles.NewTheme(), auth.NewSession(api.NewClient(cfg)))
}

func TestSubmitValidatesLocally(t *testing.T) {
	m := newTestModel(t)

	// Empty email.
	if cmd := (&m).submit(); cmd != nil {
		t.Error("submit with empty form produced a command")
	}
	if m.Err() == "" {
		t.Error("no banner for empty email")
	}

	// Email without @.
	m.inputs[fieldEmail].SetValue("not-an-email")
	(&m).submit()
	if m.Err() != "Enter a valid email address." {
		t.Errorf("banner = %q", m.Err())
	}

	// Missing password.
	m.inputs[fieldEmail].SetValue("a@b.com")
	(&m).submit()
	if m.Err() != "Enter your password." {
		t.Errorf("banner = %q", m.Err())
	}

	// Complete login form produces the async command.
	m.inputs[fieldPassword].SetValue("secret")
	if cmd := (&m).submit(); cmd == nil {
		t.Error("valid form produced no command")
	}
	if m.Err() != "" {
		t.Errorf("banner not cleared: %q", m.Err())
	}
}

func TestSignupRequiresFullName(t *testing.T) {
	m := newTestModel(t)
	(&m).switchMode()
	if m.mode != ModeSignup {
		t.Fatal("switchMode() did not enter signup")
	}

	m.inputs[fieldEmail].SetValue("a@b.com")
	m.inputs[fieldPassword].SetValue("secret")
	(&m).submit()
	if m.Err() != "Enter your full name." {
		t.Errorf("banner = %q", m.Err())
	}

	m.inputs[fieldFullName].SetValue("Ada Lovelace")
	if cmd := (&m).submit(); cmd == nil {
		t.Error("valid signup form produced no command")
	}
}

func TestLoginFailureShowsBanner(t *testing.T) {
	m := newTestModel(t)
	m.submitting = true

	m, cmd := m.Update(loginResultMsg{err: &api.Error{Status: 401}})
	if cmd != nil {
		t.Error("failed login emitted a follow-up command")
	}
	if m.submitting {
		t.Error("submitting flag still set")
	}
	if m.Err() != "Session expired. Please log in again." && m.Err() == "" {
		t.Errorf("banner = %q, want an auth failure message", m.Err())
	}
}

func TestLoginSuccessEmitsAuthenticated(t *testing.T) {
	m := newTestModel(t)
	m.submitting = true

	m, cmd := m.Update(loginResultMsg{err: nil})
	if cmd == nil {
		t.Fatal("successful login emitted no command")
	}
	if _, ok := cmd().(AuthenticatedMsg); !ok {
		t.Error("command did not produce AuthenticatedMsg")
	}
	if m.Err() != "" {
		t.Errorf("banner set on success: %q", m.Err())
	}
}

func TestSwitchModeClearsBannerAndPassword(t *testing.T) {
	m := newTestModel(t)
	m.errText = "Incorrect email or password"
	m.inputs[fieldPassword].SetValue("secret")

	(&m).switchMode()

	if m.Err() != "" {
		t.Error("banner survived mode switch")
	}
	if m.inputs[fieldPassword].Value() != "" {
		t.Error("password survived mode switch")
	}
}

func TestTabCyclesVisibleFields(t *testing.T) {
	m := newTestModel(t)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != fieldPassword {
		t.Errorf("focus = %d, want password", m.focus)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != fieldEmail {
		t.Errorf("focus = %d, want wrap to email", m.focus)
	}
}
