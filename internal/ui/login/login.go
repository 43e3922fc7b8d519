// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login implements the login and signup screens shown while no
// user is authenticated.
package login

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/sensa/internal/api"
	"github.com/morganforge/sensa/internal/auth"
	"github.com/morganforge/sensa/internal/ui/styles"
)

// Mode selects which form is shown.
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
)

// authTimeout bounds the login and register calls.
const authTimeout = 30 * time.Second

// ============================================================================
// Messages
// ============================================================================

// AuthenticatedMsg tells the root model a user is signed in.
type AuthenticatedMsg struct{}

// loginResultMsg is the async outcome of a login attempt.
type loginResultMsg struct {
	err error
}

// registerResultMsg is the async outcome of a signup attempt. A successful
// signup is followed by an automatic login.
type registerResultMsg struct {
	err error
}

// ============================================================================
// Model
// ============================================================================

// field indexes into the input slice.
const (
	fieldFullName = iota
	fieldEmail
	fieldPassword
	fieldCount
)

// Model is the login/signup screen. Failures render as a single banner
// above the form; there is no other error surface here.
type Model struct {
	theme   *styles.Theme
	account *auth.Session

	mode       Mode
	inputs     []textinput.Model
	focus      int
	submitting bool
	errText    string

	width  int
	height int
}

// New creates the login screen.
func New(theme *styles.Theme, account *auth.Session) Model {
	inputs := make([]textinput.Model, fieldCount)

	name := textinput.New()
	name.Placeholder = "Full name"
	name.CharLimit = 120
	inputs[fieldFullName] = name

	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 254
	email.Focus()
	inputs[fieldEmail] = email

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'
	password.CharLimit = 128
	inputs[fieldPassword] = password

	return Model{
		theme:   theme,
		account: account,
		mode:    ModeLogin,
		inputs:  inputs,
		focus:   fieldEmail,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// visibleFields returns the field indexes shown in the current mode.
func (m Model) visibleFields() []int {
	if m.mode == ModeSignup {
		return []int{fieldFullName, fieldEmail, fieldPassword}
	}
	return []int{fieldEmail, fieldPassword}
}

func (m *Model) setFocus(field int) {
	m.focus = field
	for i := range m.inputs {
		if i == field {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *Model) cycleFocus(backward bool) {
	fields := m.visibleFields()
	cur := 0
	for i, f := range fields {
		if f == m.focus {
			cur = i
			break
		}
	}
	if backward {
		cur = (cur - 1 + len(fields)) % len(fields)
	} else {
		cur = (cur + 1) % len(fields)
	}
	m.setFocus(fields[cur])
}

// switchMode flips between login and signup, clearing the error banner and
// the password.
func (m *Model) switchMode() {
	if m.mode == ModeLogin {
		m.mode = ModeSignup
		m.setFocus(fieldFullName)
	} else {
		m.mode = ModeLogin
		m.setFocus(fieldEmail)
	}
	m.errText = ""
	m.inputs[fieldPassword].Reset()
}

// submit validates locally and starts the async login or signup.
func (m *Model) submit() tea.Cmd {
	if m.submitting {
		return nil
	}

	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	password := m.inputs[fieldPassword].Value()
	fullName := strings.TrimSpace(m.inputs[fieldFullName].Value())

	if email == "" || !strings.Contains(email, "@") {
		m.errText = "Enter a valid email address."
		return nil
	}
	if password == "" {
		m.errText = "Enter your password."
		return nil
	}
	if m.mode == ModeSignup && fullName == "" {
		m.errText = "Enter your full name."
		return nil
	}

	m.errText = ""
	m.submitting = true

	account := m.account
	if m.mode == ModeSignup {
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
			defer cancel()

			if _, err := account.Register(ctx, email, password, fullName); err != nil {
				return registerResultMsg{err: err}
			}
			return registerResultMsg{err: account.Login(ctx, email, password)}
		}
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()
		return loginResultMsg{err: account.Login(ctx, email, password)}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loginResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errText = api.UserMessage(msg.err)
			return m, nil
		}
		return m, func() tea.Msg { return AuthenticatedMsg{} }

	case registerResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errText = api.UserMessage(msg.err)
			return m, nil
		}
		return m, func() tea.Msg { return AuthenticatedMsg{} }

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab", "down":
			m.cycleFocus(false)
			return m, nil
		case "shift+tab", "up":
			m.cycleFocus(true)
			return m, nil
		case "enter":
			return m, m.submit()
		case "ctrl+s":
			m.switchMode()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	var b strings.Builder

	title := "Sign in to sensa"
	hint := "ctrl+s create an account · enter submit · ctrl+c quit"
	if m.mode == ModeSignup {
		title = "Create your sensa account"
		hint = "ctrl+s back to sign in · enter submit · ctrl+c quit"
	}
	b.WriteString(m.theme.FormTitle.Render(title))
	b.WriteString("\n\n")

	if m.errText != "" {
		b.WriteString(m.theme.FormError.Render(m.errText))
		b.WriteString("\n\n")
	}

	labels := map[int]string{
		fieldFullName: "Full name",
		fieldEmail:    "Email",
		fieldPassword: "Password",
	}
	for _, f := range m.visibleFields() {
		label := m.theme.FormLabel
		if f == m.focus {
			label = m.theme.FormLabelFocus
		}
		b.WriteString(label.Render(labels[f]))
		b.WriteString("\n")
		b.WriteString(m.inputs[f].View())
		b.WriteString("\n\n")
	}

	if m.submitting {
		b.WriteString(m.theme.FormHint.Render("Signing in..."))
	} else {
		b.WriteString(m.theme.FormHint.Render(hint))
	}

	box := m.theme.FormBox.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

// Err exposes the banner text. Used in tests.
func (m Model) Err() string {
	return m.errText
}
