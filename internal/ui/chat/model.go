// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/sensa/internal/api"
	"github.com/morganforge/sensa/internal/auth"
	"github.com/morganforge/sensa/internal/config"
	"github.com/morganforge/sensa/internal/model"
	"github.com/morganforge/sensa/internal/ui/components"
	"github.com/morganforge/sensa/internal/ui/styles"
)

// Focus identifies which pane receives key input.
type Focus int

const (
	FocusInput Focus = iota
	FocusSessions
)

// Model is the chat screen. The thread slot is guarded by a generation
// counter: selecting a session bumps it, and async results stamped with an
// older generation are discarded.
type Model struct {
	theme   *styles.Theme
	cfg     *config.Config
	client  *api.Client
	account *auth.Session

	keys        KeyMap
	sessionList *components.SessionList
	viewport    viewport.Model
	input       textinput.Model
	spinner     components.Spinner
	toasts      *components.ToastManager

	messages        []model.Message
	activeSessionID int64 // 0 while no session is selected
	gen             uint64
	sending         bool
	loadingThread   bool
	focus           Focus

	width  int
	height int
	ready  bool
}

// New creates the chat screen model.
func New(theme *styles.Theme, cfg *config.Config, client *api.Client, account *auth.Session) Model {
	input := textinput.New()
	input.Placeholder = "Ask about sensors, or type /help"
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.PlaceholderStyle = theme.InputPlaceholder
	input.TextStyle = theme.InputText
	input.CharLimit = 4000
	input.Focus()

	return Model{
		theme:       theme,
		cfg:         cfg,
		client:      client,
		account:     account,
		keys:        DefaultKeyMap(),
		sessionList: components.NewSessionList(),
		viewport:    viewport.New(0, 0),
		input:       input,
		spinner:     components.NewSpinner(theme),
		toasts:      components.NewToastManager(),
		focus:       FocusInput,
	}
}

// Init loads the session list.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		LoadSessionsCmd(m.client),
		toastTickCmd(),
	)
}

// SetConfig swaps in a reloaded configuration.
func (m *Model) SetConfig(cfg *config.Config) {
	m.cfg = cfg
}

// Toasts exposes the toast manager so the root model can push into it.
func (m *Model) Toasts() *components.ToastManager {
	return m.toasts
}

// ActiveSessionID returns the selected session id, 0 for a fresh thread.
func (m Model) ActiveSessionID() int64 {
	return m.activeSessionID
}

// Messages returns the current thread.
func (m Model) Messages() []model.Message {
	return m.messages
}

// setSize resizes the panes for a new terminal geometry.
func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	sidebarWidth := 28
	if width < 80 {
		sidebarWidth = 20
	}
	m.sessionList.SetWidth(sidebarWidth)

	// Header, spinner line, input, status bar.
	chromeHeight := 6
	m.viewport.Width = width - sidebarWidth - 2
	m.viewport.Height = height - chromeHeight
	if m.viewport.Height < 3 {
		m.viewport.Height = 3
	}
	m.input.Width = width - 6
	m.ready = true

	m.refreshViewport()
}

// refreshViewport re-renders the thread into the viewport and keeps the
// view pinned to the latest message.
func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderThread())
	m.viewport.GotoBottom()
}

// selectSession switches the thread slot to the given session and starts
// the history fetch under a fresh generation.
func (m *Model) selectSession(id int64) tea.Cmd {
	m.gen++
	m.activeSessionID = id
	m.messages = nil
	m.loadingThread = true
	m.sending = false
	m.refreshViewport()
	return tea.Batch(
		LoadThreadCmd(m.client, id, m.gen),
		m.spinner.Start("Loading messages"),
	)
}

// startNewChat resets to an empty, unsaved thread.
func (m *Model) startNewChat() {
	m.gen++
	m.activeSessionID = 0
	m.messages = nil
	m.loadingThread = false
	m.sending = false
	m.sessionList.SelectNew()
	m.spinner.Stop()
	m.refreshViewport()
}
