// sensa - terminal client for the sensor assistant backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/sensa/internal/api"
	"github.com/morganforge/sensa/internal/auth"
	"github.com/morganforge/sensa/internal/cli"
	"github.com/morganforge/sensa/internal/config"
	"github.com/morganforge/sensa/internal/storage"
	"github.com/morganforge/sensa/internal/ui/chat"
	"github.com/morganforge/sensa/internal/ui/login"
	"github.com/morganforge/sensa/internal/ui/quoteform"
	"github.com/morganforge/sensa/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global program reference so the config watcher can push reloads into
// the running TUI.
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	// Route the standard logger before anything issues a request, so
	// diagnostics land in the log file (or nowhere) instead of stderr.
	logCfg, err := config.Load()
	if err != nil {
		logCfg = config.Default()
	}
	closeLog, _ := config.SetupLogging(logCfg)
	defer closeLog()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		os.Exit(cli.HandleAsk(args))
	case cli.CmdChat:
		os.Exit(cli.HandleChat(args))
	case cli.CmdLogin:
		os.Exit(cli.HandleLogin(args))
	case cli.CmdRegister:
		os.Exit(cli.HandleRegister(args))
	case cli.CmdLogout:
		os.Exit(cli.HandleLogout(args))
	case cli.CmdWhoami:
		os.Exit(cli.HandleWhoami(args))
	case cli.CmdSessions:
		os.Exit(cli.HandleSessions(args))
	case cli.CmdQuote:
		os.Exit(cli.HandleQuote(args))
	case cli.CmdConfig:
		os.Exit(cli.HandleConfig(args))
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		runTUI(args)
	}
}

// runTUI starts the full-screen interface.
func runTUI(args cli.Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	theme := styles.NewTheme()
	client := api.NewClient(cfg)
	account := auth.NewSession(client)

	// Quote records are bookkeeping; a broken store must not block the UI.
	store, err := storage.NewQuoteStore()
	if err != nil {
		store = nil
	}

	m := newAppModel(theme, cfg, client, account, store)

	p := tea.NewProgram(m, tea.WithAltScreen())

	programMu.Lock()
	programRef = p
	programMu.Unlock()

	// Push config file edits into the running program.
	watcher, err := config.NewWatcher(func(newCfg *config.Config) {
		programMu.Lock()
		ref := programRef
		programMu.Unlock()
		if ref != nil {
			ref.Send(configReloadedMsg{cfg: newCfg})
		}
	})
	if err == nil {
		if err := watcher.Watch(); err == nil {
			defer watcher.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running sensa: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// State represents the current application state.
type State int

const (
	StateLoading State = iota // Checking the stored token
	StateLogin                // Login / signup screen
	StateChat                 // Chat view
)

// tokenCheckedMsg reports whether the stored access token is still valid.
type tokenCheckedMsg struct {
	ok bool
}

// configReloadedMsg carries a freshly reloaded configuration.
type configReloadedMsg struct {
	cfg *config.Config
}

// tokenCheckTimeout bounds the startup token validation round-trip.
const tokenCheckTimeout = 10 * time.Second

// appModel is the root Bubble Tea model: it owns the auth gate and hands
// off to the chat view once a user is signed in.
type appModel struct {
	state State

	theme *styles.Theme
	cfg   *config.Config

	client  *api.Client
	account *auth.Session
	store   *storage.QuoteStore

	login login.Model
	chat  chat.Model

	quote     quoteform.Model
	quoteOpen bool

	width  int
	height int
}

func newAppModel(theme *styles.Theme, cfg *config.Config, client *api.Client, account *auth.Session, store *storage.QuoteStore) appModel {
	return appModel{
		state:   StateLoading,
		theme:   theme,
		cfg:     cfg,
		client:  client,
		account: account,
		store:   store,
		login:   login.New(theme, account),
	}
}

func (m appModel) Init() tea.Cmd {
	return checkStoredToken(m.account)
}

// checkStoredToken validates any persisted token against the backend.
func checkStoredToken(account *auth.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), tokenCheckTimeout)
		defer cancel()
		ok, _ := account.Load(ctx)
		return tokenCheckedMsg{ok: ok}
	}
}

// enterChat builds a fresh chat model and starts its session load.
func (m *appModel) enterChat() tea.Cmd {
	m.state = StateChat
	m.chat = chat.New(m.theme, m.cfg, m.client, m.account)
	var cmds []tea.Cmd
	cmds = append(cmds, m.chat.Init())
	if m.width > 0 {
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.SetSize(msg.Width, msg.Height)

		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)
		cmds = append(cmds, cmd)
		if m.state == StateChat {
			m.chat, cmd = m.chat.Update(msg)
			cmds = append(cmds, cmd)
		}
		if m.quoteOpen {
			m.quote, cmd = m.quote.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case tokenCheckedMsg:
		if msg.ok {
			return m, m.enterChat()
		}
		m.state = StateLogin
		return m, m.login.Init()

	case login.AuthenticatedMsg:
		return m, m.enterChat()

	case chat.OpenQuoteMsg:
		m.quoteOpen = true
		m.quote = quoteform.New(m.theme, m.client, m.store, m.cfg.Quote.OutputDir)
		var cmds []tea.Cmd
		cmds = append(cmds, m.quote.Init())
		if m.width > 0 {
			var cmd tea.Cmd
			m.quote, cmd = m.quote.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case quoteform.CloseMsg:
		m.quoteOpen = false
		return m, nil

	case chat.LogoutMsg:
		m.account.Logout()
		m.quoteOpen = false
		m.state = StateLogin
		m.login = login.New(m.theme, m.account)
		var cmds []tea.Cmd
		cmds = append(cmds, m.login.Init())
		if m.width > 0 {
			var cmd tea.Cmd
			m.login, cmd = m.login.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case configReloadedMsg:
		m.cfg = msg.cfg
		if m.state == StateChat {
			m.chat.SetConfig(msg.cfg)
		}
		return m, nil
	}

	// The quote form captures all input while open.
	if m.quoteOpen {
		var cmd tea.Cmd
		m.quote, cmd = m.quote.Update(msg)
		return m, cmd
	}

	switch m.state {
	case StateLogin:
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)
		return m, cmd
	case StateChat:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) View() string {
	if m.quoteOpen {
		return m.quote.View()
	}

	switch m.state {
	case StateLoading:
		msg := m.theme.InfoStyle.Render("Connecting…")
		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
		}
		return msg
	case StateLogin:
		return m.login.View()
	case StateChat:
		return m.chat.View()
	}
	return ""
}
