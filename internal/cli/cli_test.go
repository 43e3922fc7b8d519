// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"testing"
)

// =============================================================================
// ARG PARSER TESTS (args.go)
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantSub  string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name:    "simple subcommand",
			args:    []string{"show"},
			wantSub: "show",
		},
		{
			name:    "subcommand with positional",
			args:    []string{"show", "abc-123"},
			wantSub: "show",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Positional(1) != "abc-123" {
					t.Errorf("Positional(1) = %q, want %q", p.Positional(1), "abc-123")
				}
			},
		},
		{
			name:    "flag with value",
			args:    []string{"list", "--limit", "5"},
			wantSub: "list",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("limit") != "5" {
					t.Errorf("Flag(limit) = %q, want %q", p.Flag("limit"), "5")
				}
			},
		},
		{
			name:    "flag with equals",
			args:    []string{"list", "--since=2025-01-01"},
			wantSub: "list",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("since") != "2025-01-01" {
					t.Errorf("Flag(since) = %q, want %q", p.Flag("since"), "2025-01-01")
				}
			},
		},
		{
			name:    "boolean flag",
			args:    []string{"list", "--json"},
			wantSub: "list",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("json") {
					t.Error("BoolFlag(json) should be true")
				}
			},
		},
		{
			name:    "no arguments",
			args:    nil,
			wantSub: "",
			validate: func(t *testing.T, p *ArgParser) {
				if p.PositionalCount() != 0 {
					t.Errorf("PositionalCount() = %d, want 0", p.PositionalCount())
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewArgParser(tt.args)
			if p.Subcommand() != tt.wantSub {
				t.Errorf("Subcommand() = %q, want %q", p.Subcommand(), tt.wantSub)
			}
			if tt.validate != nil {
				tt.validate(t, p)
			}
		})
	}
}

func TestArgParser_PositionalOutOfRange(t *testing.T) {
	p := NewArgParser([]string{"show"})
	if got := p.Positional(5); got != "" {
		t.Errorf("Positional(5) = %q, want empty", got)
	}
	if got := p.Positional(-1); got != "" {
		t.Errorf("Positional(-1) = %q, want empty", got)
	}
}

// =============================================================================
// COMMAND PARSING TESTS (cli.go)
// =============================================================================

// withArgs runs fn with os.Args temporarily replaced.
func withArgs(t *testing.T, args []string, fn func()) {
	t.Helper()
	orig := os.Args
	os.Args = append([]string{"sensa"}, args...)
	defer func() { os.Args = orig }()
	fn()
}

func TestParse_Commands(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantCmd Command
	}{
		{"no args defaults to TUI", nil, CmdTUI},
		{"ask", []string{"ask", "proximity", "sensor"}, CmdAsk},
		{"chat", []string{"chat"}, CmdChat},
		{"login", []string{"login"}, CmdLogin},
		{"register", []string{"register"}, CmdRegister},
		{"signup alias", []string{"signup"}, CmdRegister},
		{"logout", []string{"logout"}, CmdLogout},
		{"whoami", []string{"whoami"}, CmdWhoami},
		{"me alias", []string{"me"}, CmdWhoami},
		{"sessions", []string{"sessions"}, CmdSessions},
		{"quote", []string{"quote", "list"}, CmdQuote},
		{"quotes alias", []string{"quotes"}, CmdQuote},
		{"config", []string{"config"}, CmdConfig},
		{"version", []string{"version"}, CmdVersion},
		{"help", []string{"help"}, CmdHelp},
		{"unknown falls back to help", []string{"frobnicate"}, CmdHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withArgs(t, tt.args, func() {
				cmd, _ := Parse()
				if cmd != tt.wantCmd {
					t.Errorf("Parse() = %v, want %v", cmd, tt.wantCmd)
				}
			})
		})
	}
}

func TestParse_AskJoinsQuery(t *testing.T) {
	withArgs(t, []string{"ask", "inductive", "proximity", "sensor"}, func() {
		cmd, args := Parse()
		if cmd != CmdAsk {
			t.Fatalf("Parse() = %v, want CmdAsk", cmd)
		}
		if args.Query != "inductive proximity sensor" {
			t.Errorf("Query = %q, want %q", args.Query, "inductive proximity sensor")
		}
	})
}

func TestParse_GlobalFlags(t *testing.T) {
	withArgs(t, []string{"--json", "sessions"}, func() {
		cmd, args := Parse()
		if cmd != CmdSessions {
			t.Fatalf("Parse() = %v, want CmdSessions", cmd)
		}
		if !args.JSON {
			t.Error("JSON flag should be set")
		}
	})

	withArgs(t, []string{"-q", "chat"}, func() {
		_, args := Parse()
		if !args.Quiet {
			t.Error("Quiet flag should be set")
		}
	})
}

func TestParse_ConfigSet(t *testing.T) {
	withArgs(t, []string{"config", "set", "ui.theme", "dark"}, func() {
		cmd, args := Parse()
		if cmd != CmdConfig {
			t.Fatalf("Parse() = %v, want CmdConfig", cmd)
		}
		if args.Subcommand != "set" {
			t.Errorf("Subcommand = %q, want %q", args.Subcommand, "set")
		}
		if args.ConfigKey != "ui.theme" || args.ConfigVal != "dark" {
			t.Errorf("ConfigKey/Val = %q/%q, want ui.theme/dark", args.ConfigKey, args.ConfigVal)
		}
	})
}

func TestParse_ConfigDefaultsToShow(t *testing.T) {
	withArgs(t, []string{"config"}, func() {
		_, args := Parse()
		if args.Subcommand != "show" {
			t.Errorf("Subcommand = %q, want %q", args.Subcommand, "show")
		}
	})
}
