// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth owns the client's credential state: the persisted access
// token and the account record fetched with it. All state lives on the
// Session object, which is injected into whatever needs it; there is no
// package-level token.
package auth

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/morganforge/sensa/internal/api"
	"github.com/morganforge/sensa/internal/config"
	"github.com/morganforge/sensa/internal/model"
	"github.com/morganforge/sensa/internal/util"
)

// Session holds the current credentials and account. It implements
// api.TokenProvider so the HTTP client attaches the token automatically.
// Safe for concurrent use.
type Session struct {
	client *api.Client

	mu    sync.RWMutex
	token string
	user  *model.User
}

// NewSession creates a logged-out session and wires it into the client as
// its token source.
func NewSession(client *api.Client) *Session {
	s := &Session{client: client}
	client.WithTokenProvider(s)
	return s
}

// Client returns the API client this session authenticates.
func (s *Session) Client() *api.Client {
	return s.client
}

// Token returns the current access token, or "" when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current account record, or nil when logged out.
func (s *Session) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated reports whether a user record is loaded.
func (s *Session) IsAuthenticated() bool {
	return s.User() != nil
}

// Load restores a session from the persisted token, exchanging it for the
// account record. A missing token leaves the session logged out. A token
// the server no longer accepts is discarded (implicit logout); the returned
// error is diagnostic, the session is always in a consistent logged-in or
// logged-out state when Load returns.
func (s *Session) Load(ctx context.Context) (bool, error) {
	path, err := config.TokenPath()
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read token: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return false, nil
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	user, err := s.client.Me(ctx)
	if err != nil {
		s.Logout()
		return false, err
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return true, nil
}

// Login exchanges credentials for a token, persists it, and loads the
// account record. Any failure leaves the session logged out.
func (s *Session) Login(ctx context.Context, email, password string) error {
	token, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	user, err := s.client.Me(ctx)
	if err != nil {
		s.Logout()
		return err
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()

	path, pathErr := config.TokenPath()
	if pathErr != nil {
		return pathErr
	}
	if err := util.AtomicWriteFile(path, []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	return nil
}

// Register creates a new account. It does not log in; call Login after.
func (s *Session) Register(ctx context.Context, email, password, fullName string) (model.User, error) {
	return s.client.Register(ctx, email, password, fullName)
}

// Logout clears the in-memory credentials and removes the persisted token.
// It is synchronous and idempotent; calling it while logged out is a no-op.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	path, err := config.TokenPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}
