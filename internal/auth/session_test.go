// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/morganforge/sensa/internal/api"
	"github.com/morganforge/sensa/internal/config"
	"github.com/morganforge/sensa/internal/model"
)

func newTestSession(t *testing.T, handler http.Handler) *Session {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.API.BaseURL = srv.URL
	cfg.API.MaxRetries = 0
	return NewSession(api.NewClient(cfg))
}

func authHandler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/token", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.PostForm.Get("password") != "correct" {
			http.Error(w, `{"detail":"Incorrect email or password"}`, http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-good"})
	})
	mux.HandleFunc("/auth/users/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-good" {
			http.Error(w, `{"detail":"Could not validate credentials"}`, http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(model.User{ID: 1, Email: "u@example.com", FullName: "User One"})
	})
	return mux
}

func TestLoginPopulatesSessionAndPersistsToken(t *testing.T) {
	s := newTestSession(t, authHandler(t))

	if err := s.Login(context.Background(), "u@example.com", "correct"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if !s.IsAuthenticated() {
		t.Fatal("IsAuthenticated() = false after login")
	}
	if got := s.User().FullName; got != "User One" {
		t.Errorf("User().FullName = %q, want %q", got, "User One")
	}

	path, _ := config.TokenPath()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("token not persisted: %v", err)
	}
	if string(data) != "tok-good" {
		t.Errorf("persisted token = %q, want %q", data, "tok-good")
	}
	info, _ := os.Stat(path)
	if info.Mode().Perm() != 0600 {
		t.Errorf("token perm = %v, want 0600", info.Mode().Perm())
	}
}

func TestLoginFailureLeavesSessionLoggedOut(t *testing.T) {
	s := newTestSession(t, authHandler(t))

	if err := s.Login(context.Background(), "u@example.com", "wrong"); err == nil {
		t.Fatal("Login() with bad password did not fail")
	}
	if s.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after failed login")
	}
	if s.Token() != "" {
		t.Error("Token() not empty after failed login")
	}
}

func TestLoginThenLogoutClearsEverything(t *testing.T) {
	s := newTestSession(t, authHandler(t))

	if err := s.Login(context.Background(), "u@example.com", "correct"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if err := s.Logout(); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	if s.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after logout")
	}
	if s.Token() != "" {
		t.Error("Token() not empty after logout")
	}
	path, _ := config.TokenPath()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("token file still present after logout")
	}

	// Logout is idempotent.
	if err := s.Logout(); err != nil {
		t.Errorf("second Logout() error = %v", err)
	}
}

func TestLoadWithNoTokenStaysLoggedOut(t *testing.T) {
	s := newTestSession(t, authHandler(t))

	ok, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ok || s.IsAuthenticated() {
		t.Error("Load() with no token reported logged in")
	}
}

func TestLoadWithValidToken(t *testing.T) {
	s := newTestSession(t, authHandler(t))

	path, _ := config.TokenPath()
	os.MkdirAll(filepath.Dir(path), 0700)
	os.WriteFile(path, []byte("tok-good\n"), 0600)

	ok, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !ok || !s.IsAuthenticated() {
		t.Fatal("Load() with valid token did not log in")
	}
	if got := s.User().Email; got != "u@example.com" {
		t.Errorf("User().Email = %q, want %q", got, "u@example.com")
	}
}

func TestLoadWithRejectedTokenLogsOutImplicitly(t *testing.T) {
	s := newTestSession(t, authHandler(t))

	path, _ := config.TokenPath()
	os.MkdirAll(filepath.Dir(path), 0700)
	os.WriteFile(path, []byte("tok-stale"), 0600)

	ok, err := s.Load(context.Background())
	if err == nil {
		t.Fatal("Load() with rejected token returned no diagnostic error")
	}
	if ok || s.IsAuthenticated() {
		t.Error("session logged in despite rejected token")
	}
	if s.Token() != "" {
		t.Error("stale token retained in memory")
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("stale token file not removed")
	}
}
