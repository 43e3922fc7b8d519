// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - login, register, logout and whoami commands.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/morganforge/sensa/internal/api"
	"github.com/morganforge/sensa/internal/auth"
	"github.com/morganforge/sensa/internal/config"
)

// authTimeout bounds the auth round-trips.
const authTimeout = 30 * time.Second

func newAuthSession() (*auth.Session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return auth.NewSession(api.NewClient(cfg)), nil
}

// promptLine reads one line from stdin with a visible prompt.
func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	passBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(passBytes), nil
}

// HandleLogin signs the user in and stores the token.
func HandleLogin(args Args) int {
	if !IsTTY() {
		fmt.Fprintln(os.Stderr, "login requires an interactive terminal")
		return 1
	}

	session, err := newAuthSession()
	if err != nil {
		return Fail(err)
	}

	email, err := promptLine("Email: ")
	if err != nil {
		return Fail(err)
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return Fail(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
	defer cancel()

	if err := session.Login(ctx, email, password); err != nil {
		return Fail(err)
	}

	user := session.User()
	if ColorEnabled() {
		fmt.Println(successStyle.Render("Signed in as ") + user.DisplayName())
	} else {
		fmt.Println("Signed in as " + user.DisplayName())
	}
	return 0
}

// HandleRegister creates an account and signs in.
func HandleRegister(args Args) int {
	if !IsTTY() {
		fmt.Fprintln(os.Stderr, "register requires an interactive terminal")
		return 1
	}

	session, err := newAuthSession()
	if err != nil {
		return Fail(err)
	}

	fullName, err := promptLine("Full name: ")
	if err != nil {
		return Fail(err)
	}
	email, err := promptLine("Email: ")
	if err != nil {
		return Fail(err)
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return Fail(err)
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return Fail(err)
	}
	if password != confirm {
		return Failf("passwords do not match")
	}

	ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
	defer cancel()

	if _, err := session.Register(ctx, email, password, fullName); err != nil {
		return Fail(err)
	}
	if err := session.Login(ctx, email, password); err != nil {
		return Fail(err)
	}

	fmt.Println("Account created. Signed in as " + session.User().DisplayName())
	return 0
}

// HandleLogout clears the stored token.
func HandleLogout(args Args) int {
	session, err := newAuthSession()
	if err != nil {
		return Fail(err)
	}
	if err := session.Logout(); err != nil {
		return Fail(err)
	}
	fmt.Println("Signed out.")
	return 0
}

// HandleWhoami shows the signed-in account.
func HandleWhoami(args Args) int {
	session, err := newAuthSession()
	if err != nil {
		return Fail(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
	defer cancel()

	ok, err := session.Load(ctx)
	if !ok {
		if err != nil && !os.IsNotExist(err) {
			return Fail(err)
		}
		fmt.Println("Not signed in. Run `sensa login`.")
		return 1
	}

	user := session.User()
	fmt.Printf("%s <%s>\n", user.FullName, user.Email)
	return 0
}
