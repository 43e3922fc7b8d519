// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions_cmd.go - "sensa sessions" listing.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// HandleSessions lists the signed-in user's chat sessions.
func HandleSessions(args Args) int {
	session, err := newAuthSession()
	if err != nil {
		return Fail(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
	defer cancel()

	ok, _ := session.Load(ctx)
	if !ok {
		fmt.Fprintln(os.Stderr, "Not signed in. Run `sensa login` first.")
		return 1
	}

	sessions, err := session.Client().ListSessions(ctx)
	if err != nil {
		return Fail(err)
	}

	if args.JSON {
		out, err := json.MarshalIndent(sessions, "", "  ")
		if err != nil {
			return Fail(err)
		}
		fmt.Println(string(out))
		return 0
	}

	if len(sessions) == 0 {
		fmt.Println(infoStyle.Render("No sessions yet. Start one with `sensa chat` or the TUI."))
		return 0
	}

	fmt.Println(labelStyle.Render(fmt.Sprintf("%-8s %s", "ID", "TITLE")))
	for _, s := range sessions {
		fmt.Printf("%-8d %s\n", s.ID, s.Title)
	}
	return 0
}
