// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/morganforge/sensa/internal/api"
)

// Fail prints an error for the user and returns exit code 1. API errors go
// through the shared user-message mapping so the CLI and TUI word failures
// the same way; everything else prints as-is.
func Fail(err error) int {
	msg := err.Error()
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		msg = api.UserMessage(err)
	}
	if ColorEnabled() {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+msg)
	} else {
		fmt.Fprintln(os.Stderr, "Error: "+msg)
	}
	return 1
}

// Failf formats and prints an error message and returns exit code 1.
func Failf(format string, a ...any) int {
	return Fail(fmt.Errorf(format, a...))
}
