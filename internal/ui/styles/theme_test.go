// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"
)

func TestNewThemeInitializesStyles(t *testing.T) {
	theme := NewTheme()
	if theme == nil {
		t.Fatal("NewTheme() returned nil")
	}

	// Spot-check that key styles carry their intent.
	if !theme.HeaderTitle.GetBold() {
		t.Error("HeaderTitle is not bold")
	}
	if !theme.FormError.GetBold() {
		t.Error("FormError is not bold")
	}
	if !theme.InputPlaceholder.GetItalic() {
		t.Error("InputPlaceholder is not italic")
	}
	if theme.UserBubble.GetMarginLeft() == 0 {
		t.Error("UserBubble has no left margin")
	}
	if theme.AssistantBubble.GetMarginRight() == 0 {
		t.Error("AssistantBubble has no right margin")
	}
}

func TestSetSize(t *testing.T) {
	theme := NewTheme()
	theme.SetSize(120, 40)
	if theme.Width != 120 || theme.Height != 40 {
		t.Errorf("SetSize() stored %dx%d, want 120x40", theme.Width, theme.Height)
	}
}
