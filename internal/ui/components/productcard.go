// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/sensa/internal/api"
	"github.com/morganforge/sensa/internal/ui/styles"
)

// RenderProductCards renders the product sources under a recommendation
// answer, one bordered card per product with its name and SKU.
func RenderProductCards(theme *styles.Theme, sources []api.RecommendSource, width int) string {
	if len(sources) == 0 {
		return ""
	}

	cardWidth := width - 4
	if cardWidth > 40 {
		cardWidth = 40
	}
	if cardWidth < 16 {
		cardWidth = 16
	}

	cards := make([]string, 0, len(sources))
	for _, src := range sources {
		body := theme.ProductName.Render(src.Name)
		if src.SKU != "" {
			body += "\n" + theme.ProductSKU.Render("SKU: "+src.SKU)
		}
		cards = append(cards, theme.ProductCard.Width(cardWidth).Render(body))
	}

	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

// RenderSourcesLine renders product sources as a compact single-line list,
// used where cards would take too much vertical space.
func RenderSourcesLine(theme *styles.Theme, sources []api.RecommendSource) string {
	if len(sources) == 0 {
		return ""
	}
	parts := make([]string, 0, len(sources))
	for _, src := range sources {
		s := src.Name
		if src.SKU != "" {
			s += " (" + src.SKU + ")"
		}
		parts = append(parts, s)
	}
	return theme.ProductSKU.Render("Sources: " + strings.Join(parts, ", "))
}
