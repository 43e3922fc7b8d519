// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package quote builds quotation requests from user input and handles the
// resulting PDFs. The backend generates the document; this side only
// assembles the payload and saves what comes back.
package quote

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/morganforge/sensa/internal/model"
	"github.com/morganforge/sensa/internal/util"
)

// Validation errors returned by Builder.Validate.
var (
	ErrMissingName    = errors.New("customer name is required")
	ErrMissingCompany = errors.New("company is required")
	ErrMissingEmail   = errors.New("email is required")
	ErrMissingItems   = errors.New("at least one item needs a name")
)

// Item is one editable quote line as entered by the user. Quantity is kept
// as text until build time so partially typed input never errors.
type Item struct {
	Name        string
	Description string
	Quantity    string
}

// Builder accumulates quote form state. The item list never goes below one
// entry.
type Builder struct {
	CustomerName string
	Company      string
	Email        string
	Phone        string
	Address      string

	items []Item
}

// NewBuilder returns a builder with one blank item.
func NewBuilder() *Builder {
	return &Builder{items: []Item{{}}}
}

// Items returns the current item lines.
func (b *Builder) Items() []Item {
	return b.items
}

// ItemCount returns the number of item lines.
func (b *Builder) ItemCount() int {
	return len(b.items)
}

// AddItem appends a blank item line.
func (b *Builder) AddItem() {
	b.items = append(b.items, Item{})
}

// RemoveItem deletes the item at index i. Removing the last remaining item
// is a no-op; the list never becomes empty.
func (b *Builder) RemoveItem(i int) {
	if len(b.items) <= 1 {
		return
	}
	if i < 0 || i >= len(b.items) {
		return
	}
	b.items = append(b.items[:i], b.items[i+1:]...)
}

// SetItem replaces the item at index i.
func (b *Builder) SetItem(i int, item Item) {
	if i < 0 || i >= len(b.items) {
		return
	}
	b.items[i] = item
}

// Reset returns the builder to its initial state: blank customer fields and
// a single blank item.
func (b *Builder) Reset() {
	*b = Builder{items: []Item{{}}}
}

// Validate checks the required fields before submission.
func (b *Builder) Validate() error {
	if strings.TrimSpace(b.CustomerName) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(b.Company) == "" {
		return ErrMissingCompany
	}
	if strings.TrimSpace(b.Email) == "" {
		return ErrMissingEmail
	}
	for _, it := range b.items {
		if strings.TrimSpace(it.Name) != "" {
			return nil
		}
	}
	return ErrMissingItems
}

// Build assembles the request payload. The quotation id is a fresh UUID,
// nameless items fall back to the default product name, and quantities are
// coerced to positive integers.
func (b *Builder) Build() model.QuoteRequest {
	items := make([]model.QuoteItem, 0, len(b.items))
	for _, it := range b.items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			name = model.DefaultItemName
		}
		items = append(items, model.QuoteItem{
			Name:        name,
			Description: strings.TrimSpace(it.Description),
			Quantity:    model.CoerceQuantity(it.Quantity),
		})
	}

	return model.QuoteRequest{
		QuotationID: uuid.NewString(),
		BillTo: model.BillTo{
			Name:        strings.TrimSpace(b.CustomerName),
			CompanyName: strings.TrimSpace(b.Company),
			Email:       strings.TrimSpace(b.Email),
			Phone:       strings.TrimSpace(b.Phone),
			Address:     strings.TrimSpace(b.Address),
		},
		Items: items,
	}
}

// SavePDF writes the generated document under dir as
// quotation_<id>.pdf and returns the full path. An empty dir means the
// current working directory.
func SavePDF(dir, quotationID string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty PDF data")
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	path := filepath.Join(dir, fmt.Sprintf("quotation_%s.pdf", quotationID))
	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save PDF: %w", err)
	}
	return path, nil
}
