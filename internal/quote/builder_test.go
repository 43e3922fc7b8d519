// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package quote

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morganforge/sensa/internal/model"
)

func filledBuilder() *Builder {
	b := NewBuilder()
	b.CustomerName = "Ada Lovelace"
	b.Company = "Analytical Engines Ltd"
	b.Email = "ada@example.com"
	b.SetItem(0, Item{Name: "IR100", Quantity: "2"})
	return b
}

func TestNewBuilderStartsWithOneBlankItem(t *testing.T) {
	b := NewBuilder()
	require.Equal(t, 1, b.ItemCount())
	assert.Equal(t, Item{}, b.Items()[0])
}

func TestRemoveItemNeverEmptiesList(t *testing.T) {
	b := NewBuilder()

	// Removing the only item is a no-op.
	b.RemoveItem(0)
	assert.Equal(t, 1, b.ItemCount())

	b.AddItem()
	b.AddItem()
	require.Equal(t, 3, b.ItemCount())

	b.RemoveItem(1)
	assert.Equal(t, 2, b.ItemCount())
	b.RemoveItem(0)
	assert.Equal(t, 1, b.ItemCount())
	b.RemoveItem(0)
	assert.Equal(t, 1, b.ItemCount())

	// Out-of-range indexes are ignored.
	b.AddItem()
	b.RemoveItem(5)
	assert.Equal(t, 2, b.ItemCount())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Builder)
		wantErr error
	}{
		{"complete form", func(b *Builder) {}, nil},
		{"missing customer name", func(b *Builder) { b.CustomerName = " " }, ErrMissingName},
		{"missing company", func(b *Builder) { b.Company = "" }, ErrMissingCompany},
		{"missing email", func(b *Builder) { b.Email = "" }, ErrMissingEmail},
		{"no named items", func(b *Builder) { b.SetItem(0, Item{Quantity: "2"}) }, ErrMissingItems},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := filledBuilder()
			tt.mutate(b)
			err := b.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestBuildDefaultsAndCoercion(t *testing.T) {
	b := filledBuilder()
	b.AddItem()
	b.SetItem(1, Item{Name: "", Description: "spare", Quantity: "abc"})

	req := b.Build()

	// Fresh UUID each build.
	_, err := uuid.Parse(req.QuotationID)
	require.NoError(t, err)
	req2 := b.Build()
	assert.NotEqual(t, req.QuotationID, req2.QuotationID)

	require.Len(t, req.Items, 2)
	assert.Equal(t, "IR100", req.Items[0].Name)
	assert.Equal(t, 2, req.Items[0].Quantity)

	// Nameless item gets the default name, bad quantity becomes 1.
	assert.Equal(t, model.DefaultItemName, req.Items[1].Name)
	assert.Equal(t, 1, req.Items[1].Quantity)
	assert.Equal(t, "spare", req.Items[1].Description)

	assert.Equal(t, "Ada Lovelace", req.BillTo.Name)
	assert.Equal(t, "Analytical Engines Ltd", req.BillTo.CompanyName)
}

func TestReset(t *testing.T) {
	b := filledBuilder()
	b.AddItem()
	b.Reset()

	assert.Empty(t, b.CustomerName)
	assert.Empty(t, b.Email)
	require.Equal(t, 1, b.ItemCount())
	assert.Equal(t, Item{}, b.Items()[0])
}

func TestSavePDF(t *testing.T) {
	dir := t.TempDir()
	path, err := SavePDF(dir, "q-123", []byte("%PDF-1.4 data"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "quotation_q-123.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 data", string(data))
}

func TestSavePDFRejectsEmptyData(t *testing.T) {
	_, err := SavePDF(t.TempDir(), "q-1", nil)
	assert.Error(t, err)
}
