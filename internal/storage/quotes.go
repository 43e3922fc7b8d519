// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage keeps local records of generated quotations. Each record
// is one JSON file under ~/.sensa/quotes, holding metadata and the path of
// the saved PDF. This is bookkeeping, not a persistence engine; the
// documents themselves live wherever the user saved them.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/morganforge/sensa/internal/config"
	"github.com/morganforge/sensa/internal/model"
	"github.com/morganforge/sensa/internal/util"
)

// MaxQuoteRecords bounds the history; the oldest records are dropped first.
const MaxQuoteRecords = 200

// ErrQuoteNotFound is returned when a quotation record does not exist.
var ErrQuoteNotFound = errors.New("quotation record not found")

// QuoteRecord is the stored metadata for one generated quotation.
type QuoteRecord struct {
	QuotationID  string    `json:"quotation_id"`
	CustomerName string    `json:"customer_name"`
	Company      string    `json:"company,omitempty"`
	ItemCount    int       `json:"item_count"`
	PDFPath      string    `json:"pdf_path"`
	CreatedAt    time.Time `json:"created_at"`
}

// QuoteStore reads and writes quotation records in a directory.
type QuoteStore struct {
	dir string
}

// NewQuoteStore opens the default store under the config directory.
func NewQuoteStore() (*QuoteStore, error) {
	dir, err := config.QuotesDir()
	if err != nil {
		return nil, err
	}
	return NewQuoteStoreAt(dir)
}

// NewQuoteStoreAt opens a store rooted at dir, creating it if needed.
func NewQuoteStoreAt(dir string) (*QuoteStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create quotes directory: %w", err)
	}
	return &QuoteStore{dir: dir}, nil
}

// Record writes the metadata for a generated quotation and prunes old
// records past the cap.
func (s *QuoteStore) Record(req model.QuoteRequest, pdfPath string) error {
	rec := QuoteRecord{
		QuotationID:  req.QuotationID,
		CustomerName: req.BillTo.Name,
		Company:      req.BillTo.CompanyName,
		ItemCount:    len(req.Items),
		PDFPath:      pdfPath,
		CreatedAt:    time.Now().UTC(),
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode quote record: %w", err)
	}
	if err := util.AtomicWriteFile(s.path(rec.QuotationID), data, 0600); err != nil {
		return err
	}
	return s.enforceLimit()
}

// Get loads one record by quotation id.
func (s *QuoteStore) Get(quotationID string) (QuoteRecord, error) {
	data, err := os.ReadFile(s.path(quotationID))
	if err != nil {
		if os.IsNotExist(err) {
			return QuoteRecord{}, fmt.Errorf("%w: %s", ErrQuoteNotFound, quotationID)
		}
		return QuoteRecord{}, fmt.Errorf("failed to read quote record: %w", err)
	}
	var rec QuoteRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return QuoteRecord{}, fmt.Errorf("failed to parse quote record: %w", err)
	}
	return rec, nil
}

// List returns all records, most recent first. Unreadable files are
// skipped.
func (s *QuoteStore) List() ([]QuoteRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read quotes directory: %w", err)
	}

	records := make([]QuoteRecord, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		var rec QuoteRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// Delete removes one record. The saved PDF is left untouched.
func (s *QuoteStore) Delete(quotationID string) error {
	if err := os.Remove(s.path(quotationID)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrQuoteNotFound, quotationID)
		}
		return fmt.Errorf("failed to delete quote record: %w", err)
	}
	return nil
}

func (s *QuoteStore) path(quotationID string) string {
	return filepath.Join(s.dir, quotationID+".json")
}

func (s *QuoteStore) enforceLimit() error {
	records, err := s.List()
	if err != nil {
		return err
	}
	for _, rec := range records[min(len(records), MaxQuoteRecords):] {
		if err := s.Delete(rec.QuotationID); err != nil {
			return err
		}
	}
	return nil
}
