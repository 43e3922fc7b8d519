// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/morganforge/sensa/internal/model"
)

func testRequest(id string) model.QuoteRequest {
	return model.QuoteRequest{
		QuotationID: id,
		BillTo:      model.BillTo{Name: "Ada", CompanyName: "AE Ltd", Email: "a@b.com"},
		Items:       []model.QuoteItem{{Name: "IR100", Quantity: 1}},
	}
}

func TestRecordAndGet(t *testing.T) {
	store, err := NewQuoteStoreAt(t.TempDir())
	if err != nil {
		t.Fatalf("NewQuoteStoreAt() error = %v", err)
	}

	if err := store.Record(testRequest("q-1"), "/tmp/quotation_q-1.pdf"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	rec, err := store.Get("q-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if rec.CustomerName != "Ada" {
		t.Errorf("CustomerName = %q, want Ada", rec.CustomerName)
	}
	if rec.ItemCount != 1 {
		t.Errorf("ItemCount = %d, want 1", rec.ItemCount)
	}
	if rec.PDFPath != "/tmp/quotation_q-1.pdf" {
		t.Errorf("PDFPath = %q", rec.PDFPath)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestGetMissing(t *testing.T) {
	store, _ := NewQuoteStoreAt(t.TempDir())

	_, err := store.Get("nope")
	if !errors.Is(err, ErrQuoteNotFound) {
		t.Errorf("Get() error = %v, want ErrQuoteNotFound", err)
	}
}

func TestListMostRecentFirst(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewQuoteStoreAt(dir)

	// Write records with explicit timestamps to avoid same-instant ties.
	for i, id := range []string{"q-old", "q-mid", "q-new"} {
		rec := QuoteRecord{
			QuotationID: id,
			CreatedAt:   time.Date(2025, 1, 1+i, 0, 0, 0, 0, time.UTC),
		}
		data, _ := jsonMarshal(t, rec)
		if err := os.WriteFile(filepath.Join(dir, id+".json"), data, 0600); err != nil {
			t.Fatal(err)
		}
	}

	records, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("List() len = %d, want 3", len(records))
	}
	if records[0].QuotationID != "q-new" || records[2].QuotationID != "q-old" {
		t.Errorf("List() order = %s, %s, %s", records[0].QuotationID, records[1].QuotationID, records[2].QuotationID)
	}
}

func TestListSkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewQuoteStoreAt(dir)

	store.Record(testRequest("q-ok"), "")
	os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0600)
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("ignored"), 0600)

	records, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 1 {
		t.Errorf("List() len = %d, want 1", len(records))
	}
}

func TestDelete(t *testing.T) {
	store, _ := NewQuoteStoreAt(t.TempDir())
	store.Record(testRequest("q-1"), "")

	if err := store.Delete("q-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get("q-1"); !errors.Is(err, ErrQuoteNotFound) {
		t.Error("record still present after delete")
	}
	if err := store.Delete("q-1"); !errors.Is(err, ErrQuoteNotFound) {
		t.Errorf("second Delete() error = %v, want ErrQuoteNotFound", err)
	}
}

func TestEnforceLimit(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewQuoteStoreAt(dir)

	for i := 0; i < MaxQuoteRecords+5; i++ {
		rec := QuoteRecord{
			QuotationID: fmt.Sprintf("q-%04d", i),
			CreatedAt:   time.Date(2025, 1, 1, 0, 0, i, 0, time.UTC),
		}
		data, _ := jsonMarshal(t, rec)
		os.WriteFile(filepath.Join(dir, rec.QuotationID+".json"), data, 0600)
	}

	// A new record triggers pruning back to the cap.
	if err := store.Record(testRequest("q-last"), ""); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	records, _ := store.List()
	if len(records) != MaxQuoteRecords {
		t.Errorf("List() len = %d, want %d", len(records), MaxQuoteRecords)
	}
	// The newest record survives; the oldest were pruned.
	if records[0].QuotationID != "q-last" {
		t.Errorf("newest record = %q, want q-last", records[0].QuotationID)
	}
	if _, err := store.Get("q-0000"); !errors.Is(err, ErrQuoteNotFound) {
		t.Error("oldest record not pruned")
	}
}

func jsonMarshal(t *testing.T, rec QuoteRecord) ([]byte, error) {
	t.Helper()
	return json.MarshalIndent(rec, "", "  ")
}
