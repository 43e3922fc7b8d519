// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// quote_cmd.go - "sensa quote" subcommands over the local quotation records.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/morganforge/sensa/internal/storage"
)

// HandleQuote dispatches "sensa quote list" and "sensa quote show <id>".
func HandleQuote(args Args) int {
	store, err := storage.NewQuoteStore()
	if err != nil {
		return Fail(err)
	}

	parser := NewArgParser(args.Raw)
	switch parser.Subcommand() {
	case "", "list", "ls":
		return quoteList(store, args)

	case "show":
		id := parser.Positional(1)
		if id == "" {
			fmt.Fprintln(os.Stderr, "Usage: sensa quote show <quotation-id>")
			return 1
		}
		return quoteShow(store, id, args)

	default:
		fmt.Fprintf(os.Stderr, "Unknown quote subcommand: %s\n", parser.Subcommand())
		fmt.Fprintln(os.Stderr, "Usage: sensa quote [list|show <id>]")
		return 1
	}
}

func quoteList(store *storage.QuoteStore, args Args) int {
	records, err := store.List()
	if err != nil {
		return Fail(err)
	}

	if args.JSON {
		out, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return Fail(err)
		}
		fmt.Println(string(out))
		return 0
	}

	if len(records) == 0 {
		fmt.Println(infoStyle.Render("No quotations yet. Generate one from the TUI (Ctrl+Q)."))
		return 0
	}

	fmt.Println(labelStyle.Render(fmt.Sprintf("%-38s %-20s %-6s %s", "ID", "CUSTOMER", "ITEMS", "CREATED")))
	for _, r := range records {
		fmt.Printf("%-38s %-20s %-6d %s\n",
			r.QuotationID, r.CustomerName, r.ItemCount, r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return 0
}

func quoteShow(store *storage.QuoteStore, id string, args Args) int {
	record, err := store.Get(id)
	if err != nil {
		if errors.Is(err, storage.ErrQuoteNotFound) {
			fmt.Fprintln(os.Stderr, "No quotation record with id "+id)
			return 1
		}
		return Fail(err)
	}

	if args.JSON {
		out, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return Fail(err)
		}
		fmt.Println(string(out))
		return 0
	}

	fmt.Println(labelStyle.Render("Quotation ") + record.QuotationID)
	fmt.Printf("  Customer:  %s\n", record.CustomerName)
	if record.Company != "" {
		fmt.Printf("  Company:   %s\n", record.Company)
	}
	fmt.Printf("  Items:     %d\n", record.ItemCount)
	fmt.Printf("  PDF:       %s\n", record.PDFPath)
	fmt.Printf("  Created:   %s\n", record.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	return 0
}
