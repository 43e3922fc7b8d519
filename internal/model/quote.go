// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strconv"
	"strings"
)

// DefaultItemName is substituted for quote items submitted without a name.
const DefaultItemName = "Product Item"

// BillTo is the customer block of a quotation request.
type BillTo struct {
	Name        string `json:"name"`
	CompanyName string `json:"company_name,omitempty"`
	Address     string `json:"address,omitempty"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
}

// QuoteItem is one line of a quotation.
type QuoteItem struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity"`
	SKU         string `json:"sku,omitempty"`
}

// QuoteRequest is the payload accepted by the quotations endpoint. The
// response body is the generated PDF.
type QuoteRequest struct {
	QuotationID string      `json:"quotation_id"`
	BillTo      BillTo      `json:"bill_to"`
	Items       []QuoteItem `json:"items"`
}

// CoerceQuantity parses user-entered quantity text. Anything that is not a
// positive integer comes back as 1.
func CoerceQuantity(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
