// Package model defines the core domain models used throughout the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one invoice line item from the retail transaction log.
type Transaction struct {
	InvoiceDate time.Time
	UnitPrice   decimal.Decimal
	InvoiceNo   string
	StockCode   string // Item identifier
	Description string // Human-readable item label
	CustomerID  string
	Country     string
	Hash        string
	Quantity    int
}

// IsCancellation reports whether the line belongs to a cancelled invoice.
// Cancelled invoices carry a "C" in their invoice number.
func (t *Transaction) IsCancellation() bool {
	return strings.Contains(t.InvoiceNo, "C")
}

// LineTotal returns quantity x unit price.
func (t *Transaction) LineTotal() decimal.Decimal {
	return t.UnitPrice.Mul(decimal.NewFromInt(int64(t.Quantity)))
}

// GenerateHash creates the storage key for the first occurrence of this line.
func (t *Transaction) GenerateHash() string {
	return t.occurrenceHash(0)
}

// occurrenceHash keys the n-th identical copy of a line within one batch.
// Identical lines are real repeat purchases, so each copy gets its own key
// while re-importing the same batch yields the same keys.
func (t *Transaction) occurrenceHash(n int) string {
	data := fmt.Sprintf("%s:%s:%s:%d:%s:%s",
		t.InvoiceNo,
		t.StockCode,
		t.CustomerID,
		t.Quantity,
		t.UnitPrice.String(),
		t.InvoiceDate.UTC().Format(time.RFC3339))
	if n > 0 {
		data = fmt.Sprintf("%s#%d", data, n)
	}
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// AssignHashes fills in missing hashes, numbering repeated identical lines
// in order of appearance.
func AssignHashes(transactions []Transaction) {
	seen := make(map[string]int)
	for i := range transactions {
		t := &transactions[i]
		if t.Hash != "" {
			continue
		}
		base := t.GenerateHash()
		t.Hash = t.occurrenceHash(seen[base])
		seen[base]++
	}
}
