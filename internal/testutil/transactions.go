package testutil

import (
	"fmt"
	"time"

	"github.com/Veraticus/shopper-spectrum/internal/model"
	"github.com/shopspring/decimal"
)

// TransactionBuilder assembles invoice lines relative to a fixed end date.
//
// Example:
//
//	txns := testutil.NewTransactionBuilder(end).
//		Invoice("c1", 0, testutil.Line("A", "MUG", 2, "2.50")).
//		Build()
type TransactionBuilder struct {
	end      time.Time
	lines    []model.Transaction
	invoices int
}

// LineItem is one product on an invoice.
type LineItem struct {
	StockCode   string
	Description string
	Price       string
	Quantity    int
}

// Line creates a LineItem.
func Line(stockCode, description string, quantity int, price string) LineItem {
	return LineItem{StockCode: stockCode, Description: description, Quantity: quantity, Price: price}
}

// NewTransactionBuilder creates a builder whose most recent purchase date is end.
func NewTransactionBuilder(end time.Time) *TransactionBuilder {
	return &TransactionBuilder{end: end}
}

// Invoice adds one invoice for customer placed daysAgo days before the end date.
func (b *TransactionBuilder) Invoice(customer string, daysAgo int, items ...LineItem) *TransactionBuilder {
	b.invoices++
	invoice := fmt.Sprintf("%06d", 536000+b.invoices)
	at := b.end.AddDate(0, 0, -daysAgo)

	for _, item := range items {
		b.lines = append(b.lines, model.Transaction{
			InvoiceNo:   invoice,
			StockCode:   item.StockCode,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   decimal.RequireFromString(item.Price),
			InvoiceDate: at,
			CustomerID:  customer,
			Country:     "United Kingdom",
		})
	}
	return b
}

// Repeat adds count invoices for customer, every days apart, starting at the end date.
func (b *TransactionBuilder) Repeat(customer string, count, every int, items ...LineItem) *TransactionBuilder {
	for i := 0; i < count; i++ {
		b.Invoice(customer, i*every, items...)
	}
	return b
}

// Build returns a copy of the assembled lines.
func (b *TransactionBuilder) Build() []model.Transaction {
	out := make([]model.Transaction, len(b.lines))
	copy(out, b.lines)
	return out
}

// RetailFixture returns a small log with two loyal customers who always
// buy MUG (A) and TEAPOT (B) together, and two lapsed customers who bought
// CANDLE (C) once.
func RetailFixture(end time.Time) []model.Transaction {
	return NewTransactionBuilder(end).
		Repeat("c1", 8, 3, Line("A", "MUG", 2, "10"), Line("B", "TEAPOT", 1, "10")).
		Repeat("c2", 8, 3, Line("A", "MUG", 2, "10"), Line("B", "TEAPOT", 1, "10")).
		Invoice("c3", 200, Line("C", "CANDLE", 1, "10")).
		Invoice("c4", 250, Line("C", "CANDLE", 3, "10")).
		Build()
}
