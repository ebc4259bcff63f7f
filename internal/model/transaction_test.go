package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func line(invoice string) Transaction {
	return Transaction{
		InvoiceNo:   invoice,
		StockCode:   "A",
		Description: "ITEM A",
		Quantity:    6,
		UnitPrice:   decimal.RequireFromString("2.55"),
		InvoiceDate: time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC),
		CustomerID:  "17850",
	}
}

func TestTransaction_IsCancellation(t *testing.T) {
	tests := []struct {
		invoice string
		want    bool
	}{
		{invoice: "536365", want: false},
		{invoice: "C536365", want: true},
		{invoice: "c536365", want: false},
		{invoice: "A563185", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.invoice, func(t *testing.T) {
			txn := line(tt.invoice)
			assert.Equal(t, tt.want, txn.IsCancellation())
		})
	}
}

func TestAssignHashes(t *testing.T) {
	txns := []Transaction{line("536365"), line("536365"), line("536366"), line("536365")}
	AssignHashes(txns)

	assert.Equal(t, txns[0].GenerateHash(), txns[0].Hash)
	assert.NotEqual(t, txns[0].Hash, txns[1].Hash)
	assert.NotEqual(t, txns[1].Hash, txns[3].Hash)
	assert.Equal(t, txns[2].GenerateHash(), txns[2].Hash)

	again := []Transaction{line("536365"), line("536365"), line("536366"), line("536365")}
	AssignHashes(again)
	for i := range txns {
		assert.Equal(t, txns[i].Hash, again[i].Hash)
	}
}

func TestAssignHashes_KeepsExisting(t *testing.T) {
	txns := []Transaction{line("536365")}
	txns[0].Hash = "fixed"
	AssignHashes(txns)
	assert.Equal(t, "fixed", txns[0].Hash)
}
