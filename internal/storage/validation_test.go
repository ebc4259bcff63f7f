package storage

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/shopper-spectrum/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateContext(t *testing.T) {
	assert.NoError(t, validateContext(context.Background()))
	//nolint:staticcheck // nil context is the case under test
	assert.ErrorIs(t, validateContext(nil), ErrNilContext)
}

func TestValidateTransaction(t *testing.T) {
	valid := func() model.Transaction {
		return model.Transaction{
			InvoiceNo:   "536365",
			StockCode:   "85123A",
			CustomerID:  "17850",
			Quantity:    6,
			UnitPrice:   decimal.RequireFromString("2.55"),
			InvoiceDate: time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC),
		}
	}

	tests := []struct {
		mutate  func(*model.Transaction)
		name    string
		wantErr bool
	}{
		{name: "valid", mutate: func(*model.Transaction) {}},
		{name: "missing invoice", mutate: func(t *model.Transaction) { t.InvoiceNo = "" }, wantErr: true},
		{name: "missing stock code", mutate: func(t *model.Transaction) { t.StockCode = "" }, wantErr: true},
		{name: "missing customer", mutate: func(t *model.Transaction) { t.CustomerID = "" }, wantErr: true},
		{name: "missing date", mutate: func(t *model.Transaction) { t.InvoiceDate = time.Time{} }, wantErr: true},
		{name: "negative price", mutate: func(t *model.Transaction) { t.UnitPrice = decimal.NewFromInt(-1) }, wantErr: true},
		{name: "zero price allowed", mutate: func(t *model.Transaction) { t.UnitPrice = decimal.Zero }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := valid()
			tt.mutate(&txn)
			err := validateTransaction(&txn)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransaction)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
