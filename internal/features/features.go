// Package features derives per-customer RFM feature vectors from transactions.
package features

import (
	"fmt"
	"sort"
	"time"

	"github.com/Veraticus/shopper-spectrum/internal/common"
	"github.com/Veraticus/shopper-spectrum/internal/model"
	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

// customerAggregate accumulates one customer's features in a single pass.
type customerAggregate struct {
	latest   time.Time
	invoices map[string]struct{}
	monetary decimal.Decimal
}

// ReferenceInstant returns the latest invoice timestamp plus one day.
func ReferenceInstant(transactions []model.Transaction) (time.Time, error) {
	if len(transactions) == 0 {
		return time.Time{}, common.ErrNoTransactions
	}

	latest := transactions[0].InvoiceDate
	for i := range transactions {
		if transactions[i].InvoiceDate.After(latest) {
			latest = transactions[i].InvoiceDate
		}
	}

	return latest.Add(day), nil
}

// Build computes one RFM vector per customer.
func Build(transactions []model.Transaction) (map[string]model.RFM, error) {
	reference, err := ReferenceInstant(transactions)
	if err != nil {
		return nil, err
	}

	aggregates := make(map[string]*customerAggregate)
	for i := range transactions {
		txn := &transactions[i]
		if txn.CustomerID == "" {
			return nil, fmt.Errorf("%w: transaction on invoice %s has no customer", common.ErrDataLoad, txn.InvoiceNo)
		}

		agg, ok := aggregates[txn.CustomerID]
		if !ok {
			agg = &customerAggregate{
				latest:   txn.InvoiceDate,
				invoices: make(map[string]struct{}),
			}
			aggregates[txn.CustomerID] = agg
		}

		if txn.InvoiceDate.After(agg.latest) {
			agg.latest = txn.InvoiceDate
		}
		agg.invoices[txn.InvoiceNo] = struct{}{}
		agg.monetary = agg.monetary.Add(txn.LineTotal())
	}

	result := make(map[string]model.RFM, len(aggregates))
	for customerID, agg := range aggregates {
		monetary, _ := agg.monetary.Float64()
		result[customerID] = model.RFM{
			CustomerID: customerID,
			Recency:    int(reference.Sub(agg.latest) / day),
			Frequency:  len(agg.invoices),
			Monetary:   monetary,
		}
	}

	return result, nil
}

// Sorted returns the vectors ordered by customer ID so downstream fits see a
// deterministic population order.
func Sorted(vectors map[string]model.RFM) []model.RFM {
	sorted := make([]model.RFM, 0, len(vectors))
	for _, v := range vectors {
		sorted = append(sorted, v)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CustomerID < sorted[j].CustomerID
	})
	return sorted
}
