// Package affinity builds an item-item cosine similarity index from
// customer purchase quantities and answers top-N neighbor queries.
package affinity

import (
	"sort"

	"github.com/Veraticus/shopper-spectrum/internal/model"
)

// Interactions accumulates total quantity per (customer, item) pair.
// Absent pairs are implicitly zero.
type Interactions struct {
	quantities map[string]map[string]float64
	items      map[string]struct{}
}

// NewInteractions creates an empty accumulator.
func NewInteractions() *Interactions {
	return &Interactions{
		quantities: make(map[string]map[string]float64),
		items:      make(map[string]struct{}),
	}
}

// FromTransactions aggregates purchase quantities from transactions.
func FromTransactions(transactions []model.Transaction) *Interactions {
	in := NewInteractions()
	for i := range transactions {
		txn := &transactions[i]
		in.Add(txn.CustomerID, txn.StockCode, float64(txn.Quantity))
	}
	return in
}

// Add records qty units of item bought by customer.
func (in *Interactions) Add(customer, item string, qty float64) {
	in.items[item] = struct{}{}

	row, ok := in.quantities[customer]
	if !ok {
		row = make(map[string]float64)
		in.quantities[customer] = row
	}
	row[item] += qty
}

// Register makes item part of the matrix even if nobody bought it.
func (in *Interactions) Register(item string) {
	in.items[item] = struct{}{}
}

// Quantity returns the accumulated quantity for a pair.
func (in *Interactions) Quantity(customer, item string) float64 {
	return in.quantities[customer][item]
}

// Customers returns the number of customers with at least one interaction.
func (in *Interactions) Customers() int {
	return len(in.quantities)
}

func (in *Interactions) customerIDs() []string {
	ids := make([]string, 0, len(in.quantities))
	for id := range in.quantities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Items returns all registered item IDs in ascending order.
func (in *Interactions) Items() []string {
	items := make([]string, 0, len(in.items))
	for id := range in.items {
		items = append(items, id)
	}
	sort.Strings(items)
	return items
}
