// Package catalog maps item identifiers to human-readable product labels.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Veraticus/shopper-spectrum/internal/common"
	"github.com/Veraticus/shopper-spectrum/internal/model"
)

// Entry pairs an item identifier with its display label.
type Entry struct {
	ItemID string `json:"item_id"`
	Label  string `json:"label"`
}

// Catalog is a bidirectional item ID <-> label mapping. Every label maps to
// exactly one item.
type Catalog struct {
	labels map[string]string // item ID -> label
	ids    map[string]string // label -> item ID
}

// Build deduplicates (item, label) pairs by item ID. The first non-empty
// description seen for an item becomes its label; items that never carry
// one are labelled with their ID. When two items share a description, the
// later item's label is suffixed with its ID, then numbered if that form is
// also taken.
func Build(transactions []model.Transaction) *Catalog {
	order := make([]string, 0)
	first := make(map[string]string)

	for i := range transactions {
		txn := &transactions[i]
		label, seen := first[txn.StockCode]
		if !seen {
			order = append(order, txn.StockCode)
		}
		if label == "" {
			first[txn.StockCode] = strings.TrimSpace(txn.Description)
		}
	}

	c := &Catalog{
		labels: make(map[string]string, len(order)),
		ids:    make(map[string]string, len(order)),
	}
	for _, id := range order {
		c.add(id, first[id])
	}
	return c
}

// FromEntries builds a catalog from explicit entries, applying the same
// label rules as Build.
func FromEntries(entries []Entry) *Catalog {
	c := &Catalog{
		labels: make(map[string]string, len(entries)),
		ids:    make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		if _, ok := c.labels[e.ItemID]; ok {
			continue
		}
		c.add(e.ItemID, strings.TrimSpace(e.Label))
	}
	return c
}

func (c *Catalog) add(id, label string) {
	if label == "" {
		label = id
	}
	candidate := label
	if _, taken := c.ids[candidate]; taken {
		candidate = fmt.Sprintf("%s (%s)", label, id)
	}
	// An earlier item may already own the suffixed form.
	for n := 2; ; n++ {
		if _, taken := c.ids[candidate]; !taken {
			break
		}
		candidate = fmt.Sprintf("%s (%s) #%d", label, id, n)
	}
	c.labels[id] = candidate
	c.ids[candidate] = id
}

// LabelOf returns the display label of an item.
func (c *Catalog) LabelOf(itemID string) (string, error) {
	label, ok := c.labels[itemID]
	if !ok {
		return "", fmt.Errorf("%w: %s", common.ErrUnknownItem, itemID)
	}
	return label, nil
}

// IDOf returns the item identifier behind a display label.
func (c *Catalog) IDOf(label string) (string, error) {
	id, ok := c.ids[label]
	if !ok {
		return "", fmt.Errorf("%w: %q", common.ErrUnknownLabel, label)
	}
	return id, nil
}

// Labels returns all display labels in ascending order.
func (c *Catalog) Labels() []string {
	labels := make([]string, 0, len(c.ids))
	for label := range c.ids {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Entries returns all entries ordered by label.
func (c *Catalog) Entries() []Entry {
	labels := c.Labels()
	entries := make([]Entry, len(labels))
	for i, label := range labels {
		entries[i] = Entry{ItemID: c.ids[label], Label: label}
	}
	return entries
}

// Search returns labels containing query, case-insensitively, in ascending order.
func (c *Catalog) Search(query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return c.Labels()
	}

	var matches []string
	for _, label := range c.Labels() {
		if strings.Contains(strings.ToLower(label), query) {
			matches = append(matches, label)
		}
	}
	return matches
}

// Len returns the number of cataloged items.
func (c *Catalog) Len() int {
	return len(c.labels)
}
