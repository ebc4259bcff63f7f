// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/shopper-spectrum/internal/analytics"
	"github.com/Veraticus/shopper-spectrum/internal/ingest"
	"github.com/Veraticus/shopper-spectrum/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) (int, error)
	LoadTransactions(ctx context.Context) ([]model.Transaction, error)
	CountTransactions(ctx context.Context) (int, error)

	// Model snapshots
	SaveSnapshot(ctx context.Context, snap analytics.Snapshot) error
	LatestSnapshot(ctx context.Context) (*analytics.Snapshot, error)

	// Import history
	RecordImport(ctx context.Context, source string, stats ingest.Stats, inserted int) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// ImportSummary reports the outcome of importing one transaction log.
type ImportSummary struct {
	Source   string
	Stats    ingest.Stats
	Inserted int
}

// Duplicates returns kept rows that were already stored.
func (s ImportSummary) Duplicates() int {
	return s.Stats.Kept - s.Inserted
}
