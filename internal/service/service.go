package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/shopper-spectrum/internal/analytics"
	"github.com/Veraticus/shopper-spectrum/internal/common"
	"github.com/Veraticus/shopper-spectrum/internal/ingest"
)

// Import reads a transaction log from r and stores the cleaned rows.
func Import(ctx context.Context, store Storage, source string, r io.Reader, opts ingest.Options) (ImportSummary, error) {
	summary := ImportSummary{Source: source}

	transactions, stats, err := ingest.Read(ctx, r, opts)
	summary.Stats = stats
	if err != nil {
		return summary, err
	}
	if len(transactions) == 0 {
		return summary, fmt.Errorf("%w: %s contains no usable rows", common.ErrNoTransactions, source)
	}

	inserted, err := store.SaveTransactions(ctx, transactions)
	if err != nil {
		return summary, fmt.Errorf("failed to store transactions: %w", err)
	}
	summary.Inserted = inserted

	if err := store.RecordImport(ctx, source, stats, inserted); err != nil {
		return summary, err
	}

	common.LogInfo("Imported transactions", common.Fields{
		"source":   source,
		"rows":     stats.Rows,
		"kept":     stats.Kept,
		"inserted": inserted,
		"dropped":  stats.Dropped(),
	})

	return summary, nil
}

// LoadCore builds the analytics core from stored transactions. When
// reuseSnapshot is set and a snapshot exists, the segmentation model is
// restored from it instead of refitted. A freshly fitted model is saved
// as a new snapshot when saveSnapshot is set.
func LoadCore(ctx context.Context, store Storage, opts analytics.Options, reuseSnapshot, saveSnapshot bool) (*analytics.Core, error) {
	transactions, err := store.LoadTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDataLoad, err)
	}
	if len(transactions) == 0 {
		return nil, common.NewUserError(
			"No transactions stored yet. Run 'spectrum import <file.csv>' first.", common.ErrNoTransactions)
	}

	if reuseSnapshot {
		snap, snapErr := store.LatestSnapshot(ctx)
		switch {
		case snapErr == nil:
			return analytics.Restore(ctx, transactions, *snap)
		case errors.Is(snapErr, common.ErrNotFound):
			slog.Debug("No snapshot stored, fitting a new model")
		default:
			return nil, snapErr
		}
	}

	core, err := analytics.Build(ctx, transactions, opts)
	if err != nil {
		return nil, err
	}

	if saveSnapshot {
		snap := core.Snapshot()
		if err := store.SaveSnapshot(ctx, snap); err != nil {
			return nil, err
		}
		common.LogDebug("Saved model snapshot", common.Fields{"snapshot": snap.ID})
	}
	return core, nil
}
