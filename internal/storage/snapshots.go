package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/shopper-spectrum/internal/analytics"
	"github.com/Veraticus/shopper-spectrum/internal/common"
	"github.com/goccy/go-json"
)

// SaveSnapshot persists a fitted segmentation model.
func (s *SQLiteStorage) SaveSnapshot(ctx context.Context, snap analytics.Snapshot) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if snap.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidSnapshot)
	}
	if len(snap.Centers) == 0 {
		return fmt.Errorf("%w: no centers", ErrInvalidSnapshot)
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO model_snapshots (id, created_at, clusters, customers, payload)
		VALUES (?, ?, ?, ?, ?)
	`, snap.ID, snap.CreatedAt.UTC(), snap.Options.Clusters, snap.Customers, string(payload))
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recently created snapshot.
// It returns common.ErrNotFound when none has been saved.
func (s *SQLiteStorage) LatestSnapshot(ctx context.Context) (*analytics.Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM model_snapshots
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no model snapshot", common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap analytics.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}
