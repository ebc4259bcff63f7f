package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/shopper-spectrum/internal/ingest"
)

// ImportRecord is one entry of the import history.
type ImportRecord struct {
	ImportedAt time.Time
	Source     string
	ID         int64
	Rows       int
	Kept       int
	Inserted   int
}

// RecordImport appends an entry to the import history.
func (s *SQLiteStorage) RecordImport(ctx context.Context, source string, stats ingest.Stats, inserted int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(source, "source"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO imports (source, rows_read, rows_kept, rows_inserted)
		VALUES (?, ?, ?, ?)
	`, source, stats.Rows, stats.Kept, inserted)
	if err != nil {
		return fmt.Errorf("failed to record import: %w", err)
	}
	return nil
}

// ListImports returns the import history, newest first.
func (s *SQLiteStorage) ListImports(ctx context.Context) ([]ImportRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, rows_read, rows_kept, rows_inserted, imported_at
		FROM imports
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query imports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []ImportRecord
	for rows.Next() {
		var r ImportRecord
		if err := rows.Scan(&r.ID, &r.Source, &r.Rows, &r.Kept, &r.Inserted, &r.ImportedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating imports: %w", err)
	}
	return records, nil
}
