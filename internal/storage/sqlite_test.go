package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/shopper-spectrum/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestStorage opens a migrated in-memory database.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func createTestTransactions(count int) []model.Transaction {
	base := time.Date(2011, 12, 1, 9, 30, 0, 0, time.UTC)
	txns := make([]model.Transaction, count)
	for i := range txns {
		txns[i] = model.Transaction{
			InvoiceNo:   "5360" + string(rune('0'+i%10)),
			StockCode:   "ITEM" + string(rune('A'+i%26)),
			Description: "PRODUCT " + string(rune('A'+i%26)),
			Quantity:    i + 1,
			UnitPrice:   decimal.RequireFromString("2.55"),
			InvoiceDate: base.Add(time.Duration(i) * time.Hour),
			CustomerID:  "1785" + string(rune('0'+i%3)),
			Country:     "United Kingdom",
		}
	}
	return txns
}

func TestNewSQLiteStorage(t *testing.T) {
	t.Run("file database", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "nested", "spectrum.db")

		store, err := NewSQLiteStorage(dbPath)
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		assert.Equal(t, dbPath, store.Path())
		require.NoError(t, store.Migrate(context.Background()))
		assert.FileExists(t, dbPath)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := NewSQLiteStorage("  ")
		require.ErrorIs(t, err, ErrEmptyString)
	})
}

func TestMigrate(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	// Running again is a no-op.
	require.NoError(t, store.Migrate(ctx))

	for _, table := range []string{"transactions", "model_snapshots", "imports"} {
		var count int
		err := store.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s", table)
	}

	//nolint:staticcheck // nil context is the case under test
	assert.ErrorIs(t, store.Migrate(nil), ErrNilContext)
}
