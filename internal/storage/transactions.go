package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Veraticus/shopper-spectrum/internal/model"
	"github.com/shopspring/decimal"
)

// SaveTransactions stores transactions, skipping lines already present.
// Repeated identical lines within one batch are distinct purchases and are
// all stored; saving the same batch again inserts nothing.
// It returns the number of newly inserted rows.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateTransactions(transactions); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted, err := s.saveTransactionsTx(ctx, tx, transactions)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transactions: %w", err)
	}
	return inserted, nil
}

func (s *SQLiteStorage) saveTransactionsTx(ctx context.Context, tx *sql.Tx, transactions []model.Transaction) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			hash, invoice_no, stock_code, description, quantity,
			unit_price, invoice_date, customer_id, country
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	model.AssignHashes(transactions)

	inserted := 0
	for i := range transactions {
		txn := &transactions[i]

		result, err := stmt.ExecContext(ctx,
			txn.Hash,
			txn.InvoiceNo,
			txn.StockCode,
			txn.Description,
			txn.Quantity,
			txn.UnitPrice.String(),
			txn.InvoiceDate.UTC(),
			txn.CustomerID,
			txn.Country,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to save transaction %s/%s: %w", txn.InvoiceNo, txn.StockCode, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read affected rows: %w", err)
		}
		inserted += int(affected)
	}

	return inserted, nil
}

// LoadTransactions returns every stored transaction ordered by invoice date.
func (s *SQLiteStorage) LoadTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT hash, invoice_no, stock_code, COALESCE(description, ''), quantity,
		       unit_price, invoice_date, customer_id, COALESCE(country, '')
		FROM transactions
		ORDER BY invoice_date, invoice_no, stock_code
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return transactions, nil
}

// CountTransactions returns the number of stored transactions.
func (s *SQLiteStorage) CountTransactions(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

func scanTransaction(rows *sql.Rows) (model.Transaction, error) {
	var (
		txn   model.Transaction
		price string
		date  time.Time
	)
	err := rows.Scan(
		&txn.Hash,
		&txn.InvoiceNo,
		&txn.StockCode,
		&txn.Description,
		&txn.Quantity,
		&price,
		&date,
		&txn.CustomerID,
		&txn.Country,
	)
	if err != nil {
		return txn, fmt.Errorf("failed to scan transaction: %w", err)
	}

	txn.UnitPrice, err = decimal.NewFromString(price)
	if err != nil {
		return txn, fmt.Errorf("invalid unit price %q for %s: %w", price, txn.Hash, err)
	}
	txn.InvoiceDate = date.UTC()
	return txn, nil
}
