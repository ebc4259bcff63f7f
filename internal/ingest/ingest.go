// Package ingest reads retail transaction logs and applies the cleaning
// rules the analytics core relies on: rows without a customer, cancelled
// invoices and returns never reach the core.
package ingest

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/shopper-spectrum/internal/common"
	"github.com/Veraticus/shopper-spectrum/internal/model"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names accepted by Options.
const (
	EncodingLatin1 = "latin1"
	EncodingUTF8   = "utf8"
)

// Column names, matched case-insensitively.
const (
	colInvoice     = "invoiceno"
	colStockCode   = "stockcode"
	colDescription = "description"
	colQuantity    = "quantity"
	colDate        = "invoicedate"
	colPrice       = "unitprice"
	colCustomer    = "customerid"
	colCountry     = "country"
)

var requiredColumns = []string{colInvoice, colStockCode, colDescription, colQuantity, colDate, colPrice, colCustomer}

var dateLayouts = []string{
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/06 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	"2006-01-02",
}

// Options controls how a transaction log is decoded.
type Options struct {
	// Location is used for timestamps without a zone. Defaults to UTC.
	Location *time.Location
	// Encoding is EncodingLatin1 (default) or EncodingUTF8.
	Encoding string
}

// Stats counts what happened to each data row.
type Stats struct {
	Rows            int `json:"rows"`
	Kept            int `json:"kept"`
	MissingCustomer int `json:"missing_customer"`
	Cancelled       int `json:"cancelled"`
	Returns         int `json:"returns"`
	InvalidPrice    int `json:"invalid_price"`
}

// Dropped returns the number of rows filtered out.
func (s Stats) Dropped() int {
	return s.Rows - s.Kept
}

// ReadFile opens path and reads it with Read.
func ReadFile(ctx context.Context, path string, opts Options) ([]model.Transaction, Stats, error) {
	f, err := os.Open(path) // #nosec G304 -- path is provided by the operator
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%w: %w", common.ErrDataLoad, err)
	}
	defer func() { _ = f.Close() }()

	return Read(ctx, f, opts)
}

// Read parses a transaction log with a header row.
func Read(ctx context.Context, r io.Reader, opts Options) ([]model.Transaction, Stats, error) {
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	decoded, err := decode(r, opts.Encoding)
	if err != nil {
		return nil, Stats{}, err
	}

	reader := csv.NewReader(bufio.NewReader(decoded))
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, Stats{}, fmt.Errorf("%w: empty file", common.ErrDataLoad)
		}
		return nil, Stats{}, fmt.Errorf("%w: failed to read header: %w", common.ErrDataLoad, err)
	}
	columns, err := indexColumns(header)
	if err != nil {
		return nil, Stats{}, err
	}

	var (
		stats        Stats
		transactions []model.Transaction
	)

	for line := 2; ; line++ {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, stats, fmt.Errorf("%w: line %d: %w", common.ErrDataLoad, line, readErr)
		}

		if stats.Rows%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
		}
		stats.Rows++

		txn, parseErr := parseRecord(record, columns, opts.Location)
		if parseErr != nil {
			return nil, stats, fmt.Errorf("%w: line %d: %w", common.ErrDataLoad, line, parseErr)
		}

		switch {
		case txn.CustomerID == "":
			stats.MissingCustomer++
		case txn.IsCancellation():
			stats.Cancelled++
		case txn.Quantity <= 0:
			stats.Returns++
		case txn.UnitPrice.IsNegative():
			stats.InvalidPrice++
		default:
			transactions = append(transactions, txn)
			stats.Kept++
		}
	}

	model.AssignHashes(transactions)
	return transactions, stats, nil
}

func decode(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", EncodingLatin1, "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder().Reader(r), nil
	case EncodingUTF8, "utf-8":
		return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())), nil
	default:
		return nil, fmt.Errorf("%w: unsupported encoding %q", common.ErrConfiguration, encoding)
	}
}

func indexColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		columns[key] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns: %s", common.ErrDataLoad, strings.Join(missing, ", "))
	}
	return columns, nil
}

func parseRecord(record []string, columns map[string]int, loc *time.Location) (model.Transaction, error) {
	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	txn := model.Transaction{
		InvoiceNo:   field(colInvoice),
		StockCode:   field(colStockCode),
		Description: field(colDescription),
		CustomerID:  normalizeCustomerID(field(colCustomer)),
		Country:     field(colCountry),
	}

	// Rows without a customer are dropped before their other fields matter.
	if txn.CustomerID == "" {
		return txn, nil
	}

	if txn.InvoiceNo == "" || txn.StockCode == "" {
		return txn, fmt.Errorf("missing invoice or stock code")
	}

	qty, err := strconv.Atoi(field(colQuantity))
	if err != nil {
		return txn, fmt.Errorf("invalid quantity %q: %w", field(colQuantity), err)
	}
	txn.Quantity = qty

	price, err := decimal.NewFromString(field(colPrice))
	if err != nil {
		return txn, fmt.Errorf("invalid unit price %q: %w", field(colPrice), err)
	}
	txn.UnitPrice = price

	at, err := ParseTimestamp(field(colDate), loc)
	if err != nil {
		return txn, err
	}
	txn.InvoiceDate = at

	return txn, nil
}

// normalizeCustomerID strips the ".0" suffix spreadsheet exports add to
// numeric customer IDs.
func normalizeCustomerID(id string) string {
	if whole, ok := strings.CutSuffix(id, ".0"); ok {
		if _, err := strconv.Atoi(whole); err == nil {
			return whole
		}
	}
	if strings.EqualFold(id, "nan") {
		return ""
	}
	return id
}

// ParseTimestamp parses an invoice timestamp in any supported layout.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid invoice date %q", value)
}
