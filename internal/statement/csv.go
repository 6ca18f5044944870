// Package statement reads and writes the flat transaction file shared by the
// generator and the categorizer.
package statement

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dvloznov/finanzas-demo/internal/domain"
	"github.com/shopspring/decimal"
)

// Column names of the transaction file.
const (
	ColumnDate        = "Fecha"
	ColumnDescription = "Concepto_Bancario"
	ColumnAmount      = "Importe"
)

var header = []string{ColumnDate, ColumnDescription, ColumnAmount}

// Accepted date layouts, tried in order.
var dateLayouts = []string{domain.DateLayout, "2006-01-02 15:04:05", time.RFC3339}

// Write serializes txs with a header row. Amounts always carry two decimals.
func Write(w io.Writer, txs []domain.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("Write: header: %w", err)
	}
	for i, tx := range txs {
		rec := []string{tx.DateString(), tx.Description, tx.Amount.StringFixed(2)}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("Write: row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("Write: flush: %w", err)
	}
	return nil
}

// WriteFile writes txs to path, creating parent directories as needed.
func WriteFile(path string, txs []domain.Transaction) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("WriteFile: create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("WriteFile: create %q: %w", path, err)
	}
	if err := Write(f, txs); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("WriteFile: close %q: %w", path, err)
	}
	return nil
}

// Read parses a transaction file. Columns are located by header name, so
// extra columns and any column order are accepted.
func Read(r io.Reader) ([]domain.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("Read: empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("Read: header: %w", err)
	}

	idx, err := columnIndexes(head)
	if err != nil {
		return nil, err
	}

	var txs []domain.Transaction
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("Read: line %d: %w", line, err)
		}
		if isBlank(rec) {
			continue
		}
		tx, err := parseRecord(rec, idx)
		if err != nil {
			return nil, fmt.Errorf("Read: line %d: %w", line, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// ReadBytes is Read over an in-memory file, as fetched from object storage.
func ReadBytes(data []byte) ([]domain.Transaction, error) {
	return Read(bytes.NewReader(data))
}

// ReadFile opens path and parses it. A missing file yields an error
// satisfying errors.Is(err, fs.ErrNotExist).
func ReadFile(path string) ([]domain.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ReadFile: %w", err)
	}
	defer f.Close()
	return Read(f)
}

type columns struct{ date, desc, amount int }

func columnIndexes(head []string) (columns, error) {
	idx := columns{-1, -1, -1}
	for i, name := range head {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))
		switch name {
		case ColumnDate:
			idx.date = i
		case ColumnDescription:
			idx.desc = i
		case ColumnAmount:
			idx.amount = i
		}
	}
	var missing []string
	if idx.date < 0 {
		missing = append(missing, ColumnDate)
	}
	if idx.desc < 0 {
		missing = append(missing, ColumnDescription)
	}
	if idx.amount < 0 {
		missing = append(missing, ColumnAmount)
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("Read: missing columns %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func parseRecord(rec []string, idx columns) (domain.Transaction, error) {
	need := max(idx.date, idx.desc, idx.amount)
	if len(rec) <= need {
		return domain.Transaction{}, fmt.Errorf("expected at least %d fields, got %d", need+1, len(rec))
	}

	date, err := parseDate(rec[idx.date])
	if err != nil {
		return domain.Transaction{}, err
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(rec[idx.amount]))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("invalid %s %q: %w", ColumnAmount, rec[idx.amount], err)
	}

	return domain.Transaction{
		Date:        date,
		Description: rec[idx.desc],
		Amount:      amount,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid %s %q", ColumnDate, s)
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
