// Package sqlite persists categorized transactions in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/dvloznov/finanzas-demo/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite"
)

// insertChunkRows bounds the rows per INSERT statement so the bound
// parameter count stays well under SQLite's limit.
const insertChunkRows = 200

var transactionColumns = []string{"fecha", "concepto", "importe", "categoria"}

// Store is a SQLite-backed transaction table.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open opens (creating if needed) the database file at path.
func Open(ctx context.Context, path string, log zerolog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("Open: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("Open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("Open: ping %s: %w", path, err)
	}
	return &Store{db: db, log: log}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("EnsureSchema: %w", err)
	}
	s.log.Info().Msg("tables created or already present")
	return nil
}

// CountTransactions returns the number of stored rows.
func (s *Store) CountTransactions(ctx context.Context) (int, error) {
	query, args, err := squirrel.Select("COUNT(*)").From(TransactionsTable).ToSql()
	if err != nil {
		return 0, fmt.Errorf("CountTransactions: build query: %w", err)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountTransactions: %w", err)
	}
	return n, nil
}

// InsertTransactions appends txs in one SQL transaction.
func (s *Store) InsertTransactions(ctx context.Context, txs []domain.Transaction) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return insertRows(ctx, tx, txs)
	})
}

// ReplaceTransactions deletes every stored row and inserts txs. Both happen
// in one SQL transaction, so a failure keeps the previous rows.
func (s *Store) ReplaceTransactions(ctx context.Context, txs []domain.Transaction) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		query, args, err := squirrel.Delete(TransactionsTable).ToSql()
		if err != nil {
			return fmt.Errorf("ReplaceTransactions: build delete: %w", err)
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("ReplaceTransactions: delete: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			s.log.Info().Int64("rows", n).Msg("table emptied")
		}
		return insertRows(ctx, tx, txs)
	})
}

// ListTransactions returns stored rows in insertion order.
func (s *Store) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	query, args, err := squirrel.Select(transactionColumns...).
		From(TransactionsTable).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ListTransactions: build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListTransactions: %w", err)
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		var (
			fecha, concepto, categoria string
			importe                    float64
		)
		if err := rows.Scan(&fecha, &concepto, &importe, &categoria); err != nil {
			return nil, fmt.Errorf("ListTransactions: scan: %w", err)
		}
		date, err := time.Parse(domain.DateLayout, fecha)
		if err != nil {
			return nil, fmt.Errorf("ListTransactions: parse fecha %q: %w", fecha, err)
		}
		out = append(out, domain.Transaction{
			Date:        date,
			Description: concepto,
			Amount:      decimal.NewFromFloat(importe).Round(2),
			Category:    domain.Category(categoria),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListTransactions: %w", err)
	}
	return out, nil
}

// CategoryDistribution counts rows per category, largest first. Equal
// counts are ordered by category name.
func (s *Store) CategoryDistribution(ctx context.Context) ([]domain.CategoryCount, error) {
	query, args, err := squirrel.Select("categoria", "COUNT(*) AS n").
		From(TransactionsTable).
		GroupBy("categoria").
		OrderBy("n DESC", "categoria ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("CategoryDistribution: build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("CategoryDistribution: %w", err)
	}
	defer rows.Close()

	var out []domain.CategoryCount
	for rows.Next() {
		var c domain.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("CategoryDistribution: scan: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("CategoryDistribution: %w", err)
	}
	return out, nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertRows(ctx context.Context, tx *sql.Tx, txs []domain.Transaction) error {
	for start := 0; start < len(txs); start += insertChunkRows {
		end := min(start+insertChunkRows, len(txs))

		builder := squirrel.Insert(TransactionsTable).Columns(transactionColumns...)
		for _, t := range txs[start:end] {
			builder = builder.Values(t.DateString(), t.Description, t.Amount.InexactFloat64(), string(t.Category))
		}

		query, args, err := builder.ToSql()
		if err != nil {
			return fmt.Errorf("insertRows: build insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insertRows: rows %d-%d: %w", start+1, end, err)
		}
	}
	return nil
}
