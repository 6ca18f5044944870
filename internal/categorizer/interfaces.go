package categorizer

import (
	"context"

	"github.com/dvloznov/finanzas-demo/internal/domain"
)

// Store is the relational table the categorized rows end up in.
type Store interface {
	EnsureSchema(ctx context.Context) error
	CountTransactions(ctx context.Context) (int, error)
	InsertTransactions(ctx context.Context, txs []domain.Transaction) error
	// ReplaceTransactions deletes every stored row and inserts txs atomically.
	ReplaceTransactions(ctx context.Context, txs []domain.Transaction) error
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	CategoryDistribution(ctx context.Context) ([]domain.CategoryCount, error)
}

// ObjectFetcher downloads a gs:// object.
type ObjectFetcher interface {
	FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error)
}

// Mirror receives a copy of each run's rows.
type Mirror interface {
	MirrorTransactions(ctx context.Context, runID string, txs []domain.Transaction) error
}

// Exporter writes the stored rows to a file.
type Exporter interface {
	ExportFile(path string, txs []domain.Transaction, dist []domain.CategoryCount) error
}
