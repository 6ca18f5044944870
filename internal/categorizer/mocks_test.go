package categorizer

import (
	"cmp"
	"context"
	"slices"

	"github.com/dvloznov/finanzas-demo/internal/domain"
)

// MockChatModel is a mock implementation of ChatModel for testing
type MockChatModel struct {
	CompleteFunc func(ctx context.Context, system, user string) (string, error)
	Calls        int
}

func (m *MockChatModel) Complete(ctx context.Context, system, user string) (string, error) {
	m.Calls++
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, system, user)
	}
	return "[]", nil
}

// memStore is an in-memory Store.
type memStore struct {
	rows          []domain.Transaction
	schemaCreated bool
}

func (s *memStore) EnsureSchema(ctx context.Context) error {
	s.schemaCreated = true
	return nil
}

func (s *memStore) CountTransactions(ctx context.Context) (int, error) {
	return len(s.rows), nil
}

func (s *memStore) InsertTransactions(ctx context.Context, txs []domain.Transaction) error {
	s.rows = append(s.rows, txs...)
	return nil
}

func (s *memStore) ReplaceTransactions(ctx context.Context, txs []domain.Transaction) error {
	s.rows = slices.Clone(txs)
	return nil
}

func (s *memStore) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return slices.Clone(s.rows), nil
}

func (s *memStore) CategoryDistribution(ctx context.Context) ([]domain.CategoryCount, error) {
	counts := map[domain.Category]int{}
	for _, r := range s.rows {
		counts[r.Category]++
	}
	var out []domain.CategoryCount
	for c, n := range counts {
		out = append(out, domain.CategoryCount{Category: c, Count: n})
	}
	slices.SortFunc(out, func(a, b domain.CategoryCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return out, nil
}

// MockMirror records mirrored runs.
type MockMirror struct {
	RunID string
	Rows  int
}

func (m *MockMirror) MirrorTransactions(ctx context.Context, runID string, txs []domain.Transaction) error {
	m.RunID = runID
	m.Rows = len(txs)
	return nil
}

// MockExporter records export calls.
type MockExporter struct {
	Path string
	Rows int
}

func (m *MockExporter) ExportFile(path string, txs []domain.Transaction, dist []domain.CategoryCount) error {
	m.Path = path
	m.Rows = len(txs)
	return nil
}
