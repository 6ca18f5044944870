package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dvloznov/finanzas-demo/internal/infra/sqlite"
	"github.com/rs/zerolog"
)

func TestMigrateSQLite(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "data", "finanzas.db")

	// Running twice must be a no-op the second time.
	for i := range 2 {
		if err := migrateSQLite(ctx, dbPath, zerolog.Nop()); err != nil {
			t.Fatalf("migrateSQLite() run %d error = %v", i+1, err)
		}
	}

	store, err := sqlite.Open(ctx, dbPath, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	n, err := store.CountTransactions(ctx)
	if err != nil {
		t.Fatalf("CountTransactions() error = %v", err)
	}
	if n != 0 {
		t.Errorf("CountTransactions() = %d, want 0", n)
	}
}
