package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/dvloznov/finanzas-demo/internal/config"
	infraBQ "github.com/dvloznov/finanzas-demo/internal/infra/bigquery"
	"github.com/dvloznov/finanzas-demo/internal/infra/sqlite"
	"github.com/dvloznov/finanzas-demo/internal/logger"
	"github.com/rs/zerolog"
)

func main() {
	cfg := config.Load()
	log := logger.NewWithLevel(cfg.Logger.Level)

	dbPath := flag.String("db", cfg.Paths.DBPath, "SQLite database file")
	projectID := flag.String("bq-project", cfg.BigQuery.ProjectID, "Also create the BigQuery mirror table in this project")
	datasetID := flag.String("bq-dataset", cfg.BigQuery.DatasetID, "BigQuery dataset ID")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	if err := migrateSQLite(ctx, *dbPath, log); err != nil {
		log.Fatal().Err(err).Msg("SQLite migration failed")
	}
	log.Info().Str("db", *dbPath).Msg("SQLite schema is up to date")

	if *projectID == "" {
		return
	}
	if err := migrateBigQuery(ctx, *projectID, *datasetID, log); err != nil {
		log.Fatal().Err(err).Msg("BigQuery migration failed")
	}
	log.Info().Str("project", *projectID).Str("dataset", *datasetID).Msg("BigQuery mirror table is up to date")
}

// migrateSQLite creates the local tables if they are missing.
func migrateSQLite(ctx context.Context, dbPath string, log zerolog.Logger) error {
	store, err := sqlite.Open(ctx, dbPath, log)
	if err != nil {
		return fmt.Errorf("migrateSQLite: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("migrateSQLite: %w", err)
	}
	return nil
}

// migrateBigQuery creates the mirror dataset and table if they are missing.
func migrateBigQuery(ctx context.Context, projectID, datasetID string, log zerolog.Logger) error {
	mirror, err := infraBQ.NewTransactionMirror(ctx, projectID, datasetID, log)
	if err != nil {
		return fmt.Errorf("migrateBigQuery: %w", err)
	}
	defer mirror.Close()

	return mirror.EnsureTable(ctx)
}
