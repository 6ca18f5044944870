package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dvloznov/finanzas-demo/internal/categorizer"
	"github.com/dvloznov/finanzas-demo/internal/export"
	"github.com/dvloznov/finanzas-demo/internal/gcsuploader"
	infraBQ "github.com/dvloznov/finanzas-demo/internal/infra/bigquery"
	"github.com/dvloznov/finanzas-demo/internal/infra/sqlite"
	"github.com/rs/zerolog"
)

// Summary prints the row count and category distribution of a database.
func Summary(ctx context.Context, dbPath string, out io.Writer, log zerolog.Logger) error {
	store, err := sqlite.Open(ctx, dbPath, log)
	if err != nil {
		return fmt.Errorf("Summary: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("Summary: %w", err)
	}
	total, err := store.CountTransactions(ctx)
	if err != nil {
		return fmt.Errorf("Summary: %w", err)
	}
	dist, err := store.CategoryDistribution(ctx)
	if err != nil {
		return fmt.Errorf("Summary: %w", err)
	}

	fmt.Fprintf(out, "%d transacciones en %s\n", total, dbPath)
	categorizer.PrintDistribution(out, dist)
	return nil
}

// MirrorSummary prints the distribution of one mirrored run in BigQuery.
func MirrorSummary(ctx context.Context, projectID, datasetID, runID string, out io.Writer, log zerolog.Logger) error {
	mirror, err := infraBQ.NewTransactionMirror(ctx, projectID, datasetID, log)
	if err != nil {
		return fmt.Errorf("MirrorSummary: %w", err)
	}
	defer mirror.Close()

	dist, err := mirror.RunDistribution(ctx, runID)
	if err != nil {
		return fmt.Errorf("MirrorSummary: %w", err)
	}

	fmt.Fprintf(out, "Ejecución %s en %s.%s\n", runID, projectID, datasetID)
	categorizer.PrintDistribution(out, dist)
	return nil
}

// Export writes the stored table of dbPath to an XLSX workbook.
func Export(ctx context.Context, dbPath, outPath string, out io.Writer, log zerolog.Logger) error {
	store, err := sqlite.Open(ctx, dbPath, log)
	if err != nil {
		return fmt.Errorf("Export: %w", err)
	}
	defer store.Close()

	if outPath == "" {
		outPath = defaultXLSXPath(dbPath)
	}

	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("Export: %w", err)
	}
	txs, err := store.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("Export: %w", err)
	}
	dist, err := store.CategoryDistribution(ctx)
	if err != nil {
		return fmt.Errorf("Export: %w", err)
	}
	if err := export.NewWorkbook().ExportFile(outPath, txs, dist); err != nil {
		return fmt.Errorf("Export: %w", err)
	}

	log.Info().Int("rows", len(txs)).Str("file", outPath).Msg("workbook written")
	fmt.Fprintf(out, "Exportadas %d transacciones a %s\n", len(txs), outPath)
	return nil
}

// Upload copies a local file to GCS. An empty object name gets a dated default.
func Upload(ctx context.Context, uploader Uploader, bucket, object, filePath string, out io.Writer, log zerolog.Logger) error {
	if object == "" {
		object = gcsuploader.DefaultObjectName(filePath, time.Now())
	}

	log.Info().
		Str("bucket", bucket).
		Str("object", object).
		Str("file", filePath).
		Msg("Uploading file to GCS")

	uri, err := uploader.UploadFile(ctx, bucket, object, filePath)
	if err != nil {
		return fmt.Errorf("Upload: %w", err)
	}
	fmt.Fprintf(out, "Uploaded %s to %s\n", filePath, uri)
	return nil
}
