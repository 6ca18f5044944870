// Package bigquery mirrors categorized transactions into a BigQuery table.
package bigquery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/dvloznov/finanzas-demo/internal/domain"
	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
)

const (
	DefaultDatasetID  = "finanzas"
	transactionsTable = "transacciones"

	// insertBatchRows keeps each streaming insert request small.
	insertBatchRows = 500
)

// TransactionMirror streams categorized rows into <dataset>.transacciones.
type TransactionMirror struct {
	client    *bigquery.Client
	projectID string
	datasetID string
	log       zerolog.Logger
}

// NewTransactionMirror creates a mirror with its own BigQuery client.
func NewTransactionMirror(ctx context.Context, projectID, datasetID string, log zerolog.Logger) (*TransactionMirror, error) {
	if datasetID == "" {
		datasetID = DefaultDatasetID
	}
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewTransactionMirror: creating client: %w", err)
	}
	return &TransactionMirror{client: client, projectID: projectID, datasetID: datasetID, log: log}, nil
}

// Close closes the BigQuery client connection.
func (m *TransactionMirror) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}

func (m *TransactionMirror) table() *bigquery.Table {
	return m.client.DatasetInProject(m.projectID, m.datasetID).Table(transactionsTable)
}

// EnsureTable creates the dataset and table if they do not exist yet.
func (m *TransactionMirror) EnsureTable(ctx context.Context) error {
	ds := m.client.DatasetInProject(m.projectID, m.datasetID)
	if _, err := ds.Metadata(ctx); err != nil {
		if !isNotFound(err) {
			return fmt.Errorf("EnsureTable: dataset metadata: %w", err)
		}
		if err := ds.Create(ctx, &bigquery.DatasetMetadata{}); err != nil && !isAlreadyExists(err) {
			return fmt.Errorf("EnsureTable: create dataset: %w", err)
		}
		m.log.Info().Str("dataset", m.datasetID).Msg("dataset created")
	}

	t := m.table()
	if _, err := t.Metadata(ctx); err == nil {
		return nil
	} else if !isNotFound(err) {
		return fmt.Errorf("EnsureTable: table metadata: %w", err)
	}

	schema, err := bigquery.InferSchema(TransactionRow{})
	if err != nil {
		return fmt.Errorf("EnsureTable: infer schema: %w", err)
	}
	meta := &bigquery.TableMetadata{
		Schema:           schema,
		TimePartitioning: &bigquery.TimePartitioning{Field: "fecha", Type: bigquery.MonthPartitioningType},
	}
	if err := t.Create(ctx, meta); err != nil && !isAlreadyExists(err) {
		return fmt.Errorf("EnsureTable: create table: %w", err)
	}
	m.log.Info().Str("table", transactionsTable).Msg("table created")
	return nil
}

// MirrorTransactions ensures the table exists and streams txs tagged with runID.
func (m *TransactionMirror) MirrorTransactions(ctx context.Context, runID string, txs []domain.Transaction) error {
	if err := m.EnsureTable(ctx); err != nil {
		return err
	}
	return InsertTransactionsWithClient(ctx, m.client, m.projectID, m.datasetID, newTransactionRows(runID, txs, time.Now().UTC()))
}

// InsertTransactionsWithClient inserts rows into <dataset>.transacciones
// using the provided BigQuery client.
func InsertTransactionsWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID string, rows []*TransactionRow) error {
	if len(rows) == 0 {
		return nil
	}

	inserter := client.DatasetInProject(projectID, datasetID).Table(transactionsTable).Inserter()
	for start := 0; start < len(rows); start += insertBatchRows {
		end := min(start+insertBatchRows, len(rows))
		if err := inserter.Put(ctx, rows[start:end]); err != nil {
			return fmt.Errorf("InsertTransactions: inserting rows %d-%d: %w", start+1, end, err)
		}
	}
	return nil
}

// RunDistribution counts the mirrored rows of one run per category, in the
// same order the local summary uses.
func (m *TransactionMirror) RunDistribution(ctx context.Context, runID string) ([]domain.CategoryCount, error) {
	q := m.client.Query(fmt.Sprintf(`
		SELECT categoria, COUNT(*) AS n
		FROM `+"`%s.%s.%s`"+`
		WHERE run_id = @run_id
		GROUP BY categoria
		ORDER BY n DESC, categoria
	`, m.projectID, m.datasetID, transactionsTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "run_id", Value: runID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("RunDistribution: query read: %w", err)
	}

	var out []domain.CategoryCount
	for {
		var r CategoryCountRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("RunDistribution: iter next: %w", err)
		}
		out = append(out, domain.CategoryCount{Category: domain.Category(r.Category), Count: int(r.Count)})
	}
	return out, nil
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}

func isAlreadyExists(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict
}
