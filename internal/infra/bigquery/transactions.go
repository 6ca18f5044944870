package bigquery

import (
	"math/big"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/finanzas-demo/internal/domain"
)

// TransactionRow is one categorized transaction as mirrored into BigQuery.
type TransactionRow struct {
	RunID     string `bigquery:"run_id"`     // REQUIRED
	RowNumber int64  `bigquery:"row_number"` // REQUIRED, 0-based position in the input file

	TransactionDate civil.Date `bigquery:"fecha"`     // REQUIRED DATE
	Description     string     `bigquery:"concepto"`  // REQUIRED STRING
	Amount          *big.Rat   `bigquery:"importe"`   // REQUIRED NUMERIC
	Category        string     `bigquery:"categoria"` // REQUIRED STRING

	CreatedTS time.Time `bigquery:"created_ts"`
}

// CategoryCountRow is one line of a per-run distribution query.
type CategoryCountRow struct {
	Category string `bigquery:"categoria"`
	Count    int64  `bigquery:"n"`
}

// newTransactionRows converts a run's transactions into insertable rows.
func newTransactionRows(runID string, txs []domain.Transaction, now time.Time) []*TransactionRow {
	rows := make([]*TransactionRow, len(txs))
	for i, tx := range txs {
		rows[i] = &TransactionRow{
			RunID:           runID,
			RowNumber:       int64(i),
			TransactionDate: civil.DateOf(tx.Date),
			Description:     tx.Description,
			Amount:          tx.Amount.Rat(),
			Category:        string(tx.Category),
			CreatedTS:       now,
		}
	}
	return rows
}
