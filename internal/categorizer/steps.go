package categorizer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/dvloznov/finanzas-demo/internal/domain"
	"github.com/dvloznov/finanzas-demo/internal/statement"
	"github.com/rs/zerolog"
)

// WipePrompt is shown when the table already holds rows.
const WipePrompt = "¿Vaciar y reemplazar? [s/N]: "

// PipelineStep represents a single step of a categorization run.
type PipelineStep interface {
	Execute(ctx context.Context, state *PipelineState) error
}

// PipelineState holds the shared state across all pipeline steps.
type PipelineState struct {
	RunID        string
	InputPath    string
	Transactions []domain.Transaction
	ExistingRows int
	Replace      bool
	Labels       map[int]domain.Category
	Total        int
	Distribution []domain.CategoryCount
}

// LoadInputStep reads the transaction file from disk or from GCS.
type LoadInputStep struct {
	Fetcher ObjectFetcher
	Out     io.Writer
}

func (s *LoadInputStep) Execute(ctx context.Context, state *PipelineState) error {
	fmt.Fprintf(s.Out, "Cargando %s...\n", state.InputPath)

	var (
		txs []domain.Transaction
		err error
	)
	if strings.HasPrefix(state.InputPath, "gs://") {
		if s.Fetcher == nil {
			return fmt.Errorf("LoadInputStep: %s: no object storage client configured", state.InputPath)
		}
		var data []byte
		data, err = s.Fetcher.FetchFromGCS(ctx, state.InputPath)
		if err == nil {
			txs, err = statement.ReadBytes(data)
		}
	} else {
		txs, err = statement.ReadFile(state.InputPath)
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: no se encontró el CSV en %s. Ejecuta primero: go run ./cmd/generate", ErrInputNotFound, state.InputPath)
		}
	}
	if err != nil {
		return fmt.Errorf("LoadInputStep: %w", err)
	}

	state.Transactions = txs
	fmt.Fprintf(s.Out, "%d transacciones cargadas.\n", len(txs))
	return nil
}

// EnsureSchemaStep creates the tables if they are absent.
type EnsureSchemaStep struct {
	Store Store
}

func (s *EnsureSchemaStep) Execute(ctx context.Context, state *PipelineState) error {
	return s.Store.EnsureSchema(ctx)
}

// ConfirmWipeStep asks before replacing rows left by an earlier run. Nothing
// is deleted here; the wipe happens in the same SQL transaction as the insert.
type ConfirmWipeStep struct {
	Store     Store
	AssumeYes bool
	In        io.Reader
	Out       io.Writer
}

func (s *ConfirmWipeStep) Execute(ctx context.Context, state *PipelineState) error {
	count, err := s.Store.CountTransactions(ctx)
	if err != nil {
		return err
	}
	state.ExistingRows = count
	if count == 0 {
		return nil
	}

	fmt.Fprintf(s.Out, "\nLa tabla 'transacciones' ya tiene %d filas.\n", count)
	if s.AssumeYes {
		state.Replace = true
		return nil
	}

	fmt.Fprint(s.Out, WipePrompt)
	answer, err := bufio.NewReader(s.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("ConfirmWipeStep: read answer: %w", err)
	}
	if strings.ToLower(strings.TrimSpace(answer)) != "s" {
		fmt.Fprintln(s.Out, "Cancelado.")
		return ErrAborted
	}

	state.Replace = true
	return nil
}

// ClassifyStep labels every loaded transaction. Rows the model skipped get
// the catch-all category.
type ClassifyStep struct {
	Classifier *Classifier
	Log        zerolog.Logger
	Out        io.Writer
}

func (s *ClassifyStep) Execute(ctx context.Context, state *PipelineState) error {
	items := make([]Item, len(state.Transactions))
	for i, tx := range state.Transactions {
		items[i] = Item{ID: i, Description: tx.Description}
	}

	fmt.Fprintf(s.Out, "\nClasificando %d conceptos en batches de %d...\n", len(items), s.Classifier.batchSize)
	labels, err := s.Classifier.ClassifyAll(ctx, items)
	if err != nil {
		return err
	}
	state.Labels = labels

	for i := range state.Transactions {
		cat, ok := labels[i]
		if !ok {
			s.Log.Warn().
				Int("id", i).
				Str("concepto", state.Transactions[i].Description).
				Str("reason", "missing_id").
				Msg("model returned no category, defaulting to catch-all")
			cat = domain.CatchAll
		}
		state.Transactions[i].Category = cat
	}
	return nil
}

// InsertStep writes the categorized rows, replacing old ones if confirmed.
type InsertStep struct {
	Store  Store
	DBPath string
	Out    io.Writer
}

func (s *InsertStep) Execute(ctx context.Context, state *PipelineState) error {
	fmt.Fprintf(s.Out, "\nInsertando en %s...\n", s.DBPath)
	if state.Replace {
		if err := s.Store.ReplaceTransactions(ctx, state.Transactions); err != nil {
			return err
		}
		fmt.Fprintln(s.Out, "Tabla vaciada y reemplazada.")
		return nil
	}
	return s.Store.InsertTransactions(ctx, state.Transactions)
}

// MirrorStep copies the run's rows to a remote warehouse.
type MirrorStep struct {
	Mirror Mirror
	Log    zerolog.Logger
}

func (s *MirrorStep) Execute(ctx context.Context, state *PipelineState) error {
	if err := s.Mirror.MirrorTransactions(ctx, state.RunID, state.Transactions); err != nil {
		return fmt.Errorf("MirrorStep: %w", err)
	}
	s.Log.Info().Int("rows", len(state.Transactions)).Msg("rows mirrored")
	return nil
}

// ExportStep writes a workbook with the stored table and its distribution.
type ExportStep struct {
	Store    Store
	Exporter Exporter
	Path     string
	Out      io.Writer
}

func (s *ExportStep) Execute(ctx context.Context, state *PipelineState) error {
	txs, err := s.Store.ListTransactions(ctx)
	if err != nil {
		return err
	}
	dist, err := s.Store.CategoryDistribution(ctx)
	if err != nil {
		return err
	}
	if err := s.Exporter.ExportFile(s.Path, txs, dist); err != nil {
		return fmt.Errorf("ExportStep: %w", err)
	}
	fmt.Fprintf(s.Out, "Exportado a %s\n", s.Path)
	return nil
}

// SummarizeStep prints the stored row count and the per-category distribution.
type SummarizeStep struct {
	Store  Store
	DBPath string
	Out    io.Writer
}

func (s *SummarizeStep) Execute(ctx context.Context, state *PipelineState) error {
	total, err := s.Store.CountTransactions(ctx)
	if err != nil {
		return err
	}
	dist, err := s.Store.CategoryDistribution(ctx)
	if err != nil {
		return err
	}
	state.Total = total
	state.Distribution = dist

	fmt.Fprintf(s.Out, "\n%d transacciones en %s\n", total, s.DBPath)
	PrintDistribution(s.Out, dist)
	fmt.Fprintln(s.Out, "\nCategorización completada.")
	return nil
}

// PrintDistribution writes one aligned line per category.
func PrintDistribution(w io.Writer, dist []domain.CategoryCount) {
	fmt.Fprintln(w, "\nDistribución por categoría:")
	for _, c := range dist {
		fmt.Fprintf(w, "%-15s %4d transacciones\n", c.Category, c.Count)
	}
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []PipelineStep
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...PipelineStep) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps in the pipeline sequentially.
func (p *Pipeline) Execute(ctx context.Context, state *PipelineState) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}
