// Package commands implements the command-line operations shared by the
// standalone binaries and the multi-command CLI.
package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/dvloznov/finanzas-demo/internal/config"
	"github.com/dvloznov/finanzas-demo/internal/domain"
	"github.com/dvloznov/finanzas-demo/internal/gcsuploader"
	"github.com/dvloznov/finanzas-demo/internal/generator"
	"github.com/dvloznov/finanzas-demo/internal/statement"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// previewRows is how many generated rows are echoed after writing.
const previewRows = 10

// Uploader stores a local file in object storage and returns its URI.
type Uploader interface {
	UploadFile(ctx context.Context, bucketName, objectName, filePath string) (string, error)
}

type GenerateOptions struct {
	OutPath   string
	Seed      uint64
	Anchor    string
	GCSBucket string
}

// BindGenerateFlags registers the generate flags with defaults from cfg.
func BindGenerateFlags(fs *flag.FlagSet, cfg *config.Config) *GenerateOptions {
	opts := &GenerateOptions{}
	fs.StringVar(&opts.OutPath, "out", cfg.Paths.CSVPath, "Path of the CSV file to write")
	fs.Uint64Var(&opts.Seed, "seed", cfg.Generator.Seed, "Random seed")
	fs.StringVar(&opts.Anchor, "anchor", "", "Reference date YYYY-MM-DD; the window ends the month before (default today)")
	fs.StringVar(&opts.GCSBucket, "gcs-bucket", cfg.GCS.Bucket, "Also upload the CSV to this GCS bucket")
	return opts
}

// Generate writes the synthetic transaction file and prints a summary.
func Generate(ctx context.Context, opts GenerateOptions, uploader Uploader, out io.Writer, log zerolog.Logger) error {
	anchor := time.Now()
	if opts.Anchor != "" {
		a, err := time.Parse(domain.DateLayout, opts.Anchor)
		if err != nil {
			return fmt.Errorf("Generate: invalid -anchor %q: %w", opts.Anchor, err)
		}
		anchor = a
	}

	window := generator.TrailingWindow(anchor, generator.DefaultMonths)
	log.Info().
		Uint64("seed", opts.Seed).
		Str("start", window.Start.Format(domain.DateLayout)).
		Str("end", window.End.Format(domain.DateLayout)).
		Msg("generating transactions")

	txs := generator.Transactions(generator.New(opts.Seed, window).Generate())
	if err := statement.WriteFile(opts.OutPath, txs); err != nil {
		return fmt.Errorf("Generate: %w", err)
	}

	PrintGenerateSummary(out, opts.OutPath, txs)

	if opts.GCSBucket != "" && uploader != nil {
		object := gcsuploader.DefaultObjectName(opts.OutPath, time.Now())
		uri, err := uploader.UploadFile(ctx, opts.GCSBucket, object, opts.OutPath)
		if err != nil {
			return fmt.Errorf("Generate: %w", err)
		}
		log.Info().Str("gcs_uri", uri).Msg("CSV uploaded")
		fmt.Fprintf(out, "\nSubido a %s\n", uri)
	}
	return nil
}

// PrintGenerateSummary writes totals and the first rows of a generated file.
func PrintGenerateSummary(w io.Writer, path string, txs []domain.Transaction) {
	s := generator.Summarize(txs)
	p := message.NewPrinter(language.English)

	fmt.Fprintf(w, "\nCSV generado en: %s\n", path)
	fmt.Fprintf(w, "   Filas:     %d\n", s.Rows)
	fmt.Fprintf(w, "   Meses:     %d\n", s.Months)
	p.Fprintf(w, "   Ingresos:  %.2f €\n", s.Income.InexactFloat64())
	p.Fprintf(w, "   Gastos:    %.2f €\n", s.Spend.InexactFloat64())
	p.Fprintf(w, "   Balance:   %.2f €\n", s.Balance.InexactFloat64())

	fmt.Fprintln(w, "\nPrimeras filas:")
	fmt.Fprintf(w, "%-10s  %-44s %10s\n", "Fecha", "Concepto_Bancario", "Importe")
	for _, tx := range txs[:min(previewRows, len(txs))] {
		fmt.Fprintf(w, "%-10s  %-44s %10s\n", tx.DateString(), tx.Description, tx.Amount.StringFixed(2))
	}
}

// defaultXLSXPath puts the workbook next to the database.
func defaultXLSXPath(dbPath string) string {
	return filepath.Join(filepath.Dir(dbPath), "finanzas.xlsx")
}
