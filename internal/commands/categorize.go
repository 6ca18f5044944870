package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/dvloznov/finanzas-demo/internal/categorizer"
	"github.com/dvloznov/finanzas-demo/internal/config"
	"github.com/dvloznov/finanzas-demo/internal/export"
	"github.com/dvloznov/finanzas-demo/internal/gcsuploader"
	infraBQ "github.com/dvloznov/finanzas-demo/internal/infra/bigquery"
	"github.com/dvloznov/finanzas-demo/internal/infra/sqlite"
	"github.com/dvloznov/finanzas-demo/internal/llm/gemini"
	"github.com/dvloznov/finanzas-demo/internal/llm/openai"
	"github.com/rs/zerolog"
)

type CategorizeOptions struct {
	InputPath string
	DBPath    string
	BatchSize int
	AssumeYes bool
	Provider  string
	Model     string
	BQProject string
	BQDataset string
	XLSXPath  string
}

// BindCategorizeFlags registers the categorize flags with defaults from cfg.
func BindCategorizeFlags(fs *flag.FlagSet, cfg *config.Config) *CategorizeOptions {
	opts := &CategorizeOptions{}
	fs.StringVar(&opts.InputPath, "in", cfg.Paths.CSVPath, "CSV to categorize (local path or gs://bucket/object)")
	fs.StringVar(&opts.DBPath, "db", cfg.Paths.DBPath, "SQLite database file")
	fs.IntVar(&opts.BatchSize, "batch-size", cfg.BatchSize, "Transactions per model call")
	fs.BoolVar(&opts.AssumeYes, "yes", false, "Replace existing rows without asking")
	fs.StringVar(&opts.Provider, "provider", cfg.LLM.Provider, "Model provider: gemini or openai")
	fs.StringVar(&opts.Model, "model", cfg.LLM.Model, "Model name (provider default if empty)")
	fs.StringVar(&opts.BQProject, "bq-project", cfg.BigQuery.ProjectID, "Also mirror rows into BigQuery in this project")
	fs.StringVar(&opts.BQDataset, "bq-dataset", cfg.BigQuery.DatasetID, "BigQuery dataset for the mirror")
	fs.StringVar(&opts.XLSXPath, "xlsx", "", "Also export the table to this XLSX file")
	return opts
}

// apply copies flag overrides into cfg.
func (o *CategorizeOptions) apply(cfg *config.Config) {
	cfg.Paths.CSVPath = o.InputPath
	cfg.Paths.DBPath = o.DBPath
	cfg.BatchSize = o.BatchSize
	cfg.LLM.Provider = o.Provider
	cfg.LLM.Model = o.Model
	cfg.BigQuery.ProjectID = o.BQProject
	cfg.BigQuery.DatasetID = o.BQDataset
}

// NewChatModel builds the client of the configured provider.
func NewChatModel(ctx context.Context, cfg config.LLMConfig, log zerolog.Logger) (categorizer.ChatModel, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		client, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:      cfg.GoogleAPIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		}, log)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderOpenAI:
		return openai.NewClient(openai.Config{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		}, log), nil
	default:
		return nil, fmt.Errorf("NewChatModel: unsupported provider %q", cfg.Provider)
	}
}

// Categorize runs the categorizer end to end. The credential is validated
// before the database is opened.
func Categorize(ctx context.Context, cfg *config.Config, opts CategorizeOptions, in io.Reader, out io.Writer, log zerolog.Logger) error {
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("Categorize: %w", err)
	}

	model, err := NewChatModel(ctx, cfg.LLM, log)
	if err != nil {
		return fmt.Errorf("Categorize: %w", err)
	}

	store, err := sqlite.Open(ctx, cfg.Paths.DBPath, log)
	if err != nil {
		return fmt.Errorf("Categorize: %w", err)
	}
	defer store.Close()

	deps := categorizer.Deps{
		Store:   store,
		Model:   model,
		Fetcher: gcsuploader.NewGCSStorageService(),
		In:      in,
		Out:     out,
		Log:     log,
	}
	if cfg.BigQuery.ProjectID != "" {
		mirror, err := infraBQ.NewTransactionMirror(ctx, cfg.BigQuery.ProjectID, cfg.BigQuery.DatasetID, log)
		if err != nil {
			return fmt.Errorf("Categorize: %w", err)
		}
		defer mirror.Close()
		deps.Mirror = mirror
	}
	if opts.XLSXPath != "" {
		deps.Exporter = export.NewWorkbook()
	}

	_, err = categorizer.Run(ctx, deps, categorizer.Options{
		InputPath: cfg.Paths.CSVPath,
		DBPath:    cfg.Paths.DBPath,
		BatchSize: cfg.BatchSize,
		AssumeYes: opts.AssumeYes,
		XLSXPath:  opts.XLSXPath,
	})
	return err
}
