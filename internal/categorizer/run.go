// Package categorizer labels bank transactions with one of the fixed
// categories by asking a language model, then stores them in SQLite.
package categorizer

import (
	"context"
	"io"
	"strings"

	"github.com/dvloznov/finanzas-demo/internal/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Deps are the collaborators of a run. Fetcher, Mirror and Exporter are optional.
type Deps struct {
	Store    Store
	Model    ChatModel
	Fetcher  ObjectFetcher
	Mirror   Mirror
	Exporter Exporter
	In       io.Reader
	Out      io.Writer
	Log      zerolog.Logger
}

// Options are the per-run settings.
type Options struct {
	InputPath string
	DBPath    string
	BatchSize int
	AssumeYes bool
	XLSXPath  string
}

// NewCategorizationPipeline assembles the steps of one run.
func NewCategorizationPipeline(deps Deps, opts Options, log zerolog.Logger) *Pipeline {
	out := deps.Out
	if out == nil {
		out = io.Discard
	}
	in := deps.In
	if in == nil {
		in = strings.NewReader("")
	}

	classifier := NewClassifier(deps.Model, log, WithBatchSize(opts.BatchSize), WithProgress(out))

	steps := []PipelineStep{
		&LoadInputStep{Fetcher: deps.Fetcher, Out: out},
		&EnsureSchemaStep{Store: deps.Store},
		&ConfirmWipeStep{Store: deps.Store, AssumeYes: opts.AssumeYes, In: in, Out: out},
		&ClassifyStep{Classifier: classifier, Log: log, Out: out},
		&InsertStep{Store: deps.Store, DBPath: opts.DBPath, Out: out},
	}
	if deps.Mirror != nil {
		steps = append(steps, &MirrorStep{Mirror: deps.Mirror, Log: log})
	}
	if deps.Exporter != nil && opts.XLSXPath != "" {
		steps = append(steps, &ExportStep{Store: deps.Store, Exporter: deps.Exporter, Path: opts.XLSXPath, Out: out})
	}
	steps = append(steps, &SummarizeStep{Store: deps.Store, DBPath: opts.DBPath, Out: out})

	return NewPipeline(steps...)
}

// Run categorizes the file at opts.InputPath into deps.Store. The caller is
// expected to have validated the model credential before opening the store.
func Run(ctx context.Context, deps Deps, opts Options) (*PipelineState, error) {
	state := &PipelineState{
		RunID:     uuid.NewString(),
		InputPath: opts.InputPath,
	}
	log := logger.WithRunID(deps.Log, state.RunID)
	ctx = logger.WithContext(ctx, log)

	log.Info().Str("input", opts.InputPath).Str("db", opts.DBPath).Msg("starting categorization")
	if err := NewCategorizationPipeline(deps, opts, log).Execute(ctx, state); err != nil {
		return state, err
	}
	log.Info().Int("rows", state.Total).Msg("categorization finished")
	return state, nil
}
