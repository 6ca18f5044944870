package categorizer

import (
	"context"
	"fmt"
	"io"

	"github.com/dvloznov/finanzas-demo/internal/domain"
	"github.com/rs/zerolog"
)

// DefaultBatchSize is how many transactions go into one model call.
const DefaultBatchSize = 20

// MaxAttempts bounds how often one batch is sent when the answer cannot be parsed.
const MaxAttempts = 3

// ChatModel is a text-completion endpoint. Implementations must be safe to
// call repeatedly with the same input.
type ChatModel interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Classifier assigns categories to batches of items through a ChatModel.
type Classifier struct {
	model       ChatModel
	log         zerolog.Logger
	batchSize   int
	maxAttempts int
	progress    io.Writer
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithBatchSize overrides DefaultBatchSize. Non-positive values are ignored.
func WithBatchSize(n int) Option {
	return func(c *Classifier) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithProgress writes one line per batch to w.
func WithProgress(w io.Writer) Option {
	return func(c *Classifier) {
		c.progress = w
	}
}

// NewClassifier builds a Classifier around model.
func NewClassifier(model ChatModel, log zerolog.Logger, opts ...Option) *Classifier {
	c := &Classifier{
		model:       model,
		log:         log,
		batchSize:   DefaultBatchSize,
		maxAttempts: MaxAttempts,
		progress:    io.Discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClassifyAll splits items into batches, classifies them in order and merges
// the results. Items the model never labels are absent from the map.
func (c *Classifier) ClassifyAll(ctx context.Context, items []Item) (map[int]domain.Category, error) {
	total := len(items)
	batches := (total + c.batchSize - 1) / c.batchSize
	out := make(map[int]domain.Category, total)

	for start := 0; start < total; start += c.batchSize {
		end := min(start+c.batchSize, total)
		num := start/c.batchSize + 1

		fmt.Fprintf(c.progress, "Batch %d/%d (%d–%d)... ", num, batches, start+1, end)
		labels, err := c.ClassifyBatch(ctx, num, items[start:end])
		if err != nil {
			fmt.Fprintln(c.progress, "error")
			return nil, err
		}
		fmt.Fprintln(c.progress, "ok")

		for id, cat := range labels {
			out[id] = cat
		}
	}
	return out, nil
}

// ClassifyBatch sends one batch, retrying immediately while the response is
// malformed. Transport errors are returned without retrying.
func (c *Classifier) ClassifyBatch(ctx context.Context, batchNum int, batch []Item) (map[int]domain.Category, error) {
	payload, err := buildUserPrompt(batch)
	if err != nil {
		return nil, err
	}

	var raw string
	var parseErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		raw, err = c.model.Complete(ctx, SystemPrompt, payload)
		if err != nil {
			return nil, fmt.Errorf("ClassifyBatch: batch %d: model call: %w", batchNum, err)
		}

		labels, err := parseResponse(raw)
		if err == nil {
			return c.resolve(batchNum, batch, labels), nil
		}
		parseErr = err

		c.log.Warn().
			Err(err).
			Int("batch", batchNum).
			Int("attempt", attempt).
			Msg("invalid JSON from model, retrying")
	}

	return nil, newMalformedResponseError(batchNum, c.maxAttempts, raw, parseErr)
}

// resolve keeps labels for ids in the batch and maps unknown categories to
// the catch-all.
func (c *Classifier) resolve(batchNum int, batch []Item, labels []Label) map[int]domain.Category {
	inBatch := make(map[int]struct{}, len(batch))
	for _, it := range batch {
		inBatch[it.ID] = struct{}{}
	}

	out := make(map[int]domain.Category, len(batch))
	for _, l := range labels {
		if _, ok := inBatch[l.ID]; !ok {
			c.log.Debug().Int("batch", batchNum).Int("id", l.ID).Msg("ignoring id outside batch")
			continue
		}

		got := ""
		if l.Category != nil {
			got = *l.Category
		}
		cat, ok := domain.ParseCategory(got)
		if !ok {
			c.log.Warn().
				Int("batch", batchNum).
				Int("id", l.ID).
				Str("categoria", got).
				Str("reason", "invalid_category").
				Msg("defaulting to catch-all category")
			cat = domain.CatchAll
		}
		out[l.ID] = cat
	}
	return out
}
