// Package gemini implements a text-completion client over the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// DefaultModelName is used when Config.Model is empty.
const DefaultModelName = "gemini-2.5-flash"

// Config for the Gemini client.
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration // zero keeps the SDK default
}

// Client sends a system instruction and one user message per call.
type Client struct {
	cfg    Config
	models *genai.Models
	log    zerolog.Logger
}

// NewClient creates a Gemini API client authenticated with cfg.APIKey.
func NewClient(ctx context.Context, cfg Config, log zerolog.Logger) (*Client, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModelName
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Timeout > 0 {
		cc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("NewClient: create genai client: %w", err)
	}
	return &Client{cfg: cfg, models: client.Models, log: log}, nil
}

// Model returns the model name requests are sent to.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Complete returns the text of the model's answer.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	rid := uuid.NewString()
	start := time.Now()

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr(c.cfg.Temperature),
	}

	resp, err := c.models.GenerateContent(ctx, c.cfg.Model, genai.Text(user), config)
	if err != nil {
		c.log.Error().Err(err).Str("req_id", rid).Str("model", c.cfg.Model).Msg("gemini request failed")
		return "", fmt.Errorf("Complete: generate content: %w", err)
	}

	text := resp.Text()
	ev := c.log.Debug().
		Str("req_id", rid).
		Str("model", c.cfg.Model).
		Dur("elapsed", time.Since(start)).
		Int("response_len", len(text))
	if resp.UsageMetadata != nil {
		ev = ev.Int32("tokens_input", resp.UsageMetadata.PromptTokenCount).
			Int32("tokens_output", resp.UsageMetadata.CandidatesTokenCount)
	}
	ev.Msg("gemini response")

	return text, nil
}
