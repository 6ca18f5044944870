// Package openai implements a text-completion client for OpenAI-compatible
// chat endpoints.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	goopenai "github.com/sashabaranov/go-openai"
)

// DefaultModelName is used when Config.Model is empty.
const DefaultModelName = "gpt-4o-mini"

// Config for the OpenAI client.
type Config struct {
	APIKey      string
	BaseURL     string // empty keeps https://api.openai.com/v1
	Model       string
	Temperature float32
	Timeout     time.Duration // zero keeps the library default
}

// Client sends a system message and one user message per call.
type Client struct {
	cfg    Config
	client *goopenai.Client
	log    zerolog.Logger
}

// NewClient creates a chat-completions client, using cfg.BaseURL when set.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModelName
	}

	oc := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{cfg: cfg, client: goopenai.NewClientWithConfig(oc), log: log}
}

// Model returns the model name requests are sent to.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Complete returns the content of the first choice.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	rid := uuid.NewString()
	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: system},
			{Role: goopenai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		c.log.Error().Err(err).Str("req_id", rid).Str("model", c.cfg.Model).Msg("openai request failed")
		return "", fmt.Errorf("Complete: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("Complete: no choices in openai response")
	}

	c.log.Debug().
		Str("req_id", rid).
		Str("model", c.cfg.Model).
		Dur("elapsed", time.Since(start)).
		Int("tokens_input", resp.Usage.PromptTokens).
		Int("tokens_output", resp.Usage.CompletionTokens).
		Msg("openai response")

	return resp.Choices[0].Message.Content, nil
}
