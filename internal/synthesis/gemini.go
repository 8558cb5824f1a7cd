// Package synthesis wraps the Gemini API behind the reporter's
// Synthesizer contract.
package synthesis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"google.golang.org/genai"
)

const retryAttempts = 3

// Client calls Gemini for report synthesis, requesting strict JSON
// output. Transient failures are retried a few times; the final error
// is returned to the caller, which downgrades it to a report without
// AI fields.
type Client struct {
	log     *slog.Logger
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewClient creates a Gemini-backed synthesis client.
func NewClient(ctx context.Context, log *slog.Logger, apiKey, model string, timeout time.Duration) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{log: log, client: client, model: model, timeout: timeout}, nil
}

// Summarize sends the instruction and prompt to the model and returns
// its raw response text, expected to be a JSON document.
func (c *Client) Summarize(ctx context.Context, instruction, prompt string) (string, error) {
	const opn = "synthesis.Summarize"

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	}

	var out string
	err := retry.Do(
		func() error {
			resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
			if err != nil {
				return fmt.Errorf("generate content: %w", err)
			}

			text := resp.Text()
			if text == "" {
				return errors.New("model returned an empty response")
			}

			out = text
			return nil
		},
		retry.Attempts(retryAttempts),
		retry.Delay(time.Second),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.log.WarnContext(ctx, "Synthesis attempt failed, retrying", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", opn, err)
	}

	return out, nil
}
