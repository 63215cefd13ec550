package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/ppiankov/neurorouter"

	"github.com/Muqadas1234/compliance-policy-ai/internal/model"
	"github.com/Muqadas1234/compliance-policy-ai/internal/redact"
)

var (
	// ErrEmptyResponse is returned when the endpoint answers without choices.
	ErrEmptyResponse = errors.New("empty summarize response")

	// ErrLeak is returned when a response repeats a redacted value verbatim.
	ErrLeak = errors.New("summarize response leaked redacted values")
)

// Client calls an OpenAI-compatible chat-completions endpoint.
// Remote endpoints receive redacted text; responses are restored and
// rejected if they contain any redacted value literally.
type Client struct {
	cfg      Config
	http     *http.Client
	redactor *redact.Redactor
	mode     redact.Mode
}

// NewClient builds a client from cfg. The HTTP client carries no timeout of
// its own; callers bound each call with a context deadline.
func NewClient(cfg Config) (*Client, error) {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 600
	}
	r, err := redact.New(&cfg.Redact)
	if err != nil {
		return nil, fmt.Errorf("summarizer redaction: %w", err)
	}
	return &Client{
		cfg:      cfg,
		http:     &http.Client{},
		redactor: r,
		mode:     redact.ResolveMode(cfg.APIURL, cfg.Redact.Mode),
	}, nil
}

// Mode reports whether requests are redacted.
func (c *Client) Mode() redact.Mode {
	return c.mode
}

// Summarize sends the document and candidates to the model in one attempt.
// HTTP 429 is reported as neurorouter.ErrRateLimited.
func (c *Client) Summarize(ctx context.Context, document string, candidates []model.PolicyCandidate) (string, error) {
	prompt := BuildPrompt(document, candidates)

	var tm *redact.TokenMap
	if c.mode == redact.ModeCloud {
		tm = redact.NewTokenMap(uuid.NewString())
		prompt = c.redactor.Redact(prompt, tm)
		if tm.Len() > 0 {
			prompt = tm.Legend() + "\n" + prompt
		}
	}

	raw, err := c.complete(ctx, prompt)
	if err != nil {
		return "", err
	}

	if tm != nil && tm.Len() > 0 {
		if leaks := redact.CheckLeaks(raw, tm); len(leaks) > 0 {
			return "", fmt.Errorf("%w (%d values, job %s)", ErrLeak, len(leaks), tm.JobID)
		}
		raw = redact.Detoken(raw, tm)
	}
	return raw, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	messages := []map[string]string{
		{"role": "system", "content": SystemPrompt},
		{"role": "user", "content": prompt},
	}

	body, _ := json.Marshal(map[string]interface{}{
		"model":       c.cfg.Model,
		"messages":    messages,
		"max_tokens":  c.cfg.MaxTokens,
		"temperature": c.cfg.Temperature,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("summarize request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", fmt.Errorf("summarize HTTP 429: %w", neurorouter.ErrRateLimited)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("summarize HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil || len(result.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}
