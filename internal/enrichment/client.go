// Package enrichment generates narrative summaries through the OpenAI
// chat-completions API.
package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/historical-events-service/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/historical-events-service/pkg/metrics"
)

const (
	completionsPath = "/v1/chat/completions"

	systemPrompt = "You are a historian. Provide a factual summary with key events. " +
		"Format: Plain text with citations as [1], [2] where needed."

	// ErrorPrefix marks an absorbed enrichment failure inside ai_summary.
	ErrorPrefix = "❌ Error generating summary: "

	// temperature favours factual consistency over creative variation.
	temperature = 0.5
)

// Client calls the text-generation API. One long-lived instance is shared by
// all requests.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a Client from config. A missing API key is not an error here;
// the upstream rejects the call and the failure lands in the generated text.
// m may be nil.
func New(cfg config.OpenAIConfig, m *metrics.Metrics) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o"
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
		metrics: m,
		logger:  slog.Default().With("component", "enrichment-client"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Summarize produces the narrative summary for an extract. It never returns
// an error: any failure (network, auth, quota, malformed response) is folded
// into the returned string behind ErrorPrefix, so the surrounding pipeline
// always gets readable text and keeps going.
func (c *Client) Summarize(ctx context.Context, extract string) string {
	text, err := c.complete(ctx, extract)
	if err != nil {
		c.count("error")
		c.logger.Warn("enrichment failed", "error", err)
		return ErrorPrefix + err.Error()
	}
	c.count("ok")
	return strings.TrimSpace(text)
}

func (c *Client) complete(ctx context.Context, extract string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("Summarize major events of %s with context and significance.", extract)},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("decoding response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if decoded.Error != nil && decoded.Error.Message != "" {
			return "", fmt.Errorf("api error (status %d): %s", resp.StatusCode, decoded.Error.Message)
		}
		return "", fmt.Errorf("api error (status %d)", resp.StatusCode)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("response contained no choices")
	}
	return decoded.Choices[0].Message.Content, nil
}

func (c *Client) count(outcome string) {
	if c.metrics != nil {
		c.metrics.EnrichmentRequests.WithLabelValues(outcome).Inc()
	}
}
