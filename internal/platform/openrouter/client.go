package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/tenxcards/tenxcards-api/internal/generation"
	"github.com/tenxcards/tenxcards-api/internal/platform/logger"
)

const (
	// completionsPath is appended to the configured base URL.
	completionsPath = "/api/v1/chat/completions"
	// schemaName names the json_schema response format.
	schemaName = "chatCompletionResponse"
	// maxResponseSize bounds how much of a response body is read.
	maxResponseSize = 4 << 20
)

// Config holds the resolved settings of the client. APIKey must already be
// resolved from the environment or static configuration.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client implements generation.Client against the OpenRouter chat
// completions API.
type Client struct {
	httpClient *http.Client
	endpoint   string
	cfg        Config
	logger     *slog.Logger
}

var _ generation.Client = (*Client)(nil)

// NewClient validates cfg and builds a client on a pooled cleanhttp transport.
func NewClient(cfg Config, log *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: api key is required", generation.ErrInvalidConfig)
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("%w: model name is required", generation.ErrInvalidConfig)
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: invalid base url %q", generation.ErrInvalidConfig, cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2000
	}
	if log == nil {
		log = slog.Default()
	}

	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = cfg.Timeout

	return &Client{
		httpClient: httpClient,
		endpoint:   base.String() + completionsPath,
		cfg:        cfg,
		logger:     log.With(slog.String("component", "openrouter_client")),
	}, nil
}

// Send implements generation.Client. It issues a single request; retrying is
// left to generation.RetryingClient.
func (c *Client) Send(ctx context.Context, prompt *generation.Prompt) (string, error) {
	if err := generation.ValidatePrompt(prompt); err != nil {
		return "", err
	}
	log := logger.FromContextOrDefault(ctx, c.logger)

	content, err := c.send(ctx, prompt, log)
	if err != nil {
		return "", generation.WrapUnknown(err)
	}
	return content, nil
}

func (c *Client) send(ctx context.Context, prompt *generation.Prompt, log *slog.Logger) (string, error) {
	// Ask for structured output matching the card array schema
	payload, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    prompt.Messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
		ResponseFormat: responseFormat{
			Type: "json_schema",
			JSONSchema: jsonSchema{
				Name:   schemaName,
				Strict: true,
				Schema: cardArraySchema(),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	// Set headers
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Title", "TenXCards")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("AI provider request failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return "", err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.Debug("failed to close response body", slog.String("error", cerr.Error()))
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	// Non-2xx responses keep the raw body for diagnostics
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn("AI provider returned non-success status",
			slog.Int("status_code", resp.StatusCode),
			slog.String("model", c.cfg.Model),
			slog.Duration("elapsed", time.Since(start)))
		return "", generation.NewNetworkError(resp.StatusCode, string(body))
	}

	// Extract choices[0].message.content from the envelope
	var decoded chatResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(decoded.Choices) == 0 || decoded.Choices[0].Message.Content == nil {
		log.Warn("AI provider response has no completion content",
			slog.Int("choices", len(decoded.Choices)))
		return "", generation.NewValidationError(generation.MsgMissingResult, generation.ErrMalformedResponse)
	}

	log.Debug("AI provider request succeeded",
		slog.String("model", c.cfg.Model),
		slog.Duration("elapsed", time.Since(start)))

	return *decoded.Choices[0].Message.Content, nil
}
