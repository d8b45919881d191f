package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/tenxcards/tenxcards-api/internal/generation"
	"github.com/tenxcards/tenxcards-api/internal/platform/logger"
)

const jsonMIMEType = "application/json"

// Config holds the settings of the Gemini client.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// contentGenerator is the subset of *genai.Models used by Client.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Client implements generation.Client against the Gemini API.
type Client struct {
	models contentGenerator
	cfg    Config
	logger *slog.Logger
}

var _ generation.Client = (*Client)(nil)

// NewClient validates cfg and creates the underlying genai client.
func NewClient(ctx context.Context, cfg Config, log *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: api key is required", generation.ErrInvalidConfig)
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("%w: model name is required", generation.ErrInvalidConfig)
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		timeout := cfg.Timeout
		clientCfg.HTTPOptions.Timeout = &timeout
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", generation.ErrInvalidConfig, err)
	}

	return newClient(client.Models, cfg, log), nil
}

func newClient(models contentGenerator, cfg Config, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2000
	}
	return &Client{
		models: models,
		cfg:    cfg,
		logger: log.With(slog.String("component", "gemini_client")),
	}
}

// Send implements generation.Client.
func (c *Client) Send(ctx context.Context, prompt *generation.Prompt) (string, error) {
	if err := generation.ValidatePrompt(prompt); err != nil {
		return "", err
	}
	log := logger.FromContextOrDefault(ctx, c.logger)

	contents, genCfg := c.request(prompt)

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.cfg.Model, contents, genCfg)
	if err != nil {
		log.Error("Gemini request failed",
			slog.String("error", err.Error()),
			slog.String("model", c.cfg.Model),
			slog.Duration("elapsed", time.Since(start)))
		return "", mapError(err)
	}

	text, err := checkResponse(resp)
	if err != nil {
		log.Warn("Gemini response rejected",
			slog.String("error", err.Error()),
			slog.Int("candidates", candidateCount(resp)))
		return "", err
	}

	log.Debug("Gemini request succeeded",
		slog.String("model", c.cfg.Model),
		slog.Duration("elapsed", time.Since(start)))
	return text, nil
}

func (c *Client) request(prompt *generation.Prompt) ([]*genai.Content, *genai.GenerateContentConfig) {
	genCfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(c.cfg.Temperature)),
		MaxOutputTokens:  int32(c.cfg.MaxTokens),
		ResponseMIMEType: jsonMIMEType,
	}

	// The first system message becomes the system instruction; everything
	// else, including any further system messages, is sent as user content.
	system := prompt.SystemInstruction()
	if system != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	var contents []*genai.Content
	for _, m := range prompt.Messages {
		if m.Role == generation.RoleSystem && system != "" && m.Content == system {
			system = ""
			continue
		}
		contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
	}
	return contents, genCfg
}
