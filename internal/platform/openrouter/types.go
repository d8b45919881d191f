package openrouter

import (
	"github.com/tenxcards/tenxcards-api/internal/domain"
	"github.com/tenxcards/tenxcards-api/internal/generation"
)

// chatRequest is the body of POST /api/v1/chat/completions.
type chatRequest struct {
	Model          string               `json:"model"`
	Messages       []generation.Message `json:"messages"`
	Temperature    float64              `json:"temperature"`
	MaxTokens      int                  `json:"max_tokens"`
	ResponseFormat responseFormat       `json:"response_format"`
}

type responseFormat struct {
	Type       string     `json:"type"`
	JSONSchema jsonSchema `json:"json_schema"`
}

type jsonSchema struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// cardArraySchema describes the array of {front, back} objects the prompt asks for.
func cardArraySchema() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"front": map[string]any{"type": "string", "maxLength": domain.MaxFrontLength},
				"back":  map[string]any{"type": "string", "maxLength": domain.MaxBackLength},
			},
			"required":             []string{"front", "back"},
			"additionalProperties": false,
		},
	}
}
