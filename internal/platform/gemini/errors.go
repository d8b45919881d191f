package gemini

import (
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/tenxcards/tenxcards-api/internal/generation"
)

// ErrContentBlocked is wrapped when Gemini refuses the prompt or stops a
// candidate for safety reasons.
var ErrContentBlocked = errors.New("content blocked by provider safety filters")

// mapError translates an SDK error into the generation error taxonomy. The
// SDK reports HTTP failures as genai.APIError values.
func mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code >= 400 {
		return generation.NewNetworkError(apiErr.Code, apiErr.Message)
	}
	return generation.WrapUnknown(err)
}

// checkResponse rejects responses that carry no usable candidate text.
func checkResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", generation.NewValidationError(generation.MsgMissingResult, generation.ErrMalformedResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", generation.NewGenerationError(generation.MsgInvalidCardContent,
			fmt.Errorf("%w: %s", ErrContentBlocked, resp.PromptFeedback.BlockReason))
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", generation.NewValidationError(generation.MsgMissingResult, generation.ErrMalformedResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", generation.NewGenerationError(generation.MsgInvalidCardContent,
			fmt.Errorf("%w: %s", ErrContentBlocked, genai.FinishReasonSafety))
	}

	text := resp.Text()
	if text == "" {
		return "", generation.NewValidationError(generation.MsgMissingResult, generation.ErrMalformedResponse)
	}
	return text, nil
}

func candidateCount(resp *genai.GenerateContentResponse) int {
	if resp == nil {
		return 0
	}
	return len(resp.Candidates)
}
