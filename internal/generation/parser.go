package generation

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/tenxcards/tenxcards-api/internal/domain"
)

// Candidate is a card proposed by the model, not yet bound to a user.
type Candidate struct {
	Front string
	Back  string
}

// ParseCards decodes the model output into card candidates, preserving order.
//
// Field names are matched case-insensitively. Decoding failures are returned
// wrapped in ErrMalformedResponse with the json error still in the chain.
// An empty array or null is a KindGeneration error.
func ParseCards(raw string) ([]Candidate, error) {
	var objects []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &objects); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if len(objects) == 0 {
		return nil, NewGenerationError(MsgInvalidCardContent, nil)
	}

	candidates := make([]Candidate, 0, len(objects))
	for i, obj := range objects {
		c, err := decodeCandidate(obj)
		if err != nil {
			return nil, fmt.Errorf("%w: card %d: %w", ErrMalformedResponse, i, err)
		}
		candidates = append(candidates, c)
	}

	return candidates, nil
}

func decodeCandidate(obj map[string]json.RawMessage) (Candidate, error) {
	if obj == nil {
		return Candidate{}, fmt.Errorf("card is null")
	}

	front, err := stringField(obj, "front")
	if err != nil {
		return Candidate{}, err
	}
	back, err := stringField(obj, "back")
	if err != nil {
		return Candidate{}, err
	}
	if err := domain.ValidateCardText(front, back); err != nil {
		return Candidate{}, err
	}

	return Candidate{Front: front, Back: back}, nil
}

// stringField looks name up ignoring case. An exact-case key wins; otherwise
// the first matching key in sorted order is used.
func stringField(obj map[string]json.RawMessage, name string) (string, error) {
	value, ok := obj[name]
	if !ok {
		keys := make([]string, 0, len(obj))
		for key := range obj {
			if strings.EqualFold(key, name) {
				keys = append(keys, key)
			}
		}
		if len(keys) == 0 {
			return "", fmt.Errorf("field %q is missing", name)
		}
		slices.Sort(keys)
		value = obj[keys[0]]
	}

	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return "", fmt.Errorf("field %q: %w", name, err)
	}
	return s, nil
}

// stripCodeFence removes a markdown code fence wrapped around the whole output.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "[{") {
		s = s[nl+1:]
	}
	return strings.TrimSpace(s)
}
