package generation

import (
	"fmt"

	"github.com/tenxcards/tenxcards-api/internal/domain"
)

// Role tags a prompt message.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is a single role-tagged chat message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Prompt is the ordered message list sent to a Client.
type Prompt struct {
	Messages []Message
}

// SystemInstruction returns the content of the first system message, if any.
func (p *Prompt) SystemInstruction() string {
	for _, m := range p.Messages {
		if m.Role == RoleSystem {
			return m.Content
		}
	}
	return ""
}

const systemInstruction = "You are an expert at creating educational flashcards. " +
	"You turn study material into concise question and answer pairs that help learners remember the key facts."

const userInstructionTemplate = `Analyze the following text and create flashcards from it.

Each flashcard has:
- "front": a short question, at most %d characters
- "back": a detailed answer, at most %d characters

Return only a JSON array of objects with the fields "front" and "back".
Do not add any explanation, markdown or other markup around the array.

Text:
%s`

// BuildPrompt returns the two-message prompt for generating cards from
// originalContent. Length validation is the caller's job.
func BuildPrompt(originalContent string) *Prompt {
	return &Prompt{
		Messages: []Message{
			{Role: RoleSystem, Content: systemInstruction},
			{
				Role: RoleUser,
				Content: fmt.Sprintf(userInstructionTemplate,
					domain.MaxFrontLength, domain.MaxBackLength, originalContent),
			},
		},
	}
}

// ValidatePrompt rejects a nil prompt or one without messages.
func ValidatePrompt(p *Prompt) error {
	if p == nil || len(p.Messages) == 0 {
		return NewValidationError(MsgEmptyPrompt, nil)
	}
	return nil
}
