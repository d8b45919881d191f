package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Card text limits, counted in characters.
const (
	MaxFrontLength = 1000
	MaxBackLength  = 5000
)

// GeneratedBy tags where a card came from.
type GeneratedBy string

const (
	// GeneratedByAI marks cards produced by the generation pipeline.
	GeneratedByAI GeneratedBy = "AI"
	// GeneratedByHuman marks cards authored by the user.
	GeneratedByHuman GeneratedBy = "human"
)

// IsValid reports whether g is one of the allowed source tags.
func (g GeneratedBy) IsValid() bool {
	return g == GeneratedByAI || g == GeneratedByHuman
}

// ParseGeneratedBy accepts the tag in any letter case.
func ParseGeneratedBy(s string) (GeneratedBy, error) {
	switch {
	case strings.EqualFold(s, string(GeneratedByAI)):
		return GeneratedByAI, nil
	case strings.EqualFold(s, string(GeneratedByHuman)):
		return GeneratedByHuman, nil
	default:
		return "", NewValidationError("generatedBy", "GeneratedBy must be AI or human")
	}
}

// Card is a single flashcard owned by one user. AI cards usually reference
// the OriginalContent they were generated from.
type Card struct {
	ID                uuid.UUID   `json:"id"`
	UserID            uuid.UUID   `json:"user_id"`
	Front             string      `json:"front"`
	Back              string      `json:"back"`
	GeneratedBy       GeneratedBy `json:"generated_by"`
	OriginalContentID *uuid.UUID  `json:"original_content_id,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// NewCard creates a new Card with a fresh ID and UTC timestamps.
// Returns a ValidationError if any field is invalid.
func NewCard(
	userID uuid.UUID,
	front, back string,
	generatedBy GeneratedBy,
	originalContentID *uuid.UUID,
) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:                uuid.New(),
		UserID:            userID,
		Front:             front,
		Back:              back,
		GeneratedBy:       generatedBy,
		OriginalContentID: originalContentID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks the card invariants.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return NewValidationError("id", "Card ID cannot be empty")
	}
	if c.UserID == uuid.Nil {
		return NewValidationError("userId", "User ID cannot be empty")
	}
	if err := ValidateCardText(c.Front, c.Back); err != nil {
		return err
	}
	if !c.GeneratedBy.IsValid() {
		return NewValidationError("generatedBy", "GeneratedBy must be AI or human")
	}
	if c.OriginalContentID != nil && *c.OriginalContentID == uuid.Nil {
		return NewValidationError("originalContentId", "Original content ID cannot be empty")
	}
	return nil
}

// ValidateCardText checks the front and back limits shared by every card write.
func ValidateCardText(front, back string) error {
	if strings.TrimSpace(front) == "" {
		return NewValidationError("front", "Front cannot be empty")
	}
	if utf8.RuneCountInString(front) > MaxFrontLength {
		return NewValidationError("front", fmt.Sprintf("Front cannot exceed %d characters", MaxFrontLength))
	}
	if strings.TrimSpace(back) == "" {
		return NewValidationError("back", "Back cannot be empty")
	}
	if utf8.RuneCountInString(back) > MaxBackLength {
		return NewValidationError("back", fmt.Sprintf("Back cannot exceed %d characters", MaxBackLength))
	}
	return nil
}

// Update replaces the card text and bumps UpdatedAt.
// The card is left untouched when the new text is invalid.
func (c *Card) Update(front, back string) error {
	if err := ValidateCardText(front, back); err != nil {
		return err
	}
	c.Front = front
	c.Back = back
	c.UpdatedAt = time.Now().UTC()
	return nil
}
