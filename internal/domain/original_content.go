package domain

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Source text bounds, counted in characters.
const (
	MinContentLength = 1000
	MaxContentLength = 10000
)

// OriginalContent is the source text a user submits for card generation.
// Deleting it deletes every card that references it.
type OriginalContent struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewOriginalContent creates an OriginalContent with a fresh ID.
func NewOriginalContent(userID uuid.UUID, content string) (*OriginalContent, error) {
	oc := &OriginalContent{
		ID:        uuid.New(),
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if err := oc.Validate(); err != nil {
		return nil, err
	}

	return oc, nil
}

// Validate checks the ownership and length invariants.
func (o *OriginalContent) Validate() error {
	if o.ID == uuid.Nil {
		return NewValidationError("id", "Original content ID cannot be empty")
	}
	if o.UserID == uuid.Nil {
		return NewValidationError("userId", "User ID cannot be empty")
	}
	// Whitespace counts toward the length; only the empty string is rejected here.
	if o.Content == "" {
		return NewValidationError("content", "Content cannot be empty")
	}
	if !ContentLengthInRange(o.Content) {
		return NewValidationError("content", "Content length must be between 1000 and 10000 characters")
	}
	return nil
}

// ContentLengthInRange reports whether s has between MinContentLength and
// MaxContentLength characters, inclusive.
func ContentLengthInRange(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= MinContentLength && n <= MaxContentLength
}
