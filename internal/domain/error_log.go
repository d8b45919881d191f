package domain

import (
	"time"

	"github.com/google/uuid"
)

// ErrorLog records a generation failure against a card. It is never updated
// and disappears with its card.
type ErrorLog struct {
	ID           uuid.UUID `json:"id"`
	CardID       uuid.UUID `json:"card_id"`
	ErrorDetails string    `json:"error_details"`
	LoggedAt     time.Time `json:"logged_at"`
}

// NewErrorLog creates an ErrorLog stamped with the current UTC time.
func NewErrorLog(cardID uuid.UUID, details string) (*ErrorLog, error) {
	if cardID == uuid.Nil {
		return nil, NewValidationError("cardId", "Card ID cannot be empty")
	}
	return &ErrorLog{
		ID:           uuid.New(),
		CardID:       cardID,
		ErrorDetails: details,
		LoggedAt:     time.Now().UTC(),
	}, nil
}
