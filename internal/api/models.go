package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/tenxcards/tenxcards-api/internal/domain"
	"github.com/tenxcards/tenxcards-api/internal/service"
)

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email     string `json:"email"     validate:"required,email,max=255"`
	Password  string `json:"password"  validate:"required"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName"  validate:"max=100"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	UserID uuid.UUID `json:"userId"`
	Token  string    `json:"token"`
}

// GenerateCardsRequest is the body of POST /api/cards/generate. Length rules
// are enforced by the card service so the messages match the service's.
type GenerateCardsRequest struct {
	OriginalContent string `json:"originalContent"`
	// Save stores the original content and the generated cards.
	Save bool `json:"save"`
}

// CreateCardRequest is the body of POST /api/cards.
type CreateCardRequest struct {
	Front             string     `json:"front"`
	Back              string     `json:"back"`
	GeneratedBy       string     `json:"generatedBy"       validate:"required"`
	OriginalContentID *uuid.UUID `json:"originalContentId"`
}

// UpdateCardRequest is the body of PUT /api/cards/{id}.
type UpdateCardRequest struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// CreateOriginalContentRequest is the body of POST /api/original-contents.
type CreateOriginalContentRequest struct {
	Content string `json:"content"`
}

// CardResponse is the wire form of a card.
type CardResponse struct {
	ID                uuid.UUID  `json:"id"`
	Front             string     `json:"front"`
	Back              string     `json:"back"`
	GeneratedBy       string     `json:"generatedBy"`
	OriginalContentID *uuid.UUID `json:"originalContentId,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// PageResponse is one page of a list endpoint.
type PageResponse[T any] struct {
	Items []T `json:"items"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// ErrorLogResponse is one entry of a card's error log.
type ErrorLogResponse struct {
	ID           uuid.UUID `json:"id"`
	CardID       uuid.UUID `json:"cardId"`
	ErrorDetails string    `json:"errorDetails"`
	LoggedAt     time.Time `json:"loggedAt"`
}

// OriginalContentResponse is the wire form of an original content.
type OriginalContentResponse struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func cardToResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:                card.ID,
		Front:             card.Front,
		Back:              card.Back,
		GeneratedBy:       string(card.GeneratedBy),
		OriginalContentID: card.OriginalContentID,
		CreatedAt:         card.CreatedAt,
		UpdatedAt:         card.UpdatedAt,
	}
}

func cardsToResponse(cards []*domain.Card) []CardResponse {
	out := make([]CardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardToResponse(c))
	}
	return out
}

func cardPageToResponse(p *service.CardPage) PageResponse[CardResponse] {
	return PageResponse[CardResponse]{
		Items: cardsToResponse(p.Items),
		Page:  p.Page,
		Limit: p.Limit,
		Total: p.Total,
	}
}

func errorLogsToResponse(logs []*domain.ErrorLog) []ErrorLogResponse {
	out := make([]ErrorLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, ErrorLogResponse{
			ID:           l.ID,
			CardID:       l.CardID,
			ErrorDetails: l.ErrorDetails,
			LoggedAt:     l.LoggedAt,
		})
	}
	return out
}

func contentToResponse(oc *domain.OriginalContent) OriginalContentResponse {
	return OriginalContentResponse{ID: oc.ID, Content: oc.Content, CreatedAt: oc.CreatedAt}
}

func contentPageToResponse(p *service.ContentPage) PageResponse[OriginalContentResponse] {
	items := make([]OriginalContentResponse, 0, len(p.Items))
	for _, oc := range p.Items {
		items = append(items, contentToResponse(oc))
	}
	return PageResponse[OriginalContentResponse]{Items: items, Page: p.Page, Limit: p.Limit, Total: p.Total}
}
