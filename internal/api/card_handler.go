package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/tenxcards/tenxcards-api/internal/api/shared"
	"github.com/tenxcards/tenxcards-api/internal/domain"
	"github.com/tenxcards/tenxcards-api/internal/platform/logger"
	"github.com/tenxcards/tenxcards-api/internal/service"
	"github.com/tenxcards/tenxcards-api/internal/store"
)

// CardHandler serves the /api/cards routes.
type CardHandler struct {
	cardService service.CardService
	logger      *slog.Logger
}

// NewCardHandler creates a CardHandler.
func NewCardHandler(cardService service.CardService, logger *slog.Logger) *CardHandler {
	if cardService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cardService cannot be nil for CardHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CardHandler")
	}
	return &CardHandler{
		cardService: cardService,
		logger:      logger.With(slog.String("component", "card_handler")),
	}
}

// GenerateCards handles POST /api/cards/generate. With save set, the original
// content and cards are stored; otherwise the cards are only returned.
func (h *CardHandler) GenerateCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	// Get authenticated user ID
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	// Parse request
	var req GenerateCardsRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgInvalidRequest, err)
		return
	}

	// Pick the pipeline variant
	generate := h.cardService.GenerateCards
	if req.Save {
		generate = h.cardService.GenerateAndSaveCards
	}

	cards, err := generate(r.Context(), userID, req.OriginalContent)
	if err != nil {
		HandleAPIError(w, r, err, "An unexpected error occurred while generating the card")
		return
	}

	log.Debug("cards generated",
		slog.Int("count", len(cards)),
		slog.Bool("saved", req.Save))
	shared.RespondWithJSON(w, r, http.StatusCreated, cardsToResponse(cards))
}

// CreateCard handles POST /api/cards.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	// Parse request
	var req CreateCardRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgInvalidRequest, err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	generatedBy, err := domain.ParseGeneratedBy(req.GeneratedBy)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	card, err := h.cardService.CreateCard(r.Context(), userID, service.SaveCardCommand{
		Front:             req.Front,
		Back:              req.Back,
		GeneratedBy:       generatedBy,
		OriginalContentID: req.OriginalContentID,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create card")
		return
	}

	w.Header().Set("Location", "/api/cards/"+card.ID.String())
	shared.RespondWithJSON(w, r, http.StatusCreated, cardToResponse(card))
}

// ListCards handles GET /api/cards?page=&limit=&generatedBy=&sort=.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	page, limit, err := parsePaging(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	q := service.ListCardsQuery{
		Page:  page,
		Limit: limit,
		Sort:  store.CardSort(strings.ToLower(r.URL.Query().Get("sort"))),
	}
	if raw := r.URL.Query().Get("generatedBy"); raw != "" {
		q.GeneratedBy, err = domain.ParseGeneratedBy(raw)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
	}

	result, err := h.cardService.GetCards(r.Context(), userID, q)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list cards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardPageToResponse(result))
}

// GetCard handles GET /api/cards/{id}.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	card, err := h.cardService.GetCardByID(r.Context(), userID, cardID)
	if err != nil {
		HandleAPIError(w, r, err, "An error occurred while retrieving the card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// UpdateCard handles PUT /api/cards/{id}.
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	// Parse request
	var req UpdateCardRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgInvalidRequest, err)
		return
	}

	card, err := h.cardService.UpdateCard(r.Context(), userID, cardID, service.UpdateCardCommand{
		Front: req.Front,
		Back:  req.Back,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// DeleteCard handles DELETE /api/cards/{id}.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.cardService.DeleteCard(r.Context(), userID, cardID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete card")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RegenerateCard handles POST /api/cards/{id}/regenerate.
func (h *CardHandler) RegenerateCard(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	card, err := h.cardService.RegenerateCard(r.Context(), userID, cardID)
	if err != nil {
		HandleAPIError(w, r, err, "An unexpected error occurred while generating the card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// ListCardErrors handles GET /api/cards/{id}/errors.
func (h *CardHandler) ListCardErrors(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	logs, err := h.cardService.ListCardErrors(r.Context(), userID, cardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list card errors")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, errorLogsToResponse(logs))
}
