package api

import (
	"log/slog"
	"net/http"

	"github.com/tenxcards/tenxcards-api/internal/api/shared"
	"github.com/tenxcards/tenxcards-api/internal/platform/logger"
	"github.com/tenxcards/tenxcards-api/internal/service"
)

// OriginalContentHandler serves the /api/original-contents routes.
type OriginalContentHandler struct {
	contentService service.OriginalContentService
	logger         *slog.Logger
}

// NewOriginalContentHandler creates an OriginalContentHandler.
func NewOriginalContentHandler(contentService service.OriginalContentService, logger *slog.Logger) *OriginalContentHandler {
	if contentService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("contentService cannot be nil for OriginalContentHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OriginalContentHandler{
		contentService: contentService,
		logger:         logger.With(slog.String("component", "original_content_handler")),
	}
}

// Create handles POST /api/original-contents.
func (h *OriginalContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	// Parse request
	var req CreateOriginalContentRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgInvalidRequest, err)
		return
	}

	oc, err := h.contentService.Create(r.Context(), userID, req.Content)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to save original content")
		return
	}

	w.Header().Set("Location", "/api/original-contents/"+oc.ID.String())
	shared.RespondWithJSON(w, r, http.StatusCreated, contentToResponse(oc))
}

// List handles GET /api/original-contents?page=&limit=.
func (h *OriginalContentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	page, limit, err := parsePaging(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.contentService.List(r.Context(), userID, page, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list original contents")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, contentPageToResponse(result))
}

// Get handles GET /api/original-contents/{id}.
func (h *OriginalContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	oc, err := h.contentService.Get(r.Context(), userID, id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve original content")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, contentToResponse(oc))
}

// Delete handles DELETE /api/original-contents/{id}. Cards generated from the
// content are removed with it.
func (h *OriginalContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.contentService.Delete(r.Context(), userID, id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete original content")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("original content deleted",
		slog.String("content_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}
