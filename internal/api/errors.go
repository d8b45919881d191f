package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tenxcards/tenxcards-api/internal/api/shared"
	"github.com/tenxcards/tenxcards-api/internal/domain"
	"github.com/tenxcards/tenxcards-api/internal/generation"
	"github.com/tenxcards/tenxcards-api/internal/service"
	"github.com/tenxcards/tenxcards-api/internal/service/auth"
	"github.com/tenxcards/tenxcards-api/internal/store"
)

// Client-facing messages.
const (
	MsgInvalidRequest     = "Invalid request format"
	MsgGenerationFailed   = "Failed to generate card using AI service"
	MsgUnexpected         = "An unexpected error occurred"
	MsgForbidden          = "You do not have access to this resource"
	MsgInvalidCredentials = "Invalid email or password"
	MsgUnauthorized       = "User ID not found or invalid"
)

// MapErrorToStatusCode maps an error to the HTTP status sent to the client.
func MapErrorToStatusCode(err error) int {
	if kind, ok := generation.KindOf(err); ok {
		if kind == generation.KindGeneration {
			return http.StatusUnprocessableEntity
		}
		return http.StatusInternalServerError
	}

	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, shared.ErrEmptyBody):
		return http.StatusBadRequest

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden

	case store.IsNotFoundError(err):
		return http.StatusNotFound

	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a message for err that is safe to show to the client.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return MsgUnexpected
	}

	if kind, ok := generation.KindOf(err); ok {
		if kind == generation.KindGeneration {
			return MsgGenerationFailed
		}
		return MsgUnexpected
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return domain.ValidationMessage(err)
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"
	case errors.Is(err, shared.ErrEmptyBody):
		return MsgInvalidRequest

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"
	case errors.Is(err, service.ErrInvalidCredentials):
		return MsgInvalidCredentials
	case errors.Is(err, domain.ErrUnauthorized):
		return MsgUnauthorized

	case errors.Is(err, service.ErrNotOwned):
		return MsgForbidden

	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"
	case errors.Is(err, store.ErrOriginalContentNotFound):
		return "Original content not found"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case store.IsNotFoundError(err):
		return "Resource not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	default:
		return MsgUnexpected
	}
}

// HandleAPIError writes the mapped status and safe message for err and logs
// the redacted cause. A non-empty fallback replaces the generic 500 message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string, opts ...shared.ResponseOption) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// SanitizeValidationError turns a validator error into a client message
// naming the first failing field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}

	fe := verrs[0]
	return fmt.Sprintf("Invalid %s: %s", lowerFirst(fe.Field()), validationTagMessage(fe.Tag(), fe.Param()))
}

func validationTagMessage(tag, param string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "must be at least " + param + " characters"
	case "max":
		return "must be at most " + param + " characters"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(param, " ", ", ")
	default:
		return "validation failed"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
