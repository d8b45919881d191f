package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tenxcards/tenxcards-api/internal/domain"
	"github.com/tenxcards/tenxcards-api/internal/platform/logger"
	"github.com/tenxcards/tenxcards-api/internal/store"
)

// ErrorLogger records generation failures against cards.
type ErrorLogger interface {
	// LogError stores err against cardID. It never fails: a storage error is
	// logged at critical level and dropped.
	LogError(ctx context.Context, cardID uuid.UUID, err error)

	// ListErrors returns the entries of cardID, newest first.
	ListErrors(ctx context.Context, cardID uuid.UUID) ([]*domain.ErrorLog, error)
}

type errorLoggerImpl struct {
	store  store.ErrorLogStore
	logger *slog.Logger
}

var _ ErrorLogger = (*errorLoggerImpl)(nil)

// NewErrorLogger creates an ErrorLogger backed by s.
func NewErrorLogger(s store.ErrorLogStore, logger *slog.Logger) ErrorLogger {
	if s == nil {
		panic("error log store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &errorLoggerImpl{
		store:  s,
		logger: logger.With(slog.String("component", "error_logger")),
	}
}

func (l *errorLoggerImpl) LogError(ctx context.Context, cardID uuid.UUID, err error) {
	if err == nil {
		return
	}
	log := logger.FromContextOrDefault(ctx, l.logger)

	entry, buildErr := domain.NewErrorLog(cardID, err.Error())
	if buildErr == nil {
		buildErr = l.store.Create(ctx, entry)
	}
	if buildErr != nil {
		log.Log(ctx, logger.LevelCritical, "failed to persist error log",
			slog.String("card_id", cardID.String()),
			slog.String("original_error", err.Error()),
			slog.String("error", buildErr.Error()))
		return
	}

	log.Info("recorded generation failure",
		slog.String("card_id", cardID.String()),
		slog.String("error_log_id", entry.ID.String()))
}

func (l *errorLoggerImpl) ListErrors(ctx context.Context, cardID uuid.UUID) ([]*domain.ErrorLog, error) {
	entries, err := l.store.ListByCard(ctx, cardID)
	if err != nil {
		return nil, NewServiceError("list_errors", "failed to load error logs", err)
	}
	return entries, nil
}
