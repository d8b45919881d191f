package generation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/tenxcards/tenxcards-api/internal/platform/logger"
)

// RetryConfig bounds the retry layer. MaxRetries counts retries after the
// first attempt; zero disables retrying.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// RetryingClient retries transient failures of the wrapped Client with
// exponential backoff. Validation and malformed-response errors are returned
// after the first attempt.
type RetryingClient struct {
	next   Client
	cfg    RetryConfig
	logger *slog.Logger
}

var _ Client = (*RetryingClient)(nil)

// NewRetryingClient wraps next. A non-positive BaseDelay defaults to two seconds.
func NewRetryingClient(next Client, cfg RetryConfig, log *slog.Logger) *RetryingClient {
	if next == nil {
		panic("next client cannot be nil")
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 2 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if log == nil {
		log = slog.Default()
	}
	return &RetryingClient{
		next:   next,
		cfg:    cfg,
		logger: log.With(slog.String("component", "ai_retry")),
	}
}

// Send implements Client.
func (c *RetryingClient) Send(ctx context.Context, prompt *Prompt) (string, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	backoff := retry.WithMaxRetries(
		uint64(c.cfg.MaxRetries),
		retry.WithJitterPercent(10, retry.NewExponential(c.cfg.BaseDelay)),
	)

	attempt := 0
	out, err := retry.DoValue(ctx, backoff, func(ctx context.Context) (string, error) {
		attempt++
		text, err := c.next.Send(ctx, prompt)
		if err == nil {
			return text, nil
		}
		if attempt <= c.cfg.MaxRetries && IsTransient(err) {
			log.Warn("transient AI provider failure, retrying",
				slog.Int("attempt", attempt),
				slog.Int("max_retries", c.cfg.MaxRetries),
				slog.String("error", err.Error()))
			return "", retry.RetryableError(err)
		}
		return "", err
	})
	if err != nil {
		// go-retry reports cancellation between attempts as the bare ctx error
		return "", WrapUnknown(err)
	}

	return out, nil
}

// IsTransient reports whether err is worth retrying: rate limiting, server
// errors and transport-level failures. Caller cancellation is never transient.
func IsTransient(err error) bool {
	var ge *Error
	if !errors.As(err, &ge) {
		return false
	}

	switch ge.Kind {
	case KindNetwork:
		return ge.StatusCode == http.StatusTooManyRequests ||
			ge.StatusCode == http.StatusRequestTimeout ||
			ge.StatusCode >= http.StatusInternalServerError
	case KindUnknown:
		if ge.Err == nil || errors.Is(ge.Err, context.Canceled) {
			return false
		}
		var netErr net.Error
		return errors.As(ge.Err, &netErr) ||
			errors.Is(ge.Err, context.DeadlineExceeded) ||
			errors.Is(ge.Err, io.ErrUnexpectedEOF) ||
			errors.Is(ge.Err, syscall.ECONNRESET) ||
			errors.Is(ge.Err, syscall.ECONNREFUSED)
	default:
		return false
	}
}
