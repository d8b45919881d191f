package middleware

import (
	"log/slog"
	"net/http"

	"github.com/tenxcards/tenxcards-api/internal/api/shared"
	"github.com/tenxcards/tenxcards-api/internal/platform/logger"
)

// TraceMiddleware assigns a trace ID to every request and stores a request
// logger carrying it. Mount it before any middleware that logs.
func TraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			log := logger.FromContextOrDefault(ctx, base).With(slog.String("trace_id", shared.GetTraceID(ctx)))

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(logger.WithLogger(ctx, log)))
		})
	}
}
