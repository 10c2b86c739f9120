package middleware

import (
	"log/slog"
	"net/http"

	"github.com/kavramlab/kavram-api/internal/api/shared"
	"github.com/kavramlab/kavram-api/internal/platform/logger"
)

// NewTraceMiddleware returns middleware that assigns every request a trace
// ID. The ID goes into the request context, into the X-Trace-ID response
// header, and onto the request-scoped logger so downstream handlers log
// with it. Apply early in the chain so all subsequent handlers see it.
func NewTraceMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			traceID := shared.GetTraceID(ctx)

			w.Header().Set("X-Trace-ID", traceID)

			reqLog := log.With(slog.String("trace_id", traceID))
			ctx = logger.WithLogger(ctx, reqLog)

			reqLog.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
