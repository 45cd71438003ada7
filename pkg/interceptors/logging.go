package interceptors

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewLoggingInterceptor logs every request with its status, duration and response size.
func NewLoggingInterceptor(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			logger.DebugContext(r.Context(), "request started", appendLoggerFields(r.Context(),
				"method", r.Method,
				"path", r.URL.Path,
				"peer", r.RemoteAddr,
				"request_size_bytes", r.ContentLength,
			)...)

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := appendLoggerFields(r.Context(),
				"method", r.Method,
				"path", r.URL.Path,
				"route", routePattern(r),
				"status", status,
				"duration", duration.String(),
				"duration_ms", duration.Milliseconds(),
				"response_size_bytes", ww.BytesWritten(),
			)

			switch {
			case status >= http.StatusInternalServerError:
				logger.ErrorContext(r.Context(), "request failed", fields...)
			case status >= http.StatusBadRequest:
				logger.WarnContext(r.Context(), "request rejected", fields...)
			default:
				logger.InfoContext(r.Context(), "request completed", fields...)
			}
		})
	}
}

func appendLoggerFields(ctx context.Context, base ...any) []any {
	if requestID, ok := RequestIDFromContext(ctx); ok && requestID != "" {
		base = append(base, "request_id", requestID)
	}
	if userID, ok := GetUserIDFromContext(ctx); ok && userID != "" {
		base = append(base, "user_id", userID)
	}
	return base
}

// routePattern returns the matched chi pattern so metrics and logs do not
// explode on path parameters.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// RoutePattern is routePattern for other packages.
func RoutePattern(r *http.Request) string { return routePattern(r) }
