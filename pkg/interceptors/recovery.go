package interceptors

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/FACorreiaa/farmstay-api/pkg/api"
)

// NewRecoveryInterceptor turns handler panics into 500 responses.
func NewRecoveryInterceptor(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(r.Context(), "panic recovered", appendLoggerFields(r.Context(),
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
					"stack", string(debug.Stack()),
				)...)
				api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
			}()
			next.ServeHTTP(w, r)
		})
	}
}
