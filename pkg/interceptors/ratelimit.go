package interceptors

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/FACorreiaa/farmstay-api/pkg/api"
)

// NewRateLimitInterceptor rejects requests with 429 once limiter is exhausted.
// A nil limiter disables limiting.
func NewRateLimitInterceptor(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				api.ErrorResponse(w, r, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
