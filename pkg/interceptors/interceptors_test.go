package interceptors

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/time/rate"
)

var testSecret = []byte("interceptor-test-secret")

func signToken(t *testing.T, claims jwt.MapClaims, method jwt.SigningMethod, key any) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return tok
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestIDInterceptor(t *testing.T) {
	var seen string
	h := NewRequestIDInterceptor("X-Request-ID")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = RequestIDFromContext(r.Context())
	}))

	t.Run("generates id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
	})

	t.Run("keeps inbound id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		h.ServeHTTP(rec, req)
		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
	})
}

func TestAuthInterceptor(t *testing.T) {
	var got Identity
	h := NewAuthInterceptor(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(authHeader string) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	t.Run("missing token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(""))
	})

	t.Run("valid token with roles array", func(t *testing.T) {
		tok := signToken(t, jwt.MapClaims{
			"sub":   "seller-1",
			"roles": []string{"Service_Provider"},
			"exp":   time.Now().Add(time.Hour).Unix(),
		}, jwt.SigningMethodHS256, testSecret)
		require.Equal(t, http.StatusOK, serve("Bearer "+tok))
		assert.Equal(t, "seller-1", got.UserID)
		assert.Equal(t, []string{RoleServiceProvider}, got.Roles)
	})

	t.Run("single role claim", func(t *testing.T) {
		tok := signToken(t, jwt.MapClaims{"sub": "admin-1", "role": "admin"}, jwt.SigningMethodHS256, testSecret)
		require.Equal(t, http.StatusOK, serve("Bearer "+tok))
		assert.True(t, got.HasRole(RoleAdmin))
	})

	t.Run("expired token", func(t *testing.T) {
		tok := signToken(t, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Minute).Unix()}, jwt.SigningMethodHS256, testSecret)
		assert.Equal(t, http.StatusUnauthorized, serve("Bearer "+tok))
	})

	t.Run("wrong secret", func(t *testing.T) {
		tok := signToken(t, jwt.MapClaims{"sub": "u"}, jwt.SigningMethodHS256, []byte("other"))
		assert.Equal(t, http.StatusUnauthorized, serve("Bearer "+tok))
	})

	t.Run("other hmac algorithm rejected", func(t *testing.T) {
		tok := signToken(t, jwt.MapClaims{"sub": "u"}, jwt.SigningMethodHS512, testSecret)
		assert.Equal(t, http.StatusUnauthorized, serve("Bearer "+tok))
	})

	t.Run("missing subject", func(t *testing.T) {
		tok := signToken(t, jwt.MapClaims{"role": "admin"}, jwt.SigningMethodHS256, testSecret)
		assert.Equal(t, http.StatusUnauthorized, serve("Bearer "+tok))
	})
}

func TestRequireRole(t *testing.T) {
	h := RequireRole(RoleAdmin)(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithIdentity(req.Context(), Identity{UserID: "s", Roles: []string{RoleServiceProvider}}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithIdentity(req.Context(), Identity{UserID: "a", Roles: []string{RoleAdmin}}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitInterceptor(t *testing.T) {
	h := NewRateLimitInterceptor(rate.NewLimiter(rate.Limit(1), 1))(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	t.Run("nil limiter passes through", func(t *testing.T) {
		h := NewRateLimitInterceptor(nil)(okHandler())
		for i := 0; i < 5; i++ {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})
}

func TestRecoveryInterceptor(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	h := NewRecoveryInterceptor(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/explode", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "boom")
}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	r := chi.NewRouter()
	r.Use(NewRequestIDInterceptor("X-Request-ID"), NewLoggingInterceptor(logger))
	r.Get("/api/properties/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/properties/farm-x", nil))

	out := buf.String()
	assert.Contains(t, out, "request rejected")
	assert.Contains(t, out, "status=404")
	assert.Contains(t, out, "route=/api/properties/{id}")
	assert.Contains(t, out, "request_id=")
}

func TestTracingInterceptor(t *testing.T) {
	tracer := noop.NewTracerProvider().Tracer("test")
	r := chi.NewRouter()
	r.Use(NewTracingInterceptor(tracer))
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
