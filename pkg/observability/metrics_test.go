package observability

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsInterceptor(t *testing.T) {
	r := chi.NewRouter()
	r.Use(NewMetricsInterceptor())
	r.Get("/api/properties/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/api/properties/{id}", http.MethodGet, "404"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/properties/farm-a", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/properties/farm-b", nil))
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/api/properties/{id}", http.MethodGet, "404"))

	assert.Equal(t, 2.0, after-before)
}

func TestObserveSearch(t *testing.T) {
	before := testutil.ToFloat64(searchEmptyTotal)
	ObserveSearch(3)
	ObserveSearch(0)
	assert.Equal(t, 1.0, testutil.ToFloat64(searchEmptyTotal)-before)
}

func TestObserveCatalogRejected(t *testing.T) {
	before := testutil.ToFloat64(catalogRejectedTotal)
	ObserveCatalogRejected(0)
	ObserveCatalogRejected(2)
	assert.Equal(t, 2.0, testutil.ToFloat64(catalogRejectedTotal)-before)
}

func TestObserveModeration(t *testing.T) {
	c := moderationDecisionsTotal.WithLabelValues("review", "approved")
	before := testutil.ToFloat64(c)
	ObserveModeration("review", "approved")
	assert.Equal(t, 1.0, testutil.ToFloat64(c)-before)
}

func TestNewLogger(t *testing.T) {
	ctx := context.Background()
	assert.True(t, NewLogger("debug", "text").Enabled(ctx, slog.LevelDebug))
	assert.False(t, NewLogger("warn", "json").Enabled(ctx, slog.LevelInfo))
	assert.True(t, NewLogger("nonsense", "text").Enabled(ctx, slog.LevelInfo))
}
