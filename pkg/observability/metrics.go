// Package observability holds the Prometheus collectors and the logger setup.
package observability

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/FACorreiaa/farmstay-api/pkg/interceptors"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmstay_http_requests_total",
		Help: "HTTP requests by route pattern, method and status.",
	}, []string{"route", "method", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "farmstay_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern and method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	searchResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "farmstay_search_results",
		Help:    "Number of properties returned per search.",
		Buckets: []float64{0, 1, 2, 3, 5, 10, 25, 50},
	})

	searchEmptyTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "farmstay_search_empty_total",
		Help: "Searches that matched no property.",
	})

	catalogRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "farmstay_catalog_rows_rejected_total",
		Help: "Property rows dropped from the catalog because they failed validation.",
	})

	moderationDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmstay_moderation_decisions_total",
		Help: "Admin moderation decisions by record kind and resulting status.",
	}, []string{"kind", "status"})
)

// NewMetricsInterceptor records request counts and latency.
func NewMetricsInterceptor() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := interceptors.RoutePattern(r)
			httpRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
		})
	}
}

// ObserveSearch records the size of a search result.
func ObserveSearch(count int) {
	searchResults.Observe(float64(count))
	if count == 0 {
		searchEmptyTotal.Inc()
	}
}

// ObserveCatalogRejected counts rows left out of a catalog load.
func ObserveCatalogRejected(n int) {
	if n > 0 {
		catalogRejectedTotal.Add(float64(n))
	}
}

// ObserveModeration records one admin decision.
func ObserveModeration(kind, status string) {
	moderationDecisionsTotal.WithLabelValues(kind, status).Inc()
}

// NewLogger builds the process logger from the configured level and format.
func NewLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
