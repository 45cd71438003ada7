package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"

	"github.com/FACorreiaa/farmstay-api/pkg/interceptors"
	"github.com/FACorreiaa/farmstay-api/pkg/observability"
)

// SetupRouter configures all routes and returns the HTTP handler
func SetupRouter(deps *Dependencies) http.Handler {
	r := chi.NewRouter()

	jwtSecret := []byte(deps.Config.Auth.JWTSecret)
	if len(jwtSecret) == 0 {
		deps.Logger.Warn("JWT secret is empty; authentication interceptor will reject requests")
	}

	tracer := otel.GetTracerProvider().Tracer("farmstay/api")

	var limiter *rate.Limiter
	if deps.Config.Server.RateLimitPerSecond > 0 && deps.Config.Server.RateLimitBurst > 0 {
		limiter = rate.NewLimiter(
			rate.Limit(float64(deps.Config.Server.RateLimitPerSecond)),
			deps.Config.Server.RateLimitBurst,
		)
	}

	r.Use(
		interceptors.NewRequestIDInterceptor("X-Request-ID"),
		interceptors.NewRecoveryInterceptor(deps.Logger),
		interceptors.NewTracingInterceptor(tracer),
		interceptors.NewLoggingInterceptor(deps.Logger),
		observability.NewMetricsInterceptor(),
		interceptors.NewRateLimitInterceptor(limiter),
	)

	registerPublicRoutes(r, deps)
	registerSellerRoutes(r, deps, interceptors.NewAuthInterceptor(jwtSecret))
	registerAdminRoutes(r, deps, interceptors.NewAuthInterceptor(jwtSecret))
	registerUtilityRoutes(r, deps)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: deps.Config.Server.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: true,
	})

	return corsHandler.Handler(r)
}

// registerPublicRoutes registers the listing, search session, review and inquiry routes
func registerPublicRoutes(r chi.Router, deps *Dependencies) {
	r.Get("/api/amenities", deps.ListingHandler.ListAmenities)
	r.Get("/api/filter-options", deps.ListingHandler.ListFilterOptions)

	r.Get("/api/properties", deps.ListingHandler.ListProperties)
	r.Get("/api/properties/{id}", deps.ListingHandler.GetProperty)
	r.Get("/api/properties/{id}/reviews", deps.ReviewHandler.ListPropertyReviews)
	r.Post("/api/properties/{id}/reviews", deps.ReviewHandler.SubmitReview)
	r.Post("/api/properties/{id}/inquiries", deps.InquiryHandler.CreateInquiry)

	r.Get("/api/search", deps.ListingHandler.GetSearchSession)
	r.Patch("/api/search", deps.ListingHandler.UpdateSearchSession)
	r.Delete("/api/search", deps.ListingHandler.ResetSearchSession)
	deps.Logger.Info("registered public routes", "prefix", "/api")
}

func registerSellerRoutes(r chi.Router, deps *Dependencies, auth func(http.Handler) http.Handler) {
	r.Route("/api/seller", func(r chi.Router) {
		r.Use(auth, interceptors.RequireRole(interceptors.RoleServiceProvider))

		r.Get("/dashboard", deps.SellerHandler.GetDashboard)
		r.Get("/inquiries", deps.InquiryHandler.ListSellerInquiries)
		r.Patch("/inquiries/{id}", deps.InquiryHandler.UpdateInquiryStatus)
		r.Post("/properties/{id}/contact-requests", deps.ContactHandler.SubmitContactRequest)
		r.Post("/properties/{id}/tag-requests", deps.TagHandler.PurchaseTag)
		r.Get("/properties/{id}/review-link", deps.SellerHandler.GetReviewLink)
	})
	deps.Logger.Info("registered seller routes", "prefix", "/api/seller")
}

func registerAdminRoutes(r chi.Router, deps *Dependencies, auth func(http.Handler) http.Handler) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(auth, interceptors.RequireRole(interceptors.RoleAdmin))

		r.Get("/dashboard", deps.AdminHandler.GetDashboard)
		r.Get("/contact-requests", deps.ContactHandler.ListContactRequests)
		r.Put("/contact-requests/{id}", deps.ContactHandler.DecideContactRequest)
		r.Get("/tag-requests", deps.TagHandler.ListTagRequests)
		r.Put("/tag-requests/{id}", deps.TagHandler.DecideTagRequest)
		r.Get("/reviews", deps.ReviewHandler.ListReviews)
		r.Put("/reviews/{id}", deps.ReviewHandler.DecideReview)
		r.Get("/settings", deps.SettingsHandler.ListSettings)
		r.Put("/settings/{key}", deps.SettingsHandler.SetSetting)
	})
	deps.Logger.Info("registered admin routes", "prefix", "/api/admin")
}

// registerUtilityRoutes registers health check, metrics, and other utility routes
func registerUtilityRoutes(r chi.Router, deps *Dependencies) {
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		if err := deps.DB.Health(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("database unhealthy"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if deps.Config.Observability.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
		deps.Logger.Info("registered metrics endpoint", "path", "/metrics")
	}
}
