package seller

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/farmstay-api/pkg/api"
	"github.com/FACorreiaa/farmstay-api/pkg/interceptors"
)

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{service: service, logger: logger}
}

// GetDashboard godoc
// @Summary      Seller dashboard
// @Tags         Seller
// @Produce      json
// @Success      200 {object} Dashboard
// @Failure      401 {object} api.Response "Unauthorized"
// @Router       /api/seller/dashboard [get]
func (h *HandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SellerHandler").Start(r.Context(), "GetDashboard", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/seller/dashboard"),
	))
	defer span.End()

	sellerID, ok := interceptors.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	d, err := h.service.Dashboard(ctx, sellerID)
	if err != nil {
		api.DomainError(w, r, err, "Failed to load dashboard")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, d)
}

func (h *HandlerImpl) GetReviewLink(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SellerHandler").Start(r.Context(), "GetReviewLink")
	defer span.End()

	sellerID, ok := interceptors.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	link, err := h.service.ReviewLink(ctx, sellerID, chi.URLParam(r, "id"))
	if err != nil {
		api.DomainError(w, r, err, "Failed to build review link")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, link)
}
