package admin

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/farmstay-api/pkg/api"
)

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{service: service, logger: logger}
}

// GetDashboard godoc
// @Summary      Admin dashboard
// @Description  Contact requests, tag requests, reviews and global settings in one payload
// @Tags         Admin
// @Produce      json
// @Success      200 {object} Dashboard
// @Failure      403 {object} api.Response "Forbidden"
// @Router       /api/admin/dashboard [get]
func (h *HandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AdminHandler").Start(r.Context(), "GetDashboard", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/admin/dashboard"),
	))
	defer span.End()

	d, err := h.service.Dashboard(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to load admin dashboard", slog.Any("error", err))
		api.DomainError(w, r, err, "Failed to load dashboard")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, d)
}
