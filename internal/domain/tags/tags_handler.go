package tags

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/farmstay-api/internal/types"
	"github.com/FACorreiaa/farmstay-api/pkg/api"
	"github.com/FACorreiaa/farmstay-api/pkg/interceptors"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	PurchaseTag(w http.ResponseWriter, r *http.Request)
	ListTagRequests(w http.ResponseWriter, r *http.Request)
	DecideTagRequest(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service: service,
		logger:  logger,
	}
}

// PurchaseTag godoc
// @Summary      Buy a promotional tag
// @Description  Files a pending tag request; the tag goes live once an admin approves the payment
// @Tags         Seller
// @Accept       json
// @Produce      json
// @Param        id path string true "Property ID"
// @Param        body body types.CreateTagRequestParams true "Tag purchase"
// @Success      201 {object} types.TagRequest
// @Failure      400 {object} api.Response "Bad Request"
// @Failure      403 {object} api.Response "Not the property owner"
// @Router       /api/seller/properties/{id}/tag-requests [post]
func (h *HandlerImpl) PurchaseTag(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TagsHandler").Start(r.Context(), "PurchaseTag", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/seller/properties/{id}/tag-requests"),
	))
	defer span.End()

	sellerID, ok := interceptors.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var params types.CreateTagRequestParams
	if err := api.DecodeJSON(r, &params); err != nil {
		api.DomainError(w, r, err, "Invalid request body")
		return
	}

	t, err := h.service.Purchase(ctx, sellerID, chi.URLParam(r, "id"), params)
	if err != nil {
		api.DomainError(w, r, err, "Failed to purchase tag")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, t)
}

func (h *HandlerImpl) ListTagRequests(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TagsHandler").Start(r.Context(), "ListTagRequests")
	defer span.End()

	var status types.ModerationStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s, err := types.ParseModerationStatus(raw)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		status = s
	}

	out, err := h.service.ListAll(ctx, status)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list tag requests", slog.Any("error", err))
		api.DomainError(w, r, err, "Failed to list tag requests")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, out)
}

// DecideTagRequest godoc
// @Summary      Approve or reject a tag purchase
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Tag request ID"
// @Param        body body types.ModerationDecision true "Decision"
// @Success      200 {object} types.TagRequest
// @Failure      409 {object} api.Response "Already decided"
// @Router       /api/admin/tag-requests/{id} [put]
func (h *HandlerImpl) DecideTagRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TagsHandler").Start(r.Context(), "DecideTagRequest", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/admin/tag-requests/{id}"),
	))
	defer span.End()

	var d types.ModerationDecision
	if err := api.DecodeJSON(r, &d); err != nil {
		api.DomainError(w, r, err, "Invalid request body")
		return
	}
	d.ReviewerID, _ = interceptors.GetUserIDFromContext(ctx)

	t, err := h.service.Decide(ctx, chi.URLParam(r, "id"), d)
	if err != nil {
		api.DomainError(w, r, err, "Failed to decide tag request")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, t)
}
