package review

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
	// Public
	ListPropertyReviews(w http.ResponseWriter, r *http.Request)
	SubmitReview(w http.ResponseWriter, r *http.Request)

	// Admin
	ListReviews(w http.ResponseWriter, r *http.Request)
	DecideReview(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{service: service, logger: logger}
}

// ListPropertyReviews godoc
// @Summary      Approved reviews of a property
// @Tags         Reviews
// @Produce      json
// @Param        id path string true "Property ID"
// @Success      200 {array} types.Review
// @Router       /api/properties/{id}/reviews [get]
func (h *HandlerImpl) ListPropertyReviews(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ReviewHandler").Start(r.Context(), "ListPropertyReviews", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/properties/{id}/reviews"),
	))
	defer span.End()

	out, err := h.service.ListApproved(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list reviews", slog.Any("error", err))
		api.DomainError(w, r, err, "Failed to list reviews")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, out)
}

// SubmitReview godoc
// @Summary      Leave a review
// @Description  Stored as pending until an admin approves it
// @Tags         Reviews
// @Accept       json
// @Produce      json
// @Param        id path string true "Property ID"
// @Param        body body types.CreateReviewParams true "Review"
// @Success      201 {object} types.Review
// @Failure      400 {object} api.Response "Bad Request"
// @Failure      404 {object} api.Response "Not Found"
// @Router       /api/properties/{id}/reviews [post]
func (h *HandlerImpl) SubmitReview(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ReviewHandler").Start(r.Context(), "SubmitReview", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/properties/{id}/reviews"),
	))
	defer span.End()

	var params types.CreateReviewParams
	if err := api.DecodeJSON(r, &params); err != nil {
		api.DomainError(w, r, err, "Invalid request body")
		return
	}
	rv, err := h.service.Submit(ctx, chi.URLParam(r, "id"), params)
	if err != nil {
		api.DomainError(w, r, err, "Failed to submit review")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, rv)
}

func (h *HandlerImpl) ListReviews(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ReviewHandler").Start(r.Context(), "ListReviews")
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
		api.DomainError(w, r, err, "Failed to list reviews")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, out)
}

// DecideReview godoc
// @Summary      Approve or reject a review
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Review ID"
// @Param        body body types.ModerationDecision true "Decision"
// @Success      200 {object} types.Review
// @Failure      409 {object} api.Response "Already decided"
// @Router       /api/admin/reviews/{id} [put]
func (h *HandlerImpl) DecideReview(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ReviewHandler").Start(r.Context(), "DecideReview", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/admin/reviews/{id}"),
	))
	defer span.End()

	var d types.ModerationDecision
	if err := api.DecodeJSON(r, &d); err != nil {
		api.DomainError(w, r, err, "Invalid request body")
		return
	}
	d.ReviewerID, _ = interceptors.GetUserIDFromContext(ctx)

	rv, err := h.service.Decide(ctx, chi.URLParam(r, "id"), d)
	if err != nil {
		api.DomainError(w, r, err, "Failed to decide review")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, rv)
}
