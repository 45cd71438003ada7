package contact

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
	// Seller
	SubmitContactRequest(w http.ResponseWriter, r *http.Request)

	// Admin
	ListContactRequests(w http.ResponseWriter, r *http.Request)
	DecideContactRequest(w http.ResponseWriter, r *http.Request)
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

// SubmitContactRequest godoc
// @Summary      Request contact publication
// @Description  Seller asks the admin to show phone, email and location on a property they own
// @Tags         Seller
// @Accept       json
// @Produce      json
// @Param        id path string true "Property ID"
// @Param        body body types.CreateContactRequestParams true "Contact details"
// @Success      201 {object} types.ContactRequest
// @Failure      400 {object} api.Response "Bad Request"
// @Failure      403 {object} api.Response "Not the property owner"
// @Router       /api/seller/properties/{id}/contact-requests [post]
func (h *HandlerImpl) SubmitContactRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ContactHandler").Start(r.Context(), "SubmitContactRequest", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/seller/properties/{id}/contact-requests"),
	))
	defer span.End()

	sellerID, ok := interceptors.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var params types.CreateContactRequestParams
	if err := api.DecodeJSON(r, &params); err != nil {
		api.DomainError(w, r, err, "Invalid request body")
		return
	}

	c, err := h.service.Submit(ctx, sellerID, chi.URLParam(r, "id"), params)
	if err != nil {
		api.DomainError(w, r, err, "Failed to submit contact request")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, c)
}

// ListContactRequests returns every contact request, optionally filtered by ?status=.
func (h *HandlerImpl) ListContactRequests(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ContactHandler").Start(r.Context(), "ListContactRequests")
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
		h.logger.ErrorContext(ctx, "Failed to list contact requests", slog.Any("error", err))
		api.DomainError(w, r, err, "Failed to list contact requests")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, out)
}

// DecideContactRequest godoc
// @Summary      Approve or reject a contact request
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Contact request ID"
// @Param        body body types.ModerationDecision true "Decision"
// @Success      200 {object} types.ContactRequest
// @Failure      404 {object} api.Response "Not Found"
// @Failure      409 {object} api.Response "Already decided"
// @Router       /api/admin/contact-requests/{id} [put]
func (h *HandlerImpl) DecideContactRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ContactHandler").Start(r.Context(), "DecideContactRequest", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/admin/contact-requests/{id}"),
	))
	defer span.End()

	var d types.ModerationDecision
	if err := api.DecodeJSON(r, &d); err != nil {
		api.DomainError(w, r, err, "Invalid request body")
		return
	}
	d.ReviewerID, _ = interceptors.GetUserIDFromContext(ctx)

	c, err := h.service.Decide(ctx, chi.URLParam(r, "id"), d)
	if err != nil {
		api.DomainError(w, r, err, "Failed to decide contact request")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, c)
}
