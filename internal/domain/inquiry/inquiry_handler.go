package inquiry

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
	CreateInquiry(w http.ResponseWriter, r *http.Request)
	ListSellerInquiries(w http.ResponseWriter, r *http.Request)
	UpdateInquiryStatus(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{service: service, logger: logger}
}

// UpdateStatusRequest is the seller's status change.
type UpdateStatusRequest struct {
	Status types.InquiryStatus `json:"status"`
}

// CreateInquiry godoc
// @Summary      Send a booking inquiry
// @Description  Informational only; the seller follows up directly
// @Tags         Inquiries
// @Accept       json
// @Produce      json
// @Param        id path string true "Property ID"
// @Param        body body types.CreateInquiryParams true "Inquiry"
// @Success      201 {object} types.Inquiry
// @Failure      400 {object} api.Response "Bad Request"
// @Router       /api/properties/{id}/inquiries [post]
func (h *HandlerImpl) CreateInquiry(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("InquiryHandler").Start(r.Context(), "CreateInquiry", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/properties/{id}/inquiries"),
	))
	defer span.End()

	var params types.CreateInquiryParams
	if err := api.DecodeJSON(r, &params); err != nil {
		api.DomainError(w, r, err, "Invalid request body")
		return
	}
	q, err := h.service.Create(ctx, chi.URLParam(r, "id"), params)
	if err != nil {
		api.DomainError(w, r, err, "Failed to send inquiry")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, q)
}

func (h *HandlerImpl) ListSellerInquiries(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("InquiryHandler").Start(r.Context(), "ListSellerInquiries")
	defer span.End()

	sellerID, ok := interceptors.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	out, err := h.service.ListForSeller(ctx, sellerID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list inquiries", slog.Any("error", err))
		api.DomainError(w, r, err, "Failed to list inquiries")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, out)
}

// UpdateInquiryStatus godoc
// @Summary      Move an inquiry along
// @Description  new → responded → closed; new → closed is allowed
// @Tags         Seller
// @Accept       json
// @Produce      json
// @Param        id path string true "Inquiry ID"
// @Param        body body UpdateStatusRequest true "Target status"
// @Success      200 {object} types.Inquiry
// @Failure      403 {object} api.Response "Not your inquiry"
// @Failure      409 {object} api.Response "Transition not allowed"
// @Router       /api/seller/inquiries/{id} [patch]
func (h *HandlerImpl) UpdateInquiryStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("InquiryHandler").Start(r.Context(), "UpdateInquiryStatus", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/seller/inquiries/{id}"),
	))
	defer span.End()

	sellerID, ok := interceptors.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	var req UpdateStatusRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.DomainError(w, r, err, "Invalid request body")
		return
	}
	q, err := h.service.UpdateStatus(ctx, sellerID, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		api.DomainError(w, r, err, "Failed to update inquiry")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, q)
}
