package listing

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/farmstay-api/internal/types"
	"github.com/FACorreiaa/farmstay-api/pkg/api"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	ListProperties(w http.ResponseWriter, r *http.Request)
	GetProperty(w http.ResponseWriter, r *http.Request)
	ListAmenities(w http.ResponseWriter, r *http.Request)
	ListFilterOptions(w http.ResponseWriter, r *http.Request)

	// Search session
	GetSearchSession(w http.ResponseWriter, r *http.Request)
	UpdateSearchSession(w http.ResponseWriter, r *http.Request)
	ResetSearchSession(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	service  Service
	sessions *SessionStore
	logger   *slog.Logger
}

func NewHandlerImpl(service Service, sessions *SessionStore, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service:  service,
		sessions: sessions,
		logger:   logger,
	}
}

// FilterOptions lists every value the filter controls can take.
type FilterOptions struct {
	Amenities   []types.AmenityDescriptor `json:"amenities"`
	PriceRanges []PriceRangeOption        `json:"price_ranges"`
	Ratings     []RatingThreshold         `json:"ratings"`
}

type PriceRangeOption struct {
	Value PriceBracket `json:"value"`
	Label string       `json:"label"`
}

// UpdateSearchRequest replaces one criteria field.
type UpdateSearchRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// ListProperties godoc
// @Summary      Search properties
// @Description  Filters the catalog with search, price_range, guests, rating and amenities query parameters
// @Tags         Properties
// @Produce      json
// @Success      200 {object} SearchResult
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /api/properties [get]
func (h *HandlerImpl) ListProperties(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ListingHandler").Start(r.Context(), "ListProperties", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/properties"),
	))
	defer span.End()

	res, err := h.service.Search(ctx, CriteriaFromQuery(r.URL.Query()))
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to search properties", slog.Any("error", err))
		api.DomainError(w, r, err, "Failed to search properties")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, res)
}

// GetProperty godoc
// @Summary      Property detail
// @Tags         Properties
// @Produce      json
// @Param        id path string true "Property ID"
// @Success      200 {object} types.Property
// @Failure      404 {object} api.Response "Not Found"
// @Router       /api/properties/{id} [get]
func (h *HandlerImpl) GetProperty(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ListingHandler").Start(r.Context(), "GetProperty", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/properties/{id}"),
	))
	defer span.End()

	id := chi.URLParam(r, "id")
	p, err := h.service.GetProperty(ctx, id)
	if err != nil {
		api.DomainError(w, r, err, "Failed to fetch property")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, p)
}

// ListAmenities returns the fixed amenity vocabulary with its descriptors.
func (h *HandlerImpl) ListAmenities(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, h.service.Amenities())
}

// ListFilterOptions returns the amenity vocabulary, price brackets and rating thresholds.
func (h *HandlerImpl) ListFilterOptions(w http.ResponseWriter, r *http.Request) {
	opts := FilterOptions{
		Amenities: h.service.Amenities(),
		Ratings:   RatingThresholds(),
	}
	for _, b := range []PriceBracket{PriceAll, PriceBudget, PriceMid, PriceLuxury} {
		opts.PriceRanges = append(opts.PriceRanges, PriceRangeOption{Value: b, Label: b.Label()})
	}
	api.WriteJSONResponse(w, r, http.StatusOK, opts)
}

func (h *HandlerImpl) searchAndStore(w http.ResponseWriter, r *http.Request, c Criteria) {
	ctx := r.Context()
	res, err := h.service.Search(ctx, c)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to search properties", slog.Any("error", err))
		api.DomainError(w, r, err, "Failed to search properties")
		return
	}
	if err := h.sessions.Save(w, r, res.Criteria); err != nil {
		h.logger.ErrorContext(ctx, "Failed to save search session", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to save search session")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, res)
}

// GetSearchSession re-runs the search held in the session cookie.
func (h *HandlerImpl) GetSearchSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ListingHandler").Start(r.Context(), "GetSearchSession")
	defer span.End()
	h.searchAndStore(w, r.WithContext(ctx), h.sessions.Load(r))
}

// UpdateSearchSession godoc
// @Summary      Update one search field
// @Description  Replaces a single criteria field and returns the refreshed results
// @Tags         Search
// @Accept       json
// @Produce      json
// @Param        body body UpdateSearchRequest true "Field and raw value"
// @Success      200 {object} SearchResult
// @Failure      400 {object} api.Response "Unknown field"
// @Router       /api/search [patch]
func (h *HandlerImpl) UpdateSearchSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ListingHandler").Start(r.Context(), "UpdateSearchSession")
	defer span.End()

	var req UpdateSearchRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	c, err := h.sessions.Load(r).Apply(req.Field, req.Value)
	if err != nil {
		api.DomainError(w, r, err, "Failed to update search")
		return
	}
	h.searchAndStore(w, r.WithContext(ctx), c)
}

// ResetSearchSession clears every field at once.
func (h *HandlerImpl) ResetSearchSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ListingHandler").Start(r.Context(), "ResetSearchSession")
	defer span.End()
	h.searchAndStore(w, r.WithContext(ctx), h.sessions.Load(r).Reset())
}
