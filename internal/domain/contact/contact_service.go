package contact

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/farmstay-api/internal/types"
	"github.com/FACorreiaa/farmstay-api/pkg/observability"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// PropertyReader resolves the property a request is made for.
type PropertyReader interface {
	GetByID(ctx context.Context, id string) (*types.Property, error)
}

// CatalogInvalidator is told when an approval changes a published property.
type CatalogInvalidator interface {
	InvalidateCatalog()
}

// Service defines the contact request workflow.
type Service interface {
	Submit(ctx context.Context, sellerID, propertyID string, params types.CreateContactRequestParams) (*types.ContactRequest, error)
	ListForSeller(ctx context.Context, sellerID string) ([]types.ContactRequest, error)
	ListAll(ctx context.Context, status types.ModerationStatus) ([]types.ContactRequest, error)
	Decide(ctx context.Context, id string, d types.ModerationDecision) (*types.ContactRequest, error)
}

type ServiceImpl struct {
	logger     *slog.Logger
	repo       Repository
	properties PropertyReader
	catalog    CatalogInvalidator
}

func NewService(repo Repository, properties PropertyReader, catalog CatalogInvalidator, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		repo:       repo,
		properties: properties,
		catalog:    catalog,
	}
}

// Submit files a contact request for a property the seller owns.
func (s *ServiceImpl) Submit(ctx context.Context, sellerID, propertyID string, params types.CreateContactRequestParams) (*types.ContactRequest, error) {
	ctx, span := otel.Tracer("ContactService").Start(ctx, "Submit", trace.WithAttributes(
		attribute.String("seller.id", sellerID),
		attribute.String("property.id", propertyID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Submit"), slog.String("sellerID", sellerID), slog.String("propertyID", propertyID))
	l.DebugContext(ctx, "Submitting contact request")

	if err := params.Validate(); err != nil {
		span.SetStatus(codes.Error, "Invalid contact request")
		return nil, err
	}

	p, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		l.WarnContext(ctx, "Property lookup failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Property lookup failed")
		return nil, fmt.Errorf("error fetching property: %w", err)
	}
	if p.SellerID != sellerID {
		span.SetStatus(codes.Error, "Seller does not own property")
		return nil, fmt.Errorf("property %q belongs to another seller: %w", propertyID, types.ErrForbidden)
	}

	c, err := s.repo.Create(ctx, propertyID, sellerID, params)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create contact request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create contact request")
		return nil, fmt.Errorf("error creating contact request: %w", err)
	}

	l.InfoContext(ctx, "Contact request submitted", slog.String("id", c.ID))
	span.SetStatus(codes.Ok, "Contact request submitted")
	return c, nil
}

func (s *ServiceImpl) ListForSeller(ctx context.Context, sellerID string) ([]types.ContactRequest, error) {
	ctx, span := otel.Tracer("ContactService").Start(ctx, "ListForSeller", trace.WithAttributes(
		attribute.String("seller.id", sellerID),
	))
	defer span.End()

	out, err := s.repo.List(ctx, ListFilter{SellerID: sellerID})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list contact requests")
		return nil, fmt.Errorf("error listing contact requests: %w", err)
	}
	span.SetStatus(codes.Ok, "Contact requests listed")
	return out, nil
}

// ListAll returns every request, optionally narrowed to one status.
func (s *ServiceImpl) ListAll(ctx context.Context, status types.ModerationStatus) ([]types.ContactRequest, error) {
	ctx, span := otel.Tracer("ContactService").Start(ctx, "ListAll")
	defer span.End()

	out, err := s.repo.List(ctx, ListFilter{Status: status})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list contact requests")
		return nil, fmt.Errorf("error listing contact requests: %w", err)
	}
	span.SetStatus(codes.Ok, "Contact requests listed")
	return out, nil
}

// Decide applies an admin decision and returns the updated request.
func (s *ServiceImpl) Decide(ctx context.Context, id string, d types.ModerationDecision) (*types.ContactRequest, error) {
	ctx, span := otel.Tracer("ContactService").Start(ctx, "Decide", trace.WithAttributes(
		attribute.String("contact.id", id),
		attribute.String("decision.status", string(d.Status)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Decide"), slog.String("id", id))

	if err := d.Validate(); err != nil {
		span.SetStatus(codes.Error, "Invalid decision")
		return nil, err
	}
	if err := s.repo.Decide(ctx, id, d); err != nil {
		l.ErrorContext(ctx, "Failed to decide contact request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Decision failed")
		return nil, fmt.Errorf("error deciding contact request: %w", err)
	}
	observability.ObserveModeration("contact", string(d.Status))
	if d.Status == types.StatusApproved {
		s.catalog.InvalidateCatalog()
	}

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to reload contact request")
		return nil, fmt.Errorf("error fetching contact request: %w", err)
	}

	l.InfoContext(ctx, "Contact request decided", slog.String("status", string(c.Status)))
	span.SetStatus(codes.Ok, "Contact request decided")
	return c, nil
}
