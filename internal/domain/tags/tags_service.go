package tags

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

// PropertyReader resolves the property a tag is bought for.
type PropertyReader interface {
	GetByID(ctx context.Context, id string) (*types.Property, error)
}

// CatalogInvalidator is told when an approved tag changes search results.
type CatalogInvalidator interface {
	InvalidateCatalog()
}

// Service defines the business logic contract for tag purchases.
type Service interface {
	Purchase(ctx context.Context, sellerID, propertyID string, params types.CreateTagRequestParams) (*types.TagRequest, error)
	ListForSeller(ctx context.Context, sellerID string) ([]types.TagRequest, error)
	ListAll(ctx context.Context, status types.ModerationStatus) ([]types.TagRequest, error)
	Decide(ctx context.Context, id string, d types.ModerationDecision) (*types.TagRequest, error)
}

// ServiceImpl provides the implementation for Service.
type ServiceImpl struct {
	logger     *slog.Logger
	repo       Repository
	properties PropertyReader
	catalog    CatalogInvalidator
}

// NewService creates a new tag service instance.
func NewService(repo Repository, properties PropertyReader, catalog CatalogInvalidator, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		repo:       repo,
		properties: properties,
		catalog:    catalog,
	}
}

// Purchase records a pending tag request for a property the seller owns.
func (s *ServiceImpl) Purchase(ctx context.Context, sellerID, propertyID string, params types.CreateTagRequestParams) (*types.TagRequest, error) {
	ctx, span := otel.Tracer("TagsService").Start(ctx, "Purchase", trace.WithAttributes(
		attribute.String("seller.id", sellerID),
		attribute.String("property.id", propertyID),
		attribute.String("tag.name", params.TagName),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Purchase"), slog.String("sellerID", sellerID), slog.String("propertyID", propertyID))
	l.DebugContext(ctx, "Purchasing tag", slog.String("tag", params.TagName))

	if err := params.Validate(); err != nil {
		span.SetStatus(codes.Error, "Invalid tag request")
		return nil, err
	}

	p, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Property lookup failed")
		return nil, fmt.Errorf("error fetching property: %w", err)
	}
	if p.SellerID != sellerID {
		span.SetStatus(codes.Error, "Seller does not own property")
		return nil, fmt.Errorf("property %q belongs to another seller: %w", propertyID, types.ErrForbidden)
	}

	t, err := s.repo.Create(ctx, propertyID, sellerID, params)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create tag request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create tag request")
		return nil, fmt.Errorf("error creating tag request: %w", err)
	}

	l.InfoContext(ctx, "Tag request created successfully", slog.String("id", t.ID))
	span.SetStatus(codes.Ok, "Tag request created successfully")
	return t, nil
}

// ListForSeller retrieves every tag request a seller has filed.
func (s *ServiceImpl) ListForSeller(ctx context.Context, sellerID string) ([]types.TagRequest, error) {
	ctx, span := otel.Tracer("TagsService").Start(ctx, "ListForSeller", trace.WithAttributes(
		attribute.String("seller.id", sellerID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "ListForSeller"), slog.String("sellerID", sellerID))

	out, err := s.repo.List(ctx, ListFilter{SellerID: sellerID})
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch tag requests", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch tag requests")
		return nil, fmt.Errorf("error fetching tag requests: %w", err)
	}

	l.DebugContext(ctx, "Tag requests fetched successfully", slog.Int("count", len(out)))
	span.SetStatus(codes.Ok, "Tag requests fetched successfully")
	return out, nil
}

// ListAll retrieves every tag request, optionally narrowed to one status.
func (s *ServiceImpl) ListAll(ctx context.Context, status types.ModerationStatus) ([]types.TagRequest, error) {
	ctx, span := otel.Tracer("TagsService").Start(ctx, "ListAll")
	defer span.End()

	out, err := s.repo.List(ctx, ListFilter{Status: status})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch tag requests")
		return nil, fmt.Errorf("error fetching tag requests: %w", err)
	}
	span.SetStatus(codes.Ok, "Tag requests fetched successfully")
	return out, nil
}

// Decide approves or rejects a pending purchase.
func (s *ServiceImpl) Decide(ctx context.Context, id string, d types.ModerationDecision) (*types.TagRequest, error) {
	ctx, span := otel.Tracer("TagsService").Start(ctx, "Decide", trace.WithAttributes(
		attribute.String("tag_request.id", id),
		attribute.String("decision.status", string(d.Status)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Decide"), slog.String("id", id))

	if err := d.Validate(); err != nil {
		span.SetStatus(codes.Error, "Invalid decision")
		return nil, err
	}
	if err := s.repo.Decide(ctx, id, d); err != nil {
		l.ErrorContext(ctx, "Failed to decide tag request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Decision failed")
		return nil, fmt.Errorf("error deciding tag request: %w", err)
	}
	observability.ObserveModeration("tag", string(d.Status))
	if d.Status == types.StatusApproved {
		s.catalog.InvalidateCatalog()
	}

	t, err := s.repo.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to reload tag request")
		return nil, fmt.Errorf("error fetching tag request: %w", err)
	}

	l.InfoContext(ctx, "Tag request decided", slog.String("status", string(t.Status)))
	span.SetStatus(codes.Ok, "Tag request decided")
	return t, nil
}
