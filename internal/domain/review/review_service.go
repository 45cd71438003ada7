package review

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

var _ Service = (*ServiceImpl)(nil)

// PropertyReader resolves the reviewed property.
type PropertyReader interface {
	GetByID(ctx context.Context, id string) (*types.Property, error)
}

// CatalogInvalidator is told when an approval changes a property's rating.
type CatalogInvalidator interface {
	InvalidateCatalog()
}

type Service interface {
	Submit(ctx context.Context, propertyID string, params types.CreateReviewParams) (*types.Review, error)
	ListApproved(ctx context.Context, propertyID string) ([]types.Review, error)
	ListForSeller(ctx context.Context, sellerID string) ([]types.Review, error)
	ListAll(ctx context.Context, status types.ModerationStatus) ([]types.Review, error)
	Decide(ctx context.Context, id string, d types.ModerationDecision) (*types.Review, error)
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

// Submit stores a customer review as pending. Reviews only go to active listings.
func (s *ServiceImpl) Submit(ctx context.Context, propertyID string, params types.CreateReviewParams) (*types.Review, error) {
	ctx, span := otel.Tracer("ReviewService").Start(ctx, "Submit", trace.WithAttributes(
		attribute.String("property.id", propertyID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Submit"), slog.String("propertyID", propertyID))

	if err := params.Validate(); err != nil {
		span.SetStatus(codes.Error, "Invalid review")
		return nil, err
	}
	p, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Property lookup failed")
		return nil, fmt.Errorf("error fetching property: %w", err)
	}
	if !p.IsActive {
		span.SetStatus(codes.Error, "Property inactive")
		return nil, fmt.Errorf("property %q: %w", propertyID, types.ErrNotFound)
	}

	rv, err := s.repo.Create(ctx, propertyID, params)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create review", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create review")
		return nil, fmt.Errorf("error creating review: %w", err)
	}

	l.InfoContext(ctx, "Review submitted", slog.String("id", rv.ID), slog.Int("rating", rv.Rating))
	span.SetStatus(codes.Ok, "Review submitted")
	return rv, nil
}

// ListApproved is the public review list of one property.
func (s *ServiceImpl) ListApproved(ctx context.Context, propertyID string) ([]types.Review, error) {
	ctx, span := otel.Tracer("ReviewService").Start(ctx, "ListApproved", trace.WithAttributes(
		attribute.String("property.id", propertyID),
	))
	defer span.End()

	out, err := s.repo.List(ctx, ListFilter{PropertyID: propertyID, Status: types.StatusApproved})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list reviews")
		return nil, fmt.Errorf("error listing reviews: %w", err)
	}
	span.SetStatus(codes.Ok, "Reviews listed")
	return out, nil
}

// ListForSeller returns the approved reviews across every property of sellerID.
func (s *ServiceImpl) ListForSeller(ctx context.Context, sellerID string) ([]types.Review, error) {
	ctx, span := otel.Tracer("ReviewService").Start(ctx, "ListForSeller", trace.WithAttributes(
		attribute.String("seller.id", sellerID),
	))
	defer span.End()

	out, err := s.repo.List(ctx, ListFilter{SellerID: sellerID, Status: types.StatusApproved})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list reviews")
		return nil, fmt.Errorf("error listing seller reviews: %w", err)
	}
	span.SetStatus(codes.Ok, "Reviews listed")
	return out, nil
}

func (s *ServiceImpl) ListAll(ctx context.Context, status types.ModerationStatus) ([]types.Review, error) {
	ctx, span := otel.Tracer("ReviewService").Start(ctx, "ListAll")
	defer span.End()

	out, err := s.repo.List(ctx, ListFilter{Status: status})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list reviews")
		return nil, fmt.Errorf("error listing reviews: %w", err)
	}
	span.SetStatus(codes.Ok, "Reviews listed")
	return out, nil
}

func (s *ServiceImpl) Decide(ctx context.Context, id string, d types.ModerationDecision) (*types.Review, error) {
	ctx, span := otel.Tracer("ReviewService").Start(ctx, "Decide", trace.WithAttributes(
		attribute.String("review.id", id),
		attribute.String("decision.status", string(d.Status)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Decide"), slog.String("id", id))

	if err := d.Validate(); err != nil {
		span.SetStatus(codes.Error, "Invalid decision")
		return nil, err
	}
	if err := s.repo.Decide(ctx, id, d); err != nil {
		l.ErrorContext(ctx, "Failed to decide review", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Decision failed")
		return nil, fmt.Errorf("error deciding review: %w", err)
	}
	observability.ObserveModeration("review", string(d.Status))
	if d.Status == types.StatusApproved {
		s.catalog.InvalidateCatalog()
	}

	rv, err := s.repo.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to reload review")
		return nil, fmt.Errorf("error fetching review: %w", err)
	}

	l.InfoContext(ctx, "Review decided", slog.String("status", string(rv.Status)))
	span.SetStatus(codes.Ok, "Review decided")
	return rv, nil
}
