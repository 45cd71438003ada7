package inquiry

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/farmstay-api/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// PropertyReader resolves the property an inquiry is about.
type PropertyReader interface {
	GetByID(ctx context.Context, id string) (*types.Property, error)
}

type Service interface {
	Create(ctx context.Context, propertyID string, params types.CreateInquiryParams) (*types.Inquiry, error)
	ListForSeller(ctx context.Context, sellerID string) ([]types.Inquiry, error)
	UpdateStatus(ctx context.Context, sellerID, id string, to types.InquiryStatus) (*types.Inquiry, error)
}

type ServiceImpl struct {
	logger     *slog.Logger
	repo       Repository
	properties PropertyReader
}

func NewService(repo Repository, properties PropertyReader, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		repo:       repo,
		properties: properties,
	}
}

// Create records a customer inquiry and routes it to the property's seller.
func (s *ServiceImpl) Create(ctx context.Context, propertyID string, params types.CreateInquiryParams) (*types.Inquiry, error) {
	ctx, span := otel.Tracer("InquiryService").Start(ctx, "Create", trace.WithAttributes(
		attribute.String("property.id", propertyID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Create"), slog.String("propertyID", propertyID))

	if err := params.Validate(); err != nil {
		span.SetStatus(codes.Error, "Invalid inquiry")
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
	if p.SellerID == "" {
		l.WarnContext(ctx, "Inquiry for a property without a seller")
	}

	q, err := s.repo.Create(ctx, propertyID, p.SellerID, params)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create inquiry", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create inquiry")
		return nil, fmt.Errorf("error creating inquiry: %w", err)
	}

	l.InfoContext(ctx, "Inquiry created", slog.String("id", q.ID))
	span.SetStatus(codes.Ok, "Inquiry created")
	return q, nil
}

func (s *ServiceImpl) ListForSeller(ctx context.Context, sellerID string) ([]types.Inquiry, error) {
	ctx, span := otel.Tracer("InquiryService").Start(ctx, "ListForSeller", trace.WithAttributes(
		attribute.String("seller.id", sellerID),
	))
	defer span.End()

	out, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list inquiries")
		return nil, fmt.Errorf("error listing inquiries: %w", err)
	}
	span.SetStatus(codes.Ok, "Inquiries listed")
	return out, nil
}

// UpdateStatus moves one of the seller's inquiries to the next status.
func (s *ServiceImpl) UpdateStatus(ctx context.Context, sellerID, id string, to types.InquiryStatus) (*types.Inquiry, error) {
	ctx, span := otel.Tracer("InquiryService").Start(ctx, "UpdateStatus", trace.WithAttributes(
		attribute.String("seller.id", sellerID),
		attribute.String("inquiry.id", id),
		attribute.String("inquiry.status", string(to)),
	))
	defer span.End()

	if _, err := types.ParseInquiryStatus(string(to)); err != nil {
		span.SetStatus(codes.Error, "Invalid status")
		return nil, fmt.Errorf("%w: %v", types.ErrBadRequest, err)
	}

	q, err := s.repo.UpdateStatus(ctx, id, sellerID, to)
	if err != nil {
		s.logger.WarnContext(ctx, "Inquiry status update refused", slog.String("id", id), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Status update failed")
		return nil, fmt.Errorf("error updating inquiry: %w", err)
	}
	span.SetStatus(codes.Ok, "Inquiry updated")
	return q, nil
}
