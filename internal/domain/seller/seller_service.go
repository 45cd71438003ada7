// Package seller aggregates what a service provider sees after login.
package seller

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/farmstay-api/internal/types"
)

type PropertyLister interface {
	ListBySeller(ctx context.Context, sellerID string) ([]types.Property, error)
	GetByID(ctx context.Context, id string) (*types.Property, error)
}

type ContactLister interface {
	ListForSeller(ctx context.Context, sellerID string) ([]types.ContactRequest, error)
}

type TagLister interface {
	ListForSeller(ctx context.Context, sellerID string) ([]types.TagRequest, error)
}

type InquiryLister interface {
	ListForSeller(ctx context.Context, sellerID string) ([]types.Inquiry, error)
}

// ReviewLister returns the approved reviews of a seller's properties.
type ReviewLister interface {
	ListForSeller(ctx context.Context, sellerID string) ([]types.Review, error)
}

// Dashboard is the seller's overview. AverageWeekdayPrice is the rounded mean
// weekday price of the seller's properties, 0 when there are none.
type Dashboard struct {
	Properties          []types.Property       `json:"properties"`
	ContactRequests     []types.ContactRequest `json:"contact_requests"`
	TagRequests         []types.TagRequest     `json:"tag_requests"`
	Inquiries           []types.Inquiry        `json:"inquiries"`
	Reviews             []types.Review         `json:"reviews"`
	NewInquiries        int                    `json:"new_inquiries"`
	ApprovedReviews     int                    `json:"approved_reviews"`
	AverageWeekdayPrice float64                `json:"average_weekday_price"`
}

// ReviewLink is the shareable public review form address of a property.
type ReviewLink struct {
	PropertyID string `json:"property_id"`
	URL        string `json:"url"`
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Dashboard(ctx context.Context, sellerID string) (*Dashboard, error)
	ReviewLink(ctx context.Context, sellerID, propertyID string) (*ReviewLink, error)
}

type ServiceImpl struct {
	logger     *slog.Logger
	properties PropertyLister
	contacts   ContactLister
	tags       TagLister
	inquiries  InquiryLister
	reviews    ReviewLister
	baseURL    string
}

func NewService(properties PropertyLister, contacts ContactLister, tags TagLister, inquiries InquiryLister,
	reviews ReviewLister, publicBaseURL string, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		properties: properties,
		contacts:   contacts,
		tags:       tags,
		inquiries:  inquiries,
		reviews:    reviews,
		baseURL:    strings.TrimRight(publicBaseURL, "/"),
	}
}

// Dashboard loads the seller lists concurrently; the first failure cancels the rest.
func (s *ServiceImpl) Dashboard(ctx context.Context, sellerID string) (*Dashboard, error) {
	ctx, span := otel.Tracer("SellerService").Start(ctx, "Dashboard", trace.WithAttributes(
		attribute.String("seller.id", sellerID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Dashboard"), slog.String("sellerID", sellerID))

	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.Properties, err = s.properties.ListBySeller(gctx, sellerID)
		return err
	})
	g.Go(func() error {
		var err error
		d.ContactRequests, err = s.contacts.ListForSeller(gctx, sellerID)
		return err
	})
	g.Go(func() error {
		var err error
		d.TagRequests, err = s.tags.ListForSeller(gctx, sellerID)
		return err
	})
	g.Go(func() error {
		var err error
		d.Inquiries, err = s.inquiries.ListForSeller(gctx, sellerID)
		return err
	})
	g.Go(func() error {
		var err error
		d.Reviews, err = s.reviews.ListForSeller(gctx, sellerID)
		return err
	})
	if err := g.Wait(); err != nil {
		l.ErrorContext(ctx, "Failed to load seller dashboard", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Dashboard failed")
		return nil, fmt.Errorf("error loading seller dashboard: %w", err)
	}

	for _, q := range d.Inquiries {
		if q.Status == types.InquiryNew {
			d.NewInquiries++
		}
	}
	for _, rv := range d.Reviews {
		if rv.Status == types.StatusApproved {
			d.ApprovedReviews++
		}
	}
	d.AverageWeekdayPrice = averageWeekdayPrice(d.Properties)

	l.DebugContext(ctx, "Seller dashboard loaded",
		slog.Int("properties", len(d.Properties)), slog.Int("inquiries", len(d.Inquiries)))
	span.SetStatus(codes.Ok, "Dashboard loaded")
	return &d, nil
}

func averageWeekdayPrice(props []types.Property) float64 {
	if len(props) == 0 {
		return 0
	}
	var sum float64
	for _, p := range props {
		sum += p.WeekdayPrice
	}
	return math.Round(sum / float64(len(props)))
}

// ReviewLink builds {base}/review/{propertyId} for a property the seller owns.
func (s *ServiceImpl) ReviewLink(ctx context.Context, sellerID, propertyID string) (*ReviewLink, error) {
	ctx, span := otel.Tracer("SellerService").Start(ctx, "ReviewLink", trace.WithAttributes(
		attribute.String("seller.id", sellerID),
		attribute.String("property.id", propertyID),
	))
	defer span.End()

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

	span.SetStatus(codes.Ok, "Review link built")
	return &ReviewLink{
		PropertyID: propertyID,
		URL:        s.baseURL + "/review/" + url.PathEscape(propertyID),
	}, nil
}
