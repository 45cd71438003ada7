// Package admin aggregates the moderation queues and global settings the
// admin dashboard shows.
package admin

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/farmstay-api/internal/types"
)

type ContactQueue interface {
	ListAll(ctx context.Context, status types.ModerationStatus) ([]types.ContactRequest, error)
}

type TagQueue interface {
	ListAll(ctx context.Context, status types.ModerationStatus) ([]types.TagRequest, error)
}

type ReviewQueue interface {
	ListAll(ctx context.Context, status types.ModerationStatus) ([]types.Review, error)
}

type SettingsLister interface {
	List(ctx context.Context) ([]types.GlobalSetting, error)
}

// Dashboard is every moderated record plus the global settings. TagRevenue
// sums the prices of approved tag purchases.
type Dashboard struct {
	types.ModerationQueues
	Settings               []types.GlobalSetting `json:"settings"`
	PendingCount           int                   `json:"pending_count"`
	PendingContactRequests int                   `json:"pending_contact_requests"`
	PendingTagRequests     int                   `json:"pending_tag_requests"`
	PendingReviews         int                   `json:"pending_reviews"`
	TagRevenue             float64               `json:"tag_revenue"`
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type ServiceImpl struct {
	logger   *slog.Logger
	contacts ContactQueue
	tags     TagQueue
	reviews  ReviewQueue
	settings SettingsLister
}

func NewService(contacts ContactQueue, tags TagQueue, reviews ReviewQueue, settings SettingsLister, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		contacts: contacts,
		tags:     tags,
		reviews:  reviews,
		settings: settings,
	}
}

func (s *ServiceImpl) Dashboard(ctx context.Context) (*Dashboard, error) {
	ctx, span := otel.Tracer("AdminService").Start(ctx, "Dashboard")
	defer span.End()

	l := s.logger.With(slog.String("method", "Dashboard"))

	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.ContactRequests, err = s.contacts.ListAll(gctx, "")
		return err
	})
	g.Go(func() error {
		var err error
		d.TagRequests, err = s.tags.ListAll(gctx, "")
		return err
	})
	g.Go(func() error {
		var err error
		d.Reviews, err = s.reviews.ListAll(gctx, "")
		return err
	})
	g.Go(func() error {
		var err error
		d.Settings, err = s.settings.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		l.ErrorContext(ctx, "Failed to load admin dashboard", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Dashboard failed")
		return nil, fmt.Errorf("error loading admin dashboard: %w", err)
	}
	d.summarize()

	l.DebugContext(ctx, "Admin dashboard loaded", slog.Int("pending", d.PendingCount))
	span.SetStatus(codes.Ok, "Dashboard loaded")
	return &d, nil
}

func (d *Dashboard) summarize() {
	for _, c := range d.ContactRequests {
		if c.Status == types.StatusPending {
			d.PendingContactRequests++
		}
	}
	for _, t := range d.TagRequests {
		switch t.Status {
		case types.StatusPending:
			d.PendingTagRequests++
		case types.StatusApproved:
			d.TagRevenue += t.Price
		}
	}
	for _, r := range d.Reviews {
		if r.Status == types.StatusPending {
			d.PendingReviews++
		}
	}
	d.PendingCount = d.PendingContactRequests + d.PendingTagRequests + d.PendingReviews
}
