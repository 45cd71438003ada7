package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/farmstay-api/internal/types"
	"github.com/FACorreiaa/farmstay-api/pkg/db"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository reads properties from Postgres.
type Repository interface {
	// ListActive returns every active property in display order.
	ListActive(ctx context.Context) ([]types.Property, error)

	// GetByID returns one property regardless of its active flag.
	GetByID(ctx context.Context, id string) (*types.Property, error)

	// ListBySeller returns the properties owned by sellerID.
	ListBySeller(ctx context.Context, sellerID string) ([]types.Property, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool db.Querier
}

func NewRepositoryImpl(pool db.Querier, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pool,
	}
}

const propertyColumns = `
	id, COALESCE(seller_id, ''), name, type, description, images,
	weekday_price, weekend_price, rating, review_count,
	tags, active_tags, amenities, max_guests, location, map_embed,
	bedrooms, bathrooms, hall, kitchen, features,
	contact_approved, is_active, created_at`

func scanProperty(row pgx.Row) (types.Property, error) {
	var (
		p         types.Property
		amenities []string
		createdAt time.Time
	)
	err := row.Scan(
		&p.ID, &p.SellerID, &p.Name, &p.Type, &p.Description, &p.Images,
		&p.WeekdayPrice, &p.WeekendPrice, &p.Rating, &p.ReviewCount,
		&p.Tags, &p.ActiveTags, &amenities, &p.MaxGuests, &p.Location, &p.MapEmbed,
		&p.Rooms.Bedrooms, &p.Rooms.Bathrooms, &p.Rooms.Hall, &p.Rooms.Kitchen, &p.Features,
		&p.ContactApproved, &p.IsActive, &createdAt,
	)
	if err != nil {
		return types.Property{}, err
	}
	p.Amenities = make([]types.Amenity, 0, len(amenities))
	for _, a := range amenities {
		p.Amenities = append(p.Amenities, types.NormalizeAmenity(a))
	}
	p.CreatedAt = &createdAt
	return p, nil
}

func (r *RepositoryImpl) list(ctx context.Context, span trace.Span, l *slog.Logger, query string, args ...any) ([]types.Property, error) {
	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		l.ErrorContext(ctx, "Failed to query properties", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching properties: %w", err)
	}
	defer rows.Close()

	var props []types.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			l.ErrorContext(ctx, "Failed to scan property row", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "DB scan failed")
			return nil, fmt.Errorf("database error scanning property: %w", err)
		}
		props = append(props, p)
	}
	if err := rows.Err(); err != nil {
		l.ErrorContext(ctx, "Error iterating property rows", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB iteration failed")
		return nil, fmt.Errorf("database error iterating properties: %w", err)
	}

	l.DebugContext(ctx, "Fetched properties", slog.Int("count", len(props)))
	span.SetStatus(codes.Ok, "Properties fetched")
	return props, nil
}

func (r *RepositoryImpl) ListActive(ctx context.Context) ([]types.Property, error) {
	ctx, span := otel.Tracer("CatalogRepo").Start(ctx, "ListActive", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "properties"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "ListActive"))
	query := `SELECT` + propertyColumns + `
		FROM properties
		WHERE is_active = TRUE
		ORDER BY sort_order, created_at, id`
	return r.list(ctx, span, l, query)
}

func (r *RepositoryImpl) ListBySeller(ctx context.Context, sellerID string) ([]types.Property, error) {
	ctx, span := otel.Tracer("CatalogRepo").Start(ctx, "ListBySeller", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "properties"),
		attribute.String("seller.id", sellerID),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "ListBySeller"), slog.String("sellerID", sellerID))
	query := `SELECT` + propertyColumns + `
		FROM properties
		WHERE seller_id = $1
		ORDER BY sort_order, created_at, id`
	return r.list(ctx, span, l, query, sellerID)
}

func (r *RepositoryImpl) GetByID(ctx context.Context, id string) (*types.Property, error) {
	ctx, span := otel.Tracer("CatalogRepo").Start(ctx, "GetByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "properties"),
		attribute.String("property.id", id),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "GetByID"), slog.String("propertyID", id))
	l.DebugContext(ctx, "Fetching property")

	query := `SELECT` + propertyColumns + ` FROM properties WHERE id = $1`
	p, err := scanProperty(r.pgpool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			l.WarnContext(ctx, "Property not found")
			span.SetStatus(codes.Error, "Property not found")
			return nil, fmt.Errorf("property %q: %w", id, types.ErrNotFound)
		}
		l.ErrorContext(ctx, "Failed to fetch property", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching property: %w", err)
	}

	span.SetStatus(codes.Ok, "Property fetched")
	return &p, nil
}
