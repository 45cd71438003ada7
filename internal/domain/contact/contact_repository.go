package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/farmstay-api/internal/domain/moderation"
	"github.com/FACorreiaa/farmstay-api/internal/types"
	"github.com/FACorreiaa/farmstay-api/pkg/db"
)

var _ Repository = (*RepositoryImpl)(nil)

// ListFilter narrows List. Zero fields are ignored.
type ListFilter struct {
	SellerID string
	Status   types.ModerationStatus
}

// Repository persists seller contact requests.
type Repository interface {
	Create(ctx context.Context, propertyID, sellerID string, params types.CreateContactRequestParams) (*types.ContactRequest, error)
	Get(ctx context.Context, id string) (*types.ContactRequest, error)
	List(ctx context.Context, f ListFilter) ([]types.ContactRequest, error)

	// Decide records the admin decision; approval publishes the contact on the property.
	Decide(ctx context.Context, id string, d types.ModerationDecision) error
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

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var contactColumns = []string{
	"id", "property_id", "seller_id", "phone", "email", "location",
	"status", "admin_notes", "submitted_at", "reviewed_at", "reviewed_by",
}

func scanContact(row pgx.Row) (types.ContactRequest, error) {
	var (
		c      types.ContactRequest
		status string
	)
	err := row.Scan(&c.ID, &c.PropertyID, &c.SellerID, &c.Phone, &c.Email, &c.Location,
		&status, &c.AdminNotes, &c.SubmittedAt, &c.ReviewedAt, &c.ReviewedBy)
	c.Status = types.ModerationStatus(status)
	return c, err
}

func (r *RepositoryImpl) Create(ctx context.Context, propertyID, sellerID string, params types.CreateContactRequestParams) (*types.ContactRequest, error) {
	ctx, span := otel.Tracer("ContactRepo").Start(ctx, "Create", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "contact_requests"),
		attribute.String("property.id", propertyID),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "Create"), slog.String("propertyID", propertyID))
	l.DebugContext(ctx, "Creating contact request")

	c := types.ContactRequest{
		ID:         uuid.New().String(),
		PropertyID: propertyID,
		SellerID:   sellerID,
		Phone:      params.Phone,
		Email:      params.Email,
		Location:   params.Location,
	}
	c.Status = types.StatusPending

	query, args, err := psql.Insert("contact_requests").
		Columns("id", "property_id", "seller_id", "phone", "email", "location", "status").
		Values(c.ID, c.PropertyID, c.SellerID, c.Phone, c.Email, c.Location, string(c.Status)).
		Suffix("RETURNING submitted_at").
		ToSql()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("building insert: %w", err)
	}

	if err := r.pgpool.QueryRow(ctx, query, args...).Scan(&c.SubmittedAt); err != nil {
		l.ErrorContext(ctx, "Failed to insert contact request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB insert failed")
		return nil, fmt.Errorf("database error creating contact request: %w", err)
	}

	l.InfoContext(ctx, "Contact request created", slog.String("id", c.ID))
	span.SetStatus(codes.Ok, "Contact request created")
	return &c, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id string) (*types.ContactRequest, error) {
	ctx, span := otel.Tracer("ContactRepo").Start(ctx, "Get", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "contact_requests"),
		attribute.String("contact.id", id),
	))
	defer span.End()

	query, args, err := psql.Select(contactColumns...).
		From("contact_requests").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select: %w", err)
	}

	c, err := scanContact(r.pgpool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Contact request not found")
			return nil, fmt.Errorf("contact request %q: %w", id, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to fetch contact request", slog.String("id", id), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching contact request: %w", err)
	}
	span.SetStatus(codes.Ok, "Contact request fetched")
	return &c, nil
}

func (r *RepositoryImpl) List(ctx context.Context, f ListFilter) ([]types.ContactRequest, error) {
	ctx, span := otel.Tracer("ContactRepo").Start(ctx, "List", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "contact_requests"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "List"))

	q := psql.Select(contactColumns...).From("contact_requests").OrderBy("submitted_at DESC")
	if f.SellerID != "" {
		q = q.Where(squirrel.Eq{"seller_id": f.SellerID})
	}
	if f.Status != "" {
		q = q.Where(squirrel.Eq{"status": string(f.Status)})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		l.ErrorContext(ctx, "Failed to query contact requests", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error listing contact requests: %w", err)
	}
	defer rows.Close()

	out := []types.ContactRequest{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("database error scanning contact request: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("database error iterating contact requests: %w", err)
	}

	l.DebugContext(ctx, "Contact requests listed", slog.Int("count", len(out)))
	span.SetStatus(codes.Ok, "Contact requests listed")
	return out, nil
}

func (r *RepositoryImpl) Decide(ctx context.Context, id string, d types.ModerationDecision) error {
	ctx, span := otel.Tracer("ContactRepo").Start(ctx, "Decide", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "contact_requests"),
		attribute.String("contact.id", id),
		attribute.String("decision.status", string(d.Status)),
	))
	defer span.End()

	start := time.Now()
	err := moderation.Decide(ctx, r.pgpool, moderation.ContactRequests, id, d,
		func(ctx context.Context, tx pgx.Tx, _ string, propertyID string) error {
			_, err := tx.Exec(ctx, `UPDATE properties SET contact_approved = TRUE WHERE id = $1`, propertyID)
			return err
		})
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to record contact decision", slog.String("id", id), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Decision failed")
		return err
	}

	r.logger.InfoContext(ctx, "Contact decision recorded",
		slog.String("id", id), slog.String("status", string(d.Status)), slog.Duration("took", time.Since(start)))
	span.SetStatus(codes.Ok, "Decision recorded")
	return nil
}
