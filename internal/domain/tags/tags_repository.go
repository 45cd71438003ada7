package tags

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

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
	SellerID   string
	PropertyID string
	Status     types.ModerationStatus
}

// Repository persists promotional tag purchases.
type Repository interface {
	Create(ctx context.Context, propertyID, sellerID string, params types.CreateTagRequestParams) (*types.TagRequest, error)
	Get(ctx context.Context, id string) (*types.TagRequest, error)
	List(ctx context.Context, f ListFilter) ([]types.TagRequest, error)

	// Decide records the admin decision; approval adds the tag to the property's active tags.
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

var tagColumns = []string{
	"id", "property_id", "seller_id", "tag_name", "price", "payment_screenshot",
	"status", "admin_notes", "submitted_at", "reviewed_at", "reviewed_by",
}

// activateTagSQL appends the approved tag unless the property already carries it.
const activateTagSQL = `UPDATE properties p
		SET active_tags = array_append(p.active_tags, t.tag_name)
		FROM tag_requests t
		WHERE p.id = $1 AND t.id = $2 AND NOT (t.tag_name = ANY(p.active_tags))`

func scanTag(row pgx.Row) (types.TagRequest, error) {
	var (
		t      types.TagRequest
		status string
	)
	err := row.Scan(&t.ID, &t.PropertyID, &t.SellerID, &t.TagName, &t.Price, &t.PaymentScreenshot,
		&status, &t.AdminNotes, &t.SubmittedAt, &t.ReviewedAt, &t.ReviewedBy)
	t.Status = types.ModerationStatus(status)
	return t, err
}

func (r *RepositoryImpl) Create(ctx context.Context, propertyID, sellerID string, params types.CreateTagRequestParams) (*types.TagRequest, error) {
	ctx, span := otel.Tracer("TagsRepo").Start(ctx, "Create", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "tag_requests"),
		attribute.String("property.id", propertyID),
		attribute.String("tag.name", params.TagName),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "Create"), slog.String("propertyID", propertyID))
	l.DebugContext(ctx, "Creating tag request", slog.String("tag", params.TagName))

	t := types.TagRequest{
		ID:                uuid.New().String(),
		PropertyID:        propertyID,
		SellerID:          sellerID,
		TagName:           params.TagName,
		Price:             params.Price,
		PaymentScreenshot: params.PaymentScreenshot,
	}
	t.Status = types.StatusPending

	query, args, err := psql.Insert("tag_requests").
		Columns("id", "property_id", "seller_id", "tag_name", "price", "payment_screenshot", "status").
		Values(t.ID, t.PropertyID, t.SellerID, t.TagName, t.Price, t.PaymentScreenshot, string(t.Status)).
		Suffix("RETURNING submitted_at").
		ToSql()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("building insert: %w", err)
	}

	if err := r.pgpool.QueryRow(ctx, query, args...).Scan(&t.SubmittedAt); err != nil {
		l.ErrorContext(ctx, "Failed to insert tag request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB insert failed")
		return nil, fmt.Errorf("database error creating tag request: %w", err)
	}

	l.InfoContext(ctx, "Tag request created", slog.String("id", t.ID))
	span.SetStatus(codes.Ok, "Tag request created")
	return &t, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id string) (*types.TagRequest, error) {
	ctx, span := otel.Tracer("TagsRepo").Start(ctx, "Get", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "tag_requests"),
		attribute.String("tag_request.id", id),
	))
	defer span.End()

	query, args, err := psql.Select(tagColumns...).
		From("tag_requests").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select: %w", err)
	}

	t, err := scanTag(r.pgpool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Tag request not found")
			return nil, fmt.Errorf("tag request %q: %w", id, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to fetch tag request", slog.String("id", id), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching tag request: %w", err)
	}
	span.SetStatus(codes.Ok, "Tag request fetched")
	return &t, nil
}

func (r *RepositoryImpl) List(ctx context.Context, f ListFilter) ([]types.TagRequest, error) {
	ctx, span := otel.Tracer("TagsRepo").Start(ctx, "List", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "tag_requests"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "List"))

	q := psql.Select(tagColumns...).From("tag_requests").OrderBy("submitted_at DESC")
	if f.SellerID != "" {
		q = q.Where(squirrel.Eq{"seller_id": f.SellerID})
	}
	if f.PropertyID != "" {
		q = q.Where(squirrel.Eq{"property_id": f.PropertyID})
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
		l.ErrorContext(ctx, "Failed to query tag requests", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error listing tag requests: %w", err)
	}
	defer rows.Close()

	out := []types.TagRequest{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("database error scanning tag request: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("database error iterating tag requests: %w", err)
	}

	l.DebugContext(ctx, "Tag requests listed", slog.Int("count", len(out)))
	span.SetStatus(codes.Ok, "Tag requests listed")
	return out, nil
}

func (r *RepositoryImpl) Decide(ctx context.Context, id string, d types.ModerationDecision) error {
	ctx, span := otel.Tracer("TagsRepo").Start(ctx, "Decide", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "tag_requests"),
		attribute.String("tag_request.id", id),
		attribute.String("decision.status", string(d.Status)),
	))
	defer span.End()

	err := moderation.Decide(ctx, r.pgpool, moderation.TagRequests, id, d,
		func(ctx context.Context, tx pgx.Tx, recordID, propertyID string) error {
			_, err := tx.Exec(ctx, activateTagSQL, propertyID, recordID)
			return err
		})
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to record tag decision", slog.String("id", id), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Decision failed")
		return err
	}

	r.logger.InfoContext(ctx, "Tag decision recorded", slog.String("id", id), slog.String("status", string(d.Status)))
	span.SetStatus(codes.Ok, "Decision recorded")
	return nil
}
