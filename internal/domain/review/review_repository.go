package review

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

// ListFilter narrows List. Zero fields are ignored. SellerID keeps reviews of
// any property the seller owns.
type ListFilter struct {
	PropertyID string
	SellerID   string
	Status     types.ModerationStatus
}

type Repository interface {
	Create(ctx context.Context, propertyID string, params types.CreateReviewParams) (*types.Review, error)
	Get(ctx context.Context, id string) (*types.Review, error)
	List(ctx context.Context, f ListFilter) ([]types.Review, error)

	// Decide records the admin decision; approval folds the rating into the property.
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

var reviewColumns = []string{
	"id", "property_id", "customer_name", "customer_email", "rating", "comment",
	"status", "admin_notes", "submitted_at", "reviewed_at", "reviewed_by",
}

// foldRatingSQL recomputes the running average with one decimal, like the catalog stores it.
const foldRatingSQL = `UPDATE properties p
		SET rating = ROUND((p.rating * p.review_count + r.rating) / (p.review_count + 1), 1),
		    review_count = p.review_count + 1
		FROM reviews r
		WHERE p.id = $1 AND r.id = $2`

func scanReview(row pgx.Row) (types.Review, error) {
	var (
		rv     types.Review
		status string
	)
	err := row.Scan(&rv.ID, &rv.PropertyID, &rv.CustomerName, &rv.CustomerEmail, &rv.Rating, &rv.Comment,
		&status, &rv.AdminNotes, &rv.SubmittedAt, &rv.ReviewedAt, &rv.ReviewedBy)
	rv.Status = types.ModerationStatus(status)
	return rv, err
}

func (r *RepositoryImpl) Create(ctx context.Context, propertyID string, params types.CreateReviewParams) (*types.Review, error) {
	ctx, span := otel.Tracer("ReviewRepo").Start(ctx, "Create", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "reviews"),
		attribute.String("property.id", propertyID),
		attribute.Int("review.rating", params.Rating),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "Create"), slog.String("propertyID", propertyID))

	rv := types.Review{
		ID:            uuid.New().String(),
		PropertyID:    propertyID,
		CustomerName:  params.CustomerName,
		CustomerEmail: params.CustomerEmail,
		Rating:        params.Rating,
		Comment:       params.Comment,
	}
	rv.Status = types.StatusPending

	query, args, err := psql.Insert("reviews").
		Columns("id", "property_id", "customer_name", "customer_email", "rating", "comment", "status").
		Values(rv.ID, rv.PropertyID, rv.CustomerName, rv.CustomerEmail, rv.Rating, rv.Comment, string(rv.Status)).
		Suffix("RETURNING submitted_at").
		ToSql()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("building insert: %w", err)
	}

	if err := r.pgpool.QueryRow(ctx, query, args...).Scan(&rv.SubmittedAt); err != nil {
		l.ErrorContext(ctx, "Failed to insert review", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB insert failed")
		return nil, fmt.Errorf("database error creating review: %w", err)
	}

	l.InfoContext(ctx, "Review created", slog.String("id", rv.ID))
	span.SetStatus(codes.Ok, "Review created")
	return &rv, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id string) (*types.Review, error) {
	ctx, span := otel.Tracer("ReviewRepo").Start(ctx, "Get", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "reviews"),
		attribute.String("review.id", id),
	))
	defer span.End()

	query, args, err := psql.Select(reviewColumns...).From("reviews").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select: %w", err)
	}

	rv, err := scanReview(r.pgpool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Review not found")
			return nil, fmt.Errorf("review %q: %w", id, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to fetch review", slog.String("id", id), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching review: %w", err)
	}
	span.SetStatus(codes.Ok, "Review fetched")
	return &rv, nil
}

func (r *RepositoryImpl) List(ctx context.Context, f ListFilter) ([]types.Review, error) {
	ctx, span := otel.Tracer("ReviewRepo").Start(ctx, "List", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "reviews"),
	))
	defer span.End()

	q := psql.Select(reviewColumns...).From("reviews").OrderBy("submitted_at DESC")
	if f.PropertyID != "" {
		q = q.Where(squirrel.Eq{"property_id": f.PropertyID})
	}
	if f.SellerID != "" {
		q = q.Where(squirrel.Expr("property_id IN (SELECT id FROM properties WHERE seller_id = ?)", f.SellerID))
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
		r.logger.ErrorContext(ctx, "Failed to query reviews", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error listing reviews: %w", err)
	}
	defer rows.Close()

	out := []types.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("database error scanning review: %w", err)
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("database error iterating reviews: %w", err)
	}
	span.SetStatus(codes.Ok, "Reviews listed")
	return out, nil
}

func (r *RepositoryImpl) Decide(ctx context.Context, id string, d types.ModerationDecision) error {
	ctx, span := otel.Tracer("ReviewRepo").Start(ctx, "Decide", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "reviews"),
		attribute.String("review.id", id),
		attribute.String("decision.status", string(d.Status)),
	))
	defer span.End()

	err := moderation.Decide(ctx, r.pgpool, moderation.Reviews, id, d,
		func(ctx context.Context, tx pgx.Tx, recordID, propertyID string) error {
			_, err := tx.Exec(ctx, foldRatingSQL, propertyID, recordID)
			return err
		})
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to record review decision", slog.String("id", id), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Decision failed")
		return err
	}
	span.SetStatus(codes.Ok, "Decision recorded")
	return nil
}
