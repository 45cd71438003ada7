package inquiry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
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

type Repository interface {
	Create(ctx context.Context, propertyID, sellerID string, params types.CreateInquiryParams) (*types.Inquiry, error)
	ListBySeller(ctx context.Context, sellerID string) ([]types.Inquiry, error)

	// UpdateStatus moves an inquiry owned by sellerID along the status graph.
	UpdateStatus(ctx context.Context, id, sellerID string, to types.InquiryStatus) (*types.Inquiry, error)
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

// Now stamps updated_at.
var Now = func() time.Time { return time.Now().UTC() }

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var inquiryColumns = []string{
	"id", "property_id", "seller_id", "customer_name", "customer_email", "customer_phone",
	"message", "check_in", "check_out", "guests", "status", "created_at", "updated_at",
}

func scanInquiry(row pgx.Row) (types.Inquiry, error) {
	var (
		q      types.Inquiry
		status string
	)
	err := row.Scan(&q.ID, &q.PropertyID, &q.SellerID, &q.CustomerName, &q.CustomerEmail, &q.CustomerPhone,
		&q.Message, &q.CheckIn, &q.CheckOut, &q.Guests, &status, &q.CreatedAt, &q.UpdatedAt)
	q.Status = types.InquiryStatus(status)
	return q, err
}

func (r *RepositoryImpl) Create(ctx context.Context, propertyID, sellerID string, params types.CreateInquiryParams) (*types.Inquiry, error) {
	ctx, span := otel.Tracer("InquiryRepo").Start(ctx, "Create", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "inquiries"),
		attribute.String("property.id", propertyID),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "Create"), slog.String("propertyID", propertyID))

	q := types.Inquiry{
		ID:            uuid.New().String(),
		PropertyID:    propertyID,
		SellerID:      sellerID,
		CustomerName:  params.CustomerName,
		CustomerEmail: params.CustomerEmail,
		CustomerPhone: params.CustomerPhone,
		Message:       params.Message,
		CheckIn:       params.CheckIn,
		CheckOut:      params.CheckOut,
		Guests:        params.Guests,
		Status:        types.InquiryNew,
	}

	query, args, err := psql.Insert("inquiries").
		Columns("id", "property_id", "seller_id", "customer_name", "customer_email", "customer_phone",
			"message", "check_in", "check_out", "guests", "status").
		Values(q.ID, q.PropertyID, q.SellerID, q.CustomerName, q.CustomerEmail, q.CustomerPhone,
			q.Message, q.CheckIn, q.CheckOut, q.Guests, string(q.Status)).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("building insert: %w", err)
	}

	if err := r.pgpool.QueryRow(ctx, query, args...).Scan(&q.CreatedAt, &q.UpdatedAt); err != nil {
		l.ErrorContext(ctx, "Failed to insert inquiry", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB insert failed")
		return nil, fmt.Errorf("database error creating inquiry: %w", err)
	}

	l.InfoContext(ctx, "Inquiry created", slog.String("id", q.ID))
	span.SetStatus(codes.Ok, "Inquiry created")
	return &q, nil
}

func (r *RepositoryImpl) ListBySeller(ctx context.Context, sellerID string) ([]types.Inquiry, error) {
	ctx, span := otel.Tracer("InquiryRepo").Start(ctx, "ListBySeller", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "inquiries"),
		attribute.String("seller.id", sellerID),
	))
	defer span.End()

	query, args, err := psql.Select(inquiryColumns...).
		From("inquiries").
		Where(squirrel.Eq{"seller_id": sellerID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query inquiries", slog.String("sellerID", sellerID), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error listing inquiries: %w", err)
	}
	defer rows.Close()

	out := []types.Inquiry{}
	for rows.Next() {
		q, err := scanInquiry(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("database error scanning inquiry: %w", err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("database error iterating inquiries: %w", err)
	}
	span.SetStatus(codes.Ok, "Inquiries listed")
	return out, nil
}

func (r *RepositoryImpl) UpdateStatus(ctx context.Context, id, sellerID string, to types.InquiryStatus) (q *types.Inquiry, err error) {
	ctx, span := otel.Tracer("InquiryRepo").Start(ctx, "UpdateStatus", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "inquiries"),
		attribute.String("inquiry.id", id),
		attribute.String("inquiry.status", string(to)),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "UpdateStatus"), slog.String("id", id))

	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("database error beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Status update failed")
		}
	}()

	var owner, status string
	err = tx.QueryRow(ctx, `SELECT seller_id, status FROM inquiries WHERE id = $1 FOR UPDATE`, id).Scan(&owner, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("inquiry %q: %w", id, types.ErrNotFound)
		}
		return nil, fmt.Errorf("database error locking inquiry: %w", err)
	}
	if owner != sellerID {
		return nil, fmt.Errorf("inquiry %q belongs to another seller: %w", id, types.ErrForbidden)
	}
	from := types.InquiryStatus(status)
	if !types.CanMoveInquiry(from, to) {
		return nil, fmt.Errorf("inquiry %q is %s, cannot become %s: %w", id, from, to, types.ErrInvalidTransition)
	}

	query, args, err := psql.Update("inquiries").
		Set("status", string(to)).
		Set("updated_at", Now()).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(inquiryColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building update: %w", err)
	}
	updated, err := scanInquiry(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("database error updating inquiry: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("database error committing inquiry: %w", err)
	}

	l.InfoContext(ctx, "Inquiry status updated", slog.String("from", string(from)), slog.String("to", string(to)))
	span.SetStatus(codes.Ok, "Inquiry updated")
	return &updated, nil
}
