package settings

import (
	"context"
	"fmt"
	"log/slog"

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
	List(ctx context.Context) ([]types.GlobalSetting, error)
	Upsert(ctx context.Context, key, value string) (*types.GlobalSetting, error)
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

func (r *RepositoryImpl) List(ctx context.Context) ([]types.GlobalSetting, error) {
	ctx, span := otel.Tracer("SettingsRepo").Start(ctx, "List", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "global_settings"),
	))
	defer span.End()

	rows, err := r.pgpool.Query(ctx, `
		SELECT setting_key, setting_value, updated_at
		FROM global_settings
		ORDER BY setting_key`)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query settings", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error listing settings: %w", err)
	}
	defer rows.Close()

	out := []types.GlobalSetting{}
	for rows.Next() {
		var s types.GlobalSetting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("database error scanning setting: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("database error iterating settings: %w", err)
	}
	span.SetStatus(codes.Ok, "Settings listed")
	return out, nil
}

func (r *RepositoryImpl) Upsert(ctx context.Context, key, value string) (*types.GlobalSetting, error) {
	ctx, span := otel.Tracer("SettingsRepo").Start(ctx, "Upsert", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "global_settings"),
		attribute.String("setting.key", key),
	))
	defer span.End()

	s := types.GlobalSetting{Key: key, Value: value}
	err := r.pgpool.QueryRow(ctx, `
		INSERT INTO global_settings (setting_key, setting_value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (setting_key) DO UPDATE
		SET setting_value = EXCLUDED.setting_value, updated_at = NOW()
		RETURNING updated_at`, key, value).Scan(&s.UpdatedAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to upsert setting", slog.String("key", key), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB upsert failed")
		return nil, fmt.Errorf("database error saving setting: %w", err)
	}

	r.logger.InfoContext(ctx, "Setting saved", slog.String("key", key))
	span.SetStatus(codes.Ok, "Setting saved")
	return &s, nil
}
