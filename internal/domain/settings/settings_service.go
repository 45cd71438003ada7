package settings

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/farmstay-api/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	List(ctx context.Context) ([]types.GlobalSetting, error)
	Set(ctx context.Context, key, value string) (*types.GlobalSetting, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, repo: repo}
}

func (s *ServiceImpl) List(ctx context.Context) ([]types.GlobalSetting, error) {
	ctx, span := otel.Tracer("SettingsService").Start(ctx, "List")
	defer span.End()

	out, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list settings")
		return nil, fmt.Errorf("error listing settings: %w", err)
	}
	span.SetStatus(codes.Ok, "Settings listed")
	return out, nil
}

// Set creates or replaces a setting. Keys are trimmed and must be non-empty.
func (s *ServiceImpl) Set(ctx context.Context, key, value string) (*types.GlobalSetting, error) {
	key = strings.TrimSpace(key)
	ctx, span := otel.Tracer("SettingsService").Start(ctx, "Set", trace.WithAttributes(
		attribute.String("setting.key", key),
	))
	defer span.End()

	if key == "" {
		span.SetStatus(codes.Error, "Empty key")
		return nil, fmt.Errorf("%w: setting_key is required", types.ErrBadRequest)
	}

	out, err := s.repo.Upsert(ctx, key, value)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to save setting", slog.String("key", key), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save setting")
		return nil, fmt.Errorf("error saving setting: %w", err)
	}
	span.SetStatus(codes.Ok, "Setting saved")
	return out, nil
}
