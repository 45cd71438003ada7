package listing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/farmstay-api/internal/domain/catalog"
	"github.com/FACorreiaa/farmstay-api/internal/types"
	"github.com/FACorreiaa/farmstay-api/pkg/observability"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service is the search contract used by the HTTP layer and the moderation
// services that change what a search returns.
type Service interface {
	Search(ctx context.Context, c Criteria) (*SearchResult, error)
	GetProperty(ctx context.Context, id string) (*types.Property, error)
	Amenities() []types.AmenityDescriptor
	InvalidateCatalog()
}

// SearchResult is what the listings view renders: the matches plus the count
// and active-filter summary shown above them.
type SearchResult struct {
	Properties    []types.Property `json:"properties"`
	Count         int              `json:"count"`
	Total         int              `json:"total"`
	ActiveFilters int              `json:"active_filters"`
	Summary       []string         `json:"summary"`
	Empty         bool             `json:"empty"`
	Criteria      Criteria         `json:"criteria"`
}

const catalogCacheKey = "catalog"

type ServiceImpl struct {
	logger *slog.Logger
	source catalog.Source
	cache  *cache.Cache
	ttl    time.Duration
}

// NewService caches the loaded catalog for ttl. A zero ttl reloads on every call.
func NewService(source catalog.Source, ttl time.Duration, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		source: source,
		cache:  cache.New(ttl, 2*ttl+time.Minute),
		ttl:    ttl,
	}
}

func (s *ServiceImpl) snapshot(ctx context.Context) (*catalog.Catalog, error) {
	if v, ok := s.cache.Get(catalogCacheKey); ok {
		return v.(*catalog.Catalog), nil
	}

	ctx, span := otel.Tracer("ListingService").Start(ctx, "LoadCatalog")
	defer span.End()

	c, err := s.source.Load(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load catalog")
		return nil, err
	}
	if s.ttl > 0 {
		s.cache.Set(catalogCacheKey, c, cache.DefaultExpiration)
	}
	span.SetAttributes(attribute.Int("catalog.size", c.Len()))
	span.SetStatus(codes.Ok, "Catalog loaded")
	return c, nil
}

// Search filters the current catalog snapshot.
func (s *ServiceImpl) Search(ctx context.Context, c Criteria) (*SearchResult, error) {
	ctx, span := otel.Tracer("ListingService").Start(ctx, "Search", trace.WithAttributes(
		attribute.String("search.term", c.Search),
		attribute.String("search.price_range", string(c.Price)),
		attribute.Int("search.active_filters", c.ActiveCount()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Search"))
	l.DebugContext(ctx, "Searching properties", slog.Any("criteria", c))

	snap, err := s.snapshot(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to load catalog", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load catalog")
		return nil, fmt.Errorf("error loading catalog: %w", err)
	}

	c = c.clone()
	matched := Filter(snap.Properties(), c)
	observability.ObserveSearch(len(matched))

	res := &SearchResult{
		Properties:    matched,
		Count:         len(matched),
		Total:         snap.Len(),
		ActiveFilters: c.ActiveCount(),
		Summary:       c.Summary(),
		Empty:         len(matched) == 0,
		Criteria:      c,
	}

	l.InfoContext(ctx, "Search completed", slog.Int("count", res.Count), slog.Int("total", res.Total))
	span.SetAttributes(attribute.Int("search.results", res.Count))
	span.SetStatus(codes.Ok, "Search completed")
	return res, nil
}

// GetProperty returns one property from the snapshot.
func (s *ServiceImpl) GetProperty(ctx context.Context, id string) (*types.Property, error) {
	ctx, span := otel.Tracer("ListingService").Start(ctx, "GetProperty", trace.WithAttributes(
		attribute.String("property.id", id),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GetProperty"), slog.String("propertyID", id))

	snap, err := s.snapshot(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to load catalog", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load catalog")
		return nil, fmt.Errorf("error loading catalog: %w", err)
	}

	p, ok := snap.Get(id)
	if !ok {
		l.WarnContext(ctx, "Property not found")
		span.SetStatus(codes.Error, "Property not found")
		return nil, fmt.Errorf("property %q: %w", id, types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Property fetched")
	return &p, nil
}

// Amenities returns the filterable amenity vocabulary.
func (s *ServiceImpl) Amenities() []types.AmenityDescriptor {
	return types.Amenities()
}

// InvalidateCatalog drops the cached snapshot so the next call reloads it.
func (s *ServiceImpl) InvalidateCatalog() {
	s.cache.Delete(catalogCacheKey)
	s.logger.Debug("catalog cache invalidated")
}
