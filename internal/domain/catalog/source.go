package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/farmstay-api/pkg/observability"
)

// Source loads a fresh catalog snapshot.
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}

// StaticSource serves the built-in listings from Seed.
type StaticSource struct{}

func (StaticSource) Load(context.Context) (*Catalog, error) {
	return New(Seed())
}

// RepositorySource builds the catalog from the active rows in Postgres.
// Rows that fail validation are logged and left out; the rest still serve.
type RepositorySource struct {
	repo   Repository
	logger *slog.Logger
}

func NewRepositorySource(repo Repository, logger *slog.Logger) *RepositorySource {
	return &RepositorySource{repo: repo, logger: logger}
}

func (s *RepositorySource) Load(ctx context.Context) (*Catalog, error) {
	props, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	kept, rejected := Sanitize(props)
	for _, err := range rejected {
		s.logger.WarnContext(ctx, "Skipping invalid catalog row", slog.Any("error", err))
	}
	observability.ObserveCatalogRejected(len(rejected))
	return New(kept)
}
