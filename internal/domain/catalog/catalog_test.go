package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/farmstay-api/internal/types"
)

func TestNew(t *testing.T) {
	t.Run("seed is valid and ordered", func(t *testing.T) {
		c, err := New(Seed())
		require.NoError(t, err)
		require.Equal(t, 3, c.Len())

		ids := make([]string, 0, c.Len())
		for _, p := range c.Properties() {
			ids = append(ids, p.ID)
		}
		assert.Equal(t, []string{"farm-feast", "farm-oxygen", "farm-classy-nature"}, ids)
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		props := Seed()
		props[1].ID = props[0].ID
		_, err := New(props)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidCatalog))
		assert.Contains(t, err.Error(), "duplicate id")
	})

	tests := []struct {
		name   string
		mutate func(p *types.Property)
		want   string
	}{
		{"empty id", func(p *types.Property) { p.ID = " " }, "id is empty"},
		{"unknown amenity", func(p *types.Property) { p.Amenities = append(p.Amenities, "helipad") }, "unknown amenity"},
		{"zero weekend price", func(p *types.Property) { p.WeekendPrice = 0 }, "prices must be positive"},
		{"no guests", func(p *types.Property) { p.MaxGuests = 0 }, "max guests"},
		{"rating above five", func(p *types.Property) { p.Rating = 5.1 }, "outside 0-5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			props := Seed()
			tt.mutate(&props[0])
			_, err := New(props)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCatalog_IsolatedFromCallers(t *testing.T) {
	props := Seed()
	c, err := New(props)
	require.NoError(t, err)

	props[0].Tags[0] = "mutated"
	got := c.Properties()
	assert.Equal(t, "Top Rated", got[0].Tags[0])

	got[0].Amenities[0] = "mutated"
	p, ok := c.Get("farm-feast")
	require.True(t, ok)
	assert.Equal(t, types.AmenityWifi, p.Amenities[0])

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

var propertyCols = []string{
	"id", "seller_id", "name", "type", "description", "images",
	"weekday_price", "weekend_price", "rating", "review_count",
	"tags", "active_tags", "amenities", "max_guests", "location", "map_embed",
	"bedrooms", "bathrooms", "hall", "kitchen", "features",
	"contact_approved", "is_active", "created_at",
}

func propertyRow(p types.Property, created time.Time) []any {
	amenities := make([]string, 0, len(p.Amenities))
	for _, a := range p.Amenities {
		amenities = append(amenities, string(a))
	}
	active := p.ActiveTags
	if active == nil {
		active = []string{}
	}
	return []any{
		p.ID, p.SellerID, p.Name, p.Type, p.Description, p.Images,
		p.WeekdayPrice, p.WeekendPrice, p.Rating, p.ReviewCount,
		p.Tags, active, amenities, p.MaxGuests, p.Location, p.MapEmbed,
		p.Rooms.Bedrooms, p.Rooms.Bathrooms, p.Rooms.Hall, p.Rooms.Kitchen, p.Features,
		p.ContactApproved, p.IsActive, created,
	}
}

func setupRepoTest(t *testing.T) (*RepositoryImpl, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewRepositoryImpl(mock, slog.New(slog.NewTextHandler(io.Discard, nil))), mock
}

func TestRepositoryImpl_ListActive(t *testing.T) {
	repo, mock := setupRepoTest(t)
	ctx := context.Background()
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	seed := Seed()
	seed[1].ActiveTags = []string{"Featured"}
	rows := mock.NewRows(propertyCols)
	for _, p := range seed {
		rows.AddRow(propertyRow(p, created)...)
	}
	mock.ExpectQuery(regexp.QuoteMeta("FROM properties")).WillReturnRows(rows)

	props, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, props, 3)
	assert.Equal(t, "farm-oxygen", props[1].ID)
	assert.Equal(t, []string{"Featured"}, props[1].ActiveTags)
	assert.Equal(t, seed[2].Amenities, props[2].Amenities)
	assert.Equal(t, 5000.0, props[0].WeekendPrice)
	require.NotNil(t, props[0].CreatedAt)
	assert.Equal(t, created, *props[0].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryImpl_ListActive_QueryError(t *testing.T) {
	repo, mock := setupRepoTest(t)
	dbErr := errors.New("connection refused")
	mock.ExpectQuery(regexp.QuoteMeta("FROM properties")).WillReturnError(dbErr)

	_, err := repo.ListActive(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryImpl_GetByID(t *testing.T) {
	repo, mock := setupRepoTest(t)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		p := Seed()[0]
		mock.ExpectQuery(regexp.QuoteMeta("FROM properties WHERE id = $1")).
			WithArgs("farm-feast").
			WillReturnRows(mock.NewRows(propertyCols).AddRow(propertyRow(p, time.Now())...))

		got, err := repo.GetByID(ctx, "farm-feast")
		require.NoError(t, err)
		assert.Equal(t, "Farm Feast Farm House", got.Name)
		assert.Equal(t, 12, got.MaxGuests)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM properties WHERE id = $1")).
			WithArgs("nope").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByID(ctx, "nope")
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositorySource_LoadSkipsInvalidRows(t *testing.T) {
	repo, mock := setupRepoTest(t)
	seed := Seed()
	seed[1].Amenities = append(seed[1].Amenities, "ac")
	rows := mock.NewRows(propertyCols)
	for _, p := range append(seed, seed[0]) {
		rows.AddRow(propertyRow(p, time.Now())...)
	}
	mock.ExpectQuery(regexp.QuoteMeta("FROM properties")).WillReturnRows(rows)

	c, err := NewRepositorySource(repo, slog.New(slog.NewTextHandler(io.Discard, nil))).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(seed[1].ID)
	assert.False(t, ok)
	_, ok = c.Get(seed[2].ID)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSanitize(t *testing.T) {
	seed := Seed()
	seed[0].MaxGuests = 0
	kept, rejected := Sanitize(append(seed, seed[1]))
	require.Len(t, kept, 2)
	assert.Equal(t, seed[1].ID, kept[0].ID)
	assert.Len(t, rejected, 2)
}

func TestStaticSource_Load(t *testing.T) {
	c, err := StaticSource{}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
}
