package listing

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/farmstay-api/internal/domain/catalog"
	"github.com/FACorreiaa/farmstay-api/internal/types"
)

// MockSource is a mock implementation of catalog.Source
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Load(ctx context.Context) (*catalog.Catalog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Catalog), args.Error(1)
}

func seedCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(catalog.Seed())
	require.NoError(t, err)
	return c
}

// Helper to setup service with mock source
func setupListingServiceTest(ttl time.Duration) (*ServiceImpl, *MockSource) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	source := new(MockSource)
	return NewService(source, ttl, logger), source
}

func TestListingService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("success - counts and summary", func(t *testing.T) {
		service, source := setupListingServiceTest(time.Minute)
		source.On("Load", mock.Anything).Return(seedCatalog(t), nil).Once()

		res, err := service.Search(ctx, DefaultCriteria().WithPrice(PriceBudget))
		require.NoError(t, err)
		assert.Equal(t, 1, res.Count)
		assert.Equal(t, 3, res.Total)
		assert.Equal(t, 1, res.ActiveFilters)
		assert.False(t, res.Empty)
		assert.Equal(t, []string{"Price: Budget (Up to ₹5,000)"}, res.Summary)
		assert.Equal(t, "farm-feast", res.Properties[0].ID)
		source.AssertExpectations(t)
	})

	t.Run("empty state", func(t *testing.T) {
		service, source := setupListingServiceTest(time.Minute)
		source.On("Load", mock.Anything).Return(seedCatalog(t), nil).Once()

		res, err := service.Search(ctx, DefaultCriteria().WithSearch("goa"))
		require.NoError(t, err)
		assert.True(t, res.Empty)
		assert.Equal(t, 0, res.Count)
		assert.NotNil(t, res.Properties)
	})

	t.Run("catalog cached between searches", func(t *testing.T) {
		service, source := setupListingServiceTest(time.Minute)
		source.On("Load", mock.Anything).Return(seedCatalog(t), nil).Once()

		for i := 0; i < 3; i++ {
			_, err := service.Search(ctx, DefaultCriteria())
			require.NoError(t, err)
		}
		source.AssertNumberOfCalls(t, "Load", 1)
	})

	t.Run("zero ttl reloads every time", func(t *testing.T) {
		service, source := setupListingServiceTest(0)
		source.On("Load", mock.Anything).Return(seedCatalog(t), nil).Twice()

		_, err := service.Search(ctx, DefaultCriteria())
		require.NoError(t, err)
		_, err = service.Search(ctx, DefaultCriteria())
		require.NoError(t, err)
		source.AssertExpectations(t)
	})

	t.Run("invalidate forces reload", func(t *testing.T) {
		service, source := setupListingServiceTest(time.Hour)
		source.On("Load", mock.Anything).Return(seedCatalog(t), nil).Twice()

		_, err := service.Search(ctx, DefaultCriteria())
		require.NoError(t, err)
		service.InvalidateCatalog()
		_, err = service.Search(ctx, DefaultCriteria())
		require.NoError(t, err)
		source.AssertExpectations(t)
	})

	t.Run("source error", func(t *testing.T) {
		service, source := setupListingServiceTest(time.Minute)
		loadErr := errors.New("db down")
		source.On("Load", mock.Anything).Return(nil, loadErr).Once()

		_, err := service.Search(ctx, DefaultCriteria())
		require.Error(t, err)
		assert.True(t, errors.Is(err, loadErr))
		assert.Contains(t, err.Error(), "error loading catalog:")
	})
}

func TestListingService_GetProperty(t *testing.T) {
	service, source := setupListingServiceTest(time.Minute)
	source.On("Load", mock.Anything).Return(seedCatalog(t), nil).Once()
	ctx := context.Background()

	p, err := service.GetProperty(ctx, "farm-oxygen")
	require.NoError(t, err)
	assert.Equal(t, "Farm Oxygen", p.Name)

	_, err = service.GetProperty(ctx, "farm-missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestListingService_Amenities(t *testing.T) {
	service, _ := setupListingServiceTest(time.Minute)
	got := service.Amenities()
	require.NotEmpty(t, got)
	assert.Equal(t, types.AmenityWifi, got[0].ID)
}
