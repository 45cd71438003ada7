package contact

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/farmstay-api/internal/types"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, propertyID, sellerID string, params types.CreateContactRequestParams) (*types.ContactRequest, error) {
	args := m.Called(ctx, propertyID, sellerID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ContactRequest), args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, id string) (*types.ContactRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ContactRequest), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, f ListFilter) ([]types.ContactRequest, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ContactRequest), args.Error(1)
}

func (m *MockRepository) Decide(ctx context.Context, id string, d types.ModerationDecision) error {
	args := m.Called(ctx, id, d)
	return args.Error(0)
}

type MockPropertyReader struct {
	mock.Mock
}

func (m *MockPropertyReader) GetByID(ctx context.Context, id string) (*types.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Property), args.Error(1)
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) InvalidateCatalog() { c.calls++ }

func setupContactServiceTest() (*ServiceImpl, *MockRepository, *MockPropertyReader, *countingInvalidator) {
	repo := new(MockRepository)
	props := new(MockPropertyReader)
	inv := &countingInvalidator{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, props, inv, logger), repo, props, inv
}

var validParams = types.CreateContactRequestParams{
	Phone:    "+91 98765 43210",
	Email:    "owner@example.com",
	Location: "Alibaug",
}

func TestServiceImpl_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("owner submits", func(t *testing.T) {
		service, repo, props, _ := setupContactServiceTest()
		props.On("GetByID", mock.Anything, "farm-feast").
			Return(&types.Property{ID: "farm-feast", SellerID: "seller-1"}, nil).Once()
		want := &types.ContactRequest{ID: "cr-1", PropertyID: "farm-feast", SellerID: "seller-1"}
		repo.On("Create", mock.Anything, "farm-feast", "seller-1", validParams).Return(want, nil).Once()

		got, err := service.Submit(ctx, "seller-1", "farm-feast", validParams)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		repo.AssertExpectations(t)
		props.AssertExpectations(t)
	})

	t.Run("other seller is forbidden", func(t *testing.T) {
		service, repo, props, _ := setupContactServiceTest()
		props.On("GetByID", mock.Anything, "farm-feast").
			Return(&types.Property{ID: "farm-feast", SellerID: "seller-2"}, nil).Once()

		_, err := service.Submit(ctx, "seller-1", "farm-feast", validParams)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrForbidden)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing fields never reach the store", func(t *testing.T) {
		service, repo, props, _ := setupContactServiceTest()

		_, err := service.Submit(ctx, "seller-1", "farm-feast", types.CreateContactRequestParams{Phone: "1"})
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrBadRequest)
		assert.Contains(t, err.Error(), "email, location")
		props.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown property", func(t *testing.T) {
		service, _, props, _ := setupContactServiceTest()
		props.On("GetByID", mock.Anything, "farm-none").Return(nil, types.ErrNotFound).Once()

		_, err := service.Submit(ctx, "seller-1", "farm-none", validParams)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestServiceImpl_Lists(t *testing.T) {
	ctx := context.Background()
	service, repo, _, _ := setupContactServiceTest()

	repo.On("List", mock.Anything, ListFilter{SellerID: "seller-1"}).
		Return([]types.ContactRequest{{ID: "cr-1"}}, nil).Once()
	repo.On("List", mock.Anything, ListFilter{Status: types.StatusPending}).
		Return([]types.ContactRequest{}, nil).Once()
	repo.On("List", mock.Anything, ListFilter{}).
		Return(nil, errors.New("connection reset")).Once()

	mine, err := service.ListForSeller(ctx, "seller-1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	pending, err := service.ListAll(ctx, types.StatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = service.ListAll(ctx, "")
	assert.Error(t, err)
	repo.AssertExpectations(t)
}

func TestServiceImpl_Decide(t *testing.T) {
	ctx := context.Background()

	t.Run("approval invalidates the catalog", func(t *testing.T) {
		service, repo, _, inv := setupContactServiceTest()
		d := types.ModerationDecision{Status: types.StatusApproved, ReviewerID: "admin-1"}
		repo.On("Decide", mock.Anything, "cr-1", d).Return(nil).Once()
		decided := &types.ContactRequest{ID: "cr-1"}
		decided.Status = types.StatusApproved
		repo.On("Get", mock.Anything, "cr-1").Return(decided, nil).Once()

		got, err := service.Decide(ctx, "cr-1", d)
		require.NoError(t, err)
		assert.Equal(t, types.StatusApproved, got.Status)
		assert.Equal(t, 1, inv.calls)
		repo.AssertExpectations(t)
	})

	t.Run("rejection keeps the catalog", func(t *testing.T) {
		service, repo, _, inv := setupContactServiceTest()
		d := types.ModerationDecision{Status: types.StatusRejected}
		repo.On("Decide", mock.Anything, "cr-2", d).Return(nil).Once()
		repo.On("Get", mock.Anything, "cr-2").Return(&types.ContactRequest{ID: "cr-2"}, nil).Once()

		_, err := service.Decide(ctx, "cr-2", d)
		require.NoError(t, err)
		assert.Zero(t, inv.calls)
	})

	t.Run("transition conflict is surfaced", func(t *testing.T) {
		service, repo, _, inv := setupContactServiceTest()
		d := types.ModerationDecision{Status: types.StatusApproved}
		repo.On("Decide", mock.Anything, "cr-3", d).Return(types.ErrInvalidTransition).Once()

		_, err := service.Decide(ctx, "cr-3", d)
		assert.ErrorIs(t, err, types.ErrInvalidTransition)
		assert.Zero(t, inv.calls)
		repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("pending is not a decision", func(t *testing.T) {
		service, repo, _, _ := setupContactServiceTest()

		_, err := service.Decide(ctx, "cr-4", types.ModerationDecision{Status: types.StatusPending})
		assert.ErrorIs(t, err, types.ErrBadRequest)
		repo.AssertNotCalled(t, "Decide", mock.Anything, mock.Anything, mock.Anything)
	})
}
