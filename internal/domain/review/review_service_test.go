package review

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/farmstay-api/internal/types"
	"github.com/FACorreiaa/farmstay-api/pkg/interceptors"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, propertyID string, params types.CreateReviewParams) (*types.Review, error) {
	args := m.Called(ctx, propertyID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Review), args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, id string) (*types.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Review), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, f ListFilter) ([]types.Review, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Review), args.Error(1)
}

func (m *MockRepository) Decide(ctx context.Context, id string, d types.ModerationDecision) error {
	return m.Called(ctx, id, d).Error(0)
}

type properties map[string]types.Property

func (p properties) GetByID(_ context.Context, id string) (*types.Property, error) {
	prop, ok := p[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return &prop, nil
}

type invalidator struct{ n int }

func (i *invalidator) InvalidateCatalog() { i.n++ }

func setupReviewServiceTest() (*ServiceImpl, *MockRepository, *invalidator) {
	repo := new(MockRepository)
	inv := &invalidator{}
	props := properties{
		"farm-feast":  {ID: "farm-feast", IsActive: true},
		"farm-hidden": {ID: "farm-hidden", IsActive: false},
	}
	return NewService(repo, props, inv, slog.New(slog.NewTextHandler(io.Discard, nil))), repo, inv
}

var goodReview = types.CreateReviewParams{CustomerName: "Asha", Rating: 5, Comment: "Loved the orchard"}

func TestReviewService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("active property", func(t *testing.T) {
		service, repo, _ := setupReviewServiceTest()
		repo.On("Create", mock.Anything, "farm-feast", goodReview).
			Return(&types.Review{ID: "rv-1", Rating: 5}, nil).Once()

		rv, err := service.Submit(ctx, "farm-feast", goodReview)
		require.NoError(t, err)
		assert.Equal(t, "rv-1", rv.ID)
		repo.AssertExpectations(t)
	})

	t.Run("inactive property is not reviewable", func(t *testing.T) {
		service, repo, _ := setupReviewServiceTest()
		_, err := service.Submit(ctx, "farm-hidden", goodReview)
		assert.ErrorIs(t, err, types.ErrNotFound)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rating out of range", func(t *testing.T) {
		service, _, _ := setupReviewServiceTest()
		bad := goodReview
		bad.Rating = 6
		_, err := service.Submit(ctx, "farm-feast", bad)
		assert.ErrorIs(t, err, types.ErrBadRequest)
	})
}

func TestReviewService_ListApprovedOnlyAsksForApproved(t *testing.T) {
	service, repo, _ := setupReviewServiceTest()
	repo.On("List", mock.Anything, ListFilter{PropertyID: "farm-feast", Status: types.StatusApproved}).
		Return([]types.Review{{ID: "rv-1"}}, nil).Once()

	out, err := service.ListApproved(context.Background(), "farm-feast")
	require.NoError(t, err)
	assert.Len(t, out, 1)
	repo.AssertExpectations(t)
}

func TestReviewService_ListForSellerScopesBySeller(t *testing.T) {
	service, repo, _ := setupReviewServiceTest()
	repo.On("List", mock.Anything, ListFilter{SellerID: "seller-1", Status: types.StatusApproved}).
		Return([]types.Review{{ID: "rv-1"}, {ID: "rv-2"}}, nil).Once()

	out, err := service.ListForSeller(context.Background(), "seller-1")
	require.NoError(t, err)
	assert.Len(t, out, 2)
	repo.AssertExpectations(t)
}

func TestReviewService_DecideApprovalInvalidatesCatalog(t *testing.T) {
	service, repo, inv := setupReviewServiceTest()
	d := types.ModerationDecision{Status: types.StatusApproved, ReviewerID: "admin-1"}
	repo.On("Decide", mock.Anything, "rv-1", d).Return(nil).Once()
	repo.On("Get", mock.Anything, "rv-1").Return(&types.Review{ID: "rv-1"}, nil).Once()

	_, err := service.Decide(context.Background(), "rv-1", d)
	require.NoError(t, err)
	assert.Equal(t, 1, inv.n)
	repo.AssertExpectations(t)
}

func TestReviewHandler_Routes(t *testing.T) {
	service, repo, _ := setupReviewServiceTest()
	h := NewHandlerImpl(service, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := chi.NewRouter()
	r.Get("/api/properties/{id}/reviews", h.ListPropertyReviews)
	r.Post("/api/properties/{id}/reviews", h.SubmitReview)
	r.Put("/api/admin/reviews/{id}", h.DecideReview)

	t.Run("submit", func(t *testing.T) {
		repo.On("Create", mock.Anything, "farm-feast", goodReview).
			Return(&types.Review{ID: "rv-9"}, nil).Once()
		body := `{"customer_name":"Asha","rating":5,"comment":"Loved the orchard"}`
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/properties/farm-feast/reviews", strings.NewReader(body)))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"id":"rv-9"`)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/properties/farm-feast/reviews", strings.NewReader(`{"stars":5}`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("decision carries the reviewer", func(t *testing.T) {
		d := types.ModerationDecision{Status: types.StatusRejected, ReviewerID: "admin-7"}
		repo.On("Decide", mock.Anything, "rv-2", d).Return(nil).Once()
		repo.On("Get", mock.Anything, "rv-2").Return(&types.Review{ID: "rv-2"}, nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/api/admin/reviews/rv-2", strings.NewReader(`{"status":"rejected"}`))
		req = req.WithContext(interceptors.WithIdentity(req.Context(), interceptors.Identity{UserID: "admin-7", Roles: []string{interceptors.RoleAdmin}}))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("already decided", func(t *testing.T) {
		d := types.ModerationDecision{Status: types.StatusApproved}
		repo.On("Decide", mock.Anything, "rv-3", d).Return(types.ErrInvalidTransition).Once()

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/admin/reviews/rv-3", strings.NewReader(`{"status":"approved"}`)))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	repo.AssertExpectations(t)
}
