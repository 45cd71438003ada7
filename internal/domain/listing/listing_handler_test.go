package listing

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/farmstay-api/internal/domain/catalog"
	"github.com/FACorreiaa/farmstay-api/internal/types"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewService(catalog.StaticSource{}, time.Minute, logger)
	h := NewHandlerImpl(service, NewSessionStore([]byte("0123456789abcdef0123456789abcdef"), false), logger)

	r := chi.NewRouter()
	r.Get("/api/properties", h.ListProperties)
	r.Get("/api/properties/{id}", h.GetProperty)
	r.Get("/api/amenities", h.ListAmenities)
	r.Get("/api/filter-options", h.ListFilterOptions)
	r.Get("/api/search", h.GetSearchSession)
	r.Patch("/api/search", h.UpdateSearchSession)
	r.Delete("/api/search", h.ResetSearchSession)
	return r
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) SearchResult {
	t.Helper()
	var res SearchResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	return res
}

func TestHandler_ListProperties(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/properties?amenities=pool,gym&guests=abc", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	res := decodeResult(t, rec)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, "farm-oxygen", res.Properties[0].ID)
	assert.Nil(t, res.Criteria.MinGuests)
	assert.Equal(t, 1, res.ActiveFilters)
}

func TestHandler_GetProperty(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/properties/farm-feast", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"max_guests":12`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/properties/farm-none", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_ListFilterOptions(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/filter-options", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var opts FilterOptions
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&opts))
	assert.Len(t, opts.PriceRanges, 4)
	assert.Equal(t, []RatingThreshold{4.5, 4.0, 3.5}, opts.Ratings)
	assert.NotEmpty(t, opts.Amenities)
}

func TestHandler_ListAmenitiesIsVocabularyOnly(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/amenities", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var vocab []types.AmenityDescriptor
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&vocab))
	assert.Equal(t, types.Amenities(), vocab)
}

func TestHandler_SearchSessionLifecycle(t *testing.T) {
	router := newTestRouter(t)

	do := func(method, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
		var req *http.Request
		if body != "" {
			req = httptest.NewRequest(method, "/api/search", strings.NewReader(body))
		} else {
			req = httptest.NewRequest(method, "/api/search", nil)
		}
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodGet, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, decodeResult(t, rec).Count)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	rec = do(http.MethodPatch, `{"field":"rating","value":"4.5"}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies = rec.Result().Cookies()

	rec = do(http.MethodPatch, `{"field":"price_range","value":"luxury"}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeResult(t, rec)
	assert.Equal(t, 2, res.ActiveFilters, "earlier fields survive a single-field update")
	assert.Equal(t, 1, res.Count)
	cookies = rec.Result().Cookies()

	rec = do(http.MethodGet, "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decodeResult(t, rec).ActiveFilters)

	rec = do(http.MethodPatch, `{"field":"location","value":"x"}`, cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(http.MethodDelete, "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	res = decodeResult(t, rec)
	assert.Equal(t, 0, res.ActiveFilters)
	assert.Equal(t, 3, res.Count)
}

func TestHandler_TamperedSessionStartsOver(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	req.AddCookie(&http.Cookie{Name: sessionName, Value: "garbage"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, decodeResult(t, rec).Count)
}
