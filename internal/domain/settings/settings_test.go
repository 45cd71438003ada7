package settings

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/farmstay-api/internal/types"
)

func setupSettingsTest(t *testing.T) (*ServiceImpl, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(NewRepositoryImpl(mock, logger), logger), mock
}

func TestSettings_SetUpserts(t *testing.T) {
	service, mock := setupSettingsTest(t)
	at := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (setting_key) DO UPDATE")).
		WithArgs("tag_price_featured", "499").
		WillReturnRows(mock.NewRows([]string{"updated_at"}).AddRow(at))

	s, err := service.Set(context.Background(), "  tag_price_featured ", "499")
	require.NoError(t, err)
	assert.Equal(t, types.GlobalSetting{Key: "tag_price_featured", Value: "499", UpdatedAt: at}, *s)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettings_SetRequiresKey(t *testing.T) {
	service, mock := setupSettingsTest(t)

	_, err := service.Set(context.Background(), " ", "x")
	assert.ErrorIs(t, err, types.ErrBadRequest)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettings_ListAndHandler(t *testing.T) {
	service, mock := setupSettingsTest(t)
	h := NewHandlerImpl(service, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Get("/api/admin/settings", h.ListSettings)
	r.Put("/api/admin/settings/{key}", h.SetSetting)
	at := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM global_settings ORDER BY setting_key")).
		WillReturnRows(mock.NewRows([]string{"setting_key", "setting_value", "updated_at"}).
			AddRow("support_phone", "+91 1", at))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/settings", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"setting_key":"support_phone"`)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO global_settings")).
		WithArgs("support_phone", "+91 2").
		WillReturnRows(mock.NewRows([]string{"updated_at"}).AddRow(at))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/admin/settings/support_phone", strings.NewReader(`{"setting_value":"+91 2"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"setting_value":"+91 2"`)

	assert.NoError(t, mock.ExpectationsWereMet())
}
