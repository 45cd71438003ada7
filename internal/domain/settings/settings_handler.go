package settings

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"

	"github.com/FACorreiaa/farmstay-api/pkg/api"
)

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{service: service, logger: logger}
}

// SetSettingRequest carries the new value for the key in the path.
type SetSettingRequest struct {
	Value string `json:"setting_value"`
}

func (h *HandlerImpl) ListSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SettingsHandler").Start(r.Context(), "ListSettings")
	defer span.End()

	out, err := h.service.List(ctx)
	if err != nil {
		api.DomainError(w, r, err, "Failed to list settings")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, out)
}

// SetSetting godoc
// @Summary      Create or update a global setting
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        key path string true "Setting key"
// @Param        body body SetSettingRequest true "Value"
// @Success      200 {object} types.GlobalSetting
// @Router       /api/admin/settings/{key} [put]
func (h *HandlerImpl) SetSetting(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SettingsHandler").Start(r.Context(), "SetSetting")
	defer span.End()

	var req SetSettingRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.DomainError(w, r, err, "Invalid request body")
		return
	}
	out, err := h.service.Set(ctx, chi.URLParam(r, "key"), req.Value)
	if err != nil {
		api.DomainError(w, r, err, "Failed to save setting")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, out)
}
