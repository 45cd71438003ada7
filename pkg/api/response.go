// Package api holds the JSON response helpers shared by every HTTP handler.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/farmstay-api/internal/types"
)

// Response is the error envelope written by ErrorResponse.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Status  int    `json:"status"`
}

// WriteJSONResponse writes data as JSON with the given status.
// A nil payload or 204 writes headers only.
func WriteJSONResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	if data == nil || status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode response", slog.Any("error", err))
	}
}

// ErrorResponse writes the error envelope.
func ErrorResponse(w http.ResponseWriter, r *http.Request, status int, msg string) {
	WriteJSONResponse(w, r, status, Response{Success: false, Error: msg, Status: status})
}

// StatusFromError maps domain sentinels to HTTP status codes.
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrConflict), errors.Is(err, types.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, types.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, types.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// DomainError writes err with the status StatusFromError picks. Internal
// failures get a generic message so driver errors never reach the client.
func DomainError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := StatusFromError(err)
	msg := fallback
	if status != http.StatusInternalServerError {
		msg = err.Error()
	}
	ErrorResponse(w, r, status, msg)
}

// DecodeJSON decodes the request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", types.ErrBadRequest, err)
	}
	return nil
}
