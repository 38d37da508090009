// Package respond writes JSON responses and maps the apperr taxonomy onto
// HTTP status classes. Every rejected write gets an explicit, structured
// denial; nothing fails silently.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bankrec/bankrec/internal/apperr"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorBody struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Error writes a structured error response. Unrecognized errors become an
// opaque 500 so internals never leak to clients.
func Error(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		slog.Error("internal error", "error", err)
		JSON(w, http.StatusInternalServerError, errorBody{Message: "internal error"})

		return
	}

	JSON(w, statusFor(appErr.Kind), errorBody{Message: appErr.Msg, Field: appErr.Field})
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindAuthorization:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
