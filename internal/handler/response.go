package handler

// RESPONSE HELPERS:
// writeJSON and writeError standardise how every endpoint answers, so the
// frontend can always rely on the same shapes:
//
//	success: whatever the handler passes, encoded as JSON
//	failure: {"error": "conflict", "message": "email already registered"}
//
// writeError is the single place where domain errors become HTTP statuses.
// The service layer returns apperror sentinels; nothing below this file
// knows that a conflict is a 400.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mahir/surveyd/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable type, e.g. "not_found"
	Message string `json:"message"` // human-readable description
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must be set before the body: once Encode writes, the
// headers are on the wire and any later change is silently ignored.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers already sent; all we can do is log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status and sends it.
//
// STATUS MAPPING:
//   - validation failure          → 400 (bad input)
//   - conflict (email taken)      → 400, not 409: the client's fix is to
//     change the input and resend, same as any validation failure
//   - unauthorized (bad creds,
//     missing token)              → 401
//   - forbidden (rejected token)  → 403
//   - not found                   → 404
//   - anything else               → 500 with a generic message; the real
//     error is logged, never sent — it may contain SQL or file paths.
//
// errors.Is walks the whole wrap chain, so services are free to annotate
// with fmt.Errorf("%w") as many times as they like.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusBadRequest
			errorType = "conflict"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "authentication_required"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	slog.Error("unhandled internal error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
