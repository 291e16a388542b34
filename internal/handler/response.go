package handler

// Response helpers: every handler funnels its output through writeJSON and
// writeError so the wire shapes stay consistent.
//
// Error shapes:
//   validation / duplicate → 400 {"errors": [{"field": "...", "msg": "..."}]}
//   not found              → 400 {"msg": "..."}
//   upstream (GitHub)      → 404 {"msg": "..."}
//   anything else          → 500 {"msg": "server error"} — internals stay internal.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/devconnect/internal/apperror"
)

// errorList is the multi-error body used for validation and duplicate
// failures.
type errorList struct {
	Errors []apperror.FieldError `json:"errors"`
}

// message is the single-message body used everywhere else.
type message struct {
	Msg string `json:"msg"`
}

// writeJSON sends a JSON response with the given status code. Headers and
// status must go out before the body; once Encode writes, they are sent.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already gone — all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error onto the HTTP surface. The service layer
// deals in apperror sentinels and knows nothing about status codes; this is
// the single place that translation happens.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, apperror.ErrValidation):
			writeJSON(w, http.StatusBadRequest, errorList{Errors: fieldErrors(appErr)})
			return
		case errors.Is(err, apperror.ErrDuplicate):
			writeJSON(w, http.StatusBadRequest, errorList{Errors: fieldErrors(appErr)})
			return
		case errors.Is(err, apperror.ErrNotFound):
			writeJSON(w, http.StatusBadRequest, message{Msg: appErr.Message})
			return
		case errors.Is(err, apperror.ErrUpstream):
			writeJSON(w, http.StatusNotFound, message{Msg: appErr.Message})
			return
		}
	}

	// Unknown error. The raw message might carry SQL or file paths, so the
	// client gets an opaque body and the real cause goes to the log.
	slog.Error("request failed", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, message{Msg: "server error"})
}

// fieldErrors returns the per-field errors, falling back to a single entry
// carrying the overall message when none were attached.
func fieldErrors(appErr *apperror.AppError) []apperror.FieldError {
	if len(appErr.Fields) > 0 {
		return appErr.Fields
	}
	return []apperror.FieldError{{Message: appErr.Message}}
}

// decodeJSON decodes a request body into dst, rejecting bodies that are not
// valid JSON with a field-level validation error.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.ValidationFailed("body", "invalid JSON body")
	}
	return nil
}
