package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/trymedating/trymed/pkg/errors"
	"github.com/trymedating/trymed/pkg/logger"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(err, errors.ErrCodeValidation, "invalid request body")
	}
	return nil
}

// respondError maps application error codes onto HTTP statuses; infra errors
// are logged with detail and surfaced generically.
func respondError(w http.ResponseWriter, err error) {
	code := errors.Code(err)

	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeValidation, errors.ErrCodeValidationFailed:
		status = http.StatusBadRequest
	case errors.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		status = http.StatusForbidden
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeConflict, errors.ErrCodeAlreadyExists:
		status = http.StatusConflict
	case errors.ErrCodeRateLimitExceeded:
		status = http.StatusTooManyRequests
	}

	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
	}

	msg := err.Error()
	if appErr, ok := err.(*errors.AppError); ok {
		msg = appErr.Message
	}
	writeJSON(w, status, map[string]string{"error": msg})
}
