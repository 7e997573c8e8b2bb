// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/advisorly/consult-service/internal/domain"
	"github.com/advisorly/consult-service/internal/logging"
)

// errorResponse is the JSON body returned for failed requests.
type errorResponse struct {
	Message string `json:"message"`
}

// statusForError maps a domain error category to an HTTP status code.
func statusForError(err error) int {
	switch domain.GetErrorType(err) {
	case domain.ErrorTypeValidation:
		return http.StatusBadRequest
	case domain.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrorTypeNotFound:
		return http.StatusNotFound
	case domain.ErrorTypeConflict:
		return http.StatusConflict
	case domain.ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes a domain error as a JSON response. Internal errors are
// masked so implementation detail never leaks to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", logging.ErrKey, err)
		message = "internal server error"
	}

	writeJSON(w, status, errorResponse{Message: message})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// decodeJSON decodes a request body into dst, returning a validation error on
// malformed input.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.NewValidationError("invalid JSON body", err)
	}
	return nil
}
