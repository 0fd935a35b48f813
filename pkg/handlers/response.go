// Package handlers contains the HTTP handlers for hackcentral-engine.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/hackcentral/engine/pkg/apperrors"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// WriteServiceError maps service-layer errors onto HTTP statuses and writes
// the response. Unknown errors log at ERROR and become a generic 500 so
// internals never leak to the client.
func WriteServiceError(logger *zap.Logger, w http.ResponseWriter, err error) {
	var writeErr error
	var validation *apperrors.ValidationError

	switch {
	case errors.As(err, &validation):
		writeErr = ErrorResponse(w, http.StatusBadRequest, "validation_failed", validation.Message)
	case errors.Is(err, apperrors.ErrNotAuthenticated):
		writeErr = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
	case errors.Is(err, apperrors.ErrNotAuthorized):
		writeErr = ErrorResponse(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		writeErr = ErrorResponse(w, http.StatusNotFound, "not_found", "Resource not found")
	case errors.Is(err, apperrors.ErrInvalidState):
		writeErr = ErrorResponse(w, http.StatusConflict, "invalid_state", err.Error())
	default:
		logger.Error("Unhandled service error", zap.Error(err))
		writeErr = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}

	if writeErr != nil {
		logger.Error("Failed to write error response", zap.Error(writeErr))
	}
}

// DecodeJSON decodes the request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return apperrors.Validationf("invalid request body: %v", err)
	}
	return nil
}
