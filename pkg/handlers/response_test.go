package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hackcentral/engine/pkg/apperrors"
)

func TestWriteServiceErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not authenticated", apperrors.ErrNotAuthenticated, http.StatusUnauthorized, "unauthorized"},
		{"not authorized", fmt.Errorf("%w: owner only", apperrors.ErrNotAuthorized), http.StatusForbidden, "forbidden"},
		{"not found", apperrors.ErrNotFound, http.StatusNotFound, "not_found"},
		{"invalid state", fmt.Errorf("%w: missing timestamp", apperrors.ErrInvalidState), http.StatusConflict, "invalid_state"},
		{"validation", apperrors.Validationf("bad input"), http.StatusBadRequest, "validation_failed"},
		{"unknown", errors.New("pool exhausted"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteServiceError(zap.NewNop(), rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body["error"])
		})
	}
}

func TestWriteServiceErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteServiceError(zap.NewNop(), rec, errors.New("pq: connection refused host=10.0.0.5"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body["message"])
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Body = http.NoBody

	var dst struct {
		Name string `json:"name"`
	}
	err := DecodeJSON(req, &dst)
	assert.True(t, apperrors.IsValidation(err))

	req = httptest.NewRequest(http.MethodPost, "/", jsonBody(t, map[string]string{"name": "x", "extra": "y"}))
	err = DecodeJSON(req, &dst)
	assert.True(t, apperrors.IsValidation(err))
}
