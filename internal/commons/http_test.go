package commons

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"snackapp/internal/dto"
	apperrors "snackapp/internal/errors"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", apperrors.NewNotFoundError("order", 1), http.StatusNotFound, "NOT_FOUND"},
		{"validation", apperrors.NewValidationError("bad"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"invalid argument", apperrors.NewInvalidArgumentError("bad cpf"), http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"precondition", apperrors.NewPreconditionFailedError("no items"), http.StatusConflict, "PRECONDITION_FAILED"},
		{"transition", apperrors.NewInvalidTransitionError("INICIADO", "CONCLUIDO"), http.StatusConflict, "INVALID_TRANSITION"},
		{"conflict", apperrors.NewConflictError("busy"), http.StatusConflict, "CONFLICT"},
		{"other", errors.New("db down"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := StatusFor(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestWriteError_HidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, "trace-1", errors.New("connection refused"), zap.NewNop())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "trace-1", resp.TraceID)
	assert.Equal(t, "an unexpected error occurred", resp.Message)
}

func TestWriteError_KeepsValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteValidationError(rec, "trace-2", "validation failed", []apperrors.ValidationDetail{
		{Field: "cpf", Message: "cpf is required"},
	}, zap.NewNop())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "cpf", resp.Details[0].Field)
}

func TestDecodeJSON_Malformed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))

	var dst map[string]any
	err := DecodeJSON(req, &dst)

	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestParseID(t *testing.T) {
	id, err := ParseID("orderId", "42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "abc", "0", "-3"} {
		_, err := ParseID("orderId", raw)
		assert.Error(t, err, raw)
	}
}
