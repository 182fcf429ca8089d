package commons

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"snackapp/internal/dto"
	apperrors "snackapp/internal/errors"
)

// StatusFor maps an application error to its HTTP status and error code.
func StatusFor(err error) (int, string) {
	if _, ok := apperrors.IsNotFoundError(err); ok {
		return http.StatusNotFound, "NOT_FOUND"
	}
	if _, ok := apperrors.IsValidationError(err); ok {
		return http.StatusBadRequest, "VALIDATION_ERROR"
	}
	if _, ok := apperrors.IsInvalidArgumentError(err); ok {
		return http.StatusBadRequest, "INVALID_ARGUMENT"
	}
	if _, ok := apperrors.IsPreconditionFailedError(err); ok {
		return http.StatusConflict, "PRECONDITION_FAILED"
	}
	if _, ok := apperrors.IsInvalidTransitionError(err); ok {
		return http.StatusConflict, "INVALID_TRANSITION"
	}
	if _, ok := apperrors.IsConflictError(err); ok {
		return http.StatusConflict, "CONFLICT"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

// WriteError writes err as an ErrorResponse. Unclassified errors are logged
// and hidden behind a generic message.
func WriteError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	status, code := StatusFor(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("unexpected error", zap.String("traceId", traceID), zap.Error(err))
		message = "an unexpected error occurred"
	}

	resp := dto.ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	if ve, ok := apperrors.IsValidationError(err); ok {
		resp.Details = ve.Details
	}

	WriteJSON(w, status, resp, logger)
}

func WriteValidationError(w http.ResponseWriter, traceID string, message string, details []apperrors.ValidationDetail, logger *zap.Logger) {
	WriteError(w, traceID, apperrors.NewValidationError(message, details...), logger)
}

func WriteJSON(w http.ResponseWriter, status int, data any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// DecodeJSON decodes the request body into dst, reporting a malformed body as
// a validation error.
func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.NewValidationError("invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
	}
	return nil
}

// ParseID parses a positive integer path parameter.
func ParseID(field, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+field, apperrors.ValidationDetail{
			Field:   field,
			Message: field + " must be a positive integer",
		})
	}
	return id, nil
}
