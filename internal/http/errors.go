package api

import (
	"errors"
	"net/http"

	"polling-backend/internal/domain/auth"
	"polling-backend/internal/domain/question"
	"polling-backend/internal/domain/schema"
	"polling-backend/internal/platform/apperr"
)

func errorResponse(w http.ResponseWriter, err error) {
	appErr := mapError(err)
	if appErr.StatusCode() >= http.StatusInternalServerError {
		slogLogger.Error("request failed", "code", appErr.Code, "error", appErr.Err)
	}
	writeJSON(w, appErr.StatusCode(), map[string]string{
		"error":   appErr.Code,
		"message": appErr.Message,
	})
}

func mapError(err error) *apperr.AppError {
	if err == nil {
		return apperr.Internal("internal_error", "internal server error", nil)
	}

	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case schema.IsValidation(err):
		return apperr.BadRequest("validation_error", err.Error(), err)
	case errors.Is(err, question.ErrNotFound):
		return apperr.NotFound("not_found", "question not found", err)
	case errors.Is(err, auth.ErrNotConfigured):
		return apperr.Internal("auth_unconfigured", "shared password is not configured", err)
	default:
		return apperr.Internal("internal_error", http.StatusText(http.StatusInternalServerError), err)
	}
}
