package httputil

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/sowlstudios/admin-console/internal/errors"
)

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error string              `json:"error"`
	Code  apperrors.ErrorCode `json:"code"`
}

// WriteError writes an AppError as an HTTP response with appropriate status
// code. Only the user-facing message crosses this boundary, never raw causes.
func WriteError(w http.ResponseWriter, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Internal("An unexpected error occurred")
	}

	WriteJSON(w, statusFromCode(appErr), ErrorResponse{
		Error: apperrors.UserMessage(appErr),
		Code:  appErr.Code,
	})
}

// statusFromCode maps ErrorCode to HTTP status code
func statusFromCode(err *apperrors.AppError) int {
	switch err.Code {
	case apperrors.ErrCodeValidation,
		apperrors.ErrCodeInvalidInput:
		return http.StatusBadRequest

	case apperrors.ErrCodeUnauthorized,
		apperrors.ErrCodeSessionExpired:
		return http.StatusUnauthorized

	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound

	case apperrors.ErrCodeUpstream:
		// Pass the upstream status through when we have it.
		if err.Status >= 400 && err.Status < 600 {
			return err.Status
		}
		return http.StatusBadGateway

	case apperrors.ErrCodeTransport:
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}
