package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/AnshRaj112/inkwell-backend/internal/models"
)

// AuthResponse is returned by every auth endpoint.
type AuthResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	User    *models.PublicUser `json:"user,omitempty"`
}

// DataResponse wraps the payload of the content endpoints.
type DataResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.Any("error", err))
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, AuthResponse{Success: status < 400, Message: message})
}

func writeUser(w http.ResponseWriter, status int, message string, user *models.User) {
	pub := user.Public()
	writeJSON(w, status, AuthResponse{Success: true, Message: message, User: &pub})
}

// errorStatus maps a service error to a status code and a message that is
// safe to show. Unknown errors become a generic 500.
func errorStatus(err error) (int, string) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Message
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized, models.ErrInvalidCredentials.Error()
	case errors.Is(err, models.ErrUsernameTaken):
		return http.StatusBadRequest, models.ErrUsernameTaken.Error()
	case errors.Is(err, models.ErrEmailTaken):
		return http.StatusBadRequest, models.ErrEmailTaken.Error()
	case errors.Is(err, models.ErrInvalidOrExpiredToken):
		return http.StatusBadRequest, models.ErrInvalidOrExpiredToken.Error()
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest, models.ErrInvalidInput.Error()
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized, models.ErrUnauthenticated.Error()
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, models.ErrForbidden.Error()
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, models.ErrNotFound.Error()
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict, models.ErrConflict.Error()
	case errors.Is(err, models.ErrUnavailable):
		return http.StatusServiceUnavailable, models.ErrUnavailable.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// writeServiceError is the single place where service errors become HTTP
// responses. Server errors are logged in full and answered generically.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := errorStatus(err)
	if status >= 500 {
		slog.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}
	writeJSON(w, status, AuthResponse{Success: false, Message: message})
}
