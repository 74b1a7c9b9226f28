package handlers

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/inkwell-backend/internal/models"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{&models.ValidationError{Field: "username", Message: "too short"}, http.StatusBadRequest},
		{models.ErrInvalidCredentials, http.StatusUnauthorized},
		{fmt.Errorf("create: %w", models.ErrUsernameTaken), http.StatusBadRequest},
		{models.ErrEmailTaken, http.StatusBadRequest},
		{models.ErrInvalidOrExpiredToken, http.StatusBadRequest},
		{models.ErrUnauthenticated, http.StatusUnauthorized},
		{models.ErrForbidden, http.StatusForbidden},
		{models.ErrNotFound, http.StatusNotFound},
		{models.ErrConflict, http.StatusConflict},
		{models.ErrUnavailable, http.StatusServiceUnavailable},
		{errors.New("mongo: connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		status, _ := errorStatus(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
	}
}

func TestErrorStatus_ValidationMessageIsShown(t *testing.T) {
	_, msg := errorStatus(&models.ValidationError{Field: "username", Message: "Username is too short"})
	assert.Equal(t, "Username is too short", msg)
}

func TestWriteServiceError_HidesInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	writeServiceError(w, r, errors.New("dial tcp 10.0.0.5:27017: refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"internal server error"}`, w.Body.String())
}

func TestRequestBaseURL(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/forgot", nil)
	r.Host = "blog.example:8080"
	assert.Equal(t, "https://configured.example", requestBaseURL("https://configured.example", r))
	assert.Equal(t, "http://blog.example:8080", requestBaseURL("", r))

	r.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://blog.example:8080", requestBaseURL("", r))

	r = httptest.NewRequest(http.MethodPost, "/forgot", nil)
	r.TLS = &tls.ConnectionState{}
	assert.Equal(t, "https://example.com", requestBaseURL("", r))
}

func TestDecodeJSON(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		var in models.PostInput
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"t","body":"b"}`))
		require.NoError(t, decodeJSON(httptest.NewRecorder(), r, &in))
		assert.Equal(t, "t", in.Title)
	})

	t.Run("malformed", func(t *testing.T) {
		var in models.PostInput
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":`))
		err := decodeJSON(httptest.NewRecorder(), r, &in)
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("reports json field name", func(t *testing.T) {
		var in models.PostInput
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"t"}`))
		err := decodeJSON(httptest.NewRecorder(), r, &in)
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "body", verr.Field)
		assert.Equal(t, "body is required", verr.Message)
	})

	t.Run("too large", func(t *testing.T) {
		var in models.PostInput
		big := `{"title":"t","body":"` + strings.Repeat("a", maxBodyBytes) + `"}`
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
		err := decodeJSON(httptest.NewRecorder(), r, &in)
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "request body is too large", verr.Message)
	})

	t.Run("max length", func(t *testing.T) {
		var in models.PostInput
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"`+strings.Repeat("x", 201)+`","body":"b"}`))
		err := decodeJSON(httptest.NewRecorder(), r, &in)
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "title must be at most 200 characters", verr.Message)
	})
}
