package handlers

import (
	"errors"
	"net/http"

	"github.com/AnshRaj112/inkwell-backend/internal/middleware"
	"github.com/AnshRaj112/inkwell-backend/internal/models"
	"github.com/AnshRaj112/inkwell-backend/internal/services"
)

type UpdateProfileRequest struct {
	Username string          `json:"username,omitempty"`
	Profile  *models.Profile `json:"profile,omitempty"`
	Password string          `json:"password,omitempty"`
	Confirm  string          `json:"confirm,omitempty" validate:"omitempty,eqfield=Password"`
}

type ProfileHandler struct {
	profiles *services.ProfileService
}

func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get handles GET /api/profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.profiles.Get(r.Context(), middleware.UserFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DataResponse{Success: true, Data: view})
}

// Update handles PUT /api/profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	user, err := h.profiles.Update(r.Context(), middleware.UserFromContext(r.Context()), services.ProfileUpdate{
		Username: req.Username,
		Profile:  req.Profile,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeUser(w, http.StatusOK, "Profile updated", user)
}

// Activity handles GET /api/profile/activity. Without an audit database the
// list is simply empty.
func (h *ProfileHandler) Activity(w http.ResponseWriter, r *http.Request) {
	events, err := h.profiles.Activity(r.Context(), middleware.UserFromContext(r.Context()))
	if errors.Is(err, models.ErrUnavailable) {
		events, err = []models.AuthEvent{}, nil
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DataResponse{Success: true, Data: events})
}
