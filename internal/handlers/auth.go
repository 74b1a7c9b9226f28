package handlers

import (
	"net/http"

	"github.com/AnshRaj112/inkwell-backend/internal/middleware"
	"github.com/AnshRaj112/inkwell-backend/internal/models"
	"github.com/AnshRaj112/inkwell-backend/internal/services"
)

// forgotPasswordMessage is shown whether or not the address has an account.
const forgotPasswordMessage = "If an account with that email exists, a password reset link has been sent."

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username string          `json:"username" validate:"required"`
	Email    string          `json:"email" validate:"required"`
	Password string          `json:"password" validate:"required"`
	Profile  *models.Profile `json:"profile,omitempty"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
	Confirm  string `json:"confirm,omitempty" validate:"omitempty,eqfield=Password"`
}

// AuthHandler serves the JSON auth API under /api/auth.
type AuthHandler struct {
	auth    *services.AuthService
	signer  CookieSigner
	cookies CookieConfig
	baseURL string
}

func NewAuthHandler(auth *services.AuthService, signer CookieSigner, cookies CookieConfig, baseURL string) *AuthHandler {
	return &AuthHandler{auth: auth, signer: signer, cookies: cookies, baseURL: baseURL}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	res, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.cookies.set(w, h.signer.Sign(res.SessionToken))
	writeUser(w, http.StatusOK, "Login successful", res.User)
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	res, err := h.auth.Register(r.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Profile:  req.Profile,
	}, requestBaseURL(h.baseURL, r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.cookies.set(w, h.signer.Sign(res.SessionToken))
	writeUser(w, http.StatusCreated, "Registration successful", res.User)
}

// Logout handles POST /api/auth/logout. It always succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(r.Context(), middleware.SessionTokenFromContext(r.Context()))
	h.cookies.clear(w)
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeServiceError(w, r, models.ErrUnauthenticated)
		return
	}
	writeUser(w, http.StatusOK, "", user)
}

// ForgotPassword handles POST /api/auth/forgot.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.auth.ForgotPassword(r.Context(), req.Email, requestBaseURL(h.baseURL, r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, forgotPasswordMessage)
}

// ResetPassword handles POST /api/auth/reset. No session is started.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.auth.ResetPassword(r.Context(), req.Token, req.Password, requestBaseURL(h.baseURL, r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Success! Your password has been changed. Please log in.")
}
