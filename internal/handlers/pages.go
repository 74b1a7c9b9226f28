package handlers

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/inkwell-backend/internal/middleware"
	"github.com/AnshRaj112/inkwell-backend/internal/models"
	"github.com/AnshRaj112/inkwell-backend/internal/services"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageHome     = "home"
	pageLogin    = "login"
	pageRegister = "register"
	pageForgot   = "forgot"
	pageReset    = "reset"
)

// Query values used to carry an outcome across a redirect.
const (
	noticeRegistered = "registered"
	noticeReset      = "reset"
	noticeExpired    = "expired"
)

var pageNotices = map[string]string{
	noticeRegistered: "Congrats! Your registration has been successful.",
	noticeReset:      "Success! Your password has been changed. Please log in.",
}

// PageForm echoes submitted values back into a form. Passwords are never
// echoed.
type PageForm struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}

// PageData is everything a page template can show. Each handler builds it
// explicitly from the outcome of the request.
type PageData struct {
	Title   string
	User    *models.User
	Error   string
	Success string
	Token   string
	Form    PageForm
	Posts   []*models.Post
}

// PageHandler serves the server rendered auth pages.
type PageHandler struct {
	auth      *services.AuthService
	posts     *services.PostService
	signer    CookieSigner
	cookies   CookieConfig
	baseURL   string
	templates map[string]*template.Template
}

func NewPageHandler(auth *services.AuthService, posts *services.PostService, signer CookieSigner, cookies CookieConfig, baseURL string) (*PageHandler, error) {
	tmpls, err := parsePageTemplates()
	if err != nil {
		return nil, err
	}
	return &PageHandler{
		auth:      auth,
		posts:     posts,
		signer:    signer,
		cookies:   cookies,
		baseURL:   baseURL,
		templates: tmpls,
	}, nil
}

func parsePageTemplates() (map[string]*template.Template, error) {
	tmpls := make(map[string]*template.Template)
	for _, name := range []string{pageHome, pageLogin, pageRegister, pageForgot, pageReset} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		tmpls[name] = t
	}
	return tmpls, nil
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data PageData) {
	if data.User == nil {
		data.User = middleware.UserFromContext(r.Context())
	}

	var buf bytes.Buffer
	if err := h.templates[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.ErrorContext(r.Context(), "failed to render page", slog.String("page", name), slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderError shows err on the given page. Server errors are logged and
// shown generically.
func (h *PageHandler) renderError(w http.ResponseWriter, r *http.Request, name string, data PageData, err error) {
	status, message := errorStatus(err)
	if status >= 500 {
		slog.ErrorContext(r.Context(), "page request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		message = "Something went wrong. Please try again."
	}
	data.Error = message
	h.render(w, r, status, name, data)
}

func redirect(w http.ResponseWriter, r *http.Request, path, notice string) {
	if notice != "" {
		path += "?notice=" + url.QueryEscape(notice)
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func noticeFrom(r *http.Request) string {
	return pageNotices[r.URL.Query().Get("notice")]
}

// Home handles GET /.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		h.renderError(w, r, pageHome, PageData{Title: "Home"}, err)
		return
	}
	h.render(w, r, http.StatusOK, pageHome, PageData{Title: "Home", Posts: posts, Success: noticeFrom(r)})
}

func (h *PageHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pageLogin, PageData{Title: "Log in", Success: noticeFrom(r)})
}

// Login handles POST /login.
func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, pageLogin, PageData{Title: "Log in"}, &models.ValidationError{Field: "body", Message: "invalid form"})
		return
	}
	data := PageData{Title: "Log in", Form: PageForm{Username: r.PostFormValue("username")}}

	res, err := h.auth.Login(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		h.renderError(w, r, pageLogin, data, err)
		return
	}

	h.cookies.set(w, h.signer.Sign(res.SessionToken))
	redirect(w, r, "/", "")
}

func (h *PageHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pageRegister, PageData{Title: "Register"})
}

// Register handles POST /register and signs the new user in.
func (h *PageHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, pageRegister, PageData{Title: "Register"}, &models.ValidationError{Field: "body", Message: "invalid form"})
		return
	}
	form := PageForm{
		Username:  r.PostFormValue("username"),
		Email:     r.PostFormValue("email"),
		FirstName: strings.TrimSpace(r.PostFormValue("firstname")),
		LastName:  strings.TrimSpace(r.PostFormValue("lastname")),
	}
	data := PageData{Title: "Register", Form: form}

	password := r.PostFormValue("password")
	if password != r.PostFormValue("confirm") {
		h.renderError(w, r, pageRegister, data, &models.ValidationError{Field: "confirm", Message: "The password and its confirm are not the same"})
		return
	}

	in := services.RegisterInput{Username: form.Username, Email: form.Email, Password: password}
	if form.FirstName != "" || form.LastName != "" {
		in.Profile = &models.Profile{FirstName: form.FirstName, LastName: form.LastName}
	}

	res, err := h.auth.Register(r.Context(), in, requestBaseURL(h.baseURL, r))
	if err != nil {
		h.renderError(w, r, pageRegister, data, err)
		return
	}

	h.cookies.set(w, h.signer.Sign(res.SessionToken))
	redirect(w, r, "/", noticeRegistered)
}

// Logout handles GET and POST /logout.
func (h *PageHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(r.Context(), middleware.SessionTokenFromContext(r.Context()))
	h.cookies.clear(w)
	redirect(w, r, "/login", "")
}

func (h *PageHandler) ForgotForm(w http.ResponseWriter, r *http.Request) {
	data := PageData{Title: "Forgot password"}
	if r.URL.Query().Get("notice") == noticeExpired {
		data.Error = models.ErrInvalidOrExpiredToken.Error()
	}
	h.render(w, r, http.StatusOK, pageForgot, data)
}

// Forgot handles POST /forgot. The answer does not reveal whether the
// address belongs to an account.
func (h *PageHandler) Forgot(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, pageForgot, PageData{Title: "Forgot password"}, &models.ValidationError{Field: "body", Message: "invalid form"})
		return
	}
	email := r.PostFormValue("email")
	data := PageData{Title: "Forgot password", Form: PageForm{Email: email}}

	if err := h.auth.ForgotPassword(r.Context(), email, requestBaseURL(h.baseURL, r)); err != nil {
		h.renderError(w, r, pageForgot, data, err)
		return
	}
	h.render(w, r, http.StatusOK, pageForgot, PageData{Title: "Forgot password", Success: forgotPasswordMessage})
}

// ResetForm handles GET /reset/{token}. Invalid or expired tokens go back
// to the forgot form.
func (h *PageHandler) ResetForm(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	err := h.auth.CheckResetToken(r.Context(), token)
	if errors.Is(err, models.ErrInvalidOrExpiredToken) {
		redirect(w, r, "/forgot", noticeExpired)
		return
	}
	if err != nil {
		h.renderError(w, r, pageReset, PageData{Title: "Reset password"}, err)
		return
	}
	h.render(w, r, http.StatusOK, pageReset, PageData{Title: "Reset password", Token: token})
}

// Reset handles POST /reset. On success the user has to log in again.
func (h *PageHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, pageReset, PageData{Title: "Reset password"}, &models.ValidationError{Field: "body", Message: "invalid form"})
		return
	}
	token := r.PostFormValue("token")
	password := r.PostFormValue("password")
	data := PageData{Title: "Reset password", Token: token}

	if password != r.PostFormValue("confirm") {
		h.renderError(w, r, pageReset, data, &models.ValidationError{Field: "confirm", Message: "The password and its confirm are not the same"})
		return
	}

	err := h.auth.ResetPassword(r.Context(), token, password, requestBaseURL(h.baseURL, r))
	if errors.Is(err, models.ErrInvalidOrExpiredToken) {
		redirect(w, r, "/forgot", noticeExpired)
		return
	}
	if err != nil {
		h.renderError(w, r, pageReset, data, err)
		return
	}

	h.cookies.clear(w)
	redirect(w, r, "/login", noticeReset)
}
