package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/AnshRaj112/inkwell-backend/internal/models"
)

// SessionCookieName is the cookie holding the signed session token.
const SessionCookieName = "inkwell_session"

type contextKey string

var (
	userContextKey  = contextKey("user")
	tokenContextKey = contextKey("session_token")
)

// SessionResolver looks up the user behind a session token. Implemented by
// services.AuthService.
type SessionResolver interface {
	CurrentUser(ctx context.Context, token string) (*models.User, error)
}

// CookieVerifier checks the signature of a session cookie. Implemented by
// services.SessionManager.
type CookieVerifier interface {
	Unsign(value string) (string, bool)
}

// NewSessionMiddleware loads the signed-in user, if any, into the request
// context. It never rejects a request for lack of a session; RequireUser
// does that.
func NewSessionMiddleware(resolver SessionResolver, verifier CookieVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			value := sessionValue(r)
			if value == "" {
				next.ServeHTTP(w, r)
				return
			}
			token, ok := verifier.Unsign(value)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, err := resolver.CurrentUser(r.Context(), token)
			if errors.Is(err, models.ErrUnauthenticated) {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				slog.ErrorContext(r.Context(), "failed to load session", slog.Any("error", err))
				writeError(w, r, http.StatusInternalServerError, "internal server error")
				return
			}

			setLoggedUser(r.Context(), user.ID.Hex())
			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user, token)))
		})
	}
}

// sessionValue reads the session cookie, falling back to a bearer token
// carrying the same signed value for API clients.
func sessionValue(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// UserFromContext returns the signed-in user, or nil.
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userContextKey).(*models.User)
	return u
}

// SessionTokenFromContext returns the raw session token of the request, or "".
func SessionTokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(tokenContextKey).(string)
	return t
}

// ContextWithUser stores the user and their session token in ctx.
func ContextWithUser(ctx context.Context, user *models.User, token string) context.Context {
	ctx = context.WithValue(ctx, userContextKey, user)
	return context.WithValue(ctx, tokenContextKey, token)
}

// RequireUser rejects anonymous requests: 401 JSON under /api, a redirect to
// /login for pages.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			if isAPI(r) {
				writeError(w, r, http.StatusUnauthorized, models.ErrUnauthenticated.Error())
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAnonymous keeps signed-in users away from the login and register
// forms: pages redirect to /, API calls get 400.
func RequireAnonymous(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) != nil {
			if isAPI(r) {
				writeError(w, r, http.StatusBadRequest, "you are already logged in")
				return
			}
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
