package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/AnshRaj112/inkwell-backend/internal/config"
	"github.com/AnshRaj112/inkwell-backend/internal/middleware"
)

// CookieSigner turns a session token into a cookie value. Implemented by
// services.SessionManager.
type CookieSigner interface {
	Sign(token string) string
}

// CookieConfig controls the session cookie attributes.
type CookieConfig struct {
	Domain string
	Secure bool
	TTL    time.Duration
}

func CookieConfigFrom(cfg *config.Config) CookieConfig {
	return CookieConfig{Domain: cfg.CookieDomain, Secure: cfg.CookieSecure, TTL: cfg.SessionTTL}
}

func (c CookieConfig) set(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		Domain:   c.Domain,
		MaxAge:   int(c.TTL / time.Second),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c CookieConfig) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   c.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// requestBaseURL builds the public URL used in mail links. The configured
// BASE_URL wins; the request host is only used when none is set.
func requestBaseURL(configured string, r *http.Request) string {
	if configured != "" {
		return configured
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" || proto == "http" {
		scheme = proto
	}
	return scheme + "://" + strings.TrimSpace(r.Host)
}
