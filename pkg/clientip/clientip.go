package clientip

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type contextKey struct{}

// RealClientIP returns the client IP from the request. chi's RealIP
// middleware runs first, so r.RemoteAddr already reflects trusted proxy headers.
func RealClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return strings.TrimSpace(host)
}

// WithIP stores the client IP in the context for audit records.
func WithIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKey{}, ip)
}

// FromContext returns the client IP stored by WithIP, or "".
func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(contextKey{}).(string)
	return ip
}

// Middleware stores the request's client IP in its context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithIP(r.Context(), RealClientIP(r))))
	})
}
