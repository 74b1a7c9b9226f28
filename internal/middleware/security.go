package middleware

import "net/http"

const (
	headerXContentTypeOptions     = "X-Content-Type-Options"
	headerXFrameOptions           = "X-Frame-Options"
	headerReferrerPolicy          = "Referrer-Policy"
	headerContentSecurityPolicy   = "Content-Security-Policy"
	headerStrictTransportSecurity = "Strict-Transport-Security"
)

// contentSecurityPolicy allows the server rendered pages (inline <style> only)
// and images served by Cloudinary.
const contentSecurityPolicy = "default-src 'self'; " +
	"style-src 'self' 'unsafe-inline'; " +
	"img-src 'self' data: https://res.cloudinary.com; " +
	"form-action 'self'; " +
	"frame-ancestors 'none'"

// SecurityHeaders sets security-related response headers. HSTS is only sent
// when hsts is true, i.e. in production behind TLS.
func SecurityHeaders(hsts bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set(headerXContentTypeOptions, "nosniff")
			h.Set(headerXFrameOptions, "DENY")
			h.Set(headerReferrerPolicy, "strict-origin-when-cross-origin")
			h.Set(headerContentSecurityPolicy, contentSecurityPolicy)
			if hsts {
				h.Set(headerStrictTransportSecurity, "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}
