// internal/middleware/security.go
//
// Security-header middleware.
//
// Injects standard headers on every response:
//
//   • Strict-Transport-Security  –  forces HTTPS (2 years)
//   • Content-Security-Policy    –  self-only scripts, Office frame ancestors
//   • X-Content-Type-Options     –  MIME-sniffing defence
//   • Referrer-Policy            –  drops path/query from Referer
//   • Permissions-Policy         –  disables powerful features by default
//
// Notes
// -----
// • Add-in task panes run inside Office iframes, so X-Frame-Options is not
//   sent; `frame-ancestors` in the CSP lists the Office hosts instead.
// • The standard Alpine.js build evaluates expressions with `new Function`,
//   which needs 'unsafe-eval'.  The CSP build does not.
// • Headers are set before next runs and never overwrite a handler's value.
// • Mounted only when add_security_headers is true.

package middleware

import (
	"net/http"
	"strings"
)

// Security returns a middleware that sets security headers.  alpineCSP
// reports whether the CSP-compatible Alpine.js build is in use.
func Security(alpineCSP bool) func(http.Handler) http.Handler {
	script := "script-src 'self'"
	if !alpineCSP {
		script += " 'unsafe-eval'"
	}
	csp := strings.Join([]string{
		"default-src 'self'",
		script,
		"style-src 'self' 'unsafe-inline'",
		"img-src 'self' data:",
		"object-src 'none'",
		"base-uri 'self'",
		"frame-ancestors 'self' https://*.office.com https://*.officeapps.live.com " +
			"https://*.sharepoint.com",
	}, "; ")

	headers := [][2]string{
		{"Strict-Transport-Security", "max-age=63072000; includeSubDomains"},
		{"Content-Security-Policy", csp},
		{"X-Content-Type-Options", "nosniff"},
		{"Referrer-Policy", "strict-origin-when-cross-origin"},
		{"Permissions-Policy", "geolocation=(), microphone=(), camera=()"},
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for _, kv := range headers {
				if h.Get(kv[0]) == "" {
					h.Set(kv[0], kv[1])
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
