package middleware

import (
	"net/http"
)

// DefaultCSP allows only same-origin resources. Pages carry no inline script.
const DefaultCSP = "default-src 'self'; img-src 'self' data:; style-src 'self' 'unsafe-inline'; frame-ancestors 'none'; form-action 'self'"

const hsts = "max-age=31536000; includeSubDomains"

// board pages never need to be framed or to reach devices
var staticHeaders = [][2]string{
	{"X-Frame-Options", "DENY"},
	{"X-Content-Type-Options", "nosniff"},
	{"Referrer-Policy", "same-origin"},
	{"Permissions-Policy", "camera=(), microphone=(), geolocation=()"},
}

// SecurityHeadersWithCSP sets the static headers, csp when not empty, and HSTS
// when the board is served over https.
func SecurityHeadersWithCSP(isHTTPS bool, csp string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for _, kv := range staticHeaders {
				h.Set(kv[0], kv[1])
			}
			if csp != "" {
				h.Set("Content-Security-Policy", csp)
			}
			if isHTTPS {
				h.Set("Strict-Transport-Security", hsts)
			}
			next.ServeHTTP(w, r)
		})
	}
}
