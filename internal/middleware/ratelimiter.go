package middleware

import (
	"net"
	"net/http"

	internal_errors "github.com/itchan-dev/nanabbs/internal/errors"
	"github.com/itchan-dev/nanabbs/internal/middleware/ratelimiter"
)

// RateLimit rejects requests whose identity has run out of tokens with 429.
func RateLimit(rl *ratelimiter.UserRateLimiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := getIdentity(r)
			if err != nil {
				writeError(w, err)
				return
			}
			if !rl.Allow(identity) {
				writeError(w, internal_errors.New(internal_errors.RateLimited, "posting too fast, try again later"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetIP extracts the client IP from RemoteAddr.
// X-Real-IP and X-Forwarded-For are not trusted.
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr without a port
		ip = r.RemoteAddr
	}

	if net.ParseIP(ip) == nil {
		return "", internal_errors.New(internal_errors.Validation, "invalid client address %q", ip)
	}
	return ip, nil
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, internal_errors.PublicMessage(err), internal_errors.StatusCode(err))
}
