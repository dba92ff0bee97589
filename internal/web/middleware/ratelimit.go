package middleware

import (
	"net"
	"net/http"

	"github.com/relaykit/quoterelay/internal/observability"
	"github.com/relaykit/quoterelay/internal/ratelimit"
)

// RateLimit rejects requests whose source IP has exhausted the edge token
// bucket. Rejections use the same JSON error envelope as the auth middleware
// and are counted so sustained abuse is visible on /metrics.
func RateLimit(limiter *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				// RemoteAddr carries no port behind some proxies.
				ip = r.RemoteAddr
			}

			if !limiter.Allow(ip) {
				observability.EdgeRateLimited.Inc()
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
