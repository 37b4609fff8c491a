package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/MartinEBravo/duech-go/internal/pkg/httpx"
	"github.com/MartinEBravo/duech-go/internal/pkg/router"
	"github.com/MartinEBravo/duech-go/internal/pkg/serr"
)

type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit rejects over-limit clients before any parsing or store access
// happens. The limiter key is the client IP. Limiter failures fail open: a
// broken redis must not take the read path down with it.
func RateLimit(l Limiter) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := l.Allow(r.Context(), clientIP(r))
			if err != nil {
				slog.Error("rate limiter check failed",
					"error", err,
					"method", r.Method,
					"url", r.URL.String(),
					"remote_addr", r.RemoteAddr,
				)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				httpx.WriteError(w, http.StatusTooManyRequests, serr.CodeRateLimited, "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
