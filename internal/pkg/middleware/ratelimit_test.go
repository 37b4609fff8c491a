package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MartinEBravo/duech-go/internal/pkg/httpx"
	"github.com/MartinEBravo/duech-go/internal/pkg/router"
	"github.com/MartinEBravo/duech-go/internal/pkg/serr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLimiter struct {
	allow bool
	err   error
	keys  []string
}

func (s *stubLimiter) Allow(ctx context.Context, key string) (bool, error) {
	s.keys = append(s.keys, key)
	return s.allow, s.err
}

func limitedRouter(l Limiter) *router.Router {
	r := router.New()
	r.Use(RateLimit(l))
	r.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func TestRateLimit_Allowed(t *testing.T) {
	lim := &stubLimiter{allow: true}
	r := limitedRouter(lim)

	req := httptest.NewRequest("GET", "/search", nil)
	req.RemoteAddr = "10.0.0.1:51234"
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"10.0.0.1"}, lim.keys)
}

func TestRateLimit_Denied(t *testing.T) {
	r := limitedRouter(&stubLimiter{allow: false})

	req := httptest.NewRequest("GET", "/search", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	var env httpx.Envelope
	err := json.Unmarshal(rec.Body.Bytes(), &env)
	require.NoError(t, err)
	assert.False(t, env.Success)
	assert.Equal(t, serr.CodeRateLimited, env.Error.Code)
}

func TestRateLimit_LimiterFailureFailsOpen(t *testing.T) {
	slog.SetDefault(slog.New(slog.DiscardHandler))

	r := limitedRouter(&stubLimiter{err: errors.New("redis down")})

	req := httptest.NewRequest("GET", "/search", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_ForwardedForKey(t *testing.T) {
	lim := &stubLimiter{allow: true}
	r := limitedRouter(lim)

	req := httptest.NewRequest("GET", "/search", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	assert.Equal(t, []string{"203.0.113.9"}, lim.keys)
}
