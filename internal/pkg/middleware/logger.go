package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/MartinEBravo/duech-go/internal/pkg/router"
	"github.com/google/uuid"
)

type httpStatusWriter struct {
	Status int
	inner  http.ResponseWriter
}

func (sw *httpStatusWriter) Header() http.Header {
	return sw.inner.Header()
}

func (sw *httpStatusWriter) WriteHeader(status int) {
	sw.Status = status
	sw.inner.WriteHeader(status)
}

func (sw *httpStatusWriter) Write(b []byte) (int, error) {
	if sw.Status == 0 {
		sw.Status = http.StatusOK
	}
	return sw.inner.Write(b)
}

func Log() router.Middleware {
	return LogWith(slog.Default())
}

// LogWith tags every request with a generated request ID, echoes it in the
// X-Request-ID response header and logs the outcome after the handler runs.
func LogWith(l *slog.Logger) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", reqID)

			statusWriter := &httpStatusWriter{inner: w}
			t := time.Now()

			ctx := context.WithValue(r.Context(), requestIDKey, reqID)
			next.ServeHTTP(statusWriter, r.WithContext(ctx))

			l.Info("request received",
				"request_id", reqID,
				"duration", time.Since(t),
				"method", r.Method,
				"url", r.URL.String(),
				"ip", r.RemoteAddr,
				"status", statusWriter.Status,
				"agent", r.UserAgent())
		})
	}
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
