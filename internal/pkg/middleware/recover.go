package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/MartinEBravo/duech-go/internal/pkg/httpx"
	"github.com/MartinEBravo/duech-go/internal/pkg/router"
	"github.com/MartinEBravo/duech-go/internal/pkg/serr"
)

func Recover() router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					slog.Error("internal server error",
						"error", err,
						"method", r.Method,
						"url", r.URL.String(),
						"remote_addr", r.RemoteAddr,
						"stack_trace", string(debug.Stack()),
					)

					httpx.WriteError(w, http.StatusInternalServerError, serr.CodeInternal, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
