package server

import (
	"net/http"
	"time"

	"github.com/georgemunganga/marketplace-backend/internal/logging"
	"github.com/go-chi/chi/v5/middleware"
)

// accessLog logs one line per request through log. It must run after
// middleware.RequestID so the id ends up on the entry.
func accessLog(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				args := []any{
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"remote", r.RemoteAddr,
				}
				if status >= http.StatusInternalServerError {
					log.Warn(r.Context(), "http request", args...)
					return
				}
				log.Info(r.Context(), "http request", args...)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
