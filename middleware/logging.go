package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"salon/logging"
)

// RequestLogger puts a request-scoped logger in the context and logs one
// line per request once it completes.
func RequestLogger(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			entry := logger.WithFields(logrus.Fields{
				"request_id": chimiddleware.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
			})

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(logging.WithContext(r.Context(), entry)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := logrus.Fields{
				"status":      status,
				"bytes":       ww.BytesWritten(),
				"duration":    time.Since(start).String(),
				"remote_addr": r.RemoteAddr,
			}
			switch {
			case status >= 500:
				entry.WithFields(fields).Error("request completed")
			case status >= 400:
				entry.WithFields(fields).Warn("request completed")
			default:
				entry.WithFields(fields).Info("request completed")
			}
		})
	}
}
