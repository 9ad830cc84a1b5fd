package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dukerupert/shopery/internal/domain"
)

// WithRequestLogger stores a child of baseLogger in the request context,
// tagged with request_id, method, path and, when authenticated, user_id.
// Handlers and services retrieve it with zerolog.Ctx. Place it after
// RequestID and WithUser.
func WithRequestLogger(baseLogger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lc := baseLogger.With().
				Str("method", r.Method).
				Str("path", r.URL.Path)

			if requestID := GetRequestID(r.Context()); requestID != "" {
				lc = lc.Str("request_id", requestID)
			}
			if user := domain.UserFromContext(r.Context()); user != nil {
				lc = lc.Str("user_id", user.PublicID.String())
			}

			logger := lc.Logger()
			next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context())))
		})
	}
}

// AccessLog writes one line per request with status and duration, using the
// request-scoped logger.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := newStatusWriter(w)

		next.ServeHTTP(sw, r)

		logger := zerolog.Ctx(r.Context())
		var event *zerolog.Event
		switch {
		case sw.statusCode >= http.StatusInternalServerError:
			event = logger.Error()
		case sw.statusCode >= http.StatusBadRequest:
			event = logger.Warn()
		default:
			event = logger.Info()
		}
		event.
			Int("status", sw.statusCode).
			Int("bytes", sw.bytesWritten).
			Dur("duration", time.Since(start)).
			Str("client_ip", GetClientIPFromContext(r.Context())).
			Msg("request")
	})
}
