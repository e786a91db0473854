package api

import (
	"net/http"
	"time"

	"servicefinder/internal/metrics"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// routePattern is the matched chi pattern, which keeps metric labels bounded.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}

// accessLog writes one structured line per request and records HTTP metrics.
func accessLog(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			dur := time.Since(start)

			route := routePattern(r)
			metrics.ObserveHTTP(r.Method, route, recorder.status, dur)

			event := logger.Info()
			if recorder.status >= http.StatusInternalServerError {
				event = logger.Error()
			}
			event.
				Str("request_id", chimiddleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", route).
				Str("remote", clientIP(r)).
				Int("status", recorder.status).
				Dur("duration", dur).
				Msg("http request")
		})
	}
}
