package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"qaboard/internal/metrics"
)

// Metrics records request count and latency labelled by chi route
// pattern, so /api/questions/{id} is one series rather than one per id.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(wrapped, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		metrics.RecordHTTPRequest(r.Method, route, wrapped.statusOf(), time.Since(start))
	})
}
