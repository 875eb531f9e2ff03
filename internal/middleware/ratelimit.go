// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"qaboard/internal/metrics"
)

// RateLimit allows limit requests per window for each client IP, honoring
// X-Forwarded-For and X-Real-IP. name labels rejections in metrics.
func RateLimit(name string, limit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(limit, window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.RateLimitHits.WithLabelValues(name).Inc()
			writeJSONError(w, http.StatusTooManyRequests, "Too Many Requests")
		}),
	)
}
