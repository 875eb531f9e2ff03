// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"qaboard/internal/metrics"
)

// Recoverer turns a handler panic into a JSON 500 and an ERROR log with the
// stack. If the handler already started its response, the status is left
// alone and only the log is written. http.ErrAbortHandler is re-raised.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w}
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			metrics.HandlerPanics.Inc()
			slog.ErrorContext(r.Context(), "panic recovered",
				"error", v,
				"request_id", RequestIDFromCtx(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status_sent", rec.status,
				"stack", string(debug.Stack()),
			)
			if rec.status == 0 {
				writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
			}
		}()

		next.ServeHTTP(rec, r)
	})
}
