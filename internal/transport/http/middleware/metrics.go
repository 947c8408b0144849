package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"talentops/internal/platform/metrics"
)

// Metrics records every request against its chi route pattern so label
// cardinality stays bounded even with UUID path params.
func Metrics(collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			collector.RecordRequest(route, r.Method, recorder.status, time.Since(start))
		})
	}
}
