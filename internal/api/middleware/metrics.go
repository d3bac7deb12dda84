package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/skillproof/server/internal/observability/metrics"
)

// Metrics records request counts and latencies. The route pattern is used
// as the path label once the mux has matched, so ids don't blow up
// cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &statusRecorder{
			ResponseWriter: w,
			status:         http.StatusOK,
		}

		next.ServeHTTP(rec, r)

		path := r.Pattern
		if path == "" {
			path = r.URL.Path
		}
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPRequestDurationSeconds.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
