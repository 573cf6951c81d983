package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/angelmondragon/furiarock-backend/pkg/metrics"
)

// Metrics records request counts and latency labeled by chi route pattern so
// path parameters do not explode cardinality.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m == nil {
				next.ServeHTTP(w, r)
				return
			}
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)
			route := routePattern(r)
			if rec.Status() == http.StatusNotFound && route == r.URL.Path {
				route = "unmatched"
			}
			m.Observe(r.Method, route, strconv.Itoa(rec.Status()), time.Since(start))
		})
	}
}
