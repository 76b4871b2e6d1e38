package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/JaimeStill/annual/pkg/metrics"
)

// Metrics returns middleware recording request counts and durations for the
// named module.
func Metrics(m *metrics.Metrics, module string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			m.Requests.WithLabelValues(module, methodLabel(r.Method), strconv.Itoa(rec.status)).Inc()
			m.RequestDuration.WithLabelValues(module).Observe(time.Since(start).Seconds())
		})
	}
}

// methodLabel folds non-standard methods into "other" to bound label
// cardinality.
func methodLabel(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodConnect,
		http.MethodOptions, http.MethodTrace:
		return method
	default:
		return "other"
	}
}
