// Package metrics defines the Prometheus collectors exposed at /metrics.
// Collectors are registered on a private registry so tests and multiple
// instances never collide on the global default registerer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JaimeStill/annual/pkg/routing"
)

// Unmatched labels navigations that matched no route.
const Unmatched = "unmatched"

// Metrics holds the service collectors.
type Metrics struct {
	Requests              *prometheus.CounterVec
	RequestDuration       *prometheus.HistogramVec
	Navigations           *prometheus.CounterVec
	ComponentLoads        *prometheus.CounterVec
	ComponentLoadDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates and registers the collectors under namespace.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by module, method and status.",
		}, []string{"module", "method", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds by module.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"module"}),

		Navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_navigations_total",
			Help:      "Page navigations by matched route pattern and status.",
		}, []string{"pattern", "status"}),

		ComponentLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "component_loads_total",
			Help:      "Lazy component loads by component and result.",
		}, []string{"component", "result"}),

		ComponentLoadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "component_load_duration_seconds",
			Help:      "Lazy component load duration in seconds.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5},
		}, []string{"component"}),

		registry: reg,
	}
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveLoad records a component load attempt.
func (m *Metrics) ObserveLoad(component string, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ComponentLoads.WithLabelValues(component, result).Inc()
	m.ComponentLoadDuration.WithLabelValues(component).Observe(elapsed.Seconds())
}

// ObserveNavigation records a page navigation. A nil match counts as
// unmatched.
func (m *Metrics) ObserveNavigation(match *routing.Match, status int) {
	pattern := Unmatched
	if match != nil {
		pattern = match.Record.Pattern
	}
	m.Navigations.WithLabelValues(pattern, statusLabel(status)).Inc()
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
