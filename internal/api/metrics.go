package api

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	lookups  *prometheus.CounterVec
}

// newMetrics uses a private registry so several servers can coexist in
// one process.
func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abi_registry_http_requests_total",
				Help: "HTTP requests by method and status code.",
			},
			[]string{"method", "code"},
		),
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abi_registry_lookups_total",
				Help: "ABI lookups by name and result.",
			},
			[]string{"name", "result"},
		),
	}
	m.registry.MustRegister(m.requests, m.lookups)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metrics) lookup(name, result string) {
	if result != "ok" {
		// unbounded user input must not become a label value
		name = "unknown"
	}
	m.lookups.WithLabelValues(name, result).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (m *metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.requests.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
	})
}
