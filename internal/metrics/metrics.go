// Package metrics exposes Prometheus instrumentation for the board.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the board's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Ticks                  prometheus.Counter
	TickDuration           prometheus.Histogram
	ScreensaverActivations prometheus.Counter
	SettingsSaveFailures   prometheus.Counter
	StatusKind             *prometheus.GaugeVec
	HTTPRequests           *prometheus.CounterVec
	HTTPDuration           *prometheus.HistogramVec
}

// New creates and registers the board collectors. clients reports the
// number of connected display clients.
func New(clients func() int) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bellboard_ticks_total",
			Help: "Status resolution ticks processed.",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bellboard_tick_duration_seconds",
			Help:    "Time spent resolving and broadcasting one tick.",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
		ScreensaverActivations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bellboard_screensaver_activations_total",
			Help: "Times the screensaver became active.",
		}),
		SettingsSaveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bellboard_settings_save_failures_total",
			Help: "Settings writes that failed to persist.",
		}),
		StatusKind: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bellboard_status",
			Help: "1 for the currently resolved status kind, 0 otherwise.",
		}, []string{"kind"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bellboard_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bellboard_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		m.Ticks, m.TickDuration, m.ScreensaverActivations, m.SettingsSaveFailures,
		m.StatusKind, m.HTTPRequests, m.HTTPDuration,
	)

	if clients != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "bellboard_ws_clients",
			Help: "Connected display clients.",
		}, func() float64 { return float64(clients()) }))
	}

	return m
}

// SetStatus marks kind as the current status.
func (m *Metrics) SetStatus(kind string) {
	m.StatusKind.Reset()
	m.StatusKind.WithLabelValues(kind).Set(1)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// statusRecorder captures the response status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency per route template.
// WebSocket upgrades are passed through untouched.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		if r.Header.Get("Upgrade") == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		m.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
